// Package catalog holds the static biomaterial and bone-site reference data
// and id-based lookups over it. Entries are load-time constants; the schema
// invariants are checked once by Validate at startup.
package catalog

import (
	"fmt"

	"github.com/biomatch-omni-server/internal/domain"
)

// Catalog provides read-only access to the material and bone-site sets.
type Catalog struct {
	materials   []domain.BiomaterialProfile
	boneSites   []domain.BoneSiteProfile
	materialIdx map[string]int
	boneSiteIdx map[string]int
}

// Default returns the built-in verified catalog.
func Default() *Catalog {
	return New(materials, boneSites)
}

// New builds a catalog over the given entries. Lookup indexes are built
// eagerly; entry order is preserved (ranking tie-break depends on it).
func New(mats []domain.BiomaterialProfile, bones []domain.BoneSiteProfile) *Catalog {
	c := &Catalog{
		materials:   mats,
		boneSites:   bones,
		materialIdx: make(map[string]int, len(mats)),
		boneSiteIdx: make(map[string]int, len(bones)),
	}
	for i, m := range mats {
		c.materialIdx[m.ID] = i
	}
	for i, b := range bones {
		c.boneSiteIdx[b.ID] = i
	}
	return c
}

// Materials returns the material set in catalog order.
func (c *Catalog) Materials() []domain.BiomaterialProfile {
	return c.materials
}

// BoneSites returns the bone-site set in catalog order.
func (c *Catalog) BoneSites() []domain.BoneSiteProfile {
	return c.boneSites
}

// MaterialByID returns the material with the given id.
func (c *Catalog) MaterialByID(id string) (*domain.BiomaterialProfile, error) {
	i, ok := c.materialIdx[id]
	if !ok {
		return nil, domain.NewLookupError("material", id)
	}
	return &c.materials[i], nil
}

// BoneSiteByID returns the bone site with the given id.
func (c *Catalog) BoneSiteByID(id string) (*domain.BoneSiteProfile, error) {
	i, ok := c.boneSiteIdx[id]
	if !ok {
		return nil, domain.NewLookupError("bone_site", id)
	}
	return &c.boneSites[i], nil
}

// Validate checks every entry against the schema invariants: unit ratings
// in [0,1], positive moduli and density, non-negative yield strength,
// unique ids.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.materials))
	for _, m := range c.materials {
		if m.ID == "" {
			return fmt.Errorf("%s: material with empty id", domain.ErrCatalogInvalid)
		}
		if seen[m.ID] {
			return fmt.Errorf("%s: duplicate material id %q", domain.ErrCatalogInvalid, m.ID)
		}
		seen[m.ID] = true

		if m.ElasticModulus <= 0 {
			return fmt.Errorf("%s: material %q: elastic modulus must be positive, got %v", domain.ErrCatalogInvalid, m.ID, m.ElasticModulus)
		}
		if m.YieldStrength < 0 {
			return fmt.Errorf("%s: material %q: yield strength must be non-negative, got %v", domain.ErrCatalogInvalid, m.ID, m.YieldStrength)
		}
		if m.Density <= 0 {
			return fmt.Errorf("%s: material %q: density must be positive, got %v", domain.ErrCatalogInvalid, m.ID, m.Density)
		}
		for field, v := range map[string]float64{
			"biocompatibility":     m.Biocompatibility,
			"osseointegration":     m.Osseointegration,
			"corrosion_resistance": m.CorrosionResistance,
			"wear_resistance":      m.WearResistance,
		} {
			if v < 0 || v > 1 {
				return fmt.Errorf("%s: material %q: %s must be in [0,1], got %v", domain.ErrCatalogInvalid, m.ID, field, v)
			}
		}
		switch m.Category {
		case domain.METAL, domain.CERAMIC, domain.POLYMER, domain.COMPOSITE:
		default:
			return fmt.Errorf("%s: material %q: unknown category %q", domain.ErrCatalogInvalid, m.ID, m.Category)
		}
	}

	seenBones := make(map[string]bool, len(c.boneSites))
	for _, b := range c.boneSites {
		if b.ID == "" {
			return fmt.Errorf("%s: bone site with empty id", domain.ErrCatalogInvalid)
		}
		if seenBones[b.ID] {
			return fmt.Errorf("%s: duplicate bone site id %q", domain.ErrCatalogInvalid, b.ID)
		}
		seenBones[b.ID] = true

		if b.NaturalModulus <= 0 {
			return fmt.Errorf("%s: bone site %q: natural modulus must be positive, got %v", domain.ErrCatalogInvalid, b.ID, b.NaturalModulus)
		}
		if b.TargetYieldStrength <= 0 {
			return fmt.Errorf("%s: bone site %q: target yield strength must be positive, got %v", domain.ErrCatalogInvalid, b.ID, b.TargetYieldStrength)
		}
		if b.VascularityFactor < 0 || b.VascularityFactor > 1 {
			return fmt.Errorf("%s: bone site %q: vascularity factor must be in [0,1], got %v", domain.ErrCatalogInvalid, b.ID, b.VascularityFactor)
		}
	}
	return nil
}
