// Package scoring implements the compatibility scoring engine: a
// deterministic five-factor weighted score of an implant biomaterial
// against a bone site and patient weight, the ranking procedure over the
// material catalog, and the results-report builder.
package scoring

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/biomatch-omni-server/internal/catalog"
	"github.com/biomatch-omni-server/internal/domain"
)

// Scoring constants. The biocompatibility gate is the ISO 10993-5
// pass threshold; load demand models peak joint load during gait.
const (
	bioGateThreshold = 0.70
	gravityMS2       = 9.81
	gaitLoadFactor   = 3.0
	boneAreaFactor   = 0.8
	// Flat load score for zero-yield ceramics: compressive strength is not
	// captured by a ductile yield value, so the log-ratio math is skipped.
	ceramicCompressiveScore = 70.0
	corrosionWeight         = 0.60
	wearWeight              = 0.40
)

// Weights defines the relative importance of the five scoring factors.
// They must sum to exactly 1.0.
type Weights struct {
	Stiffness        float64
	Biocompatibility float64
	Osseointegration float64
	WeightLoad       float64
	CorrosionWear    float64
}

// DefaultWeights returns the Bio-Match weighted scoring matrix.
func DefaultWeights() Weights {
	return Weights{
		Stiffness:        0.30,
		Biocompatibility: 0.25,
		Osseointegration: 0.25,
		WeightLoad:       0.12,
		CorrosionWear:    0.08,
	}
}

// Sum returns the total of all factor weights.
func (w Weights) Sum() float64 {
	return w.Stiffness + w.Biocompatibility + w.Osseointegration + w.WeightLoad + w.CorrosionWear
}

// Engine evaluates compatibility scores over a fixed material catalog.
type Engine struct {
	logger  *logrus.Logger
	catalog *catalog.Catalog
	weights Weights
}

// NewEngine creates a scoring engine over the given catalog.
func NewEngine(logger *logrus.Logger, cat *catalog.Catalog) *Engine {
	return &Engine{
		logger:  logger,
		catalog: cat,
		weights: DefaultWeights(),
	}
}

// Catalog returns the catalog the engine ranks over.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Score computes the compatibility breakdown of one material against one
// bone site and patient weight. Pure and deterministic; it cannot fail for
// catalog-valid input. A non-positive weight is clamped to 1 kg (callers
// are expected to reject such input before scoring; the clamp keeps the
// function total for direct use).
//
// Each sub-score is rounded to an integer first and the overall score is
// the rounded, clamped weighted sum of those rounded sub-scores, so the
// displayed composite always matches the displayed parts.
func (e *Engine) Score(material *domain.BiomaterialProfile, bone *domain.BoneSiteProfile, weightKg float64) domain.CompatibilityBreakdown {
	if weightKg <= 0 {
		weightKg = 1
	}

	stiffness := round(stiffnessScore(material.ElasticModulus / bone.NaturalModulus))
	bio := round(biocompatibilityScore(material, bone))
	osseo := round(material.Osseointegration * 100)
	load := round(weightLoadScore(material, bone, weightKg))
	corrWear := round((material.CorrosionResistance*corrosionWeight + material.WearResistance*wearWeight) * 100)

	overall := round(
		float64(stiffness)*e.weights.Stiffness +
			float64(bio)*e.weights.Biocompatibility +
			float64(osseo)*e.weights.Osseointegration +
			float64(load)*e.weights.WeightLoad +
			float64(corrWear)*e.weights.CorrosionWear,
	)
	overall = clamp(overall, 0, 100)

	return domain.CompatibilityBreakdown{
		Overall:             overall,
		StiffnessMatch:      stiffness,
		Biocompatibility:    bio,
		Osseointegration:    osseo,
		CorrosionResistance: corrWear,
		WeightLoad:          load,
		RadarAxes: []domain.RadarAxis{
			{Key: "stiffnessMatch", Label: "Stiffness Match", Value: stiffness},
			{Key: "biocompatibility", Label: "Biocompatibility", Value: bio},
			{Key: "osseointegration", Label: "Osseointegration", Value: osseo},
			{Key: "corrosionResist", Label: "Corrosion / Wear", Value: corrWear},
			{Key: "weightLoad", Label: "Load Tolerance", Value: load},
		},
	}
}

// stiffnessScore maps the stress shielding ratio (implant modulus over bone
// modulus) onto a 0-100 score. Piecewise, continuous at every boundary:
// too-soft implants risk micro-motion, 1-2x is the ideal band, above that
// stress shielding grows until rejection.
func stiffnessScore(ssr float64) float64 {
	switch {
	case ssr <= 1.0:
		return 80 + ssr*20
	case ssr <= 2.0:
		return 100
	case ssr <= 10.0:
		return math.Max(20, 100-((ssr-2)/8)*80)
	default:
		return math.Max(0, 20-(ssr-10)*2)
	}
}

// biocompatibilityScore modulates the material rating by site vascularity.
// Materials below the ISO 10993-5 cytotoxicity threshold are rejected
// outright regardless of the modulated value.
func biocompatibilityScore(material *domain.BiomaterialProfile, bone *domain.BoneSiteProfile) float64 {
	if material.Biocompatibility < bioGateThreshold {
		return 0
	}
	return material.Biocompatibility * bone.VascularityFactor * 100
}

// weightLoadScore scores whether the yield strength tolerates the
// estimated peak joint load (~3x body weight during gait). Zero-yield
// ceramics get a flat compressive-strength score; a zero-yield entry of
// any other category falls through and is penalized by the ratio math.
func weightLoadScore(material *domain.BiomaterialProfile, bone *domain.BoneSiteProfile, weightKg float64) float64 {
	if material.YieldStrength == 0 && material.Category == domain.CERAMIC {
		return ceramicCompressiveScore
	}
	loadDemandN := weightKg * gravityMS2 * gaitLoadFactor
	boneAreaProxy := bone.TargetYieldStrength * boneAreaFactor
	requiredMPa := loadDemandN / math.Max(boneAreaProxy*100, 1)
	strengthRatio := material.YieldStrength / math.Max(requiredMPa, 1)
	return math.Min(100, math.Log10(strengthRatio+1)*80)
}

func round(v float64) int {
	return int(math.Round(v))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
