package scoring

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/biomatch-omni-server/internal/domain"
)

// Rank scores every material in the catalog against the given bone site
// and weight and returns the results ordered by overall score, best first.
// The sort is stable: materials with equal overall scores keep their
// catalog order. The first element is the recommended best match.
func (e *Engine) Rank(bone *domain.BoneSiteProfile, weightKg float64) []domain.ScoredMaterial {
	mats := e.catalog.Materials()
	scored := make([]domain.ScoredMaterial, 0, len(mats))
	for _, m := range mats {
		scored = append(scored, domain.ScoredMaterial{
			Material:  m,
			Breakdown: e.Score(&m, bone, weightKg),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Breakdown.Overall > scored[j].Breakdown.Overall
	})

	if len(scored) > 0 {
		e.logger.WithFields(logrus.Fields{
			"bone_site":  bone.ID,
			"weight_kg":  weightKg,
			"best_match": scored[0].Material.ID,
			"best_score": scored[0].Breakdown.Overall,
		}).Info("Ranked material catalog")
	}

	return scored
}
