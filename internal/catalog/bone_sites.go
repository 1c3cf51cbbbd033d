package catalog

import (
	"github.com/biomatch-omni-server/internal/domain"
)

// boneSites is the fixed implant-site reference set. Natural modulus is the
// cortical reference stiffness; target yield strength feeds the load-area
// proxy in scoring.
var boneSites = []domain.BoneSiteProfile{
	{ID: "femur", Label: "Femur", NaturalModulus: 17, TargetYieldStrength: 160, VascularityFactor: 0.85},
	{ID: "tibia", Label: "Tibia", NaturalModulus: 18, TargetYieldStrength: 170, VascularityFactor: 0.80},
	{ID: "humerus", Label: "Humerus", NaturalModulus: 15, TargetYieldStrength: 130, VascularityFactor: 0.78},
	{ID: "vertebra", Label: "Vertebra", NaturalModulus: 12, TargetYieldStrength: 100, VascularityFactor: 0.60},
	{ID: "radius", Label: "Radius", NaturalModulus: 14, TargetYieldStrength: 140, VascularityFactor: 0.75},
	{ID: "mandible", Label: "Mandible", NaturalModulus: 20, TargetYieldStrength: 190, VascularityFactor: 0.90},
	{ID: "pelvis", Label: "Pelvis", NaturalModulus: 16, TargetYieldStrength: 150, VascularityFactor: 0.82},
	{ID: "skull", Label: "Skull", NaturalModulus: 13, TargetYieldStrength: 110, VascularityFactor: 0.70},
}
