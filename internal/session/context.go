package session

import (
	"fmt"
	"strings"
)

// ContextText renders the current inputs and breakdown as a flat text
// block for the conversational assistant. Read-only: the assistant
// consumes this snapshot and can never mutate engine state through it.
func (s *Session) ContextText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient := s.inputs.Patient
	name := patient.Name
	if name == "" {
		name = "Unknown"
	}
	age := patient.Age
	if age == "" {
		age = "N/A"
	}
	bloodGroup := patient.BloodGroup
	if bloodGroup == "" {
		bloodGroup = "N/A"
	}

	boneLabel := s.inputs.BoneSiteID
	if bone, err := s.engine.Catalog().BoneSiteByID(s.inputs.BoneSiteID); err == nil {
		boneLabel = bone.Label
	}

	materialLine := fmt.Sprintf("Selected Biomaterial: %s", s.inputs.MaterialID)
	if mat, err := s.engine.Catalog().MaterialByID(s.inputs.MaterialID); err == nil {
		materialLine = fmt.Sprintf("Selected Biomaterial: %s (%s, elastic modulus: %v GPa, yield strength: %v MPa)",
			mat.Label, mat.Category, mat.ElasticModulus, mat.YieldStrength)
	}

	lines := []string{
		fmt.Sprintf("Patient: %s, Age: %s, Blood Group: %s, Weight: %v kg, Urgency: %s",
			name, age, bloodGroup, s.inputs.WeightKg, patient.Urgency),
		fmt.Sprintf("Target Bone: %s", boneLabel),
		materialLine,
	}

	if s.breakdown != nil {
		lines = append(lines,
			fmt.Sprintf("Overall Compatibility Score: %d/100", s.breakdown.Overall),
			fmt.Sprintf("Score Breakdown — Stiffness Match: %d, Biocompatibility: %d, Osseointegration: %d, Corrosion Resistance: %d, Weight Load: %d",
				s.breakdown.StiffnessMatch, s.breakdown.Biocompatibility, s.breakdown.Osseointegration,
				s.breakdown.CorrosionResistance, s.breakdown.WeightLoad))
	} else {
		lines = append(lines, "Overall Compatibility Score: not yet computed", "No breakdown available yet.")
	}

	return strings.Join(lines, "\n")
}
