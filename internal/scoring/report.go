package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/biomatch-omni-server/internal/domain"
)

// Rank label thresholds over the overall score.
const (
	optimalThreshold  = 80
	goodThreshold     = 60
	marginalThreshold = 40
)

// RankLabelFor maps an overall score to its qualitative tier.
func RankLabelFor(overall int) domain.RankLabel {
	switch {
	case overall >= optimalThreshold:
		return domain.OPTIMAL_MATCH
	case overall >= goodThreshold:
		return domain.GOOD_CANDIDATE
	case overall >= marginalThreshold:
		return domain.MARGINAL_FIT
	default:
		return domain.NOT_RECOMMENDED
	}
}

// BuildReport synthesizes the structured narrative report for a scored
// match. Deterministic string construction: sentence order, question order
// and the topStats composition are fixed contracts consumed by index.
func (e *Engine) BuildReport(
	material *domain.BiomaterialProfile,
	bone *domain.BoneSiteProfile,
	breakdown *domain.CompatibilityBreakdown,
	patient *domain.PatientContext,
	weightKg float64,
) domain.ResultsReport {
	score := breakdown.Overall
	rankLabel := RankLabelFor(score)

	// The stress shielding ratio is re-derived here rather than read back
	// out of the breakdown: the narrative tiers need the unrounded value.
	ssr := material.ElasticModulus / bone.NaturalModulus

	var stiffnessTip string
	switch {
	case ssr <= 2:
		stiffnessTip = fmt.Sprintf(
			"Its elastic modulus (%v GPa) closely mirrors the %s (≈%v GPa), giving a Stress Shielding Ratio of %.1f — well within the safe range (SSR ≤ 2). Wolff's Law bone-remodelling stimulus is preserved.",
			material.ElasticModulus, bone.Label, bone.NaturalModulus, ssr)
	case ssr <= 10:
		stiffnessTip = fmt.Sprintf(
			"A moderate stiffness mismatch exists (SSR = %.1f). Stress-shielding risk is present; periodic DEXA bone-density monitoring post-surgery is recommended.",
			ssr)
	default:
		stiffnessTip = fmt.Sprintf(
			"High stiffness mismatch detected (SSR = %.1f > 10). Significant stress-shielding is expected. Porous or surface-modified designs should be evaluated before proceeding.",
			ssr)
	}

	var osseoTip string
	switch {
	case breakdown.Osseointegration >= 80:
		osseoTip = fmt.Sprintf(
			"Its osseointegration score of %d/100 reflects high bone-to-implant contact (BIC > 70%%) and projected ISQ ≥ 70 at 8 weeks, supporting early loading protocols.",
			breakdown.Osseointegration)
	case breakdown.Osseointegration >= 60:
		osseoTip = fmt.Sprintf(
			"Moderate osseointegration potential (%d/100, ISQ 60–70). Delayed loading (6–8 weeks) and HA surface coating may be advisable.",
			breakdown.Osseointegration)
	default:
		osseoTip = fmt.Sprintf(
			"Low osseointegration score (%d/100). This material is bioinert in its standard form; surface bioactivation is strongly recommended.",
			breakdown.Osseointegration)
	}

	biodegNote := ""
	if material.IsBiodegradable {
		biodegNote = fmt.Sprintf(
			"⚠ This is a biodegradable material. Degradation rate must be confirmed via ASTM G31 immersion testing against the target healing timeline (%s healing: ~12 weeks). ",
			bone.Label)
	}

	var weightNote string
	if weightKg >= 100 {
		weightNote = fmt.Sprintf(
			"Given the patient's weight (%v kg), peak joint load is ≈%d N. The %s's yield strength of %v MPa provides adequate structural reserve, but activity restriction during initial healing is advised.",
			weightKg, int(math.Round(weightKg*gravityMS2*gaitLoadFactor)), material.Label, material.YieldStrength)
	} else {
		weightNote = fmt.Sprintf(
			"The %s's yield strength (%v MPa) is well-suited to the mechanical demands imposed by the patient's weight (%v kg).",
			material.Label, material.YieldStrength, weightKg)
	}

	urgent := patient.Urgency == domain.URGENCY_CRITICAL || patient.Urgency == domain.URGENCY_HIGH
	var urgencyNote string
	if urgent {
		urgencyNote = fmt.Sprintf("Given the %s urgency classification, expedited surgical planning is warranted.", patient.Urgency)
	} else {
		urgencyNote = fmt.Sprintf("The %s urgency level allows time for thorough pre-operative planning and patient optimisation.", patient.Urgency)
	}

	opening := "Based on the entered parameters, "
	if patient.Name != "" {
		opening = fmt.Sprintf("For %s, ", patient.Name)
	}

	ageNote := ""
	if patient.Age != "" {
		ageNote = fmt.Sprintf(" The patient's age (%s yrs) should be factored into rehabilitation timelines.", patient.Age)
	}

	patientNote := strings.Join([]string{
		fmt.Sprintf("%sanalysis indicates that **%s** (%s) is the %s for the %s implant site, achieving an overall Bio-Match Score of **%d/100**.",
			opening, material.Label, material.Category, strings.ToLower(string(rankLabel)), bone.Label, score),
		stiffnessTip,
		osseoTip,
		biodegNote + weightNote,
		urgencyNote + ageNote,
		fmt.Sprintf("Biocompatibility index: %d/100 | Corrosion resistance: %d/100 — both reflecting in-vivo safety per ISO 10993-5 standards.",
			breakdown.Biocompatibility, breakdown.CorrosionResistance),
	}, " ")

	questions := []string{
		fmt.Sprintf("Is %s the most appropriate biomaterial for my %s implant, or are newer alternatives worth considering?", material.Label, bone.Label),
		fmt.Sprintf("What does a Bio-Match Score of %d/100 mean for my recovery timeline and long-term implant durability?", score),
	}

	if breakdown.StiffnessMatch < 60 {
		questions = append(questions, fmt.Sprintf(
			"The stiffness mismatch (SSR = %.1f) was flagged — how will stress-shielding be monitored post-surgery?", ssr))
	} else {
		questions = append(questions,
			"What imaging protocol (X-ray / CT / DEXA) will confirm osseointegration and rule out stress-shielding over the first two years?")
	}

	if material.IsBiodegradable {
		questions = append(questions,
			"This is a resorbable material — what is the expected degradation timeline relative to my bone healing, and how will structural integrity be monitored?")
	}

	questions = append(questions, fmt.Sprintf(
		"Are there activity restrictions or physiotherapy milestones I should be aware of given the %s location and my weight (%v kg)?", bone.Label, weightKg))

	if urgent {
		questions = append(questions,
			"What is the earliest feasible surgery date, and what pre-operative steps (infection screening, nutrition) must be completed first?")
	} else {
		questions = append(questions,
			"Are there lifestyle modifications (weight management, vitamin D / calcium) that could improve implant outcomes before the procedure?")
	}

	return domain.ResultsReport{
		BestMatch: domain.BestMatch{
			MaterialLabel:    material.Label,
			MaterialCategory: material.Category,
			MaterialColor:    material.Color,
			OverallScore:     score,
			RankLabel:        rankLabel,
			// Load tolerance is intentionally absent from the stat strip;
			// it stays visible in the full breakdown.
			TopStats: []domain.ReportStat{
				{Label: "Biocompat.", Value: breakdown.Biocompatibility},
				{Label: "Osseointegration", Value: breakdown.Osseointegration},
				{Label: "Stiffness Match", Value: breakdown.StiffnessMatch},
				{Label: "Corrosion Resist.", Value: breakdown.CorrosionResistance},
			},
		},
		PatientNote:     patientNote,
		DoctorQuestions: questions,
		GeneratedAt:     time.Now().UTC(),
	}
}
