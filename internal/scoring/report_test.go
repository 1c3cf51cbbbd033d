package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomatch-omni-server/internal/domain"
)

func TestRankLabelThresholds(t *testing.T) {
	tests := []struct {
		name     string
		overall  int
		expected domain.RankLabel
	}{
		{"optimal at boundary", 80, domain.OPTIMAL_MATCH},
		{"optimal above", 95, domain.OPTIMAL_MATCH},
		{"good at boundary", 60, domain.GOOD_CANDIDATE},
		{"good below optimal", 79, domain.GOOD_CANDIDATE},
		{"marginal at boundary", 40, domain.MARGINAL_FIT},
		{"marginal below good", 59, domain.MARGINAL_FIT},
		{"rejected below marginal", 39, domain.NOT_RECOMMENDED},
		{"rejected at zero", 0, domain.NOT_RECOMMENDED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RankLabelFor(tt.overall))
		})
	}
}

func reportFixture(t *testing.T) (*Engine, *domain.BiomaterialProfile, *domain.BoneSiteProfile, domain.CompatibilityBreakdown) {
	t.Helper()
	e := testEngine()
	material, err := e.Catalog().MaterialByID("ti6al4v_eli")
	require.NoError(t, err)
	bone, err := e.Catalog().BoneSiteByID("femur")
	require.NoError(t, err)
	return e, material, bone, e.Score(material, bone, 70)
}

func TestBuildReportTopStats(t *testing.T) {
	e, material, bone, breakdown := reportFixture(t)

	patient := domain.PatientContext{Urgency: domain.URGENCY_MODERATE}
	report := e.BuildReport(material, bone, &breakdown, &patient, 70)

	require.Len(t, report.BestMatch.TopStats, 4)
	labels := make([]string, 0, 4)
	for _, s := range report.BestMatch.TopStats {
		labels = append(labels, s.Label)
	}
	// Load tolerance is deliberately absent from the stat strip.
	assert.Equal(t, []string{"Biocompat.", "Osseointegration", "Stiffness Match", "Corrosion Resist."}, labels)
	assert.Equal(t, breakdown.Biocompatibility, report.BestMatch.TopStats[0].Value)
	assert.Equal(t, breakdown.StiffnessMatch, report.BestMatch.TopStats[2].Value)
}

func TestBuildReportNarrativeBranches(t *testing.T) {
	e, material, bone, breakdown := reportFixture(t)

	t.Run("named patient with age", func(t *testing.T) {
		patient := domain.PatientContext{Name: "Asha Rao", Age: "54", Urgency: domain.URGENCY_MODERATE}
		report := e.BuildReport(material, bone, &breakdown, &patient, 70)
		assert.True(t, strings.HasPrefix(report.PatientNote, "For Asha Rao, "))
		assert.Contains(t, report.PatientNote, "age (54 yrs)")
	})

	t.Run("anonymous patient fallback", func(t *testing.T) {
		patient := domain.PatientContext{Urgency: domain.URGENCY_MODERATE}
		report := e.BuildReport(material, bone, &breakdown, &patient, 70)
		assert.True(t, strings.HasPrefix(report.PatientNote, "Based on the entered parameters, "))
		assert.NotContains(t, report.PatientNote, "yrs")
	})

	t.Run("heavy patient load sentence", func(t *testing.T) {
		patient := domain.PatientContext{Urgency: domain.URGENCY_LOW}
		report := e.BuildReport(material, bone, &breakdown, &patient, 120)
		assert.Contains(t, report.PatientNote, "peak joint load")
		assert.Contains(t, report.PatientNote, "activity restriction")
	})

	t.Run("urgency branches", func(t *testing.T) {
		patient := domain.PatientContext{Urgency: domain.URGENCY_CRITICAL}
		report := e.BuildReport(material, bone, &breakdown, &patient, 70)
		assert.Contains(t, report.PatientNote, "expedited surgical planning")

		patient.Urgency = domain.URGENCY_LOW
		report = e.BuildReport(material, bone, &breakdown, &patient, 70)
		assert.Contains(t, report.PatientNote, "pre-operative planning")
	})

	t.Run("biodegradable caveat", func(t *testing.T) {
		mg, err := e.Catalog().MaterialByID("we43_mg")
		require.NoError(t, err)
		bd := e.Score(mg, bone, 70)
		patient := domain.PatientContext{Urgency: domain.URGENCY_MODERATE}
		report := e.BuildReport(mg, bone, &bd, &patient, 70)
		assert.Contains(t, report.PatientNote, "biodegradable material")
		assert.Contains(t, report.PatientNote, "ASTM G31")
	})
}

func TestBuildReportQuestionAssembly(t *testing.T) {
	e, material, bone, breakdown := reportFixture(t)

	t.Run("non-degradable moderate case has five questions", func(t *testing.T) {
		patient := domain.PatientContext{Urgency: domain.URGENCY_MODERATE}
		report := e.BuildReport(material, bone, &breakdown, &patient, 70)

		require.Len(t, report.DoctorQuestions, 5)
		assert.Contains(t, report.DoctorQuestions[0], material.Label)
		assert.Contains(t, report.DoctorQuestions[1], "Bio-Match Score")
		// Ti-6Al-4V on femur has stiffness 55 < 60: the mismatch question.
		assert.Contains(t, report.DoctorQuestions[2], "stress-shielding be monitored")
		assert.Contains(t, report.DoctorQuestions[3], "activity restrictions")
		assert.Contains(t, report.DoctorQuestions[4], "lifestyle modifications")
	})

	t.Run("biodegradable urgent case has six questions", func(t *testing.T) {
		mg, err := e.Catalog().MaterialByID("we43_mg")
		require.NoError(t, err)
		bd := e.Score(mg, bone, 70)
		patient := domain.PatientContext{Urgency: domain.URGENCY_HIGH}
		report := e.BuildReport(mg, bone, &bd, &patient, 70)

		require.Len(t, report.DoctorQuestions, 6)
		assert.Contains(t, report.DoctorQuestions[3], "degradation timeline")
		assert.Contains(t, report.DoctorQuestions[5], "earliest feasible surgery date")
	})

	t.Run("well matched stiffness asks about imaging", func(t *testing.T) {
		ta, err := e.Catalog().MaterialByID("porous_ta")
		require.NoError(t, err)
		bd := e.Score(ta, bone, 70)
		require.GreaterOrEqual(t, bd.StiffnessMatch, 60)
		patient := domain.PatientContext{Urgency: domain.URGENCY_MODERATE}
		report := e.BuildReport(ta, bone, &bd, &patient, 70)
		assert.Contains(t, report.DoctorQuestions[2], "imaging protocol")
	})
}

func TestBuildReportDeterministic(t *testing.T) {
	e, material, bone, breakdown := reportFixture(t)

	patient := domain.PatientContext{Name: "J. Okafor", Age: "61", Urgency: domain.URGENCY_HIGH}
	first := e.BuildReport(material, bone, &breakdown, &patient, 70)
	second := e.BuildReport(material, bone, &breakdown, &patient, 70)

	assert.Equal(t, first.PatientNote, second.PatientNote)
	assert.Equal(t, first.DoctorQuestions, second.DoctorQuestions)
	assert.Equal(t, first.BestMatch, second.BestMatch)
}
