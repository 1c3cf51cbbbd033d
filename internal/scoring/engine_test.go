package scoring

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomatch-omni-server/internal/catalog"
	"github.com/biomatch-omni-server/internal/domain"
)

func testEngine() *Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewEngine(logger, catalog.Default())
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights().Sum(), 1e-9)
}

func TestStiffnessScoreContinuity(t *testing.T) {
	tests := []struct {
		name     string
		ssr      float64
		expected float64
	}{
		{"ideal band lower boundary", 1.0, 100},
		{"ideal band upper boundary", 2.0, 100},
		{"decay floor boundary", 10.0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, stiffnessScore(tt.ssr), 1e-9)
		})
	}

	// Approaching each boundary from both sides stays continuous.
	assert.InDelta(t, stiffnessScore(0.9999999), stiffnessScore(1.0000001), 1e-4)
	assert.InDelta(t, stiffnessScore(1.9999999), stiffnessScore(2.0000001), 1e-4)
	assert.InDelta(t, stiffnessScore(9.9999999), stiffnessScore(10.0000001), 1e-4)
}

func TestStiffnessScoreTiers(t *testing.T) {
	// Too soft rises toward 100, far too stiff is floored at 0.
	assert.InDelta(t, 80.0, stiffnessScore(0), 1e-9)
	assert.InDelta(t, 90.0, stiffnessScore(0.5), 1e-9)
	assert.InDelta(t, 0.0, stiffnessScore(25), 1e-9)
}

func TestScoreExampleScenarios(t *testing.T) {
	e := testEngine()

	femur, err := e.Catalog().BoneSiteByID("femur")
	require.NoError(t, err)
	ti, err := e.Catalog().MaterialByID("ti6al4v_eli")
	require.NoError(t, err)

	b := e.Score(ti, femur, 70)

	// SSR = 110/17 ~ 6.47 -> stiffness ~ 55
	assert.Equal(t, 55, b.StiffnessMatch)
	// 0.95 * 0.85 * 100 = 80.75 -> 81 (gate passes at 0.95 >= 0.70)
	assert.Equal(t, 81, b.Biocompatibility)
	// yield 828 MPa vs required ~0.16 MPa (floored to 1): log10(829)*80 > 100
	assert.Equal(t, 100, b.WeightLoad)
	assert.Equal(t, 88, b.Osseointegration)
}

func TestBiocompatibilityHardGate(t *testing.T) {
	e := testEngine()

	bone := domain.BoneSiteProfile{
		ID: "test", Label: "Test", NaturalModulus: 17,
		TargetYieldStrength: 160, VascularityFactor: 1.0,
	}
	material := domain.BiomaterialProfile{
		ID: "toxic", Label: "Toxic", Category: domain.METAL,
		ElasticModulus: 17, YieldStrength: 500,
		Biocompatibility: 0.69, Osseointegration: 0.9,
		CorrosionResistance: 0.9, WearResistance: 0.9, Density: 4.0,
	}

	b := e.Score(&material, &bone, 70)
	assert.Zero(t, b.Biocompatibility, "below the ISO gate the score must be zero regardless of vascularity")

	// At the threshold the gate opens.
	material.Biocompatibility = 0.70
	b = e.Score(&material, &bone, 70)
	assert.Equal(t, 70, b.Biocompatibility)
}

func TestCeramicZeroYieldSpecialCase(t *testing.T) {
	e := testEngine()

	ha, err := e.Catalog().MaterialByID("hydroxyapatite")
	require.NoError(t, err)
	femur, err := e.Catalog().BoneSiteByID("femur")
	require.NoError(t, err)

	for _, weight := range []float64{30, 70, 120, 180} {
		b := e.Score(ha, femur, weight)
		assert.Equal(t, 70, b.WeightLoad, "zero-yield ceramic gets the flat compressive score at %v kg", weight)
	}
}

func TestZeroYieldNonCeramicIsPenalized(t *testing.T) {
	e := testEngine()

	bone := domain.BoneSiteProfile{
		ID: "test", Label: "Test", NaturalModulus: 17,
		TargetYieldStrength: 160, VascularityFactor: 0.85,
	}
	material := domain.BiomaterialProfile{
		ID: "mystery_polymer", Label: "Mystery", Category: domain.POLYMER,
		ElasticModulus: 3.0, YieldStrength: 0,
		Biocompatibility: 0.9, Osseointegration: 0.5,
		CorrosionResistance: 0.9, WearResistance: 0.5, Density: 1.3,
	}

	b := e.Score(&material, &bone, 70)
	// log10(0/1 + 1) * 80 = 0: the undocumented-yield entry scores nothing.
	assert.Zero(t, b.WeightLoad)
}

func TestScoreRangesAcrossFullCatalog(t *testing.T) {
	e := testEngine()

	inRange := func(v int) bool { return v >= 0 && v <= 100 }

	for _, bone := range e.Catalog().BoneSites() {
		for _, mat := range e.Catalog().Materials() {
			for _, weight := range []float64{30, 70, 100, 180, 0.5} {
				b := e.Score(&mat, &bone, weight)
				assert.True(t, inRange(b.Overall), "%s/%s overall out of range: %d", mat.ID, bone.ID, b.Overall)
				assert.True(t, inRange(b.StiffnessMatch), "%s/%s stiffness out of range", mat.ID, bone.ID)
				assert.True(t, inRange(b.Biocompatibility), "%s/%s biocompatibility out of range", mat.ID, bone.ID)
				assert.True(t, inRange(b.Osseointegration), "%s/%s osseointegration out of range", mat.ID, bone.ID)
				assert.True(t, inRange(b.CorrosionResistance), "%s/%s corrosion out of range", mat.ID, bone.ID)
				assert.True(t, inRange(b.WeightLoad), "%s/%s load out of range", mat.ID, bone.ID)
			}
		}
	}
}

func TestScoreIdempotent(t *testing.T) {
	e := testEngine()

	femur, err := e.Catalog().BoneSiteByID("femur")
	require.NoError(t, err)
	peek, err := e.Catalog().MaterialByID("peek")
	require.NoError(t, err)

	first := e.Score(peek, femur, 82.5)
	second := e.Score(peek, femur, 82.5)
	assert.Equal(t, first, second)
}

func TestRadarAxesOrder(t *testing.T) {
	e := testEngine()

	femur, err := e.Catalog().BoneSiteByID("femur")
	require.NoError(t, err)
	ti, err := e.Catalog().MaterialByID("ti6al4v_eli")
	require.NoError(t, err)

	b := e.Score(ti, femur, 70)
	require.Len(t, b.RadarAxes, 5)

	keys := make([]string, 0, 5)
	for _, axis := range b.RadarAxes {
		keys = append(keys, axis.Key)
	}
	assert.Equal(t, []string{"stiffnessMatch", "biocompatibility", "osseointegration", "corrosionResist", "weightLoad"}, keys)

	assert.Equal(t, b.StiffnessMatch, b.RadarAxes[0].Value)
	assert.Equal(t, b.Biocompatibility, b.RadarAxes[1].Value)
	assert.Equal(t, b.Osseointegration, b.RadarAxes[2].Value)
	assert.Equal(t, b.CorrosionResistance, b.RadarAxes[3].Value)
	assert.Equal(t, b.WeightLoad, b.RadarAxes[4].Value)
}

func TestScoreClampsNonPositiveWeight(t *testing.T) {
	e := testEngine()

	femur, err := e.Catalog().BoneSiteByID("femur")
	require.NoError(t, err)
	ti, err := e.Catalog().MaterialByID("ti6al4v_eli")
	require.NoError(t, err)

	// Non-positive weight is clamped to 1 kg rather than failing.
	clamped := e.Score(ti, femur, -10)
	oneKg := e.Score(ti, femur, 1)
	assert.Equal(t, oneKg, clamped)
}
