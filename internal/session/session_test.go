package session

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomatch-omni-server/internal/catalog"
	"github.com/biomatch-omni-server/internal/domain"
	"github.com/biomatch-omni-server/internal/scoring"
)

func testEngine() *scoring.Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return scoring.NewEngine(logger, catalog.Default())
}

func testSession(delay time.Duration) *Session {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New("test-session", logger, testEngine(), DefaultInputs(), delay)
}

func TestNewSessionComputesInitialBreakdown(t *testing.T) {
	s := testSession(0)

	bd := s.Breakdown()
	require.NotNil(t, bd)

	e := testEngine()
	material, err := e.Catalog().MaterialByID(DefaultMaterialID)
	require.NoError(t, err)
	bone, err := e.Catalog().BoneSiteByID(DefaultBoneSiteID)
	require.NoError(t, err)
	expected := e.Score(material, bone, DefaultWeightKg)
	assert.Equal(t, expected, *bd)
}

func TestMutationsRecomputeBreakdown(t *testing.T) {
	s := testSession(0)
	initial := s.Breakdown()
	require.NotNil(t, initial)

	require.NoError(t, s.SetBoneSite("skull"))
	afterBone := s.Breakdown()
	require.NotNil(t, afterBone)
	assert.NotEqual(t, *initial, *afterBone)

	require.NoError(t, s.SetWeight(140))
	afterWeight := s.Breakdown()
	require.NotNil(t, afterWeight)
	assert.NotEqual(t, *afterBone, *afterWeight)

	require.NoError(t, s.SetMaterial("peek"))
	afterMaterial := s.Breakdown()
	require.NotNil(t, afterMaterial)
	assert.NotEqual(t, *afterWeight, *afterMaterial)
}

func TestUnknownSelectionLeavesStateUntouched(t *testing.T) {
	s := testSession(0)
	before := s.Breakdown()
	require.NotNil(t, before)
	inputsBefore := s.Inputs()

	var lookupErr *domain.LookupError

	err := s.SetMaterial("unobtainium")
	require.Error(t, err)
	assert.True(t, errors.As(err, &lookupErr))

	err = s.SetBoneSite("coccyx")
	require.Error(t, err)
	assert.True(t, errors.As(err, &lookupErr))

	assert.Equal(t, inputsBefore, s.Inputs())
	after := s.Breakdown()
	require.NotNil(t, after)
	assert.Equal(t, *before, *after)
}

func TestSetWeightRejectsNonPositive(t *testing.T) {
	s := testSession(0)
	before := s.Inputs()

	var validationErr *domain.ValidationError
	for _, w := range []float64{0, -1, -70} {
		err := s.SetWeight(w)
		require.Error(t, err)
		assert.True(t, errors.As(err, &validationErr))
	}
	assert.Equal(t, before, s.Inputs())
}

func TestSetPatientPartialUpdate(t *testing.T) {
	s := testSession(0)
	before := s.Breakdown()
	require.NotNil(t, before)

	name := "Asha Rao"
	urgency := domain.URGENCY_CRITICAL
	require.NoError(t, s.SetPatient(PatientPatch{Name: &name, Urgency: &urgency}))

	inputs := s.Inputs()
	assert.Equal(t, "Asha Rao", inputs.Patient.Name)
	assert.Equal(t, domain.URGENCY_CRITICAL, inputs.Patient.Urgency)
	assert.Empty(t, inputs.Patient.Age)

	// Patient fields feed the report only, never the breakdown.
	after := s.Breakdown()
	require.NotNil(t, after)
	assert.Equal(t, *before, *after)

	bad := domain.Urgency("PANIC")
	err := s.SetPatient(PatientPatch{Urgency: &bad})
	require.Error(t, err)
	assert.Equal(t, domain.URGENCY_CRITICAL, s.Inputs().Patient.Urgency)
}

func TestRunAnalysisAdoptsBestMatch(t *testing.T) {
	s := testSession(0)

	_, analysed := s.Ranking()
	assert.False(t, analysed)

	ranked, err := s.RunAnalysis()
	require.NoError(t, err)
	require.NotEmpty(t, ranked)

	stored, analysed := s.Ranking()
	assert.True(t, analysed)
	assert.Equal(t, ranked, stored)
	assert.Equal(t, ranked[0].Material.ID, s.Inputs().MaterialID)

	bd := s.Breakdown()
	require.NotNil(t, bd)
	assert.Equal(t, ranked[0].Breakdown, *bd)
}

func TestGenerateReportRequiresBreakdown(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	inputs := DefaultInputs()
	inputs.MaterialID = "unobtainium"
	s := New("no-breakdown", logger, testEngine(), inputs, 0)

	require.Nil(t, s.Breakdown())
	err := s.GenerateReport()
	require.Error(t, err)
	var preErr *domain.PreconditionError
	assert.True(t, errors.As(err, &preErr))

	report, generating := s.Report()
	assert.Nil(t, report)
	assert.False(t, generating)
}

func waitForReport(t *testing.T, s *Session) *domain.ResultsReport {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		report, generating := s.Report()
		if report != nil && !generating {
			return report
		}
		select {
		case <-deadline:
			t.Fatal("report did not materialize in time")
			return nil
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestGenerateReportCompletesAfterDelay(t *testing.T) {
	s := testSession(20 * time.Millisecond)

	require.NoError(t, s.GenerateReport())
	_, generating := s.Report()
	assert.True(t, generating)

	report := waitForReport(t, s)
	assert.Equal(t, "Ti-6Al-4V ELI", report.BestMatch.MaterialLabel)
	assert.NotEmpty(t, report.PatientNote)
	assert.NotEmpty(t, report.DoctorQuestions)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestGenerateReportLastRequestWins(t *testing.T) {
	s := testSession(30 * time.Millisecond)

	require.NoError(t, s.GenerateReport())
	require.NoError(t, s.SetMaterial("peek"))
	require.NoError(t, s.GenerateReport())

	report := waitForReport(t, s)
	assert.Equal(t, "PEEK-OPTIMA", report.BestMatch.MaterialLabel)

	// The superseded first request must never overwrite the newer result.
	time.Sleep(60 * time.Millisecond)
	report, generating := s.Report()
	require.NotNil(t, report)
	assert.False(t, generating)
	assert.Equal(t, "PEEK-OPTIMA", report.BestMatch.MaterialLabel)
}

func TestSubscribeReceivesBreakdownUpdates(t *testing.T) {
	s := testSession(0)
	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.SetWeight(95))

	select {
	case bd := <-ch:
		current := s.Breakdown()
		require.NotNil(t, current)
		assert.Equal(t, *current, bd)
	case <-time.After(time.Second):
		t.Fatal("no breakdown update received")
	}
}

func TestSubscribeSlowConsumerGetsLatest(t *testing.T) {
	s := testSession(0)
	ch, cancel := s.Subscribe()
	defer cancel()

	// Two mutations without a read in between: the buffered value must be
	// the most recent breakdown, not the first.
	require.NoError(t, s.SetWeight(95))
	require.NoError(t, s.SetWeight(140))

	select {
	case bd := <-ch:
		current := s.Breakdown()
		require.NotNil(t, current)
		assert.Equal(t, *current, bd)
	case <-time.After(time.Second):
		t.Fatal("no breakdown update received")
	}
}

func TestContextTextReflectsState(t *testing.T) {
	s := testSession(0)

	text := s.ContextText()
	assert.Contains(t, text, "Patient: Unknown, Age: N/A")
	assert.Contains(t, text, "Target Bone: Femur")
	assert.Contains(t, text, "Ti-6Al-4V ELI")
	assert.Contains(t, text, "Overall Compatibility Score:")
	assert.Contains(t, text, "Score Breakdown")

	name := "J. Okafor"
	require.NoError(t, s.SetPatient(PatientPatch{Name: &name}))
	assert.Contains(t, s.ContextText(), "Patient: J. Okafor")
}
