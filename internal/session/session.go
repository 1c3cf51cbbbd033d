// Package session coordinates mutable analysis inputs with live
// recomputation of the compatibility breakdown, and gates the ranking and
// report-generation entry points. A session is always consistent after a
// mutation returns: every input change recomputes the breakdown before the
// next read.
package session

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/biomatch-omni-server/internal/domain"
	"github.com/biomatch-omni-server/internal/scoring"
)

// Default session inputs for a freshly created session.
const (
	DefaultBoneSiteID = "femur"
	DefaultMaterialID = "ti6al4v_eli"
	DefaultWeightKg   = 70.0
)

// Inputs is the persistable part of a session: the current parameter
// tuple. Derived state (breakdown, ranking, report) is never persisted and
// is recomputed from inputs on rehydration.
type Inputs struct {
	Patient    domain.PatientContext `json:"patient"`
	BoneSiteID string                `json:"bone_site_id"`
	MaterialID string                `json:"material_id"`
	WeightKg   float64               `json:"weight_kg"`
}

// DefaultInputs returns the inputs of a new session.
func DefaultInputs() Inputs {
	return Inputs{
		Patient:    domain.PatientContext{Urgency: domain.URGENCY_MODERATE},
		BoneSiteID: DefaultBoneSiteID,
		MaterialID: DefaultMaterialID,
		WeightKg:   DefaultWeightKg,
	}
}

// PatientPatch is a partial update of the patient context. Nil fields are
// left unchanged.
type PatientPatch struct {
	Name       *string         `json:"name,omitempty"`
	Age        *string         `json:"age,omitempty"`
	BloodGroup *string         `json:"blood_group,omitempty"`
	Urgency    *domain.Urgency `json:"urgency,omitempty"`
}

// Session is the explicit state holder for one analysis. All methods are
// safe for concurrent use; mutations recompute derived state before
// returning.
type Session struct {
	mu     sync.Mutex
	id     string
	logger *logrus.Logger
	engine *scoring.Engine

	inputs Inputs

	breakdown   *domain.CompatibilityBreakdown
	hasAnalysed bool
	ranking     []domain.ScoredMaterial

	report           *domain.ResultsReport
	generatingReport bool
	reportSeq        uint64
	reportDelay      time.Duration

	// persist, when set, receives the input tuple after every mutation.
	persist func(Inputs)

	subscribers map[chan domain.CompatibilityBreakdown]struct{}
}

// New creates a session with the given inputs and computes the initial
// breakdown.
func New(id string, logger *logrus.Logger, engine *scoring.Engine, inputs Inputs, reportDelay time.Duration) *Session {
	s := &Session{
		id:          id,
		logger:      logger,
		engine:      engine,
		inputs:      inputs,
		reportDelay: reportDelay,
		subscribers: make(map[chan domain.CompatibilityBreakdown]struct{}),
	}
	s.mu.Lock()
	s.recomputeLocked()
	s.mu.Unlock()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Inputs returns a copy of the current input tuple.
func (s *Session) Inputs() Inputs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs
}

// Breakdown returns a copy of the current breakdown, or nil if none has
// been computed (catalog lookup failed for the current selection).
func (s *Session) Breakdown() *domain.CompatibilityBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.breakdown == nil {
		return nil
	}
	b := *s.breakdown
	return &b
}

// Ranking returns the last computed ranking and whether an analysis has
// been run in this session.
func (s *Session) Ranking() ([]domain.ScoredMaterial, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranking, s.hasAnalysed
}

// Report returns the current results report (nil if none) and whether a
// generation is in flight.
func (s *Session) Report() (*domain.ResultsReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil, s.generatingReport
	}
	r := *s.report
	return &r, s.generatingReport
}

// SetBoneSite selects a bone site and recomputes the breakdown. An unknown
// id returns a LookupError and leaves all state untouched.
func (s *Session) SetBoneSite(id string) error {
	if _, err := s.engine.Catalog().BoneSiteByID(id); err != nil {
		s.logger.WithFields(logrus.Fields{"session_id": s.id, "bone_site_id": id}).Warn("Ignoring unknown bone site selection")
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs.BoneSiteID = id
	s.recomputeLocked()
	s.persistLocked()
	return nil
}

// SetMaterial selects a material and recomputes the breakdown. An unknown
// id returns a LookupError and leaves all state untouched.
func (s *Session) SetMaterial(id string) error {
	if _, err := s.engine.Catalog().MaterialByID(id); err != nil {
		s.logger.WithFields(logrus.Fields{"session_id": s.id, "material_id": id}).Warn("Ignoring unknown material selection")
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs.MaterialID = id
	s.recomputeLocked()
	s.persistLocked()
	return nil
}

// SetWeight updates the patient weight and recomputes the breakdown.
// Non-positive weight is rejected before any state changes.
func (s *Session) SetWeight(weightKg float64) error {
	if weightKg <= 0 {
		return domain.NewValidationError("weight_kg", "must be positive", weightKg)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs.WeightKg = weightKg
	s.recomputeLocked()
	s.persistLocked()
	return nil
}

// SetPatient applies a partial patient update. Patient fields are
// display/report inputs only, so no recompute is needed.
func (s *Session) SetPatient(patch PatientPatch) error {
	if patch.Urgency != nil {
		switch *patch.Urgency {
		case domain.URGENCY_CRITICAL, domain.URGENCY_HIGH, domain.URGENCY_MODERATE, domain.URGENCY_LOW:
		default:
			return domain.NewValidationError("urgency", "unknown urgency level", *patch.Urgency)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Name != nil {
		s.inputs.Patient.Name = *patch.Name
	}
	if patch.Age != nil {
		s.inputs.Patient.Age = *patch.Age
	}
	if patch.BloodGroup != nil {
		s.inputs.Patient.BloodGroup = *patch.BloodGroup
	}
	if patch.Urgency != nil {
		s.inputs.Patient.Urgency = *patch.Urgency
	}
	s.persistLocked()
	return nil
}

// RunAnalysis ranks the full catalog for the current bone site and weight,
// stores the ranking and adopts the best match as the current material
// selection. Ranking and selection update together, atomically to readers.
func (s *Session) RunAnalysis() ([]domain.ScoredMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bone, err := s.engine.Catalog().BoneSiteByID(s.inputs.BoneSiteID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"session_id": s.id, "bone_site_id": s.inputs.BoneSiteID}).Warn("Analysis skipped: bone site not found")
		return nil, err
	}

	ranked := s.engine.Rank(bone, s.inputs.WeightKg)
	s.ranking = ranked
	s.hasAnalysed = true
	if len(ranked) > 0 {
		s.inputs.MaterialID = ranked[0].Material.ID
	}
	s.recomputeLocked()
	s.persistLocked()
	return ranked, nil
}

// GenerateReport starts report generation from the current breakdown.
// The result becomes visible after the configured pacing delay. Requests
// are tokenized with a monotonically increasing counter: if a newer
// request is issued before an older one completes, the older result is
// discarded (last request wins). Returns a PreconditionError when no
// breakdown exists.
func (s *Session) GenerateReport() error {
	s.mu.Lock()

	if s.breakdown == nil {
		s.mu.Unlock()
		return domain.NewPreconditionError("generate_report", "no breakdown available")
	}
	material, merr := s.engine.Catalog().MaterialByID(s.inputs.MaterialID)
	bone, berr := s.engine.Catalog().BoneSiteByID(s.inputs.BoneSiteID)
	if merr != nil || berr != nil {
		s.mu.Unlock()
		return domain.NewPreconditionError("generate_report", "current selection no longer resolves")
	}

	s.reportSeq++
	seq := s.reportSeq
	s.generatingReport = true
	s.report = nil

	breakdown := *s.breakdown
	patient := s.inputs.Patient
	weight := s.inputs.WeightKg
	delay := s.reportDelay
	s.mu.Unlock()

	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		report := s.engine.BuildReport(material, bone, &breakdown, &patient, weight)

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.reportSeq {
			// A newer request superseded this one; drop the stale result.
			s.logger.WithFields(logrus.Fields{"session_id": s.id, "seq": seq}).Debug("Discarding superseded report")
			return
		}
		s.report = &report
		s.generatingReport = false
	}()

	return nil
}

// Subscribe registers a breakdown listener for live updates. The returned
// cancel function must be called to release the subscription. Slow
// consumers miss intermediate values rather than blocking mutations.
func (s *Session) Subscribe() (<-chan domain.CompatibilityBreakdown, func()) {
	ch := make(chan domain.CompatibilityBreakdown, 1)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// recomputeLocked refreshes the breakdown from the current inputs. A
// failed catalog lookup leaves the prior breakdown untouched.
func (s *Session) recomputeLocked() {
	material, merr := s.engine.Catalog().MaterialByID(s.inputs.MaterialID)
	bone, berr := s.engine.Catalog().BoneSiteByID(s.inputs.BoneSiteID)
	if merr != nil || berr != nil {
		s.logger.WithFields(logrus.Fields{
			"session_id":   s.id,
			"material_id":  s.inputs.MaterialID,
			"bone_site_id": s.inputs.BoneSiteID,
		}).Warn("Skipping recompute: selection does not resolve")
		return
	}

	b := s.engine.Score(material, bone, s.inputs.WeightKg)
	s.breakdown = &b

	for ch := range s.subscribers {
		select {
		case ch <- b:
		default:
			// Full buffer: evict the stale value so the latest wins.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- b:
			default:
			}
		}
	}
}

func (s *Session) persistLocked() {
	if s.persist != nil {
		s.persist(s.inputs)
	}
}
