package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/biomatch-omni-server/internal/assistant"
	"github.com/biomatch-omni-server/internal/domain"
	"github.com/biomatch-omni-server/internal/feedback"
	"github.com/biomatch-omni-server/internal/session"
)

// sessionResponse is the wire representation of a session's current state.
type sessionResponse struct {
	ID        string                         `json:"id"`
	Inputs    session.Inputs                 `json:"inputs"`
	Breakdown *domain.CompatibilityBreakdown `json:"breakdown,omitempty"`
}

// inputsPatch is a partial update of the session input tuple. Nil fields
// are left unchanged.
type inputsPatch struct {
	BoneSiteID *string               `json:"bone_site_id,omitempty"`
	MaterialID *string               `json:"material_id,omitempty"`
	WeightKg   *float64              `json:"weight_kg,omitempty"`
	Patient    *session.PatientPatch `json:"patient,omitempty"`
}

type chatRequest struct {
	Messages []assistant.Message `json:"messages" binding:"required"`
}

// respondError maps domain errors to HTTP status codes.
func (s *Server) respondError(c *gin.Context, err error) {
	var lookupErr *domain.LookupError
	var validationErr *domain.ValidationError
	var preErr *domain.PreconditionError

	switch {
	case errors.As(err, &lookupErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": domain.ErrLookupFailure})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": domain.ErrInvalidInput})
	case errors.As(err, &preErr):
		if preErr.Message == domain.ErrSessionNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": domain.ErrSessionNotFound})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": domain.ErrReportPrecondition})
	default:
		s.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": domain.ErrInternalServer})
	}
}

func (s *Server) sessionFor(c *gin.Context) (*session.Session, bool) {
	sess, err := s.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return sess, true
}

func sessionState(sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:        sess.ID(),
		Inputs:    sess.Inputs(),
		Breakdown: sess.Breakdown(),
	}
}

// handleListMaterials returns the full material catalog.
func (s *Server) handleListMaterials(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"materials": s.catalog.Materials()})
}

// handleGetMaterial returns one catalog material by id.
func (s *Server) handleGetMaterial(c *gin.Context) {
	material, err := s.catalog.MaterialByID(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, material)
}

// handleListBoneSites returns the bone site catalog.
func (s *Server) handleListBoneSites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bone_sites": s.catalog.BoneSites()})
}

// handleCreateSession starts a new session with default inputs.
func (s *Server) handleCreateSession(c *gin.Context) {
	sess, err := s.sessions.Create(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionState(sess))
}

// handleGetSession returns the current inputs and breakdown.
func (s *Server) handleGetSession(c *gin.Context) {
	sess, ok := s.sessionFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionState(sess))
}

// handleDeleteSession removes a session.
func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handlePatchInputs applies a partial input update. Each provided field
// is applied in order; the first failure stops the patch and prior fields
// stay applied, matching the one-mutation-one-recompute model.
func (s *Server) handlePatchInputs(c *gin.Context) {
	sess, ok := s.sessionFor(c)
	if !ok {
		return
	}

	var patch inputsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondError(c, domain.NewValidationError("body", "invalid JSON payload", err.Error()))
		return
	}

	if patch.BoneSiteID != nil {
		if err := sess.SetBoneSite(*patch.BoneSiteID); err != nil {
			s.respondError(c, err)
			return
		}
	}
	if patch.MaterialID != nil {
		if err := sess.SetMaterial(*patch.MaterialID); err != nil {
			s.respondError(c, err)
			return
		}
	}
	if patch.WeightKg != nil {
		if err := sess.SetWeight(*patch.WeightKg); err != nil {
			s.respondError(c, err)
			return
		}
	}
	if patch.Patient != nil {
		if err := sess.SetPatient(*patch.Patient); err != nil {
			s.respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, sessionState(sess))
}

// handleRunAnalysis ranks the catalog and adopts the best match.
func (s *Server) handleRunAnalysis(c *gin.Context) {
	sess, ok := s.sessionFor(c)
	if !ok {
		return
	}

	ranked, err := sess.RunAnalysis()
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ranking":       ranked,
		"best_match_id": ranked[0].Material.ID,
		"session":       sessionState(sess),
	})
}

// handleGetAnalysis returns the last computed ranking.
func (s *Server) handleGetAnalysis(c *gin.Context) {
	sess, ok := s.sessionFor(c)
	if !ok {
		return
	}

	ranked, analysed := sess.Ranking()
	if !analysed {
		s.respondError(c, domain.NewPreconditionError("get_analysis", "analysis has not been run"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": ranked})
}

// handleGenerateReport starts report generation.
func (s *Server) handleGenerateReport(c *gin.Context) {
	sess, ok := s.sessionFor(c)
	if !ok {
		return
	}

	if err := sess.GenerateReport(); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"generating": true})
}

// handleGetReport returns the current report and generation status.
func (s *Server) handleGetReport(c *gin.Context) {
	sess, ok := s.sessionFor(c)
	if !ok {
		return
	}

	report, generating := sess.Report()
	c.JSON(http.StatusOK, gin.H{
		"report":     report,
		"generating": generating,
	})
}

// handleChat proxies a conversation to the assistant with the session's
// current analysis context.
func (s *Server) handleChat(c *gin.Context) {
	if s.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "assistant is not configured",
			"code":  domain.ErrAssistantUpstream,
		})
		return
	}

	sess, ok := s.sessionFor(c)
	if !ok {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, domain.NewValidationError("messages", "conversation history is required", err.Error()))
		return
	}

	reply, err := s.assistant.Chat(c.Request.Context(), req.Messages, sess.ContextText())
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sess.ID()).Warn("Assistant request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "code": domain.ErrAssistantUpstream})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// handleSaveFeedback stores clinician feedback on a recommendation.
func (s *Server) handleSaveFeedback(c *gin.Context) {
	if s.feedback == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "feedback store is not configured"})
		return
	}

	var fb feedback.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		s.respondError(c, domain.NewValidationError("body", "invalid JSON payload", err.Error()))
		return
	}

	if _, err := s.catalog.MaterialByID(fb.MaterialID); err != nil {
		s.respondError(c, err)
		return
	}
	if _, err := s.catalog.BoneSiteByID(fb.BoneSiteID); err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.feedback.Save(c.Request.Context(), &fb); err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"material_id":  fb.MaterialID,
		"bone_site_id": fb.BoneSiteID,
		"agreed":       fb.ClinicianAgreed,
	}).Info("Stored clinician feedback")
	c.JSON(http.StatusCreated, fb)
}

// handleListFeedback returns stored feedback with pagination.
func (s *Server) handleListFeedback(c *gin.Context) {
	if s.feedback == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "feedback store is not configured"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, err := s.feedback.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	count, err := s.feedback.Count(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": entries, "total": count})
}

// handleExportFeedback streams the full feedback set as JSON.
func (s *Server) handleExportFeedback(c *gin.Context) {
	if s.feedback == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "feedback store is not configured"})
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="feedback-export.json"`)
	if err := s.feedback.ExportJSON(c.Request.Context(), c.Writer); err != nil {
		s.logger.WithError(err).Error("Feedback export failed")
	}
}
