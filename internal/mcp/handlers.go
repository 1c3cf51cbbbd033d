package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/biomatch-omni-server/internal/domain"
	"github.com/biomatch-omni-server/internal/feedback"
	"github.com/biomatch-omni-server/internal/scoring"
)

// ScoreMaterialParams defines parameters for the score_material tool.
type ScoreMaterialParams struct {
	MaterialID string  `json:"material_id"`
	BoneSiteID string  `json:"bone_site_id"`
	WeightKg   float64 `json:"weight_kg,omitempty"`
}

// ScoreMaterialResult defines the result structure for score_material.
type ScoreMaterialResult struct {
	Material  domain.BiomaterialProfile     `json:"material"`
	BoneSite  domain.BoneSiteProfile        `json:"bone_site"`
	WeightKg  float64                       `json:"weight_kg"`
	Breakdown domain.CompatibilityBreakdown `json:"breakdown"`
	RankLabel domain.RankLabel              `json:"rank_label"`
}

// RankMaterialsParams defines parameters for the rank_materials tool.
type RankMaterialsParams struct {
	BoneSiteID string  `json:"bone_site_id"`
	WeightKg   float64 `json:"weight_kg,omitempty"`
	Limit      int     `json:"limit,omitempty"`
}

// RankMaterialsResult defines the result structure for rank_materials.
type RankMaterialsResult struct {
	BoneSite    domain.BoneSiteProfile  `json:"bone_site"`
	WeightKg    float64                 `json:"weight_kg"`
	Ranking     []domain.ScoredMaterial `json:"ranking"`
	BestMatchID string                  `json:"best_match_id"`
}

// GenerateReportParams defines parameters for the generate_report tool.
type GenerateReportParams struct {
	MaterialID  string  `json:"material_id"`
	BoneSiteID  string  `json:"bone_site_id"`
	WeightKg    float64 `json:"weight_kg,omitempty"`
	PatientName string  `json:"patient_name,omitempty"`
	PatientAge  string  `json:"patient_age,omitempty"`
	BloodGroup  string  `json:"blood_group,omitempty"`
	Urgency     string  `json:"urgency,omitempty"`
}

// GenerateReportResult defines the result structure for generate_report.
type GenerateReportResult struct {
	Report domain.ResultsReport `json:"report"`
}

// SaveFeedbackParams defines parameters for the save_feedback tool.
type SaveFeedbackParams struct {
	MaterialID          string  `json:"material_id"`
	BoneSiteID          string  `json:"bone_site_id"`
	WeightKg            float64 `json:"weight_kg,omitempty"`
	ClinicianRank       string  `json:"clinician_rank,omitempty"`
	ClinicianAgreed     bool    `json:"clinician_agreed"`
	PreferredMaterialID string  `json:"preferred_material_id,omitempty"`
	Notes               string  `json:"notes,omitempty"`
}

// ListFeedbackParams defines parameters for the list_feedback tool.
type ListFeedbackParams struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ListFeedbackResult defines the result structure for list_feedback.
type ListFeedbackResult struct {
	Feedback []*feedback.Feedback `json:"feedback"`
	Total    int64                `json:"total"`
}

// ExportFeedbackResult defines the result structure for export_feedback.
type ExportFeedbackResult struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

const defaultWeightKg = 70

// handleScoreMaterial handles the score_material tool invocation.
func (s *Server) handleScoreMaterial(ctx context.Context, req *mcp.CallToolRequest, params ScoreMaterialParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "score_material").Info("Tool invoked")

	material, bone, weight, errResult := s.resolveInputs(params.MaterialID, params.BoneSiteID, params.WeightKg)
	if errResult != nil {
		return errResult, nil, nil
	}

	breakdown := s.engine.Score(material, bone, weight)
	result := ScoreMaterialResult{
		Material:  *material,
		BoneSite:  *bone,
		WeightKg:  weight,
		Breakdown: breakdown,
		RankLabel: scoring.RankLabelFor(breakdown.Overall),
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("%s on %s at %v kg: %d/100 (%s)",
					material.Label, bone.Label, weight, breakdown.Overall, result.RankLabel),
			},
		},
	}, result, nil
}

// handleRankMaterials handles the rank_materials tool invocation.
func (s *Server) handleRankMaterials(ctx context.Context, req *mcp.CallToolRequest, params RankMaterialsParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "rank_materials").Info("Tool invoked")

	bone, err := s.catalog.BoneSiteByID(params.BoneSiteID)
	if err != nil {
		return s.createErrorResult("Unknown bone site", err), nil, nil
	}
	weight, errResult := resolveWeight(params.WeightKg)
	if errResult != nil {
		return errResult, nil, nil
	}

	ranked := s.engine.Rank(bone, weight)
	if params.Limit > 0 && params.Limit < len(ranked) {
		ranked = ranked[:params.Limit]
	}

	result := RankMaterialsResult{
		BoneSite:    *bone,
		WeightKg:    weight,
		Ranking:     ranked,
		BestMatchID: ranked[0].Material.ID,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Best match for %s at %v kg: %s (%d/100), %d materials ranked",
					bone.Label, weight, ranked[0].Material.Label, ranked[0].Breakdown.Overall, len(ranked)),
			},
		},
	}, result, nil
}

// handleGenerateReport handles the generate_report tool invocation.
func (s *Server) handleGenerateReport(ctx context.Context, req *mcp.CallToolRequest, params GenerateReportParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "generate_report").Info("Tool invoked")

	material, bone, weight, errResult := s.resolveInputs(params.MaterialID, params.BoneSiteID, params.WeightKg)
	if errResult != nil {
		return errResult, nil, nil
	}

	urgency := domain.Urgency(params.Urgency)
	switch urgency {
	case domain.URGENCY_CRITICAL, domain.URGENCY_HIGH, domain.URGENCY_MODERATE, domain.URGENCY_LOW:
	case "":
		urgency = domain.URGENCY_MODERATE
	default:
		return s.createErrorResult("Invalid parameter",
			domain.NewValidationError("urgency", "unknown urgency level", params.Urgency)), nil, nil
	}

	patient := &domain.PatientContext{
		Name:       params.PatientName,
		Age:        params.PatientAge,
		BloodGroup: params.BloodGroup,
		Urgency:    urgency,
	}

	breakdown := s.engine.Score(material, bone, weight)
	report := s.engine.BuildReport(material, bone, &breakdown, patient, weight)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("%s — %s (%d/100)\n\n%s",
					report.BestMatch.MaterialLabel, report.BestMatch.RankLabel,
					report.BestMatch.OverallScore, report.PatientNote),
			},
		},
	}, GenerateReportResult{Report: report}, nil
}

// handleSaveFeedback handles the save_feedback tool invocation.
func (s *Server) handleSaveFeedback(ctx context.Context, req *mcp.CallToolRequest, params SaveFeedbackParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "save_feedback").Info("Tool invoked")

	material, bone, weight, errResult := s.resolveInputs(params.MaterialID, params.BoneSiteID, params.WeightKg)
	if errResult != nil {
		return errResult, nil, nil
	}

	breakdown := s.engine.Score(material, bone, weight)
	fb := &feedback.Feedback{
		MaterialID:          material.ID,
		BoneSiteID:          bone.ID,
		WeightKg:            weight,
		SuggestedScore:      breakdown.Overall,
		SuggestedRank:       feedback.Rank(scoring.RankLabelFor(breakdown.Overall)),
		ClinicianRank:       feedback.Rank(params.ClinicianRank),
		ClinicianAgreed:     params.ClinicianAgreed,
		PreferredMaterialID: params.PreferredMaterialID,
		Notes:               params.Notes,
	}

	if err := s.feedbackStore.Save(ctx, fb); err != nil {
		return s.createErrorResult("Failed to save feedback", err), nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Feedback stored for %s on %s (id %d)", material.Label, bone.Label, fb.ID),
			},
		},
	}, fb, nil
}

// handleListFeedback handles the list_feedback tool invocation.
func (s *Server) handleListFeedback(ctx context.Context, req *mcp.CallToolRequest, params ListFeedbackParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "list_feedback").Info("Tool invoked")

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := s.feedbackStore.List(ctx, limit, offset)
	if err != nil {
		return s.createErrorResult("Failed to list feedback", err), nil, nil
	}
	total, err := s.feedbackStore.Count(ctx)
	if err != nil {
		return s.createErrorResult("Failed to count feedback", err), nil, nil
	}

	result := ListFeedbackResult{Feedback: entries, Total: total}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("%d of %d feedback entries", len(entries), total),
			},
		},
	}, result, nil
}

// handleExportFeedback handles the export_feedback tool invocation.
func (s *Server) handleExportFeedback(ctx context.Context, req *mcp.CallToolRequest, params struct{}) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", "export_feedback").Info("Tool invoked")

	count, err := s.feedbackStore.Count(ctx)
	if err != nil {
		return s.createErrorResult("Failed to count feedback", err), nil, nil
	}

	path := filepath.Join(s.config.ExportDir(),
		fmt.Sprintf("feedback-export-%s.json", time.Now().UTC().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return s.createErrorResult("Failed to create export file", err), nil, nil
	}
	defer f.Close()

	if err := s.feedbackStore.ExportJSON(ctx, f); err != nil {
		return s.createErrorResult("Failed to export feedback", err), nil, nil
	}

	result := ExportFeedbackResult{Path: path, Count: count}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Exported %d feedback entries to %s", count, path),
			},
		},
	}, result, nil
}

// resolveInputs validates the material/bone/weight triple shared by the
// scoring tools. A nil error result means all three resolved.
func (s *Server) resolveInputs(materialID, boneSiteID string, weightKg float64) (*domain.BiomaterialProfile, *domain.BoneSiteProfile, float64, *mcp.CallToolResult) {
	material, err := s.catalog.MaterialByID(materialID)
	if err != nil {
		return nil, nil, 0, s.createErrorResult("Unknown material", err)
	}
	bone, err := s.catalog.BoneSiteByID(boneSiteID)
	if err != nil {
		return nil, nil, 0, s.createErrorResult("Unknown bone site", err)
	}
	weight, errResult := resolveWeight(weightKg)
	if errResult != nil {
		return nil, nil, 0, errResult
	}
	return material, bone, weight, nil
}

// resolveWeight substitutes the default weight when the parameter is
// omitted and rejects negative values.
func resolveWeight(weightKg float64) (float64, *mcp.CallToolResult) {
	if weightKg == 0 {
		return defaultWeightKg, nil
	}
	if weightKg < 0 {
		return 0, &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Error: Invalid parameter - weight_kg must be positive"},
			},
			IsError: true,
		}
	}
	return weightKg, nil
}

// createErrorResult creates an error result for tool calls.
func (s *Server) createErrorResult(message string, err error) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s", message)
	if err != nil {
		errorText += fmt.Sprintf(" - %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: errorText},
		},
		IsError: true,
	}
}
