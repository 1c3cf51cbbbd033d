// Package feedback provides clinician feedback storage for material
// recommendations. It stores agreements and corrections so recommendation
// quality can be reviewed over time.
package feedback

import (
	"context"
	"io"
	"time"
)

// Rank represents the recommendation rank categories.
type Rank string

const (
	RankOptimalMatch   Rank = "OPTIMAL MATCH"
	RankGoodCandidate  Rank = "GOOD CANDIDATE"
	RankMarginalFit    Rank = "MARGINAL FIT"
	RankNotRecommended Rank = "NOT RECOMMENDED"
)

// Feedback represents a clinician's feedback on a material recommendation.
type Feedback struct {
	ID                  int64     `json:"id,omitempty"`
	MaterialID          string    `json:"material_id"`                     // Recommended material
	BoneSiteID          string    `json:"bone_site_id"`                    // Implant site
	WeightKg            float64   `json:"weight_kg"`                       // Patient weight at scoring time
	SuggestedScore      int       `json:"suggested_score"`                 // System's overall score
	SuggestedRank       Rank      `json:"suggested_rank"`                  // System's rank label
	ClinicianRank       Rank      `json:"clinician_rank"`                  // Clinician's assessment
	ClinicianAgreed     bool      `json:"clinician_agreed"`                // Did the clinician agree?
	PreferredMaterialID string    `json:"preferred_material_id,omitempty"` // Alternative the clinician would choose
	Notes               string    `json:"notes,omitempty"`                 // Clinician notes
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Store defines the interface for feedback storage operations.
type Store interface {
	// Save stores or updates clinician feedback for a recommendation.
	// If feedback for the same material+bone site exists, it will be updated.
	Save(ctx context.Context, feedback *Feedback) error

	// Get retrieves the most recent feedback for a material at a bone site.
	Get(ctx context.Context, materialID string, boneSiteID string) (*Feedback, error)

	// List returns all feedback entries with pagination.
	List(ctx context.Context, limit, offset int) ([]*Feedback, error)

	// Count returns the total number of feedback entries.
	Count(ctx context.Context) (int64, error)

	// Delete removes a feedback entry by ID.
	Delete(ctx context.Context, id int64) error

	// ExportJSON exports all feedback to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON imports feedback from a JSON reader.
	// Returns the number of imported and skipped entries.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close closes the store and releases resources.
	Close() error
}

// FeedbackExport represents the JSON export format.
type FeedbackExport struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Count      int         `json:"count"`
	Feedback   []*Feedback `json:"feedback"`
}
