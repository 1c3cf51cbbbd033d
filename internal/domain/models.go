package domain

import (
	"time"
)

// Core Enums and Types

// MaterialCategory represents the structural class of an implant biomaterial
type MaterialCategory string

const (
	METAL     MaterialCategory = "metal"
	CERAMIC   MaterialCategory = "ceramic"
	POLYMER   MaterialCategory = "polymer"
	COMPOSITE MaterialCategory = "composite"
)

// Urgency represents the clinical urgency classification of a patient case
type Urgency string

const (
	URGENCY_CRITICAL Urgency = "critical"
	URGENCY_HIGH     Urgency = "high"
	URGENCY_MODERATE Urgency = "moderate"
	URGENCY_LOW      Urgency = "low"
)

// RankLabel represents the qualitative tier assigned to an overall score
type RankLabel string

const (
	OPTIMAL_MATCH   RankLabel = "OPTIMAL MATCH"
	GOOD_CANDIDATE  RankLabel = "GOOD CANDIDATE"
	MARGINAL_FIT    RankLabel = "MARGINAL FIT"
	NOT_RECOMMENDED RankLabel = "NOT RECOMMENDED"
)

// Catalog Models

// BiomaterialProfile represents a catalog-defined implant material.
// Scoring fields (biocompatibility through wearResistance) are tiered
// clinical ratings on a 0-1 scale; a yield strength of zero is a sentinel
// meaning "no ductile yield point" (brittle ceramics), not a weak material.
type BiomaterialProfile struct {
	ID                  string           `json:"id"`
	Label               string           `json:"label"`
	Category            MaterialCategory `json:"category"`
	ElasticModulus      float64          `json:"elastic_modulus"`      // GPa
	YieldStrength       float64          `json:"yield_strength"`       // MPa, 0 = no ductile yield
	Biocompatibility    float64          `json:"biocompatibility"`     // 0-1, ISO 10993-5 tier
	Osseointegration    float64          `json:"osseointegration"`     // 0-1, ISQ/BIC clinical tier
	CorrosionResistance float64          `json:"corrosion_resistance"` // 0-1, i_corr/degradation tier
	WearResistance      float64          `json:"wear_resistance"`      // 0-1, Archard K tier (inverse)
	IsBiodegradable     bool             `json:"is_biodegradable"`
	Density             float64          `json:"density"` // g/cm^3, informational only
	Color               string           `json:"color"`   // presentation token, not scored
}

// BoneSiteProfile represents a catalog-defined implant site.
type BoneSiteProfile struct {
	ID                  string  `json:"id"`
	Label               string  `json:"label"`
	NaturalModulus      float64 `json:"natural_modulus"`       // GPa cortical reference
	TargetYieldStrength float64 `json:"target_yield_strength"` // MPa, load-area proxy
	VascularityFactor   float64 `json:"vascularity_factor"`    // 0-1
}

// Session Input Models

// PatientContext holds the session-scoped patient parameters.
// Name, age and blood group are display-only; urgency and weight feed the
// report builder and scoring respectively.
type PatientContext struct {
	Name       string  `json:"name"`
	Age        string  `json:"age"`
	BloodGroup string  `json:"blood_group"`
	Urgency    Urgency `json:"urgency"`
}

// Derived Models

// RadarAxis is one chart axis of the compatibility breakdown.
// Axis order is significant and drives presentation.
type RadarAxis struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// CompatibilityBreakdown represents the scored compatibility of one
// material against one bone site and patient weight. All values are
// integers in [0,100].
type CompatibilityBreakdown struct {
	Overall             int         `json:"overall"`
	StiffnessMatch      int         `json:"stiffness_match"`
	Biocompatibility    int         `json:"biocompatibility"`
	Osseointegration    int         `json:"osseointegration"`
	CorrosionResistance int         `json:"corrosion_resistance"`
	WeightLoad          int         `json:"weight_load"`
	RadarAxes           []RadarAxis `json:"radar_axes"`
}

// ScoredMaterial pairs a material with its breakdown for a fixed
// bone/weight context. Ranking-time record, never persisted.
type ScoredMaterial struct {
	Material  BiomaterialProfile     `json:"material"`
	Breakdown CompatibilityBreakdown `json:"breakdown"`
}

// Report Models

// ReportStat is a single labelled sub-score surfaced in the report.
type ReportStat struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// BestMatch summarizes the top-ranked material in a results report.
type BestMatch struct {
	MaterialLabel    string           `json:"material_label"`
	MaterialCategory MaterialCategory `json:"material_category"`
	MaterialColor    string           `json:"material_color"`
	OverallScore     int              `json:"overall_score"`
	RankLabel        RankLabel        `json:"rank_label"`
	TopStats         []ReportStat     `json:"top_stats"`
}

// ResultsReport is the session-scoped narrative report generated on
// explicit request. Regenerated whole, never incrementally updated.
type ResultsReport struct {
	BestMatch       BestMatch `json:"best_match"`
	PatientNote     string    `json:"patient_note"`
	DoctorQuestions []string  `json:"doctor_questions"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Configuration Models

// Config represents the main application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Session   SessionConfig   `mapstructure:"session"`
	Report    ReportConfig    `mapstructure:"report"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Feedback  FeedbackConfig  `mapstructure:"feedback"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SessionConfig represents session store configuration
type SessionConfig struct {
	Store    string        `mapstructure:"store"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ReportConfig represents report generation pacing configuration
type ReportConfig struct {
	GenerationDelay time.Duration `mapstructure:"generation_delay"`
}

// AssistantConfig represents the upstream chat-completion proxy configuration
type AssistantConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"` // requests/sec per client
	RateBurst   int           `mapstructure:"rate_burst"`
}

// FeedbackConfig represents clinician feedback store configuration
type FeedbackConfig struct {
	Backend     string `mapstructure:"backend"` // "sqlite" or "postgres"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
