package model

import (
	"time"

	"gorm.io/datatypes"
)

// AIReport is the cached analytical snapshot of a campaign. At most one row
// per campaign; regeneration replaces it in place.
type AIReport struct {
	ID            uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	CampaignID    uint           `json:"campaign_id" gorm:"uniqueIndex;not null"`
	Summary       string         `json:"summary" gorm:"type:text"`
	Sentiment     datatypes.JSON `json:"sentiment"`
	Themes        datatypes.JSON `json:"themes"`
	Highlights    datatypes.JSON `json:"highlights"`
	Quotes        datatypes.JSON `json:"quotes"`
	Suggestions   datatypes.JSON `json:"suggestions"`
	Participation datatypes.JSON `json:"participation"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (AIReport) TableName() string {
	return "ai_reports"
}

// AIReportData is the structured shape the analysis collaborator must return.
// Participation metrics are recomputed locally and overwrite whatever the
// collaborator produced for the numeric fields.
type AIReportData struct {
	Summary         string                 `json:"summary"`
	Sentiment       ReportSentiment        `json:"sentiment"`
	Themes          []ReportTheme          `json:"themes"`
	Highlights      []ReportHighlight      `json:"highlights"`
	Quotes          []ReportQuote          `json:"quotes"`
	Recommendations []ReportRecommendation `json:"recommendations,omitempty"`
	// Legacy field kept for older collaborator outputs; mapped onto
	// Recommendations when the structured list is absent.
	Suggestions   []string            `json:"suggestions,omitempty"`
	Trends        *ReportTrends       `json:"trends,omitempty"`
	Risks         []ReportRisk        `json:"risks,omitempty"`
	Participation ReportParticipation `json:"participation"`
	Comparative   *ReportComparative  `json:"comparative,omitempty"`
	ActionPlan    *ReportActionPlan   `json:"actionPlan,omitempty"`
}

type ReportSentiment struct {
	Positive  float64                 `json:"positive"`
	Neutral   float64                 `json:"neutral"`
	Negative  float64                 `json:"negative"`
	Trend     string                  `json:"trend,omitempty"`
	Insights  string                  `json:"insights,omitempty"`
	Drivers   *ReportSentimentDrivers `json:"drivers,omitempty"`
	Intensity *ReportIntensity        `json:"intensity,omitempty"`
}

type ReportSentimentDrivers struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

type ReportIntensity struct {
	Strong   float64 `json:"strong"`
	Moderate float64 `json:"moderate"`
	Mild     float64 `json:"mild"`
}

type ReportTheme struct {
	Keyword           string   `json:"keyword"`
	Description       string   `json:"description"`
	Count             int      `json:"count"`
	Sentiment         string   `json:"sentiment,omitempty"`
	Urgency           string   `json:"urgency,omitempty"`
	RelatedThemes     []string `json:"relatedThemes,omitempty"`
	RecommendedAction string   `json:"recommendedAction,omitempty"`
}

type ReportHighlight struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact,omitempty"`
	Sentiment   string   `json:"sentiment,omitempty"`
	Evidence    []string `json:"evidence,omitempty"`
}

type ReportQuote struct {
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	Theme     string `json:"theme,omitempty"`
	Intensity string `json:"intensity,omitempty"`
}

type ReportRecommendation struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Priority       string   `json:"priority"`
	Impact         string   `json:"impact"`
	Effort         string   `json:"effort"`
	Timeline       string   `json:"timeline,omitempty"`
	SuccessMetrics []string `json:"successMetrics,omitempty"`
	Resources      []string `json:"resources,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
}

type ReportTrends struct {
	Pattern          string `json:"pattern,omitempty"`
	Direction        string `json:"direction,omitempty"`
	TemporalPatterns string `json:"temporalPatterns,omitempty"`
	Prediction       string `json:"prediction,omitempty"`
}

type ReportRisk struct {
	Issue       string   `json:"issue"`
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	Impact      string   `json:"impact,omitempty"`
	Mitigation  []string `json:"mitigation,omitempty"`
	Timeline    string   `json:"timeline,omitempty"`
}

type ReportParticipation struct {
	TotalResponses     int            `json:"totalResponses"`
	AverageLength      int            `json:"averageLength"`
	EngagementQuality  string         `json:"engagementQuality,omitempty"`
	Insights           string         `json:"insights,omitempty"`
	MoodBreakdown      map[string]int `json:"moodBreakdown,omitempty"`
	DetailedResponses  int            `json:"detailedResponses"`
	ActionableFeedback int            `json:"actionableFeedback"`
}

type ReportComparative struct {
	VsLastQuarter *struct {
		SentimentChange float64  `json:"sentimentChange,omitempty"`
		Themes          []string `json:"themes,omitempty"`
	} `json:"vsLastQuarter,omitempty"`
	VsIndustry *struct {
		Strengths  []string `json:"strengths,omitempty"`
		Weaknesses []string `json:"weaknesses,omitempty"`
	} `json:"vsIndustry,omitempty"`
}

type ReportActionPlan struct {
	QuickWins []ReportPlannedAction `json:"quickWins,omitempty"`
	ShortTerm []ReportPlannedAction `json:"shortTerm,omitempty"`
	LongTerm  []ReportPlannedAction `json:"longTerm,omitempty"`
}

type ReportPlannedAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact,omitempty"`
	Effort      string `json:"effort,omitempty"`
	Timeline    string `json:"timeline,omitempty"`
}

type GenerateReportRequest struct {
	CampaignID uint `json:"campaign_id" binding:"required"`
}

type VerifyReportPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type SuggestActionsRequest struct {
	CampaignID uint  `json:"campaign_id" binding:"required"`
	ResponseID *uint `json:"response_id"`
}

// SuggestedActions is the shape of the lighter-weight suggestion call.
type SuggestedActions struct {
	ActionItems []SuggestedActionItem `json:"actionItems"`
	Categories  []string              `json:"categories"`
}

type SuggestedActionItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}
