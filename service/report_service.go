package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobibcgroup/safespace/model"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const reportSystemPrompt = "You are an expert HR analyst specializing in employee feedback analysis. Provide comprehensive, actionable insights. Always return valid JSON only."

// ReportService produces and stores the per-campaign analytical snapshot.
// The narrative comes from the AI collaborator; the participation numbers
// are computed locally and always win over whatever the collaborator says.
type ReportService struct {
	db *gorm.DB
	ai AIClient
}

func NewReportService(db *gorm.DB, ai AIClient) *ReportService {
	return &ReportService{db: db, ai: ai}
}

type responseContext struct {
	Text      string `json:"text"`
	Mood      string `json:"mood"`
	Sentiment string `json:"sentiment"`
	CreatedAt string `json:"createdAt"`
}

type reportAggregates struct {
	total              int
	avgLength          int
	sentimentCounts    map[string]int
	detailedResponses  int
	actionableFeedback int
	moodBreakdown      map[string]int
}

func computeAggregates(responses []model.Response) reportAggregates {
	agg := reportAggregates{
		total:           len(responses),
		sentimentCounts: map[string]int{"positive": 0, "neutral": 0, "negative": 0},
		moodBreakdown:   map[string]int{},
	}

	totalLength := 0
	for _, r := range responses {
		totalLength += len(r.Text)
		agg.sentimentCounts[r.Sentiment]++
		if len(r.Text) > 200 {
			agg.detailedResponses++
		}
		if isActionable(r.Text) {
			agg.actionableFeedback++
		}
		if r.Mood != nil && *r.Mood != "" {
			agg.moodBreakdown[*r.Mood]++
		}
	}
	if agg.total > 0 {
		agg.avgLength = totalLength / agg.total
	}
	return agg
}

// GenerateReport runs the full procedure: aggregate locally, delegate the
// narrative to the collaborator, validate its payload, persist the single
// report row for the campaign and flip the generated flag. Regeneration
// repeats the whole thing and replaces the prior report in place.
func (s *ReportService) GenerateReport(campaignID uint) (*model.AIReportData, error) {
	if s.ai == nil || !s.ai.Configured() {
		return nil, ErrAINotConfigured
	}

	var campaign model.Campaign
	err := s.db.Where("id = ?", campaignID).First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %v", err)
	}

	var responses []model.Response
	if err := s.db.Where("campaign_id = ?", campaignID).
		Order("created_at DESC").Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses: %v", err)
	}
	if len(responses) == 0 {
		return nil, ErrNoResponses
	}

	agg := computeAggregates(responses)
	prompt := buildReportPrompt(responses, agg)

	log.WithFields(log.Fields{
		"campaign_id": campaignID,
		"responses":   agg.total,
	}).Info("generating AI report")

	content, err := s.ai.CompleteJSON(reportSystemPrompt, prompt, 4000, 0.7)
	if err != nil {
		return nil, err
	}

	payload, err := ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var report model.AIReportData
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	// Local numbers are ground truth for participation; the collaborator's
	// qualitative text for that section is preserved.
	report.Participation.TotalResponses = agg.total
	report.Participation.AverageLength = agg.avgLength
	report.Participation.DetailedResponses = agg.detailedResponses
	report.Participation.ActionableFeedback = agg.actionableFeedback
	report.Participation.MoodBreakdown = agg.moodBreakdown

	if len(report.Recommendations) == 0 && len(report.Suggestions) > 0 {
		for _, suggestion := range report.Suggestions {
			report.Recommendations = append(report.Recommendations, model.ReportRecommendation{
				Title:       suggestion,
				Description: suggestion,
				Priority:    "medium",
				Impact:      "medium",
				Effort:      "medium",
				Timeline:    "1-3 months",
			})
		}
	}

	if err := s.saveReport(campaignID, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *ReportService) saveReport(campaignID uint, report *model.AIReportData) error {
	sentiment, _ := json.Marshal(report.Sentiment)
	themes, _ := json.Marshal(report.Themes)
	highlights, _ := json.Marshal(report.Highlights)
	quotes, _ := json.Marshal(report.Quotes)
	participation, _ := json.Marshal(report.Participation)
	// The suggestions column stores the full enriched payload so newer
	// sections survive without schema changes.
	suggestions, _ := json.Marshal(report)

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.AIReport
		err := tx.Where("campaign_id = ?", campaignID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := model.AIReport{
				CampaignID:    campaignID,
				Summary:       report.Summary,
				Sentiment:     sentiment,
				Themes:        themes,
				Highlights:    highlights,
				Quotes:        quotes,
				Suggestions:   suggestions,
				Participation: participation,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create report: %v", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up report: %v", err)
		default:
			updates := map[string]interface{}{
				"summary":       report.Summary,
				"sentiment":     sentiment,
				"themes":        themes,
				"highlights":    highlights,
				"quotes":        quotes,
				"suggestions":   suggestions,
				"participation": participation,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update report: %v", err)
			}
		}

		if err := tx.Model(&model.Campaign{}).Where("id = ?", campaignID).
			Update("ai_report_generated", true).Error; err != nil {
			return fmt.Errorf("failed to flag campaign: %v", err)
		}
		return nil
	})
}

func (s *ReportService) GetReport(campaignID uint) (*model.AIReport, error) {
	var report model.AIReport
	err := s.db.Where("campaign_id = ?", campaignID).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %v", err)
	}
	return &report, nil
}

// VerifyReportPassword checks the public-report password gate. Returns nil
// when the report is public and either unprotected or the password matches.
func (s *ReportService) VerifyReportPassword(campaignID uint, password string) error {
	var campaign model.Campaign
	err := s.db.Where("id = ?", campaignID).First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get campaign: %v", err)
	}

	if !campaign.PublicReportOn {
		return ErrReportNotPublic
	}
	if campaign.PublicReportPassword == nil || *campaign.PublicReportPassword == "" {
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(*campaign.PublicReportPassword), []byte(password)) != nil {
		return ErrInvalidPassword
	}
	return nil
}

// SuggestActions asks the collaborator for 3-5 action items and 2-4
// categories from a response set. When scoped to a single response, the
// returned categories are persisted onto that response's labels.
func (s *ReportService) SuggestActions(campaignID uint, responseID *uint) (*model.SuggestedActions, error) {
	if s.ai == nil || !s.ai.Configured() {
		return nil, ErrAINotConfigured
	}

	var responses []model.Response
	if responseID != nil {
		var response model.Response
		err := s.db.Where("id = ?", *responseID).First(&response).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoResponses
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get response: %v", err)
		}
		responses = []model.Response{response}
	} else {
		if err := s.db.Where("campaign_id = ?", campaignID).
			Order("created_at DESC").Limit(20).Find(&responses).Error; err != nil {
			return nil, fmt.Errorf("failed to list responses: %v", err)
		}
	}
	if len(responses) == 0 {
		return nil, ErrNoResponses
	}

	texts := make([]string, 0, len(responses))
	for _, r := range responses {
		texts = append(texts, r.Text)
	}

	prompt := fmt.Sprintf(`Based on the following employee feedback responses, suggest 3-5 specific, actionable action items that would address the concerns or build on the positive feedback. Each action item should have:
- A clear, concise title
- A brief description of what needs to be done
- An estimated priority (high, medium, low)

Feedback responses:
%s

Return ONLY valid JSON in this format:
{
  "actionItems": [
    {
      "title": "string",
      "description": "string",
      "priority": "high" | "medium" | "low"
    }
  ],
  "categories": ["string"]
}`, strings.Join(texts, "\n\n"))

	content, err := s.ai.CompleteJSON(
		"You are a helpful assistant that analyzes employee feedback and suggests actionable improvements. Always return valid JSON only.",
		prompt, 0, 0.7)
	if err != nil {
		return nil, err
	}

	payload, err := ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var suggested model.SuggestedActions
	if err := json.Unmarshal([]byte(payload), &suggested); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	if responseID != nil && len(suggested.Categories) > 0 {
		labels, _ := json.Marshal(model.AILabelsData{
			Categories:      suggested.Categories,
			AutoCategorized: true,
			CategorizedAt:   time.Now(),
		})
		if err := s.db.Model(&model.Response{}).Where("id = ?", *responseID).
			Update("ai_labels", labels).Error; err != nil {
			log.WithError(err).Warn("failed to persist suggested categories")
		}
	}

	return &suggested, nil
}

const reportResponseLimit = 100

func buildReportPrompt(responses []model.Response, agg reportAggregates) string {
	contexts := make([]responseContext, 0, len(responses))
	for _, r := range responses {
		mood := "neutral"
		if r.Mood != nil && *r.Mood != "" {
			mood = *r.Mood
		}
		contexts = append(contexts, responseContext{
			Text:      r.Text,
			Mood:      mood,
			Sentiment: r.Sentiment,
			CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	included := contexts
	overflow := ""
	if len(included) > reportResponseLimit {
		included = included[:reportResponseLimit]
		overflow = fmt.Sprintf("\n\n... and %d more responses", len(contexts)-reportResponseLimit)
	}
	encoded, _ := json.MarshalIndent(included, "", "  ")

	return fmt.Sprintf(`You are an expert HR analyst specializing in employee feedback analysis. Provide a comprehensive, actionable analysis of the following feedback.

CAMPAIGN CONTEXT:
- Total Responses: %d
- Average Response Length: %d characters
- Sentiment Distribution: %d positive, %d neutral, %d negative

ANALYZE THE FOLLOWING RESPONSES AND PROVIDE:

1. **Executive Summary** (3-4 sentences): High-level overview, key patterns, overall sentiment, and critical takeaways

2. **Enhanced Sentiment Analysis**: breakdown with percentages, trend (improving/declining/stable), insights, top drivers of positive and negative sentiment, and intensity split (strong/moderate/mild)

3. **Advanced Theme Analysis** (5-7 themes): keyword, description, frequency count, associated sentiment, urgency level, related themes, and a recommended action per theme

4. **Critical Insights** (4-6 highlights): actionable title, detailed description, impact level, associated sentiment, supporting evidence

5. **Prioritized Recommendations** (5-7): title, description, priority, impact, effort, timeline estimate, success metrics, resources needed, dependencies

6. **Action Plan**: quick wins, short-term actions (1-3 months), long-term strategic initiatives (3-6+ months)

7. **Risk Assessment** (3-5 risks): issue, severity, description, potential impact, mitigation steps, timeline

8. **Trend Analysis**: temporal patterns, direction (improving/declining/stable/mixed), prediction

9. **Representative Quotes** (5-6): anonymized text, sentiment, related theme, intensity

10. **Enhanced Participation Metrics**: total responses, average length, engagement quality, participation insights

11. **Comparative Analysis** (if applicable): vs. last quarter and vs. industry

RESPONSES TO ANALYZE:
%s%s

Return ONLY valid JSON with this exact top-level shape:
{
  "summary": "string",
  "sentiment": {"positive": number, "neutral": number, "negative": number, "trend": "string", "insights": "string", "drivers": {"positive": ["string"], "negative": ["string"]}, "intensity": {"strong": number, "moderate": number, "mild": number}},
  "themes": [{"keyword": "string", "description": "string", "count": number, "sentiment": "string", "urgency": "string", "relatedThemes": ["string"], "recommendedAction": "string"}],
  "highlights": [{"title": "string", "description": "string", "impact": "string", "sentiment": "string", "evidence": ["string"]}],
  "quotes": [{"text": "string", "sentiment": "string", "theme": "string", "intensity": "string"}],
  "recommendations": [{"title": "string", "description": "string", "priority": "string", "impact": "string", "effort": "string", "timeline": "string", "successMetrics": ["string"], "resources": ["string"], "dependencies": ["string"]}],
  "trends": {"pattern": "string", "direction": "string", "temporalPatterns": "string", "prediction": "string"},
  "risks": [{"issue": "string", "severity": "string", "description": "string", "impact": "string", "mitigation": ["string"], "timeline": "string"}],
  "participation": {"totalResponses": number, "averageLength": number, "engagementQuality": "string", "insights": "string"},
  "comparative": {"vsLastQuarter": {"sentimentChange": number, "themes": ["string"]}, "vsIndustry": {"strengths": ["string"], "weaknesses": ["string"]}},
  "actionPlan": {"quickWins": [{"title": "string", "description": "string", "impact": "string", "effort": "string", "timeline": "string"}], "shortTerm": [{"title": "string", "description": "string", "timeline": "string"}], "longTerm": [{"title": "string", "description": "string", "timeline": "string"}]}
}`,
		agg.total, agg.avgLength,
		agg.sentimentCounts["positive"], agg.sentimentCounts["neutral"], agg.sentimentCounts["negative"],
		string(encoded), overflow)
}
