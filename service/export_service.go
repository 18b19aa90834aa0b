package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bobibcgroup/safespace/model"

	"gorm.io/gorm"
)

type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

type ExportFilter struct {
	Status    string
	Sentiment string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *ExportService) filteredResponses(campaignID uint, filter ExportFilter) ([]model.Response, error) {
	query := s.db.Where("campaign_id = ?", campaignID).Order("created_at DESC")
	if filter.Status != "" && filter.Status != "all" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Sentiment != "" && filter.Sentiment != "all" {
		query = query.Where("sentiment = ?", filter.Sentiment)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var responses []model.Response
	if err := query.Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses for export: %v", err)
	}
	return responses, nil
}

// ExportCSV renders one row per response with embedded quotes doubled.
func (s *ExportService) ExportCSV(campaignID uint, filter ExportFilter) (string, error) {
	responses, err := s.filteredResponses(campaignID, filter)
	if err != nil {
		return "", err
	}

	lines := []string{"ID,Text,Sentiment,Status,Attention,Mood,Created At"}
	for _, r := range responses {
		mood := ""
		if r.Mood != nil {
			mood = *r.Mood
		}
		text := strings.ReplaceAll(r.Text, `"`, `""`)
		lines = append(lines, fmt.Sprintf(`%d,"%s",%s,%s,%s,%s,%s`,
			r.ID, text, r.Sentiment, r.Status, r.Attention, mood,
			r.CreatedAt.UTC().Format(time.RFC3339)))
	}

	return strings.Join(lines, "\n"), nil
}

func (s *ExportService) ExportJSON(campaignID uint, filter ExportFilter) ([]byte, error) {
	responses, err := s.filteredResponses(campaignID, filter)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(responses, "", "  ")
}

var filenameSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportFilename builds the attachment filename from the campaign title.
func ExportFilename(title, extension string) string {
	safe := filenameSanitizeRe.ReplaceAllString(title, "_")
	return fmt.Sprintf("%s_responses_%s.%s", safe, time.Now().Format("2006-01-02"), extension)
}
