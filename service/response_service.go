package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bobibcgroup/safespace/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ResponseService struct {
	db       *gorm.DB
	ai       AIClient
	notifier *NotificationService
}

func NewResponseService(db *gorm.DB, ai AIClient, notifier *NotificationService) *ResponseService {
	return &ResponseService{db: db, ai: ai, notifier: notifier}
}

// CreateResponse handles an anonymous submission against an open campaign.
// Classification is synchronous; AI categorization and the owner notification
// are best-effort and never fail the creation.
func (s *ResponseService) CreateResponse(campaigns *CampaignService, req model.CreateResponseRequest) (*model.Response, error) {
	campaign, err := campaigns.GetCampaign(req.CampaignID)
	if err != nil {
		return nil, err
	}
	if !campaign.IsOpen(time.Now()) {
		return nil, ErrCampaignClosed
	}

	classification := Classify(req.Text, req.Mood)

	response := &model.Response{
		CampaignID: campaign.ID,
		Text:       req.Text,
		Mood:       req.Mood,
		Sentiment:  classification.Sentiment,
		Attention:  classification.Attention,
		Status:     classification.Status,
	}

	if labels := s.categorize(req.Text); labels != nil {
		raw, _ := json.Marshal(labels)
		response.AILabels = raw
	}

	if err := s.db.Create(response).Error; err != nil {
		return nil, fmt.Errorf("failed to create response: %v", err)
	}

	if s.notifier != nil {
		// Detached so the submitter never waits on Telegram.
		go s.notifier.NotifyNewResponse(campaign, response)
	}

	return response, nil
}

// categorize asks the AI collaborator for 1-3 topic labels. Any failure is
// logged and discarded.
func (s *ResponseService) categorize(text string) *model.AILabelsData {
	if s.ai == nil || !s.ai.Configured() {
		return nil
	}

	prompt := fmt.Sprintf(`Categorize this feedback into 1-3 relevant categories (e.g., "workplace culture", "communication", "tools", "work-life balance", "compensation", "management", "team dynamics"). Return JSON: {"categories": ["category1", "category2"]}

Feedback: %s`, text)

	content, err := s.ai.CompleteJSON(
		"You are a helpful assistant that categorizes employee feedback. Return only JSON with categories array.",
		prompt, 0, 0.3)
	if err != nil {
		log.WithError(err).Warn("auto-categorization failed, continuing without labels")
		return nil
	}

	payload, err := ExtractJSONObject(content)
	if err != nil {
		log.WithError(err).Warn("auto-categorization returned no JSON, continuing without labels")
		return nil
	}

	var parsed struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil || len(parsed.Categories) == 0 {
		return nil
	}

	return &model.AILabelsData{
		Categories:      parsed.Categories,
		AutoCategorized: true,
		CategorizedAt:   time.Now(),
	}
}

// GetResponseForUser fetches a response and enforces ownership through its
// parent campaign.
func (s *ResponseService) GetResponseForUser(id uint, userID uint, role string) (*model.Response, error) {
	var response model.Response
	err := s.db.Where("id = ?", id).First(&response).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %v", err)
	}

	if role != model.RoleAdmin {
		var campaign model.Campaign
		if err := s.db.Where("id = ?", response.CampaignID).First(&campaign).Error; err != nil {
			return nil, fmt.Errorf("failed to get parent campaign: %v", err)
		}
		if campaign.UserID == nil || *campaign.UserID != userID {
			return nil, ErrForbidden
		}
	}

	return &response, nil
}

type ResponseFilter struct {
	CampaignID *uint
	Status     string
	Sentiment  string
}

// ListResponses returns responses visible to the caller, newest first.
func (s *ResponseService) ListResponses(userID uint, role string, filter ResponseFilter) ([]model.Response, error) {
	query := s.db.Model(&model.Response{}).Order("responses.created_at DESC")

	if role != model.RoleAdmin {
		query = query.Joins("JOIN campaigns ON campaigns.id = responses.campaign_id").
			Where("campaigns.user_id = ?", userID)
	}
	if filter.CampaignID != nil {
		query = query.Where("responses.campaign_id = ?", *filter.CampaignID)
	}
	if filter.Status != "" && filter.Status != "all" {
		query = query.Where("responses.status = ?", filter.Status)
	}
	if filter.Sentiment != "" && filter.Sentiment != "all" {
		query = query.Where("responses.sentiment = ?", filter.Sentiment)
	}

	var responses []model.Response
	if err := query.Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses: %v", err)
	}
	return responses, nil
}

func (s *ResponseService) UpdateResponse(id uint, userID uint, role string, req model.UpdateResponseRequest) (*model.Response, error) {
	response, err := s.GetResponseForUser(id, userID, role)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Sentiment != nil {
		updates["sentiment"] = *req.Sentiment
	}
	if req.Attention != nil {
		updates["attention"] = *req.Attention
	}
	if req.Themes != nil {
		updates["themes"] = model.EncodeStringList(req.Themes)
	}
	if req.Tags != nil {
		updates["tags"] = model.EncodeStringList(req.Tags)
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	} else if req.ClearAssignedTo {
		updates["assigned_to"] = nil
	}

	if len(updates) > 0 {
		if err := s.db.Model(response).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update response: %v", err)
		}
	}

	return s.GetResponseForUser(id, userID, role)
}

// BulkUpdate applies status/assignee/tag changes to a set of responses.
// Authorization is checked for the entire id set before any row is touched;
// a single inaccessible response rejects the whole request.
func (s *ResponseService) BulkUpdate(userID uint, role string, req model.BulkUpdateResponsesRequest) (int64, error) {
	var responses []model.Response
	if err := s.db.Where("id IN ?", req.ResponseIDs).Find(&responses).Error; err != nil {
		return 0, fmt.Errorf("failed to load responses: %v", err)
	}

	if role != model.RoleAdmin {
		campaignIDs := make([]uint, 0, len(responses))
		for _, r := range responses {
			campaignIDs = append(campaignIDs, r.CampaignID)
		}
		var owned int64
		if err := s.db.Model(&model.Campaign{}).
			Where("id IN ? AND user_id = ?", campaignIDs, userID).
			Count(&owned).Error; err != nil {
			return 0, fmt.Errorf("failed to verify campaign ownership: %v", err)
		}
		distinct := make(map[uint]struct{})
		for _, id := range campaignIDs {
			distinct[id] = struct{}{}
		}
		if owned != int64(len(distinct)) {
			return 0, ErrForbidden
		}
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	} else if req.ClearAssignedTo {
		updates["assigned_to"] = nil
	}

	var updated int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			result := tx.Model(&model.Response{}).Where("id IN ?", req.ResponseIDs).Updates(updates)
			if result.Error != nil {
				return fmt.Errorf("failed to bulk update responses: %v", result.Error)
			}
			updated = result.RowsAffected
		}

		if req.AddTag != nil && *req.AddTag != "" {
			// Tag append unions into each response's own tag set.
			for _, r := range responses {
				tags := r.TagList()
				exists := false
				for _, t := range tags {
					if t == *req.AddTag {
						exists = true
						break
					}
				}
				if exists {
					continue
				}
				tags = append(tags, *req.AddTag)
				if err := tx.Model(&model.Response{}).Where("id = ?", r.ID).
					Update("tags", model.EncodeStringList(tags)).Error; err != nil {
					return fmt.Errorf("failed to append tag: %v", err)
				}
			}
			updated = int64(len(responses))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}
