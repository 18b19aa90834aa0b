package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bobibcgroup/safespace/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CampaignService struct {
	db *gorm.DB
}

func NewCampaignService(db *gorm.DB) *CampaignService {
	return &CampaignService{db: db}
}

// canAccess applies the uniform ownership rule: admins see everything, HR
// users only campaigns they own.
func canAccess(campaign *model.Campaign, userID uint, role string) bool {
	if role == model.RoleAdmin {
		return true
	}
	return campaign.UserID != nil && *campaign.UserID == userID
}

func (s *CampaignService) CreateCampaign(userID uint, req model.CreateCampaignRequest) (*model.Campaign, error) {
	now := time.Now()
	shouldStartNow := req.StartDate == nil || !req.StartDate.After(now)

	slug, err := s.uniqueSlug(req.Title)
	if err != nil {
		return nil, err
	}

	campaign := &model.Campaign{
		Title:             req.Title,
		Slug:              slug,
		Question:          req.Question,
		StartDate:         req.StartDate,
		CloseDate:         req.CloseDate,
		IsActive:          shouldStartNow,
		IsRecurring:       req.IsRecurring,
		RecurringInterval: req.RecurringInterval,
		UserID:            &userID,
	}

	if err := s.db.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %v", err)
	}
	return campaign, nil
}

func (s *CampaignService) uniqueSlug(title string) (string, error) {
	baseSlug := GenerateSlug(title)

	var existing []string
	if err := s.db.Model(&model.Campaign{}).Pluck("slug", &existing).Error; err != nil {
		return "", fmt.Errorf("failed to load existing slugs: %v", err)
	}
	return EnsureUniqueSlug(baseSlug, existing), nil
}

// GetCampaign looks a campaign up by numeric id or slug. Slug lookup falls
// back to id lookup so previously issued links keep working.
func (s *CampaignService) GetCampaign(idOrSlug string) (*model.Campaign, error) {
	var campaign model.Campaign

	if id, convErr := strconv.ParseUint(idOrSlug, 10, 32); convErr == nil {
		err := s.db.Where("id = ?", uint(id)).First(&campaign).Error
		if err == nil {
			return &campaign, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get campaign: %v", err)
		}
	}

	err := s.db.Where("slug = ?", idOrSlug).First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %v", err)
	}
	return &campaign, nil
}

func (s *CampaignService) GetCampaignByID(id uint) (*model.Campaign, error) {
	var campaign model.Campaign
	err := s.db.Where("id = ?", id).First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %v", err)
	}
	return &campaign, nil
}

// GetCampaignForUser fetches a campaign and enforces the ownership rule.
func (s *CampaignService) GetCampaignForUser(idOrSlug string, userID uint, role string) (*model.Campaign, error) {
	campaign, err := s.GetCampaign(idOrSlug)
	if err != nil {
		return nil, err
	}
	if !canAccess(campaign, userID, role) {
		return nil, ErrForbidden
	}
	return campaign, nil
}

// CampaignDetail bundles a campaign with everything hanging off it for the
// dashboard detail view.
type CampaignDetail struct {
	Campaign    *model.Campaign
	Responses   []model.Response
	Notes       []model.Note
	ActionItems []model.ActionItem
}

// GetCampaignDetail loads the campaign together with its responses, notes
// (with authors) and action items, enforcing the ownership rule. Notes
// attached to the campaign's responses are included alongside campaign-level
// ones.
func (s *CampaignService) GetCampaignDetail(idOrSlug string, userID uint, role string) (*CampaignDetail, error) {
	campaign, err := s.GetCampaignForUser(idOrSlug, userID, role)
	if err != nil {
		return nil, err
	}

	detail := &CampaignDetail{Campaign: campaign}

	if err := s.db.Where("campaign_id = ?", campaign.ID).
		Order("created_at DESC").Find(&detail.Responses).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses: %v", err)
	}

	responseIDs := make([]uint, 0, len(detail.Responses))
	for _, r := range detail.Responses {
		responseIDs = append(responseIDs, r.ID)
	}
	noteQuery := s.db.Preload("User").Order("created_at DESC")
	if len(responseIDs) > 0 {
		noteQuery = noteQuery.Where("campaign_id = ? OR response_id IN ?", campaign.ID, responseIDs)
	} else {
		noteQuery = noteQuery.Where("campaign_id = ?", campaign.ID)
	}
	if err := noteQuery.Find(&detail.Notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %v", err)
	}

	if err := s.db.Where("campaign_id = ?", campaign.ID).
		Order("created_at DESC").Find(&detail.ActionItems).Error; err != nil {
		return nil, fmt.Errorf("failed to list action items: %v", err)
	}

	return detail, nil
}

// ListCampaigns returns campaigns visible to the caller, newest first.
func (s *CampaignService) ListCampaigns(userID uint, role string) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	query := s.db.Order("created_at DESC")
	if role != model.RoleAdmin {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %v", err)
	}
	return campaigns, nil
}

func (s *CampaignService) CountResponses(campaignID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&model.Response{}).Where("campaign_id = ?", campaignID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count responses: %v", err)
	}
	return count, nil
}

func (s *CampaignService) UpdateCampaign(idOrSlug string, userID uint, role string, req model.UpdateCampaignRequest) (*model.Campaign, error) {
	campaign, err := s.GetCampaignForUser(idOrSlug, userID, role)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Question != nil {
		updates["question"] = *req.Question
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	} else if req.ClearStartDate {
		updates["start_date"] = nil
	}
	if req.CloseDate != nil {
		updates["close_date"] = *req.CloseDate
	} else if req.ClearCloseDate {
		updates["close_date"] = nil
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.PublicReportOn != nil {
		updates["public_report_on"] = *req.PublicReportOn
	}
	if req.PublicReportPassword != nil {
		if *req.PublicReportPassword == "" {
			updates["public_report_password"] = nil
		} else {
			hash, hashErr := bcrypt.GenerateFromPassword([]byte(*req.PublicReportPassword), bcrypt.DefaultCost)
			if hashErr != nil {
				return nil, fmt.Errorf("failed to hash report password: %v", hashErr)
			}
			updates["public_report_password"] = string(hash)
		}
	}
	if req.IsRecurring != nil {
		updates["is_recurring"] = *req.IsRecurring
	}
	if req.RecurringInterval != nil {
		updates["recurring_interval"] = *req.RecurringInterval
	}

	if len(updates) > 0 {
		if err := s.db.Model(campaign).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update campaign: %v", err)
		}
	}

	return s.GetCampaignByID(campaign.ID)
}

// DeleteCampaign removes a campaign and all of its children in one
// transaction. Admin-only; the handler enforces the role gate.
func (s *CampaignService) DeleteCampaign(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var campaign model.Campaign
		if err := tx.Where("id = ?", id).First(&campaign).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get campaign: %v", err)
		}

		var responseIDs []uint
		if err := tx.Model(&model.Response{}).Where("campaign_id = ?", id).Pluck("id", &responseIDs).Error; err != nil {
			return fmt.Errorf("failed to list campaign responses: %v", err)
		}

		if len(responseIDs) > 0 {
			if err := tx.Where("response_id IN ?", responseIDs).Delete(&model.Note{}).Error; err != nil {
				return fmt.Errorf("failed to delete response notes: %v", err)
			}
		}
		if err := tx.Where("campaign_id = ?", id).Delete(&model.Note{}).Error; err != nil {
			return fmt.Errorf("failed to delete campaign notes: %v", err)
		}
		if err := tx.Where("campaign_id = ?", id).Delete(&model.ActionItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete action items: %v", err)
		}
		if err := tx.Where("campaign_id = ?", id).Delete(&model.Response{}).Error; err != nil {
			return fmt.Errorf("failed to delete responses: %v", err)
		}
		if err := tx.Where("campaign_id = ?", id).Delete(&model.AIReport{}).Error; err != nil {
			return fmt.Errorf("failed to delete report: %v", err)
		}
		if err := tx.Delete(&campaign).Error; err != nil {
			return fmt.Errorf("failed to delete campaign: %v", err)
		}
		return nil
	})
}

// CloneCampaign duplicates a campaign's editable fields under a fresh slug.
// The clone always starts inactive so the owner reviews it before going live.
func (s *CampaignService) CloneCampaign(idOrSlug string, userID uint, role string, includeResponses bool) (*model.Campaign, error) {
	original, err := s.GetCampaignForUser(idOrSlug, userID, role)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(original.Title + " (Copy)")
	if err != nil {
		return nil, err
	}

	clone := &model.Campaign{
		Title:             original.Title + " (Copy)",
		Slug:              slug,
		Question:          original.Question,
		CloseDate:         original.CloseDate,
		IsActive:          false,
		IsRecurring:       original.IsRecurring,
		RecurringInterval: original.RecurringInterval,
		UserID:            &userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(clone).Error; err != nil {
			return fmt.Errorf("failed to clone campaign: %v", err)
		}

		if !includeResponses {
			return nil
		}

		var responses []model.Response
		if err := tx.Where("campaign_id = ?", original.ID).Find(&responses).Error; err != nil {
			return fmt.Errorf("failed to load responses for clone: %v", err)
		}
		for _, r := range responses {
			copied := model.Response{
				CampaignID: clone.ID,
				Text:       r.Text,
				Mood:       r.Mood,
				Sentiment:  r.Sentiment,
				Attention:  r.Attention,
				Status:     r.Status,
				Themes:     r.Themes,
				Tags:       r.Tags,
				AILabels:   r.AILabels,
			}
			if err := tx.Create(&copied).Error; err != nil {
				return fmt.Errorf("failed to copy response: %v", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return clone, nil
}
