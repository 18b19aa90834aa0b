package service

import (
	"errors"
	"fmt"

	"github.com/bobibcgroup/safespace/model"

	"gorm.io/gorm"
)

type ActionItemService struct {
	db *gorm.DB
}

func NewActionItemService(db *gorm.DB) *ActionItemService {
	return &ActionItemService{db: db}
}

func (s *ActionItemService) checkCampaignAccess(campaignID uint, userID uint, role string) error {
	var campaign model.Campaign
	err := s.db.Where("id = ?", campaignID).First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get campaign: %v", err)
	}
	if !canAccess(&campaign, userID, role) {
		return ErrForbidden
	}
	return nil
}

func (s *ActionItemService) CreateActionItem(userID uint, role string, req model.CreateActionItemRequest) (*model.ActionItem, error) {
	if err := s.checkCampaignAccess(req.CampaignID, userID, role); err != nil {
		return nil, err
	}

	item := &model.ActionItem{
		CampaignID: req.CampaignID,
		ResponseID: req.ResponseID,
		Title:      req.Title,
		Owner:      req.Owner,
		DueDate:    req.DueDate,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create action item: %v", err)
	}
	return item, nil
}

func (s *ActionItemService) getItem(id uint) (*model.ActionItem, error) {
	var item model.ActionItem
	err := s.db.Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get action item: %v", err)
	}
	return &item, nil
}

func (s *ActionItemService) UpdateActionItem(id uint, userID uint, role string, req model.UpdateActionItemRequest) (*model.ActionItem, error) {
	item, err := s.getItem(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCampaignAccess(item.CampaignID, userID, role); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Owner != nil {
		updates["owner"] = *req.Owner
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.IsCompleted != nil {
		updates["is_completed"] = *req.IsCompleted
	}

	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update action item: %v", err)
		}
	}
	return s.getItem(id)
}

func (s *ActionItemService) DeleteActionItem(id uint, userID uint, role string) error {
	item, err := s.getItem(id)
	if err != nil {
		return err
	}
	if err := s.checkCampaignAccess(item.CampaignID, userID, role); err != nil {
		return err
	}

	if err := s.db.Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete action item: %v", err)
	}
	return nil
}

func (s *ActionItemService) ListActionItems(campaignID uint, userID uint, role string) ([]model.ActionItem, error) {
	if err := s.checkCampaignAccess(campaignID, userID, role); err != nil {
		return nil, err
	}

	var items []model.ActionItem
	if err := s.db.Where("campaign_id = ?", campaignID).
		Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list action items: %v", err)
	}
	return items, nil
}
