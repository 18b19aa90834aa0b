package service

import (
	"errors"
	"fmt"

	"github.com/bobibcgroup/safespace/model"

	"gorm.io/gorm"
)

type NoteService struct {
	db *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{db: db}
}

// campaignIDForNote resolves which campaign a note attaches to, following the
// response link when the note targets a response directly.
func (s *NoteService) campaignIDForNote(campaignID, responseID *uint) (uint, error) {
	if responseID != nil {
		var response model.Response
		err := s.db.Where("id = ?", *responseID).First(&response).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("failed to get response: %v", err)
		}
		return response.CampaignID, nil
	}
	if campaignID != nil {
		return *campaignID, nil
	}
	return 0, ErrNotFound
}

// checkCampaignAccess enforces the campaign-scoped annotation rule: any
// authenticated user with access to the campaign may annotate within it.
func (s *NoteService) checkCampaignAccess(campaignID uint, userID uint, role string) error {
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

func (s *NoteService) CreateNote(userID uint, role string, req model.CreateNoteRequest) (*model.Note, error) {
	campaignID, err := s.campaignIDForNote(req.CampaignID, req.ResponseID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCampaignAccess(campaignID, userID, role); err != nil {
		return nil, err
	}

	note := &model.Note{
		CampaignID: req.CampaignID,
		ResponseID: req.ResponseID,
		UserID:     userID,
		Text:       req.Text,
	}
	if err := s.db.Create(note).Error; err != nil {
		return nil, fmt.Errorf("failed to create note: %v", err)
	}
	return note, nil
}

func (s *NoteService) getNote(id uint) (*model.Note, error) {
	var note model.Note
	err := s.db.Where("id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %v", err)
	}
	return &note, nil
}

func (s *NoteService) noteCampaignAccess(note *model.Note, userID uint, role string) error {
	campaignID, err := s.campaignIDForNote(note.CampaignID, note.ResponseID)
	if err != nil {
		return err
	}
	return s.checkCampaignAccess(campaignID, userID, role)
}

func (s *NoteService) UpdateNote(id uint, userID uint, role string, req model.UpdateNoteRequest) (*model.Note, error) {
	note, err := s.getNote(id)
	if err != nil {
		return nil, err
	}
	if err := s.noteCampaignAccess(note, userID, role); err != nil {
		return nil, err
	}

	if err := s.db.Model(note).Update("text", req.Text).Error; err != nil {
		return nil, fmt.Errorf("failed to update note: %v", err)
	}
	return s.getNote(id)
}

func (s *NoteService) DeleteNote(id uint, userID uint, role string) error {
	note, err := s.getNote(id)
	if err != nil {
		return err
	}
	if err := s.noteCampaignAccess(note, userID, role); err != nil {
		return err
	}

	if err := s.db.Delete(note).Error; err != nil {
		return fmt.Errorf("failed to delete note: %v", err)
	}
	return nil
}

// ListNotes returns a campaign's notes with their authors, newest first.
func (s *NoteService) ListNotes(campaignID uint, userID uint, role string) ([]model.Note, error) {
	if err := s.checkCampaignAccess(campaignID, userID, role); err != nil {
		return nil, err
	}

	var responseIDs []uint
	if err := s.db.Model(&model.Response{}).Where("campaign_id = ?", campaignID).
		Pluck("id", &responseIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list responses: %v", err)
	}

	query := s.db.Preload("User").Order("created_at DESC")
	if len(responseIDs) > 0 {
		query = query.Where("campaign_id = ? OR response_id IN ?", campaignID, responseIDs)
	} else {
		query = query.Where("campaign_id = ?", campaignID)
	}

	var notes []model.Note
	if err := query.Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %v", err)
	}
	return notes, nil
}
