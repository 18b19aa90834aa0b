package model

import (
	"time"
)

// Note is an annotation attached to a response or directly to a campaign.
// Exactly one of CampaignID/ResponseID is set at creation.
type Note struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CampaignID *uint     `json:"campaign_id" gorm:"index"`
	ResponseID *uint     `json:"response_id" gorm:"index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"not null;type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Note) TableName() string {
	return "notes"
}

type CreateNoteRequest struct {
	CampaignID *uint  `json:"campaign_id"`
	ResponseID *uint  `json:"response_id"`
	Text       string `json:"text" binding:"required"`
}

type UpdateNoteRequest struct {
	Text string `json:"text" binding:"required"`
}
