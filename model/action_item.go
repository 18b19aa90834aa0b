package model

import (
	"time"
)

type ActionItem struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	CampaignID  uint       `json:"campaign_id" gorm:"not null;index"`
	ResponseID  *uint      `json:"response_id" gorm:"index"`
	Title       string     `json:"title" gorm:"not null;size:255"`
	Owner       *string    `json:"owner" gorm:"size:255"`
	DueDate     *time.Time `json:"due_date"`
	IsCompleted bool       `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ActionItem) TableName() string {
	return "action_items"
}

type CreateActionItemRequest struct {
	CampaignID uint       `json:"campaign_id" binding:"required"`
	ResponseID *uint      `json:"response_id"`
	Title      string     `json:"title" binding:"required"`
	Owner      *string    `json:"owner"`
	DueDate    *time.Time `json:"due_date"`
}

type UpdateActionItemRequest struct {
	Title       *string    `json:"title"`
	Owner       *string    `json:"owner"`
	DueDate     *time.Time `json:"due_date"`
	IsCompleted *bool      `json:"is_completed"`
}
