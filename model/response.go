package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

const (
	AttentionUrgent   = "urgent"
	AttentionModerate = "moderate"
	AttentionPositive = "positive"
)

// Triage statuses for the kanban board. Any status may move to any other by
// explicit user action; none is terminal.
const (
	StatusNew            = "new"
	StatusNeedsAttention = "needs_attention"
	StatusInReview       = "in_review"
	StatusResolved       = "resolved"
	StatusParked         = "parked"
)

// The five mood emojis accepted on submission.
var Moods = []string{"😀", "🙂", "😐", "🙁", "😞"}

type Response struct {
	ID         uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	CampaignID uint           `json:"campaign_id" gorm:"not null;index"`
	Text       string         `json:"text" gorm:"not null;type:text"`
	Mood       *string        `json:"mood" gorm:"size:8"`
	Sentiment  string         `json:"sentiment" gorm:"not null;default:neutral;size:20"`
	Attention  string         `json:"attention" gorm:"not null;default:moderate;size:20"`
	Status     string         `json:"status" gorm:"not null;default:new;size:20;index"`
	Themes     datatypes.JSON `json:"themes"`
	Tags       datatypes.JSON `json:"tags"`
	AILabels   datatypes.JSON `json:"ai_labels"`
	AssignedTo *uint          `json:"assigned_to"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Response) TableName() string {
	return "responses"
}

// AILabelsData is the closed shape of the auto-categorization blob.
type AILabelsData struct {
	Categories      []string  `json:"categories"`
	AutoCategorized bool      `json:"autoCategorized"`
	CategorizedAt   time.Time `json:"categorizedAt"`
}

// TagList decodes the stored tag array; an empty column yields an empty list.
func (r *Response) TagList() []string {
	return decodeStringList(r.Tags)
}

func (r *Response) ThemeList() []string {
	return decodeStringList(r.Themes)
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

// EncodeStringList marshals a tag/theme list for storage. The input is small
// and well-formed, so the marshal cannot fail.
func EncodeStringList(list []string) datatypes.JSON {
	raw, _ := json.Marshal(list)
	return raw
}

type CreateResponseRequest struct {
	// Accepts either the numeric campaign id or its slug.
	CampaignID string  `json:"campaign_id" binding:"required"`
	Text       string  `json:"text" binding:"required"`
	Mood       *string `json:"mood" binding:"omitempty,oneof=😀 🙂 😐 🙁 😞"`
}

type UpdateResponseRequest struct {
	Status          *string  `json:"status" binding:"omitempty,oneof=new needs_attention in_review resolved parked"`
	Sentiment       *string  `json:"sentiment" binding:"omitempty,oneof=positive neutral negative"`
	Attention       *string  `json:"attention" binding:"omitempty,oneof=urgent moderate positive"`
	Themes          []string `json:"themes"`
	Tags            []string `json:"tags"`
	AssignedTo      *uint    `json:"assigned_to"`
	ClearAssignedTo bool     `json:"clear_assigned_to"`
}

type BulkUpdateResponsesRequest struct {
	ResponseIDs     []uint  `json:"response_ids" binding:"required,min=1"`
	Status          *string `json:"status" binding:"omitempty,oneof=new needs_attention in_review resolved parked"`
	AssignedTo      *uint   `json:"assigned_to"`
	ClearAssignedTo bool    `json:"clear_assigned_to"`
	// AddTag is unioned into each response's existing tag set individually.
	AddTag *string `json:"add_tag"`
}
