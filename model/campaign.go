package model

import (
	"time"
)

const (
	IntervalWeekly    = "weekly"
	IntervalMonthly   = "monthly"
	IntervalQuarterly = "quarterly"
)

// Campaign lifecycle labels. Derived from the raw fields on every read,
// never persisted.
const (
	CampaignScheduled = "scheduled"
	CampaignActive    = "active"
	CampaignPaused    = "paused"
	CampaignFinished  = "finished"
)

type Campaign struct {
	ID                   uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title                string     `json:"title" gorm:"not null;size:255"`
	Slug                 string     `json:"slug" gorm:"uniqueIndex;not null;size:64"`
	Question             string     `json:"question" gorm:"not null;type:text"`
	StartDate            *time.Time `json:"start_date"`
	CloseDate            *time.Time `json:"close_date"`
	IsActive             bool       `json:"is_active" gorm:"not null;default:false"`
	IsRecurring          bool       `json:"is_recurring" gorm:"not null;default:false"`
	RecurringInterval    *string    `json:"recurring_interval" gorm:"size:20"`
	PublicReportOn       bool       `json:"public_report_on" gorm:"not null;default:false"`
	PublicReportPassword *string    `json:"-" gorm:"size:255"`
	AIReportGenerated    bool       `json:"ai_report_generated" gorm:"not null;default:false"`
	UserID               *uint      `json:"user_id" gorm:"index"`
	CreatedAt            time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// IsOpen reports whether the campaign accepts anonymous submissions.
func (c *Campaign) IsOpen(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	return c.CloseDate == nil || c.CloseDate.After(now)
}

// Status derives the lifecycle label from the raw scheduling fields.
func (c *Campaign) Status(now time.Time) string {
	if c.CloseDate != nil && !c.CloseDate.After(now) {
		return CampaignFinished
	}
	if c.IsActive {
		return CampaignActive
	}
	if c.StartDate != nil && c.StartDate.After(now) {
		return CampaignScheduled
	}
	return CampaignPaused
}

type CreateCampaignRequest struct {
	Title             string     `json:"title" binding:"required"`
	Question          string     `json:"question" binding:"required"`
	StartDate         *time.Time `json:"start_date"`
	CloseDate         *time.Time `json:"close_date"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurringInterval *string    `json:"recurring_interval" binding:"omitempty,oneof=weekly monthly quarterly"`
}

type UpdateCampaignRequest struct {
	Title          *string    `json:"title"`
	Question       *string    `json:"question"`
	StartDate      *time.Time `json:"start_date"`
	ClearStartDate bool       `json:"clear_start_date"`
	CloseDate      *time.Time `json:"close_date"`
	ClearCloseDate bool       `json:"clear_close_date"`
	IsActive       *bool      `json:"is_active"`
	PublicReportOn *bool      `json:"public_report_on"`
	// Non-empty value re-hashes the public report password; empty string clears it.
	PublicReportPassword *string `json:"public_report_password"`
	IsRecurring          *bool   `json:"is_recurring"`
	RecurringInterval    *string `json:"recurring_interval" binding:"omitempty,oneof=weekly monthly quarterly"`
}

type CloneCampaignRequest struct {
	IncludeResponses bool `json:"include_responses"`
}

// PublicCampaign is the unauthenticated projection served to the submission
// and public report pages.
type PublicCampaign struct {
	ID                uint       `json:"id"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Question          string     `json:"question"`
	CloseDate         *time.Time `json:"close_date"`
	IsActive          bool       `json:"is_active"`
	PublicReportOn    bool       `json:"public_report_on"`
	HasReportPassword bool       `json:"has_report_password"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (c *Campaign) ToPublic() PublicCampaign {
	return PublicCampaign{
		ID:                c.ID,
		Title:             c.Title,
		Slug:              c.Slug,
		Question:          c.Question,
		CloseDate:         c.CloseDate,
		IsActive:          c.IsActive,
		PublicReportOn:    c.PublicReportOn,
		HasReportPassword: c.PublicReportPassword != nil && *c.PublicReportPassword != "",
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
