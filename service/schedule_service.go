package service

import (
	"fmt"
	"time"

	"github.com/bobibcgroup/safespace/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ScheduleService advances campaign lifecycle state based on wall-clock time.
// The sweep is stateless and idempotent: every step's predicate is a no-op on
// rows it already processed, so overlapping invocations cannot corrupt state.
type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

type SweepResult struct {
	Activated   int64 `json:"activated"`
	Deactivated int64 `json:"deactivated"`
	Processed   int   `json:"processed"`
}

// Sweep runs the three schedule steps in order: activate due campaigns,
// deactivate expired ones, then roll recurring campaigns forward. A failure
// on one recurring campaign is logged and does not abort the others.
func (s *ScheduleService) Sweep(now time.Time) (*SweepResult, error) {
	result := &SweepResult{}

	activated := s.db.Model(&model.Campaign{}).
		Where("start_date <= ? AND is_active = ?", now, false).
		Update("is_active", true)
	if activated.Error != nil {
		return nil, fmt.Errorf("failed to activate scheduled campaigns: %v", activated.Error)
	}
	result.Activated = activated.RowsAffected

	deactivated := s.db.Model(&model.Campaign{}).
		Where("close_date <= ? AND is_active = ?", now, true).
		Update("is_active", false)
	if deactivated.Error != nil {
		return nil, fmt.Errorf("failed to deactivate closed campaigns: %v", deactivated.Error)
	}
	result.Deactivated = deactivated.RowsAffected

	var recurring []model.Campaign
	if err := s.db.Where("is_recurring = ? AND is_active = ? AND close_date <= ?", true, false, now).
		Find(&recurring).Error; err != nil {
		return nil, fmt.Errorf("failed to list recurring campaigns: %v", err)
	}

	for _, campaign := range recurring {
		if campaign.RecurringInterval == nil {
			continue
		}

		base := campaign.CreatedAt
		if campaign.CloseDate != nil {
			base = *campaign.CloseDate
		}
		nextStart := NextStartDate(base, *campaign.RecurringInterval)

		// A recurrence gap shorter than the sweep interval reactivates the
		// campaign in the same pass.
		updates := map[string]interface{}{
			"start_date": nextStart,
			"close_date": nil,
			"is_active":  !nextStart.After(now),
		}
		if err := s.db.Model(&model.Campaign{}).Where("id = ?", campaign.ID).
			Updates(updates).Error; err != nil {
			log.WithError(err).WithField("campaign_id", campaign.ID).
				Error("failed to roll recurring campaign forward")
			continue
		}
		result.Processed++
	}

	return result, nil
}

// NextStartDate computes the next occurrence from the interval. Month
// arithmetic is calendar based; day-of-month overflow normalizes the way
// time.AddDate does (Jan 31 + 1 month = Mar 2/3).
func NextStartDate(base time.Time, interval string) time.Time {
	switch interval {
	case model.IntervalWeekly:
		return base.AddDate(0, 0, 7)
	case model.IntervalMonthly:
		return base.AddDate(0, 1, 0)
	case model.IntervalQuarterly:
		return base.AddDate(0, 3, 0)
	default:
		return base
	}
}
