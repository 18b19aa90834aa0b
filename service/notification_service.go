package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobibcgroup/safespace/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationService formats and dispatches Telegram notifications. Every
// send is best-effort: failures are logged and discarded, never surfaced to
// the request that triggered them.
type NotificationService struct {
	db       *gorm.DB
	telegram *TelegramClient
	baseURL  string
}

func NewNotificationService(db *gorm.DB, telegram *TelegramClient, baseURL string) *NotificationService {
	return &NotificationService{db: db, telegram: telegram, baseURL: strings.TrimRight(baseURL, "/")}
}

// NotifyNewResponse tells the campaign owner about a fresh submission.
// Runs detached from the submission request; panics stay inside.
func (s *NotificationService) NotifyNewResponse(campaign *model.Campaign, response *model.Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic in new-response notification: %v", r)
		}
	}()

	if campaign.UserID == nil {
		return
	}
	var owner model.User
	if err := s.db.Where("id = ?", *campaign.UserID).First(&owner).Error; err != nil {
		log.WithError(err).Warn("failed to load campaign owner for notification")
		return
	}

	prefs := owner.Preferences()
	if !prefs.Telegram || !prefs.NewResponse || owner.TelegramChatID == nil || *owner.TelegramChatID == "" {
		return
	}

	preview := response.Text
	suffix := ""
	if runes := []rune(preview); len(runes) > 200 {
		preview = string(runes[:200])
		suffix = "..."
	}

	text := fmt.Sprintf(`🆕 <b>New Response Received</b>

📋 <b>Campaign:</b> %s

💬 <b>Response:</b>
"%s%s"

<a href="%s/campaigns/%d/crm">View in CRM →</a>`,
		campaign.Title, preview, suffix, s.baseURL, campaign.ID)

	if err := s.telegram.SendMessage(*owner.TelegramChatID, text); err != nil {
		log.WithError(err).Warn("failed to send new-response notification")
	}
}

// DigestSummary aggregates the last 24 hours of activity for one owner.
type DigestSummary struct {
	TotalResponses int64                 `json:"totalResponses"`
	NewResponses   int                   `json:"newResponses"`
	NeedsAttention int                   `json:"needsAttention"`
	Campaigns      []DigestCampaignEntry `json:"campaigns"`
}

type DigestCampaignEntry struct {
	CampaignID    uint   `json:"campaignId"`
	Title         string `json:"title"`
	ResponseCount int    `json:"responseCount"`
}

// SendDigest computes and delivers the daily digest for a user's campaigns.
// The summary is returned even when delivery is skipped by preferences.
func (s *NotificationService) SendDigest(userID uint) (*DigestSummary, error) {
	var user model.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, ErrNotFound
	}

	var campaigns []model.Campaign
	if err := s.db.Where("user_id = ?", userID).Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %v", err)
	}

	since := time.Now().Add(-24 * time.Hour)
	summary := &DigestSummary{Campaigns: []DigestCampaignEntry{}}

	for _, campaign := range campaigns {
		var total int64
		if err := s.db.Model(&model.Response{}).Where("campaign_id = ?", campaign.ID).
			Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count responses: %v", err)
		}
		summary.TotalResponses += total

		var recent []model.Response
		if err := s.db.Where("campaign_id = ? AND created_at >= ?", campaign.ID, since).
			Find(&recent).Error; err != nil {
			return nil, fmt.Errorf("failed to list recent responses: %v", err)
		}
		summary.NewResponses += len(recent)
		for _, r := range recent {
			if r.Status == model.StatusNeedsAttention || r.Status == model.StatusNew {
				summary.NeedsAttention++
			}
		}
		if len(recent) > 0 {
			summary.Campaigns = append(summary.Campaigns, DigestCampaignEntry{
				CampaignID:    campaign.ID,
				Title:         campaign.Title,
				ResponseCount: len(recent),
			})
		}
	}

	prefs := user.Preferences()
	wantsDigest := prefs.DailyDigest || prefs.WeeklyDigest
	if wantsDigest && prefs.Telegram && user.TelegramChatID != nil && *user.TelegramChatID != "" {
		if err := s.telegram.SendMessage(*user.TelegramChatID, s.formatDigest(summary)); err != nil {
			log.WithError(err).Warn("failed to send digest notification")
		}
	}

	return summary, nil
}

func (s *NotificationService) formatDigest(summary *DigestSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Daily Feedback Digest</b>\n%s\n\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "📈 <b>Summary:</b>\n")
	fmt.Fprintf(&b, "• Total Responses: %d\n", summary.TotalResponses)
	fmt.Fprintf(&b, "• New Responses: %d\n", summary.NewResponses)
	fmt.Fprintf(&b, "• Needs Attention: %d\n", summary.NeedsAttention)

	if len(summary.Campaigns) > 0 {
		b.WriteString("\n<b>Campaign Activity:</b>\n")
		for _, c := range summary.Campaigns {
			plural := "s"
			if c.ResponseCount == 1 {
				plural = ""
			}
			fmt.Fprintf(&b, "• %s: %d response%s\n", c.Title, c.ResponseCount, plural)
		}
	}

	fmt.Fprintf(&b, "\n<a href=\"%s\">Open Dashboard →</a>", s.baseURL)
	return b.String()
}
