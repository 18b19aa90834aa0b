package service

import (
	"testing"
	"time"

	"github.com/bobibcgroup/safespace/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDigestCounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, NewTelegramClient(""), "http://localhost:3000")
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Digest Pulse", true)
	createTestCampaign(t, db, user.ID, "Quiet Pulse", true)

	fresh := createTestResponse(t, db, campaign.ID, "fresh feedback")
	require.NoError(t, db.Model(fresh).Update("status", model.StatusNeedsAttention).Error)
	resolved := createTestResponse(t, db, campaign.ID, "handled already")
	require.NoError(t, db.Model(resolved).Update("status", model.StatusResolved).Error)

	stale := createTestResponse(t, db, campaign.ID, "from last week")
	lastWeek := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, db.Model(stale).Update("created_at", lastWeek).Error)

	summary, err := svc.SendDigest(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.TotalResponses)
	assert.Equal(t, 2, summary.NewResponses, "only the 24h window counts as new")
	assert.Equal(t, 1, summary.NeedsAttention)
	require.Len(t, summary.Campaigns, 1, "campaigns without recent responses are omitted")
	assert.Equal(t, campaign.ID, summary.Campaigns[0].CampaignID)

	_, err = svc.SendDigest(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotifyNewResponseRespectsPreferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, NewTelegramClient(""), "http://localhost:3000")
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Notify Pulse", true)
	response := createTestResponse(t, db, campaign.ID, "something happened")

	// Unconfigured telegram and default preferences must not panic or block.
	svc.NotifyNewResponse(campaign, response)
}
