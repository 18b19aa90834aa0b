package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bobibcgroup/safespace/config"
	"github.com/bobibcgroup/safespace/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database migrated to the full schema.
// The shared cache keeps the schema alive across pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateModels(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()
	user := &model.User{
		Email:    email,
		Name:     "Test User",
		Password: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCampaign(t *testing.T, db *gorm.DB, userID uint, title string, active bool) *model.Campaign {
	t.Helper()
	campaign := &model.Campaign{
		Title:    title,
		Slug:     GenerateSlug(title) + fmt.Sprintf("-%d", time.Now().UnixNano()),
		Question: "How are things going?",
		IsActive: active,
		UserID:   &userID,
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func createTestResponse(t *testing.T, db *gorm.DB, campaignID uint, text string) *model.Response {
	t.Helper()
	response := &model.Response{
		CampaignID: campaignID,
		Text:       text,
		Sentiment:  model.SentimentNeutral,
		Attention:  model.AttentionModerate,
		Status:     model.StatusNew,
	}
	require.NoError(t, db.Create(response).Error)
	return response
}

// fakeAI is a canned AIClient for exercising report and categorization flows
// without the network.
type fakeAI struct {
	configured bool
	reply      string
	err        error
	calls      int
	lastSystem string
	lastPrompt string
}

func (f *fakeAI) CompleteJSON(system, prompt string, maxTokens int, temperature float64) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAI) Configured() bool {
	return f.configured
}
