package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/bobibcgroup/safespace/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateCampaignActivation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCampaignService(db)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)

	t.Run("no start date goes live immediately", func(t *testing.T) {
		campaign, err := svc.CreateCampaign(user.ID, model.CreateCampaignRequest{
			Title:    "Immediate Pulse",
			Question: "How is the week going?",
		})
		require.NoError(t, err)
		assert.True(t, campaign.IsActive)
		assert.Equal(t, "immediate-pulse", campaign.Slug)
	})

	t.Run("future start date stays scheduled", func(t *testing.T) {
		start := time.Now().Add(48 * time.Hour)
		campaign, err := svc.CreateCampaign(user.ID, model.CreateCampaignRequest{
			Title:     "Future Pulse",
			Question:  "How will it go?",
			StartDate: &start,
		})
		require.NoError(t, err)
		assert.False(t, campaign.IsActive)
		assert.Equal(t, model.CampaignScheduled, campaign.Status(time.Now()))
	})

	t.Run("past start date goes live", func(t *testing.T) {
		start := time.Now().Add(-time.Hour)
		campaign, err := svc.CreateCampaign(user.ID, model.CreateCampaignRequest{
			Title:     "Backdated Pulse",
			Question:  "Still open?",
			StartDate: &start,
		})
		require.NoError(t, err)
		assert.True(t, campaign.IsActive)
	})
}

func TestCreateCampaignSlugCollisions(t *testing.T) {
	db := newTestDB(t)
	svc := NewCampaignService(db)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)

	first, err := svc.CreateCampaign(user.ID, model.CreateCampaignRequest{Title: "Team Pulse", Question: "q"})
	require.NoError(t, err)
	second, err := svc.CreateCampaign(user.ID, model.CreateCampaignRequest{Title: "Team Pulse", Question: "q"})
	require.NoError(t, err)
	third, err := svc.CreateCampaign(user.ID, model.CreateCampaignRequest{Title: "Team Pulse!", Question: "q"})
	require.NoError(t, err)

	assert.Equal(t, "team-pulse", first.Slug)
	assert.Equal(t, "team-pulse-1", second.Slug)
	assert.Equal(t, "team-pulse-2", third.Slug)
}

func TestGetCampaignByIDOrSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewCampaignService(db)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Lookup Pulse", true)

	bySlug, err := svc.GetCampaign(campaign.Slug)
	require.NoError(t, err)
	assert.Equal(t, campaign.ID, bySlug.ID)

	byID, err := svc.GetCampaign(fmt.Sprint(campaign.ID))
	require.NoError(t, err)
	assert.Equal(t, campaign.ID, byID.ID)

	_, err = svc.GetCampaign("no-such-campaign")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCampaignStatusDerivation(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		campaign model.Campaign
		want     string
	}{
		{"active", model.Campaign{IsActive: true}, model.CampaignActive},
		{"finished beats active", model.Campaign{IsActive: true, CloseDate: &past}, model.CampaignFinished},
		{"scheduled", model.Campaign{StartDate: &future}, model.CampaignScheduled},
		{"paused", model.Campaign{}, model.CampaignPaused},
		{"past start but inactive is paused", model.Campaign{StartDate: &past}, model.CampaignPaused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.campaign.Status(now))
		})
	}
}

func TestUpdateCampaignOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewCampaignService(db)
	owner := createTestUser(t, db, "owner@example.com", model.RoleHR)
	other := createTestUser(t, db, "other@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, owner.ID, "Owned Pulse", true)

	title := "Renamed"
	_, err := svc.UpdateCampaign(campaign.Slug, other.ID, model.RoleHR, model.UpdateCampaignRequest{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateCampaign(campaign.Slug, other.ID, model.RoleAdmin, model.UpdateCampaignRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestUpdateCampaignReportPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewCampaignService(db)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Password Pulse", true)

	password := "secret123"
	updated, err := svc.UpdateCampaign(campaign.Slug, user.ID, model.RoleHR,
		model.UpdateCampaignRequest{PublicReportPassword: &password})
	require.NoError(t, err)
	require.NotNil(t, updated.PublicReportPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*updated.PublicReportPassword), []byte(password)))

	empty := ""
	updated, err = svc.UpdateCampaign(campaign.Slug, user.ID, model.RoleHR,
		model.UpdateCampaignRequest{PublicReportPassword: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.PublicReportPassword)
}

func TestCloneCampaign(t *testing.T) {
	db := newTestDB(t)
	svc := NewCampaignService(db)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	original := createTestCampaign(t, db, user.ID, "Clone Me", true)
	createTestResponse(t, db, original.ID, "first response")
	createTestResponse(t, db, original.ID, "second response")

	t.Run("without responses", func(t *testing.T) {
		clone, err := svc.CloneCampaign(original.Slug, user.ID, model.RoleHR, false)
		require.NoError(t, err)
		assert.Equal(t, "Clone Me (Copy)", clone.Title)
		assert.False(t, clone.IsActive)
		assert.NotEqual(t, original.Slug, clone.Slug)

		count, err := svc.CountResponses(clone.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("with responses", func(t *testing.T) {
		clone, err := svc.CloneCampaign(original.Slug, user.ID, model.RoleHR, true)
		require.NoError(t, err)

		count, err := svc.CountResponses(clone.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})
}

func TestGetCampaignDetail(t *testing.T) {
	db := newTestDB(t)
	svc := NewCampaignService(db)
	owner := createTestUser(t, db, "owner@example.com", model.RoleHR)
	other := createTestUser(t, db, "other@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, owner.ID, "Detail Pulse", true)
	response := createTestResponse(t, db, campaign.ID, "a response")
	createTestResponse(t, db, campaign.ID, "another response")

	require.NoError(t, db.Create(&model.Note{CampaignID: &campaign.ID, UserID: owner.ID, Text: "campaign note"}).Error)
	require.NoError(t, db.Create(&model.Note{ResponseID: &response.ID, UserID: owner.ID, Text: "response note"}).Error)
	require.NoError(t, db.Create(&model.ActionItem{CampaignID: campaign.ID, Title: "do something"}).Error)

	detail, err := svc.GetCampaignDetail(campaign.Slug, owner.ID, model.RoleHR)
	require.NoError(t, err)
	assert.Len(t, detail.Responses, 2)
	assert.Len(t, detail.ActionItems, 1)

	// Notes attached to the campaign's responses arrive alongside
	// campaign-level ones, with their authors loaded.
	require.Len(t, detail.Notes, 2)
	for _, note := range detail.Notes {
		require.NotNil(t, note.User)
		assert.Equal(t, owner.ID, note.User.ID)
	}

	_, err = svc.GetCampaignDetail(campaign.Slug, other.ID, model.RoleHR)
	assert.ErrorIs(t, err, ErrForbidden)

	adminDetail, err := svc.GetCampaignDetail(campaign.Slug, other.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, adminDetail.Responses, 2)
}

func TestDeleteCampaignCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewCampaignService(db)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Doomed Pulse", true)
	keep := createTestCampaign(t, db, user.ID, "Kept Pulse", true)
	response := createTestResponse(t, db, campaign.ID, "a response")
	keepResponse := createTestResponse(t, db, keep.ID, "kept response")

	require.NoError(t, db.Create(&model.Note{CampaignID: &campaign.ID, UserID: user.ID, Text: "campaign note"}).Error)
	require.NoError(t, db.Create(&model.Note{ResponseID: &response.ID, UserID: user.ID, Text: "response note"}).Error)
	require.NoError(t, db.Create(&model.ActionItem{CampaignID: campaign.ID, Title: "do something"}).Error)
	require.NoError(t, db.Create(&model.AIReport{CampaignID: campaign.ID, Summary: "summary"}).Error)

	require.NoError(t, svc.DeleteCampaign(campaign.ID))

	var campaigns, responses, notes, items, reports int64
	db.Model(&model.Campaign{}).Count(&campaigns)
	db.Model(&model.Response{}).Count(&responses)
	db.Model(&model.Note{}).Count(&notes)
	db.Model(&model.ActionItem{}).Count(&items)
	db.Model(&model.AIReport{}).Count(&reports)

	assert.EqualValues(t, 1, campaigns)
	assert.EqualValues(t, 1, responses)
	assert.Zero(t, notes)
	assert.Zero(t, items)
	assert.Zero(t, reports)

	var survivor model.Response
	require.NoError(t, db.First(&survivor, keepResponse.ID).Error)
}
