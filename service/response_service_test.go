package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/bobibcgroup/safespace/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateResponseClassifies(t *testing.T) {
	db := newTestDB(t)
	campaigns := NewCampaignService(db)
	svc := NewResponseService(db, nil, nil)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Open Pulse", true)

	response, err := svc.CreateResponse(campaigns, model.CreateResponseRequest{
		CampaignID: campaign.Slug,
		Text:       "I hate the broken tools, this is terrible",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SentimentNegative, response.Sentiment)
	assert.Equal(t, model.AttentionUrgent, response.Attention)
	assert.Equal(t, model.StatusNew, response.Status)
	assert.Equal(t, campaign.ID, response.CampaignID)
}

func TestCreateResponseClosedCampaign(t *testing.T) {
	db := newTestDB(t)
	campaigns := NewCampaignService(db)
	svc := NewResponseService(db, nil, nil)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)

	inactive := createTestCampaign(t, db, user.ID, "Paused Pulse", false)
	_, err := svc.CreateResponse(campaigns, model.CreateResponseRequest{
		CampaignID: inactive.Slug,
		Text:       "anything",
	})
	assert.ErrorIs(t, err, ErrCampaignClosed)

	expired := createTestCampaign(t, db, user.ID, "Expired Pulse", true)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(expired).Update("close_date", past).Error)
	_, err = svc.CreateResponse(campaigns, model.CreateResponseRequest{
		CampaignID: expired.Slug,
		Text:       "anything",
	})
	assert.ErrorIs(t, err, ErrCampaignClosed)

	_, err = svc.CreateResponse(campaigns, model.CreateResponseRequest{
		CampaignID: "missing-pulse",
		Text:       "anything",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateResponseCategorizes(t *testing.T) {
	db := newTestDB(t)
	campaigns := NewCampaignService(db)
	ai := &fakeAI{configured: true, reply: `{"categories": ["tools", "communication"]}`}
	svc := NewResponseService(db, ai, nil)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Labeled Pulse", true)

	response, err := svc.CreateResponse(campaigns, model.CreateResponseRequest{
		CampaignID: campaign.Slug,
		Text:       "The build tools keep breaking",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ai.calls)
	require.NotEmpty(t, response.AILabels)

	var stored model.Response
	require.NoError(t, db.First(&stored, response.ID).Error)
	assert.Contains(t, string(stored.AILabels), "tools")
}

func TestCreateResponseSurvivesAIFailure(t *testing.T) {
	db := newTestDB(t)
	campaigns := NewCampaignService(db)
	ai := &fakeAI{configured: true, err: fmt.Errorf("upstream down")}
	svc := NewResponseService(db, ai, nil)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Resilient Pulse", true)

	response, err := svc.CreateResponse(campaigns, model.CreateResponseRequest{
		CampaignID: campaign.Slug,
		Text:       "still gets recorded",
	})
	require.NoError(t, err)
	assert.Empty(t, response.AILabels)
}

func TestListResponsesScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewResponseService(db, nil, nil)
	owner := createTestUser(t, db, "owner@example.com", model.RoleHR)
	other := createTestUser(t, db, "other@example.com", model.RoleHR)

	mine := createTestCampaign(t, db, owner.ID, "Mine", true)
	theirs := createTestCampaign(t, db, other.ID, "Theirs", true)
	createTestResponse(t, db, mine.ID, "mine one")
	createTestResponse(t, db, mine.ID, "mine two")
	createTestResponse(t, db, theirs.ID, "theirs one")

	visible, err := svc.ListResponses(owner.ID, model.RoleHR, ResponseFilter{})
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	all, err := svc.ListResponses(owner.ID, model.RoleAdmin, ResponseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.ListResponses(owner.ID, model.RoleAdmin, ResponseFilter{CampaignID: &theirs.ID})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestUpdateResponseOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewResponseService(db, nil, nil)
	owner := createTestUser(t, db, "owner@example.com", model.RoleHR)
	other := createTestUser(t, db, "other@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, owner.ID, "Triage", true)
	response := createTestResponse(t, db, campaign.ID, "triage me")

	status := model.StatusInReview
	_, err := svc.UpdateResponse(response.ID, other.ID, model.RoleHR, model.UpdateResponseRequest{Status: &status})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateResponse(response.ID, owner.ID, model.RoleHR, model.UpdateResponseRequest{
		Status: &status,
		Tags:   []string{"facilities"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInReview, updated.Status)
	assert.Equal(t, []string{"facilities"}, updated.TagList())
}

func TestBulkUpdateAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewResponseService(db, nil, nil)
	owner := createTestUser(t, db, "owner@example.com", model.RoleHR)
	other := createTestUser(t, db, "other@example.com", model.RoleHR)

	mine := createTestCampaign(t, db, owner.ID, "Mine", true)
	theirs := createTestCampaign(t, db, other.ID, "Theirs", true)
	r1 := createTestResponse(t, db, mine.ID, "one")
	r2 := createTestResponse(t, db, theirs.ID, "two")

	status := model.StatusResolved
	// One foreign response rejects the whole batch before any write.
	_, err := svc.BulkUpdate(owner.ID, model.RoleHR, model.BulkUpdateResponsesRequest{
		ResponseIDs: []uint{r1.ID, r2.ID},
		Status:      &status,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	var untouched model.Response
	require.NoError(t, db.First(&untouched, r1.ID).Error)
	assert.Equal(t, model.StatusNew, untouched.Status)

	// Admins bypass the ownership check.
	updated, err := svc.BulkUpdate(owner.ID, model.RoleAdmin, model.BulkUpdateResponsesRequest{
		ResponseIDs: []uint{r1.ID, r2.ID},
		Status:      &status,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)
}

func TestBulkUpdateTagUnion(t *testing.T) {
	db := newTestDB(t)
	svc := NewResponseService(db, nil, nil)
	owner := createTestUser(t, db, "owner@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, owner.ID, "Tagging", true)

	tagged := createTestResponse(t, db, campaign.ID, "already tagged")
	require.NoError(t, db.Model(tagged).Update("tags", model.EncodeStringList([]string{"follow-up"})).Error)
	plain := createTestResponse(t, db, campaign.ID, "untagged")

	tag := "follow-up"
	_, err := svc.BulkUpdate(owner.ID, model.RoleHR, model.BulkUpdateResponsesRequest{
		ResponseIDs: []uint{tagged.ID, plain.ID},
		AddTag:      &tag,
	})
	require.NoError(t, err)

	var first, second model.Response
	require.NoError(t, db.First(&first, tagged.ID).Error)
	require.NoError(t, db.First(&second, plain.ID).Error)
	assert.Equal(t, []string{"follow-up"}, first.TagList(), "existing tag is not duplicated")
	assert.Equal(t, []string{"follow-up"}, second.TagList())
}
