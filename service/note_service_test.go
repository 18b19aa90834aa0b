package service

import (
	"testing"

	"github.com/bobibcgroup/safespace/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNoteTargets(t *testing.T) {
	db := newTestDB(t)
	svc := NewNoteService(db)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Annotated", true)
	response := createTestResponse(t, db, campaign.ID, "needs a note")

	onCampaign, err := svc.CreateNote(user.ID, model.RoleHR, model.CreateNoteRequest{
		CampaignID: &campaign.ID,
		Text:       "campaign level note",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, onCampaign.UserID)

	onResponse, err := svc.CreateNote(user.ID, model.RoleHR, model.CreateNoteRequest{
		ResponseID: &response.ID,
		Text:       "response level note",
	})
	require.NoError(t, err)
	assert.Equal(t, &response.ID, onResponse.ResponseID)

	// Neither target set is invalid.
	_, err = svc.CreateNote(user.ID, model.RoleHR, model.CreateNoteRequest{Text: "floating"})
	assert.Error(t, err)
}

func TestNoteAccessFollowsCampaign(t *testing.T) {
	db := newTestDB(t)
	svc := NewNoteService(db)
	owner := createTestUser(t, db, "owner@example.com", model.RoleHR)
	other := createTestUser(t, db, "other@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, owner.ID, "Private", true)
	response := createTestResponse(t, db, campaign.ID, "text")

	_, err := svc.CreateNote(other.ID, model.RoleHR, model.CreateNoteRequest{
		ResponseID: &response.ID,
		Text:       "not my campaign",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	note, err := svc.CreateNote(owner.ID, model.RoleHR, model.CreateNoteRequest{
		ResponseID: &response.ID,
		Text:       "mine",
	})
	require.NoError(t, err)

	_, err = svc.UpdateNote(note.ID, other.ID, model.RoleHR, model.UpdateNoteRequest{Text: "hijack"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateNote(note.ID, owner.ID, model.RoleHR, model.UpdateNoteRequest{Text: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
}

func TestListNotesSpansCampaignTree(t *testing.T) {
	db := newTestDB(t)
	svc := NewNoteService(db)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Tree", true)
	response := createTestResponse(t, db, campaign.ID, "text")
	unrelated := createTestCampaign(t, db, user.ID, "Unrelated", true)

	_, err := svc.CreateNote(user.ID, model.RoleHR, model.CreateNoteRequest{CampaignID: &campaign.ID, Text: "on campaign"})
	require.NoError(t, err)
	_, err = svc.CreateNote(user.ID, model.RoleHR, model.CreateNoteRequest{ResponseID: &response.ID, Text: "on response"})
	require.NoError(t, err)
	_, err = svc.CreateNote(user.ID, model.RoleHR, model.CreateNoteRequest{CampaignID: &unrelated.ID, Text: "elsewhere"})
	require.NoError(t, err)

	notes, err := svc.ListNotes(campaign.ID, user.ID, model.RoleHR)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, note := range notes {
		require.NotNil(t, note.User, "author is preloaded for display")
		assert.Equal(t, user.ID, note.User.ID)
	}
}

func TestDeleteNote(t *testing.T) {
	db := newTestDB(t)
	svc := NewNoteService(db)
	user := createTestUser(t, db, "hr@example.com", model.RoleHR)
	campaign := createTestCampaign(t, db, user.ID, "Deletable", true)

	note, err := svc.CreateNote(user.ID, model.RoleHR, model.CreateNoteRequest{CampaignID: &campaign.ID, Text: "bye"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(note.ID, user.ID, model.RoleHR))
	assert.ErrorIs(t, svc.DeleteNote(note.ID, user.ID, model.RoleHR), ErrNotFound)
}
