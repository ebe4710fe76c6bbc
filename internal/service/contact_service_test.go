package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cscportal/api/internal/mocks"
	"cscportal/api/internal/models"
)

func newContacts(store *mocks.ContactStore) *ContactService {
	svc := NewContactService(store)
	svc.now = clock
	return svc
}

func TestContact_SubmitThenResolve(t *testing.T) {
	store := mocks.NewContactStore()
	contacts := newContacts(store)
	ctx := context.Background()

	c, err := contacts.Submit(ctx, ContactInput{Name: "A", Phone: "9876543210", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusNew, c.Status)
	assert.Equal(t, models.DefaultServiceInterest, c.ServiceInterest)

	resolved := models.ContactStatusResolved
	updated, err := contacts.UpdateStatus(ctx, actor(), c.ID, ContactStatusInput{Status: &resolved, Response: strPtr("done")})
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusResolved, updated.Status)
	assert.Equal(t, "done", updated.Response)
	assert.Equal(t, "adm-1", updated.RespondedBy)
	require.NotNil(t, updated.RespondedAt)
	assert.Equal(t, fixedNow, *updated.RespondedAt)

	stored, err := store.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestContact_ResponseDoesNotForceStatus(t *testing.T) {
	contacts := newContacts(mocks.NewContactStore())
	ctx := context.Background()

	c, err := contacts.Submit(ctx, ContactInput{Name: "B", Phone: "9876543210", Message: "call me"})
	require.NoError(t, err)

	updated, err := contacts.UpdateStatus(ctx, actor(), c.ID, ContactStatusInput{Response: strPtr("called")})
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusNew, updated.Status)
	assert.Equal(t, "adm-1", updated.RespondedBy)
}

func TestContact_AnyStatusReachable(t *testing.T) {
	contacts := newContacts(mocks.NewContactStore())
	ctx := context.Background()
	c, err := contacts.Submit(ctx, ContactInput{Name: "C", Phone: "9876543210", Message: "m"})
	require.NoError(t, err)

	for _, st := range []models.ContactStatus{models.ContactStatusResolved, models.ContactStatusNew, models.ContactStatusSpam, models.ContactStatusContacted} {
		st := st
		got, err := contacts.UpdateStatus(ctx, actor(), c.ID, ContactStatusInput{Status: &st})
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}
}

func TestContact_Validation(t *testing.T) {
	contacts := newContacts(mocks.NewContactStore())

	tests := []struct {
		name  string
		input ContactInput
		field string
	}{
		{"missing name", ContactInput{Phone: "9876543210", Message: "m"}, "name"},
		{"short phone", ContactInput{Name: "A", Phone: "98765", Message: "m"}, "phone"},
		{"letters in phone", ContactInput{Name: "A", Phone: "98765abcde", Message: "m"}, "phone"},
		{"missing message", ContactInput{Name: "A", Phone: "9876543210"}, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := contacts.Submit(context.Background(), tt.input)
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	bogus := models.ContactStatus("archived")
	_, err := contacts.UpdateStatus(context.Background(), actor(), "x", ContactStatusInput{Status: &bogus})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = contacts.UpdateStatus(context.Background(), actor(), "missing", ContactStatusInput{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestContact_ListAndStats(t *testing.T) {
	store := mocks.NewContactStore(
		models.Contact{ID: "1", Status: models.ContactStatusNew, CreatedAt: fixedNow.Add(-time.Hour)},
		models.Contact{ID: "2", Status: models.ContactStatusNew, CreatedAt: fixedNow.Add(-2 * time.Hour)},
		models.Contact{ID: "3", Status: models.ContactStatusSpam, CreatedAt: fixedNow.Add(-30 * 24 * time.Hour)},
	)
	contacts := newContacts(store)
	ctx := context.Background()

	page, err := contacts.List(ctx, "new", models.PageRequest{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "1", page.Items[0].ID, "newest first")

	_, err = contacts.List(ctx, "bogus", models.PageRequest{})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))

	stats, err := contacts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.RecentContacts)
	assert.Equal(t, []models.StatusCount{{Status: "new", Count: 2}, {Status: "spam", Count: 1}}, stats.Statuses)
}
