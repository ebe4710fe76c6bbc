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

func TestDashboard_Stats(t *testing.T) {
	services := mocks.NewServiceStore(
		models.Service{ID: "s1", IsActive: true},
		models.Service{ID: "s2", IsActive: false},
	)
	var contactSeed []models.Contact
	for i := 0; i < 7; i++ {
		status := models.ContactStatusResolved
		if i%2 == 0 {
			status = models.ContactStatusNew
		}
		contactSeed = append(contactSeed, models.Contact{ID: string(rune('a' + i)), Status: status, CreatedAt: fixedNow.Add(-time.Duration(i) * time.Hour)})
	}
	contacts := mocks.NewContactStore(contactSeed...)
	uploads := mocks.NewUploadStore(
		models.Upload{ID: "u1", Status: models.UploadStatusPending, CreatedAt: fixedNow},
		models.Upload{ID: "u2", Status: models.UploadStatusCompleted, CreatedAt: fixedNow.Add(-time.Hour)},
	)
	offers := mocks.NewOfferStore(liveOffer("o1", time.Hour, true), liveOffer("o2", -time.Hour, true))

	dash := NewDashboardService(services, contacts, uploads, offers)
	dash.now = clock

	stats, err := dash.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.EntityCount{Total: 2, Subset: 1}, stats.Services)
	assert.Equal(t, models.EntityCount{Total: 7, Subset: 4}, stats.Contacts)
	assert.Equal(t, models.EntityCount{Total: 2, Subset: 1}, stats.Uploads)
	assert.Equal(t, models.EntityCount{Total: 2, Subset: 1}, stats.Offers)
	require.Len(t, stats.RecentContact, 5)
	assert.Equal(t, "a", stats.RecentContact[0].ID)
	assert.Len(t, stats.RecentUploads, 2)

	contacts.FailOn("Count", models.Dependency("contact", errors.New("gone")))
	_, err = dash.Stats(context.Background())
	var dep *models.DependencyError
	assert.True(t, errors.As(err, &dep))
}
