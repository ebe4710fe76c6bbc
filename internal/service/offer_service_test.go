package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cscportal/api/internal/ids"
	"cscportal/api/internal/mocks"
	"cscportal/api/internal/models"
)

func newOffers(store *mocks.OfferStore, blobs *mocks.BlobStore) *OfferService {
	svc := NewOfferService(store, blobs, zerolog.Nop())
	svc.now = clock
	return svc
}

func liveOffer(id string, until time.Duration, popup bool) models.Offer {
	return models.Offer{
		ID:          id,
		Title:       "Offer " + id,
		IsActive:    true,
		ShowOnPopup: popup,
		ValidFrom:   fixedNow.Add(-24 * time.Hour),
		ValidUntil:  fixedNow.Add(until),
		CreatedAt:   fixedNow.Add(-48 * time.Hour),
	}
}

func TestOffer_PopupPicksEarliestExpiry(t *testing.T) {
	off := liveOffer("off", time.Minute, true)
	off.IsActive = false
	store := mocks.NewOfferStore(
		liveOffer("later", 72*time.Hour, true),
		liveOffer("soonest", 2*time.Hour, true),
		liveOffer("not-popup", time.Hour, false),
		liveOffer("expired", -time.Hour, true),
		off,
	)
	offers := newOffers(store, mocks.NewBlobStore())

	got, err := offers.Popup(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "soonest", got[0].ID)
}

func TestSelectPopup_AtMostOne(t *testing.T) {
	assert.Empty(t, selectPopup(nil, fixedNow))
	assert.NotNil(t, selectPopup(nil, fixedNow))

	unordered := []models.Offer{liveOffer("b", 5*time.Hour, true), liveOffer("a", time.Hour, true), liveOffer("c", 3*time.Hour, true)}
	got := selectPopup(unordered, fixedNow)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestOffer_CreateCoercesFormFields(t *testing.T) {
	store := mocks.NewOfferStore()
	offers := newOffers(store, mocks.NewBlobStore())
	serviceID := ids.New()

	offer, err := offers.Create(context.Background(), actor(), OfferInput{
		Title:      strPtr("Diwali"),
		Discount:   strPtr(" 15 "),
		Services:   strPtr(`["` + serviceID + `"]`),
		ValidFrom:  strPtr("2026-03-01"),
		ValidUntil: strPtr("2026-03-31T18:30:00Z"),
		Image:      &File{Name: "banner.png", Data: pngBytes},
	})
	require.NoError(t, err)

	assert.Equal(t, 15.0, offer.Discount)
	assert.Equal(t, models.DiscountPercentage, offer.DiscountType)
	assert.Equal(t, []string{serviceID}, offer.Services)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), offer.ValidFrom)
	assert.True(t, offer.IsActive)
	assert.True(t, offer.ShowOnPopup)
	assert.Equal(t, "adm-1", offer.CreatedBy)
	assert.NotEmpty(t, offer.Image.PublicID)
}

func TestOffer_Validation(t *testing.T) {
	offers := newOffers(mocks.NewOfferStore(), mocks.NewBlobStore())

	_, err := offers.Create(context.Background(), actor(), OfferInput{
		Discount:     strPtr("150"),
		ValidFrom:    strPtr("tomorrow"),
		Services:     strPtr("not-an-id"),
		DiscountType: strPtr("bogo"),
	})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	for _, field := range []string{"title", "validFrom", "validUntil", "services", "discountType"} {
		assert.Contains(t, verr.Fields, field)
	}

	fixed, err := offers.Create(context.Background(), actor(), OfferInput{
		Title:        strPtr("Flat off"),
		Discount:     strPtr("500"),
		DiscountType: strPtr("fixed"),
		ValidFrom:    strPtr("2026-04-01"),
		ValidUntil:   strPtr("2026-03-01"),
	})
	require.NoError(t, err, "fixed discounts are unbounded and the window order is not enforced")
	assert.Equal(t, 500.0, fixed.Discount)

	_, err = offers.Create(context.Background(), actor(), OfferInput{
		Title: strPtr("Too much"), Discount: strPtr("101"), ValidFrom: strPtr("2026-03-01"), ValidUntil: strPtr("2026-03-02"),
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "discount")
}

func TestOffer_TrackClickConcurrent(t *testing.T) {
	store := mocks.NewOfferStore(liveOffer("o1", time.Hour, true))
	offers := newOffers(store, mocks.NewBlobStore())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, offers.TrackClick(context.Background(), "o1"))
		}()
	}
	wg.Wait()

	o, err := store.GetByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), o.Clicks)

	assert.ErrorIs(t, offers.TrackClick(context.Background(), "missing"), models.ErrNotFound)
}

func TestOffer_UpdateAndDeactivate(t *testing.T) {
	store := mocks.NewOfferStore()
	blobs := mocks.NewBlobStore()
	offers := newOffers(store, blobs)
	ctx := context.Background()

	created, err := offers.Create(ctx, actor(), OfferInput{
		Title: strPtr("Summer"), ValidFrom: strPtr("2026-03-01"), ValidUntil: strPtr("2026-04-01"),
		Image: &File{Name: "a.png", Data: pngBytes},
	})
	require.NoError(t, err)

	updated, err := offers.Update(ctx, created.ID, OfferInput{ShowOnPopup: strPtr("false"), Image: &File{Name: "b.png", Data: pngBytes}})
	require.NoError(t, err)
	assert.False(t, updated.ShowOnPopup)
	assert.Equal(t, "Summer", updated.Title)
	assert.Equal(t, []string{created.Image.PublicID}, blobs.Deleted)

	require.NoError(t, offers.Deactivate(ctx, created.ID))
	stored, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.True(t, stored.Image.Empty())
	assert.Contains(t, blobs.Deleted, updated.Image.PublicID)

	_, err = offers.Update(ctx, "missing", OfferInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSummarize(t *testing.T) {
	t.Run("no clicks", func(t *testing.T) {
		a := summarize([]models.Offer{liveOffer("a", time.Hour, true)}, fixedNow)
		assert.Equal(t, 0.0, a.ConversionRate)
		assert.Equal(t, int64(1), a.TotalOffers)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, models.OfferAnalytics{}, summarize(nil, fixedNow))
	})

	t.Run("aggregates flagged offers", func(t *testing.T) {
		a1 := liveOffer("a", time.Hour, true)
		a1.Clicks, a1.Conversions = 10, 1
		a2 := liveOffer("b", -time.Hour, true)
		a2.Clicks, a2.Conversions = 5, 1
		off := liveOffer("c", time.Hour, true)
		off.IsActive = false
		off.Clicks = 1000

		a := summarize([]models.Offer{a1, a2, off}, fixedNow)
		assert.Equal(t, int64(2), a.TotalOffers)
		assert.Equal(t, int64(1), a.ActiveOffers)
		assert.Equal(t, int64(15), a.TotalClicks)
		assert.Equal(t, int64(2), a.TotalConversions)
		assert.Equal(t, 7.5, a.AvgClickThrough)
		assert.Equal(t, 13.33, a.ConversionRate)
	})
}

func TestOffer_AnalyticsPopular(t *testing.T) {
	var seed []models.Offer
	for i, clicks := range []int64{3, 9, 1, 7, 5, 8} {
		o := liveOffer(string(rune('a'+i)), time.Hour, true)
		o.Clicks = clicks
		seed = append(seed, o)
	}
	offers := newOffers(mocks.NewOfferStore(seed...), mocks.NewBlobStore())

	report, err := offers.Analytics(context.Background())
	require.NoError(t, err)
	require.Len(t, report.PopularOffers, 5)
	assert.Equal(t, int64(9), report.PopularOffers[0].Clicks)
	assert.Equal(t, int64(3), report.PopularOffers[4].Clicks)
	assert.Equal(t, int64(33), report.Analytics.TotalClicks)
}
