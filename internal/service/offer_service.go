package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cscportal/api/internal/ids"
	"cscportal/api/internal/media/sniffer"
	"cscportal/api/internal/models"
)

const (
	offerImageFolder = "offers"
	popularOffers    = 5
)

type OfferService struct {
	offers OfferStore
	blobs  BlobStore
	log    zerolog.Logger
	now    func() time.Time
}

func NewOfferService(offers OfferStore, blobs BlobStore, log zerolog.Logger) *OfferService {
	return &OfferService{offers: offers, blobs: blobs, log: log, now: time.Now}
}

// OfferInput holds the raw form fields of an offer. Nil means "not supplied".
type OfferInput struct {
	Title           *string
	Description     *string
	Discount        *string
	DiscountType    *string
	Services        *string
	ValidFrom       *string
	ValidUntil      *string
	IsActive        *string
	ShowOnPopup     *string
	WhatsappMessage *string
	Image           *File
}

// Popup returns at most one offer: the currently active, popup eligible
// offer that expires first.
func (s *OfferService) Popup(ctx context.Context) ([]models.Offer, error) {
	now := s.now()
	current, err := s.offers.ListCurrent(ctx, now)
	if err != nil {
		return nil, err
	}
	return selectPopup(current, now), nil
}

func selectPopup(offers []models.Offer, now time.Time) []models.Offer {
	var best *models.Offer
	for i := range offers {
		o := &offers[i]
		if !o.ShowOnPopup || !o.CurrentlyActive(now) {
			continue
		}
		if best == nil || o.ValidUntil.Before(best.ValidUntil) {
			best = o
		}
	}
	if best == nil {
		return []models.Offer{}
	}
	return []models.Offer{*best}
}

func (s *OfferService) ListAll(ctx context.Context) ([]models.Offer, error) {
	return s.offers.List(ctx, false)
}

func (s *OfferService) Create(ctx context.Context, actor models.Administrator, input OfferInput) (models.Offer, error) {
	now := s.now().UTC()
	offer := models.Offer{
		ID:           ids.New(),
		DiscountType: models.DiscountPercentage,
		Services:     []string{},
		IsActive:     true,
		ShowOnPopup:  true,
		CreatedBy:    actor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var v models.Validator
	v.Check(input.ValidFrom != nil && strings.TrimSpace(*input.ValidFrom) != "", "validFrom", "is required")
	v.Check(input.ValidUntil != nil && strings.TrimSpace(*input.ValidUntil) != "", "validUntil", "is required")
	applyOffer(&v, &offer, input)
	if err := v.Err(); err != nil {
		return models.Offer{}, err
	}

	if input.Image != nil {
		ref, err := s.storeImage(ctx, *input.Image)
		if err != nil {
			return models.Offer{}, err
		}
		offer.Image = ref
	}

	if err := s.offers.Create(ctx, offer); err != nil {
		release(ctx, s.blobs, s.log, offer.Image)
		return models.Offer{}, err
	}
	return offer, nil
}

func (s *OfferService) Update(ctx context.Context, id string, input OfferInput) (models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return models.Offer{}, err
	}

	var v models.Validator
	applyOffer(&v, &offer, input)
	if err := v.Err(); err != nil {
		return models.Offer{}, err
	}

	oldImage := offer.Image
	if input.Image != nil {
		ref, err := s.storeImage(ctx, *input.Image)
		if err != nil {
			return models.Offer{}, err
		}
		offer.Image = ref
	}
	offer.UpdatedAt = s.now().UTC()

	if err := s.offers.Update(ctx, offer); err != nil {
		if input.Image != nil {
			release(ctx, s.blobs, s.log, offer.Image)
		}
		return models.Offer{}, err
	}
	if input.Image != nil {
		release(ctx, s.blobs, s.log, oldImage)
	}
	return offer, nil
}

// Deactivate switches the offer off and releases its image.
func (s *OfferService) Deactivate(ctx context.Context, id string) error {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	image := offer.Image
	offer.IsActive = false
	offer.Image = models.ImageRef{}
	offer.UpdatedAt = s.now().UTC()
	if err := s.offers.Update(ctx, offer); err != nil {
		return err
	}
	release(ctx, s.blobs, s.log, image)
	return nil
}

// TrackClick counts every call. There is no per-visitor dedup.
func (s *OfferService) TrackClick(ctx context.Context, id string) error {
	return s.offers.IncrementClicks(ctx, id)
}

type OfferReport struct {
	Analytics     models.OfferAnalytics `json:"analytics"`
	PopularOffers []models.OfferSummary `json:"popularOffers"`
}

func (s *OfferService) Analytics(ctx context.Context) (OfferReport, error) {
	active, err := s.offers.List(ctx, true)
	if err != nil {
		return OfferReport{}, err
	}
	return OfferReport{
		Analytics:     summarize(active, s.now()),
		PopularOffers: popular(active, popularOffers),
	}, nil
}

// summarize aggregates offers whose flag is set. The conversion rate is zero
// when nothing has been clicked.
func summarize(offers []models.Offer, now time.Time) models.OfferAnalytics {
	var a models.OfferAnalytics
	for _, o := range offers {
		if !o.IsActive {
			continue
		}
		a.TotalOffers++
		if o.CurrentlyActive(now) {
			a.ActiveOffers++
		}
		a.TotalClicks += o.Clicks
		a.TotalConversions += o.Conversions
	}
	if a.TotalOffers > 0 {
		a.AvgClickThrough = round2(float64(a.TotalClicks) / float64(a.TotalOffers))
	}
	if a.TotalClicks > 0 {
		a.ConversionRate = round2(float64(a.TotalConversions) / float64(a.TotalClicks) * 100)
	}
	return a
}

func popular(offers []models.Offer, limit int) []models.OfferSummary {
	sorted := make([]models.Offer, 0, len(offers))
	for _, o := range offers {
		if o.IsActive {
			sorted = append(sorted, o)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Clicks > sorted[j].Clicks })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]models.OfferSummary, len(sorted))
	for i, o := range sorted {
		out[i] = models.OfferSummary{ID: o.ID, Title: o.Title, Clicks: o.Clicks, Conversions: o.Conversions, ValidUntil: o.ValidUntil}
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func (s *OfferService) storeImage(ctx context.Context, f File) (models.ImageRef, error) {
	obj, _, _ := sniff(f, offerImageFolder, sniffer.Images)
	ref, err := s.blobs.Store(ctx, obj)
	if err != nil {
		return models.ImageRef{}, models.Dependency("store offer image", err)
	}
	return ref, nil
}

// applyOffer coerces the supplied fields onto o. validFrom <= validUntil is
// not enforced.
func applyOffer(v *models.Validator, o *models.Offer, in OfferInput) {
	if in.Title != nil {
		o.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		o.Description = strings.TrimSpace(*in.Description)
	}
	if in.WhatsappMessage != nil {
		o.WhatsappMessage = strings.TrimSpace(*in.WhatsappMessage)
	}
	if in.DiscountType != nil && strings.TrimSpace(*in.DiscountType) != "" {
		o.DiscountType = models.DiscountType(strings.ToLower(strings.TrimSpace(*in.DiscountType)))
	}
	if in.Discount != nil && strings.TrimSpace(*in.Discount) != "" {
		if d, ok := parseFloat(v, "discount", *in.Discount); ok {
			o.Discount = d
		}
	}
	if in.Services != nil {
		if refs, ok := parseList(v, "services", *in.Services); ok {
			for _, ref := range refs {
				if !ids.Valid(ref) {
					v.Add("services", "must list service ids")
					break
				}
			}
			o.Services = refs
		}
	}
	if in.ValidFrom != nil && strings.TrimSpace(*in.ValidFrom) != "" {
		if t, ok := parseTime(v, "validFrom", *in.ValidFrom); ok {
			o.ValidFrom = t
		}
	}
	if in.ValidUntil != nil && strings.TrimSpace(*in.ValidUntil) != "" {
		if t, ok := parseTime(v, "validUntil", *in.ValidUntil); ok {
			o.ValidUntil = t
		}
	}
	if in.IsActive != nil && strings.TrimSpace(*in.IsActive) != "" {
		if b, ok := parseBool(v, "isActive", *in.IsActive); ok {
			o.IsActive = b
		}
	}
	if in.ShowOnPopup != nil && strings.TrimSpace(*in.ShowOnPopup) != "" {
		if b, ok := parseBool(v, "showOnPopup", *in.ShowOnPopup); ok {
			o.ShowOnPopup = b
		}
	}
	if in.Image != nil {
		_, _, ok := sniff(*in.Image, offerImageFolder, sniffer.Images)
		v.Check(ok, "image", "must be one of: "+allowedList(sniffer.Images))
	}

	v.Check(o.Title != "", "title", "is required")
	v.Check(o.DiscountType.Valid(), "discountType", "must be percentage or fixed")
	if o.DiscountType == models.DiscountPercentage {
		v.Check(o.Discount >= 0 && o.Discount <= 100, "discount", "must be between 0 and 100 for a percentage")
	}
}
