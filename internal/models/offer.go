package models

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

type Offer struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Image           ImageRef     `json:"image"`
	Discount        float64      `json:"discount"`
	DiscountType    DiscountType `json:"discountType"`
	Services        []string     `json:"services"`
	ValidFrom       time.Time    `json:"validFrom"`
	ValidUntil      time.Time    `json:"validUntil"`
	IsActive        bool         `json:"isActive"`
	ShowOnPopup     bool         `json:"showOnPopup"`
	WhatsappMessage string       `json:"whatsappMessage,omitempty"`
	Clicks          int64        `json:"clicks"`
	Conversions     int64        `json:"conversions"`
	CreatedBy       string       `json:"createdBy,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// CurrentlyActive is the flag plus the inclusive validity window.
func (o Offer) CurrentlyActive(now time.Time) bool {
	return activeWithin(o.IsActive, o.ValidFrom, o.ValidUntil, now)
}

type OfferAnalytics struct {
	TotalOffers      int64   `json:"totalOffers"`
	ActiveOffers     int64   `json:"activeOffers"`
	TotalClicks      int64   `json:"totalClicks"`
	TotalConversions int64   `json:"totalConversions"`
	AvgClickThrough  float64 `json:"avgClickThrough"`
	ConversionRate   float64 `json:"conversionRate"`
}

type OfferSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Clicks      int64     `json:"clicks"`
	Conversions int64     `json:"conversions"`
	ValidUntil  time.Time `json:"validUntil"`
}

func activeWithin(flag bool, from, until, now time.Time) bool {
	return flag && !from.After(now) && !until.Before(now)
}
