package models

import "time"

const (
	DefaultWhatsappMessage = "Hello! I want to know more about this offer."
	DefaultNotificationTTL = 30 * 24 * time.Hour
	MinPriority            = 1
	MaxPriority            = 3
)

type Notification struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	WhatsappMessage string    `json:"whatsappMessage"`
	IsActive        bool      `json:"isActive"`
	Priority        int       `json:"priority"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (n Notification) CurrentlyActive(now time.Time) bool {
	return activeWithin(n.IsActive, n.StartDate, n.EndDate, now)
}
