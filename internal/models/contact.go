package models

import (
	"regexp"
	"time"
)

type ContactStatus string

const (
	ContactStatusNew       ContactStatus = "new"
	ContactStatusContacted ContactStatus = "contacted"
	ContactStatusResolved  ContactStatus = "resolved"
	ContactStatusSpam      ContactStatus = "spam"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusContacted, ContactStatusResolved, ContactStatusSpam:
		return true
	}
	return false
}

const DefaultServiceInterest = "General Inquiry"

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

func ValidPhone(phone string) bool { return phonePattern.MatchString(phone) }

type Contact struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Phone           string        `json:"phone"`
	Message         string        `json:"message"`
	ServiceInterest string        `json:"serviceInterest"`
	Status          ContactStatus `json:"status"`
	AdminNotes      string        `json:"adminNotes,omitempty"`
	Response        string        `json:"response,omitempty"`
	RespondedBy     string        `json:"respondedBy,omitempty"`
	RespondedAt     *time.Time    `json:"respondedAt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ContactStats struct {
	Total          int64         `json:"total"`
	Statuses       []StatusCount `json:"statuses"`
	RecentContacts int64         `json:"recentContacts"`
}
