package models

import (
	"regexp"
	"strings"
	"time"
)

// ImageRef points at a blob in the object store.
type ImageRef struct {
	URL      string `json:"url,omitempty"`
	PublicID string `json:"publicId,omitempty"`
}

func (r ImageRef) Empty() bool { return r.PublicID == "" && r.URL == "" }

type ServiceMeta struct {
	Views       int64 `json:"views"`
	Submissions int64 `json:"submissions"`
}

type Service struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	Icon            string      `json:"icon"`
	Image           ImageRef    `json:"image"`
	Description     string      `json:"description"`
	FullDescription string      `json:"fullDescription"`
	ProcessingTime  string      `json:"processingTime"`
	Documents       []string    `json:"documents"`
	IsActive        bool        `json:"isActive"`
	Order           int         `json:"order"`
	Meta            ServiceMeta `json:"meta"`
	CreatedBy       string      `json:"createdBy,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

const DefaultServiceIcon = "file"

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title, collapses every run of non-alphanumerics into a
// single hyphen and trims hyphens from both ends.
func Slugify(title string) string {
	s := nonSlugRun.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
