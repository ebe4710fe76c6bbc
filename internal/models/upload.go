package models

import "time"

type UploadStatus string

const (
	UploadStatusPending    UploadStatus = "pending"
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusRejected   UploadStatus = "rejected"
)

func (s UploadStatus) Valid() bool {
	switch s {
	case UploadStatusPending, UploadStatusProcessing, UploadStatusCompleted, UploadStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether reaching s stamps processedBy/processedAt.
func (s UploadStatus) Terminal() bool {
	return s == UploadStatusCompleted || s == UploadStatusRejected
}

type UploadFile struct {
	URL        string    `json:"url"`
	PublicID   string    `json:"publicId"`
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type Upload struct {
	ID           string       `json:"id"`
	ServiceID    string       `json:"serviceId"`
	ServiceTitle string       `json:"serviceTitle,omitempty"`
	UserID       string       `json:"userId"`
	Files        []UploadFile `json:"files"`
	Status       UploadStatus `json:"status"`
	AdminNotes   string       `json:"adminNotes,omitempty"`
	ProcessedBy  string       `json:"processedBy,omitempty"`
	ProcessedAt  *time.Time   `json:"processedAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type ServiceUploadStats struct {
	ServiceID   string `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	Total       int64  `json:"total"`
	Pending     int64  `json:"pending"`
	Completed   int64  `json:"completed"`
}

type UploadStats struct {
	ByService []ServiceUploadStats `json:"byService"`
	Total     []StatusCount        `json:"total"`
}
