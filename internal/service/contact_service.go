package service

import (
	"context"
	"strings"
	"time"

	"cscportal/api/internal/ids"
	"cscportal/api/internal/models"
)

const recentContactWindow = 7 * 24 * time.Hour

type ContactService struct {
	contacts ContactStore
	now      func() time.Time
}

func NewContactService(contacts ContactStore) *ContactService {
	return &ContactService{contacts: contacts, now: time.Now}
}

type ContactInput struct {
	Name            string
	Phone           string
	Message         string
	ServiceInterest string
}

func (s *ContactService) Submit(ctx context.Context, input ContactInput) (models.Contact, error) {
	c := models.Contact{
		ID:              ids.New(),
		Name:            strings.TrimSpace(input.Name),
		Phone:           strings.TrimSpace(input.Phone),
		Message:         strings.TrimSpace(input.Message),
		ServiceInterest: strings.TrimSpace(input.ServiceInterest),
		Status:          models.ContactStatusNew,
	}
	if c.ServiceInterest == "" {
		c.ServiceInterest = models.DefaultServiceInterest
	}

	var v models.Validator
	v.Check(c.Name != "", "name", "is required")
	v.Check(c.Phone != "", "phone", "is required")
	v.Check(c.Phone == "" || models.ValidPhone(c.Phone), "phone", "must be a valid 10-digit phone number")
	v.Check(c.Message != "", "message", "is required")
	if err := v.Err(); err != nil {
		return models.Contact{}, err
	}

	c.CreatedAt = s.now().UTC()
	c.UpdatedAt = c.CreatedAt
	if err := s.contacts.Create(ctx, c); err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

func (s *ContactService) List(ctx context.Context, status string, page models.PageRequest) (models.Page[models.Contact], error) {
	if status != "" && !models.ContactStatus(status).Valid() {
		return models.Page[models.Contact]{}, &models.ValidationError{Fields: map[string]string{"status": "must be one of: new, contacted, resolved, spam"}}
	}
	page = page.Normalize(models.DefaultPageLimit)
	items, total, err := s.contacts.List(ctx, status, page)
	if err != nil {
		return models.Page[models.Contact]{}, err
	}
	return models.NewPage(items, total, page), nil
}

type ContactStatusInput struct {
	Status     *models.ContactStatus
	AdminNotes *string
	Response   *string
}

// UpdateStatus allows any status to follow any other. Supplying a response
// stamps the responder but leaves the status as given.
func (s *ContactService) UpdateStatus(ctx context.Context, actor models.Administrator, id string, input ContactStatusInput) (models.Contact, error) {
	if input.Status != nil && !input.Status.Valid() {
		return models.Contact{}, &models.ValidationError{Fields: map[string]string{"status": "must be one of: new, contacted, resolved, spam"}}
	}

	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return models.Contact{}, err
	}

	now := s.now().UTC()
	if input.Status != nil {
		c.Status = *input.Status
	}
	if input.AdminNotes != nil {
		c.AdminNotes = *input.AdminNotes
	}
	if input.Response != nil {
		c.Response = *input.Response
		c.RespondedBy = actor.ID
		c.RespondedAt = &now
	}
	c.UpdatedAt = now

	if err := s.contacts.Update(ctx, c); err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

func (s *ContactService) Stats(ctx context.Context) (models.ContactStats, error) {
	total, err := s.contacts.Count(ctx, "")
	if err != nil {
		return models.ContactStats{}, err
	}
	statuses, err := s.contacts.StatusCounts(ctx)
	if err != nil {
		return models.ContactStats{}, err
	}
	recent, err := s.contacts.CountSince(ctx, s.now().Add(-recentContactWindow))
	if err != nil {
		return models.ContactStats{}, err
	}
	if statuses == nil {
		statuses = []models.StatusCount{}
	}
	return models.ContactStats{Total: total, Statuses: statuses, RecentContacts: recent}, nil
}
