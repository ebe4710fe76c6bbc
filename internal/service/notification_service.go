package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cscportal/api/internal/ids"
	"cscportal/api/internal/models"
)

type NotificationService struct {
	notifications NotificationStore
	now           func() time.Time
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications, now: time.Now}
}

type NotificationInput struct {
	Text            *string `json:"text"`
	WhatsappMessage *string `json:"whatsappMessage"`
	IsActive        *bool   `json:"isActive"`
	Priority        *int    `json:"priority"`
	StartDate       *string `json:"startDate"`
	EndDate         *string `json:"endDate"`
}

// Active lists live notifications, highest priority first and newest first
// within a priority.
func (s *NotificationService) Active(ctx context.Context) ([]models.Notification, error) {
	now := s.now()
	current, err := s.notifications.ListCurrent(ctx, now)
	if err != nil {
		return nil, err
	}
	live := make([]models.Notification, 0, len(current))
	for _, n := range current {
		if n.CurrentlyActive(now) {
			live = append(live, n)
		}
	}
	sortByPriority(live)
	return live, nil
}

func sortByPriority(list []models.Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority > list[j].Priority
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func (s *NotificationService) ListAll(ctx context.Context) ([]models.Notification, error) {
	list, err := s.notifications.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

func (s *NotificationService) Create(ctx context.Context, input NotificationInput) (models.Notification, error) {
	now := s.now().UTC()
	n := models.Notification{
		ID:              ids.New(),
		WhatsappMessage: models.DefaultWhatsappMessage,
		IsActive:        true,
		Priority:        models.MinPriority,
		StartDate:       now,
		EndDate:         now.Add(models.DefaultNotificationTTL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := applyNotification(&n, input); err != nil {
		return models.Notification{}, err
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

func (s *NotificationService) Update(ctx context.Context, id string, input NotificationInput) (models.Notification, error) {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return models.Notification{}, err
	}
	if err := applyNotification(&n, input); err != nil {
		return models.Notification{}, err
	}
	n.UpdatedAt = s.now().UTC()
	if err := s.notifications.Update(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// Delete removes the notification for good.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return s.notifications.Delete(ctx, id)
}

func applyNotification(n *models.Notification, in NotificationInput) error {
	var v models.Validator
	if in.Text != nil {
		n.Text = strings.TrimSpace(*in.Text)
	}
	if in.WhatsappMessage != nil && strings.TrimSpace(*in.WhatsappMessage) != "" {
		n.WhatsappMessage = strings.TrimSpace(*in.WhatsappMessage)
	}
	if in.IsActive != nil {
		n.IsActive = *in.IsActive
	}
	if in.Priority != nil {
		n.Priority = *in.Priority
	}
	if in.StartDate != nil && strings.TrimSpace(*in.StartDate) != "" {
		if t, ok := parseTime(&v, "startDate", *in.StartDate); ok {
			n.StartDate = t
		}
	}
	if in.EndDate != nil && strings.TrimSpace(*in.EndDate) != "" {
		if t, ok := parseTime(&v, "endDate", *in.EndDate); ok {
			n.EndDate = t
		}
	}

	v.Check(n.Text != "", "text", "is required")
	v.Check(n.Priority >= models.MinPriority && n.Priority <= models.MaxPriority, "priority",
		fmt.Sprintf("must be between %d and %d", models.MinPriority, models.MaxPriority))
	return v.Err()
}
