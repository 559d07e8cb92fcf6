package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/support-admin/internal/domain"
	"github.com/spec-kit/support-admin/internal/events"
	"github.com/spec-kit/support-admin/internal/repository"
	apperrors "github.com/spec-kit/support-admin/pkg/util/errorutil"
)

// SupportGroupService creates support groups on behalf of admins.
type SupportGroupService struct {
	groups     repository.SupportGroupRepository
	dispatcher events.Dispatcher
	validate   *validator.Validate
	location   *time.Location
}

// NewSupportGroupService constructs the service. Meeting times are read in loc.
func NewSupportGroupService(groups repository.SupportGroupRepository, dispatcher events.Dispatcher, loc *time.Location) *SupportGroupService {
	if loc == nil {
		loc = time.Local
	}
	return &SupportGroupService{
		groups:     groups,
		dispatcher: dispatcher,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		location:   loc,
	}
}

// Create validates form and stores the group it describes.
func (s *SupportGroupService) Create(ctx context.Context, actor *domain.User, form domain.SupportGroupForm) (*domain.SupportGroup, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	form.NextMeeting = strings.TrimSpace(form.NextMeeting)

	if err := s.validate.Struct(form); err != nil {
		return nil, validationFailure(err)
	}

	meeting, err := time.ParseInLocation(domain.MeetingLayout, form.NextMeeting, s.location)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid support group", map[string]any{
			"nextMeeting": "must be a local date-time like 2024-05-01T10:00",
		})
	}

	group := &domain.SupportGroup{
		Name:        form.Name,
		Description: form.Description,
		Capacity:    form.Capacity,
		NextMeeting: meeting,
		CreatedBy:   actor.ID,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		event := events.NewEvent(events.EventSupportGroupCreated, group.ID, actor.ID, events.SupportGroupCreatedPayload{
			Name:        group.Name,
			Capacity:    group.Capacity,
			NextMeeting: group.NextMeeting,
		})
		_ = s.dispatcher.Publish(ctx, event)
	}
	return group, nil
}

var fieldNames = map[string]string{
	"Name":        "name",
	"Description": "description",
	"Capacity":    "capacity",
	"NextMeeting": "nextMeeting",
}

func validationFailure(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.NewValidationError("invalid support group", nil)
	}
	details := make(map[string]any, len(ve))
	for _, fe := range ve {
		key, ok := fieldNames[fe.StructField()]
		if !ok {
			key = strings.ToLower(fe.StructField())
		}
		details[key] = messageForTag(fe.Tag(), fe.Param())
	}
	return apperrors.NewValidationError("invalid support group", details)
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + param
	case "lte":
		return "must be at most " + param
	case "max":
		return "must be at most " + param + " characters"
	}
	return "is invalid"
}
