package domain

import "time"

const (
	// DefaultGroupCapacity is the capacity a fresh creation form starts with.
	DefaultGroupCapacity = 10
	// MeetingLayout is the local date-time format of a datetime-local input.
	MeetingLayout = "2006-01-02T15:04"
)

// SupportGroup is a persisted, capacity-bounded meeting group.
type SupportGroup struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	NextMeeting time.Time `json:"next_meeting"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// SupportGroupForm is the command payload for creating a support group.
type SupportGroupForm struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"required,max=2000"`
	Capacity    int    `json:"capacity" validate:"gte=1,lte=1000"`
	NextMeeting string `json:"nextMeeting" validate:"required"`
}

// NewSupportGroupForm returns a form holding the default values.
func NewSupportGroupForm() SupportGroupForm {
	return SupportGroupForm{Capacity: DefaultGroupCapacity}
}
