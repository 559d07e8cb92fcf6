// Package dashboard implements the admin screen: a per-request controller that
// lists users and creates support groups through an injected auth capability.
package dashboard

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-admin/internal/domain"
)

const (
	msgGroupCreated = "Support group created successfully!"
	msgGroupFailed  = "Failed to create support group"
)

// ErrInvalidCapacity is returned for capacity input that is not a positive integer.
var ErrInvalidCapacity = errors.New("capacity must be a whole number of at least 1")

// AuthContext is the backend capability the screen consumes.
type AuthContext interface {
	GetAllUsers(ctx context.Context) ([]domain.UserProfile, error)
	CreateSupportGroup(ctx context.Context, form domain.SupportGroupForm) error
	Logout(ctx context.Context) error
}

// Navigator performs an imperative redirect.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) { f(path) }

// Renderer executes a named template into out.
type Renderer interface {
	Render(out io.Writer, name string, binding interface{}, layout ...string) error
}

// Paths are the routes the screen links to or redirects to.
type Paths struct {
	Screen      string
	CreateGroup string
	Logout      string
	Dashboard   string
	Login       string
}

// DefaultPaths returns the standard route layout.
func DefaultPaths() Paths {
	return Paths{
		Screen:      "/admin",
		CreateGroup: "/admin/groups",
		Logout:      "/admin/logout",
		Dashboard:   "/dashboard",
		Login:       "/login",
	}
}

// Dependencies are the collaborators injected into a Screen.
type Dependencies struct {
	Auth      AuthContext
	Navigator Navigator
	Renderer  Renderer
	Logger    *zap.Logger
	Operator  *domain.UserProfile
	Title     string
	Paths     Paths
}

// NoticeKind classifies a Notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the outcome of a form submission shown to the operator.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Screen holds the state of one admin screen.
type Screen struct {
	auth     AuthContext
	nav      Navigator
	renderer Renderer
	logger   *zap.Logger
	title    string
	paths    Paths

	operator *domain.UserProfile
	users    []domain.UserProfile
	tab      Tab
	form     domain.SupportGroupForm
	formErr  error
	rawCap   string
	notice   *Notice
}

// New builds a Screen with an empty user list, the users tab and a default form.
func New(deps Dependencies) *Screen {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	paths := deps.Paths
	if paths == (Paths{}) {
		paths = DefaultPaths()
	}
	return &Screen{
		auth:     deps.Auth,
		nav:      deps.Navigator,
		renderer: deps.Renderer,
		logger:   logger,
		title:    deps.Title,
		paths:    paths,
		operator: deps.Operator,
		users:    []domain.UserProfile{},
		tab:      TabUsers,
		form:     domain.NewSupportGroupForm(),
	}
}

// Mount runs the access effect for the current operator.
func (s *Screen) Mount(ctx context.Context) {
	s.applyOperator(ctx)
}

// SetOperator replaces the operator and reruns the access effect when the
// profile actually changed.
func (s *Screen) SetOperator(ctx context.Context, operator *domain.UserProfile) {
	if sameProfile(s.operator, operator) {
		return
	}
	s.operator = operator
	s.applyOperator(ctx)
}

func (s *Screen) applyOperator(ctx context.Context) {
	if !s.operator.IsAdmin() {
		s.nav.Navigate(s.paths.Dashboard)
		return
	}
	s.FetchUsers(ctx)
}

// FetchUsers replaces the user list with the backend's. Failures are logged
// and leave the previous list in place.
func (s *Screen) FetchUsers(ctx context.Context) {
	users, err := s.auth.GetAllUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch users", zap.Error(err))
		return
	}
	if users == nil {
		users = []domain.UserProfile{}
	}
	s.users = users
}

// Users returns the fetched users in received order.
func (s *Screen) Users() []domain.UserProfile {
	return s.users
}

// Operator returns the current operator profile.
func (s *Screen) Operator() *domain.UserProfile {
	return s.operator
}

// Form returns the current form values.
func (s *Screen) Form() domain.SupportGroupForm {
	return s.form
}

// Notice returns the last submission outcome, if any.
func (s *Screen) Notice() *Notice {
	return s.notice
}

// SetName updates the group name field.
func (s *Screen) SetName(v string) { s.form.Name = v }

// SetDescription updates the description field.
func (s *Screen) SetDescription(v string) { s.form.Description = v }

// SetNextMeeting updates the next meeting field.
func (s *Screen) SetNextMeeting(v string) { s.form.NextMeeting = v }

// SetCapacity parses raw as the group capacity. Input that is not a positive
// integer is rejected: the previous capacity is kept, the raw text stays on
// display and the next submit fails without reaching the backend.
func (s *Screen) SetCapacity(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		s.formErr = ErrInvalidCapacity
		s.rawCap = raw
		return ErrInvalidCapacity
	}
	s.form.Capacity = n
	s.formErr = nil
	s.rawCap = ""
	return nil
}

// CapacityInput is the capacity as the operator last entered it.
func (s *Screen) CapacityInput() string {
	if s.formErr != nil {
		return s.rawCap
	}
	return strconv.Itoa(s.form.Capacity)
}

// FormInput carries raw form fields as submitted.
type FormInput struct {
	Name        string
	Description string
	Capacity    string
	NextMeeting string
}

// ApplyForm sets every field from in.
func (s *Screen) ApplyForm(in FormInput) error {
	s.SetName(in.Name)
	s.SetDescription(in.Description)
	s.SetNextMeeting(in.NextMeeting)
	return s.SetCapacity(in.Capacity)
}

// CreateGroup submits the form. On success the form is reset to defaults; on
// failure it keeps the entered values.
func (s *Screen) CreateGroup(ctx context.Context) Notice {
	if s.formErr != nil {
		s.logger.Warn("Failed to create support group", zap.Error(s.formErr))
		return s.setNotice(NoticeError, msgGroupFailed)
	}
	if err := s.auth.CreateSupportGroup(ctx, s.form); err != nil {
		s.logger.Error("Failed to create support group", zap.Error(err))
		return s.setNotice(NoticeError, msgGroupFailed)
	}
	s.form = domain.NewSupportGroupForm()
	return s.setNotice(NoticeSuccess, msgGroupCreated)
}

func (s *Screen) setNotice(kind NoticeKind, msg string) Notice {
	n := Notice{Kind: kind, Message: msg}
	s.notice = &n
	return n
}

// Logout ends the session and sends the operator to the login page.
func (s *Screen) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		s.logger.Error("Failed to log out", zap.Error(err))
		return
	}
	s.nav.Navigate(s.paths.Login)
}

func sameProfile(a, b *domain.UserProfile) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
