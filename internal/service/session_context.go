package service

import (
	"context"

	"github.com/spec-kit/support-admin/internal/dashboard"
	"github.com/spec-kit/support-admin/internal/domain"
)

var _ dashboard.AuthContext = (*SessionContext)(nil)

// SessionContext binds the backend services to one authenticated session,
// giving the admin screen its auth capability.
type SessionContext struct {
	auth    *AuthService
	groups  *SupportGroupService
	actor   *domain.User
	session domain.Session
}

// NewSessionContext builds the capability for actor's session.
func NewSessionContext(authService *AuthService, groups *SupportGroupService, actor *domain.User, sess domain.Session) *SessionContext {
	return &SessionContext{auth: authService, groups: groups, actor: actor, session: sess}
}

// GetAllUsers lists every user visible to the actor.
func (s *SessionContext) GetAllUsers(ctx context.Context) ([]domain.UserProfile, error) {
	return s.auth.ListUsers(ctx, s.actor)
}

// CreateSupportGroup submits form as the actor.
func (s *SessionContext) CreateSupportGroup(ctx context.Context, form domain.SupportGroupForm) error {
	_, err := s.groups.Create(ctx, s.actor, form)
	return err
}

// Logout ends the bound session.
func (s *SessionContext) Logout(ctx context.Context) error {
	return s.auth.Logout(ctx, s.session)
}
