package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

// HomePath is where the user lands after choosing a role.
const HomePath = "/"

// RoleSelection is the one-time step that follows signup.
type RoleSelection struct {
	sessions *SessionStore
	log      zerolog.Logger
}

func NewRoleSelection(sessions *SessionStore, log zerolog.Logger) *RoleSelection {
	return &RoleSelection{sessions: sessions, log: log}
}

// Required reports whether a signed-in user still has to pick a role.
func (r *RoleSelection) Required(ctx context.Context) (bool, error) {
	sess, err := r.sessions.Current(ctx)
	if err != nil {
		return false, err
	}
	return sess != nil && sess.Role == domain.RoleUnset, nil
}

// Choose records role and returns the destination to navigate to.
// Choosing again overwrites the earlier role.
func (r *RoleSelection) Choose(ctx context.Context, role domain.Role) (string, *domain.Session, error) {
	prev, err := r.sessions.Current(ctx)
	if err != nil {
		return "", nil, err
	}
	sess, err := r.sessions.SetRole(ctx, role)
	if err != nil {
		return "", nil, err
	}
	if prev != nil && prev.Role != domain.RoleUnset {
		r.log.Warn().Str("from", string(prev.Role)).Str("to", string(role)).Msg("role overwritten")
	}
	return HomePath, sess, nil
}
