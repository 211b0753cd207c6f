package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Role is the marketplace role chosen once after signup.
type Role string

const (
	RoleUnset    Role = ""
	RoleClient   Role = "client"
	RoleAgent    Role = "agent"
	RoleLandlord Role = "landlord"
)

// SelectableRoles is the fixed set offered by the role selection step.
var SelectableRoles = []Role{RoleClient, RoleAgent, RoleLandlord}

// IsSelectable reports whether r is one of SelectableRoles.
func (r Role) IsSelectable() bool {
	for _, s := range SelectableRoles {
		if r == s {
			return true
		}
	}
	return false
}

const avatarBaseURL = "https://www.gravatar.com/avatar/"

// Session is the identity record of one profile.
//
// HasHuntSmartPass and HuntSmartTokens are a read-only projection of the
// entitlement store; they are never persisted with the session.
type Session struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             Role   `json:"role"`
	Avatar           string `json:"avatar"`
	HasHuntSmartPass bool   `json:"hasHuntSmartPass"`
	HuntSmartTokens  int    `json:"huntSmartTokens"`
}

// SessionPatch is a shallow update; nil fields are left untouched.
type SessionPatch struct {
	Name             *string
	Email            *string
	Role             *Role
	Avatar           *string
	HasHuntSmartPass *bool
	HuntSmartTokens  *int
}

// TouchesEntitlement reports whether the patch carries entitlement fields.
func (p SessionPatch) TouchesEntitlement() bool {
	return p.HasHuntSmartPass != nil || p.HuntSmartTokens != nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AvatarFor derives the avatar URL deterministically from an email.
func AvatarFor(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return avatarBaseURL + hex.EncodeToString(sum[:]) + "?d=identicon"
}

// DefaultName falls back to the local part of the email.
func DefaultName(email string) string {
	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	return local
}
