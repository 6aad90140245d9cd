package domain

import "time"

// ShareMode determines how a share link grants access.
type ShareMode string

// Share modes. Public shares resolve directly by slug; invite shares only
// resolve through per-invite sub-slugs.
const (
	ShareModePublic ShareMode = "public"
	ShareModeInvite ShareMode = "invite"
)

// Share grants read-only access to a journal's approved entries via an
// unguessable slug. Shares live outside the owner document so resolution
// needs no owner context.
type Share struct {
	Tracked
	OwnerID   string     `json:"owner_id"`
	JournalID string     `json:"journal_id"`
	Mode      ShareMode  `json:"mode"`
	Slug      string     `json:"slug"`
	Enabled   bool       `json:"enabled"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// IsActive returns true if the share can still be resolved.
func (s *Share) IsActive() bool {
	return s.Enabled && s.RevokedAt == nil && !s.IsDeleted()
}

// Revoke disables the share permanently.
func (s *Share) Revoke() {
	now := time.Now()
	s.RevokedAt = &now
	s.Touch()
}

// ShareInvite is a sub-slug scoped to an invite-mode share. Each invite is
// independently revocable; revoking the parent share kills all its invites.
type ShareInvite struct {
	ID        string     `json:"id"`
	ShareID   string     `json:"share_id"`
	Email     string     `json:"email,omitempty"`
	Slug      string     `json:"slug"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsActive returns true if the invite itself has not been revoked.
// The parent share's state is checked separately at resolution time.
func (i *ShareInvite) IsActive() bool {
	return i.RevokedAt == nil
}

// Revoke disables this invite without touching its siblings.
func (i *ShareInvite) Revoke() {
	now := time.Now()
	i.RevokedAt = &now
}
