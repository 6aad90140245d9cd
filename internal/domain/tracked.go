// Package domain contains the core business entities for the junk journal copilot.
package domain

import "time"

// Tracked provides common identity and lifecycle fields for persisted entities.
// Embed it in any type that carries timestamps and a soft-delete tombstone.
type Tracked struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	ID        string     `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (t *Tracked) Touch() {
	t.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (t *Tracked) InitTimestamps() {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// IsDeleted returns true if this entity has been soft-deleted.
func (t *Tracked) IsDeleted() bool {
	return t.DeletedAt != nil
}

// MarkDeleted marks this entity as soft-deleted by setting DeletedAt to now.
// UpdatedAt is refreshed as well so the tombstone is visible as a mutation.
func (t *Tracked) MarkDeleted() {
	now := time.Now()
	t.DeletedAt = &now
	t.UpdatedAt = now
}
