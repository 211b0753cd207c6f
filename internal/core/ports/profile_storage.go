package ports

import "context"

// StorageChange is emitted when another tab writes a profile key.
// Value is empty and Deleted is true when the key was removed.
type StorageChange struct {
	Key     string
	Value   string
	Deleted bool
	Origin  string
}

// ProfileStorage is the key-value store of one profile, as seen by one tab.
type ProfileStorage interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes all pairs atomically and announces each key to other tabs.
	Set(ctx context.Context, pairs map[string]string) error
	// Delete removes keys atomically and announces them to other tabs.
	Delete(ctx context.Context, keys ...string) error
	// Watch streams changes made by other tabs until ctx is done.
	Watch(ctx context.Context) (<-chan StorageChange, error)
	// Tab identifies this handle in StorageChange.Origin.
	Tab() string
}

// StorageOpener hands out per-profile storage handles.
type StorageOpener interface {
	Open(profileID string) ProfileStorage
}
