package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidRevision = errors.New("invalid revision")
)

// CaptureStore persists captured BIOS settings trees as revisions per
// system. A revision is either a full snapshot or a change-set patch on top
// of the previous revision; the service layer decides which one to write.
type CaptureStore interface {
	// Get returns the snapshot or the patch stored at revID. Exactly one of
	// the two results is non-nil on success.
	Get(ctx context.Context, systemID string, revID RevisionID) (*Snapshot, *Patch, error)

	SetSnapshot(ctx context.Context, systemID string, snap *Snapshot) error
	SetPatch(ctx context.Context, systemID string, p *Patch) error

	GetLatestRevision(ctx context.Context, systemID string) (RevisionID, error)

	// WalkRevisions visits every revision of systemID in ascending order
	// until fn returns false.
	WalkRevisions(systemID string, fn func(revID RevisionID, snap *Snapshot, p *Patch) bool) error

	// Systems lists every system ID with at least one stored revision.
	Systems() ([]string, error)

	Close() error
}
