package store

import (
	"fmt"
	"time"

	"github.com/vios-project/vios/pkg/settings"
)

type RevisionID uint64

func (id RevisionID) String() string {
	return fmt.Sprintf("%08x", uint64(id))
}

// Snapshot is a full captured settings tree.
type Snapshot struct {
	/// Revision Metadata
	// ID of the revision
	ID RevisionID `msgpack:"i" json:"ID,omitempty"`
	// PreviousID is the ID of the previous revision. This can be empty if this is the first revision.
	PreviousID RevisionID `msgpack:"<,omitempty" json:"previousID,omitempty"`

	/// Snapshot Metadata
	// Tree is the full settings tree captured in this revision.
	Tree settings.Tree `msgpack:"o" json:"tree,omitempty"`
	// Time is when the capture was taken.
	Time time.Time `msgpack:"t" json:"time,omitempty"`
}

// Patch is a change-set relative to the previous revision.
type Patch struct {
	/// Revision Metadata
	// ID of the revision
	ID RevisionID `msgpack:"i" json:"ID,omitempty"`
	// PreviousID is the ID of the previous revision.
	// This should always be set since a patch cannot exist without a previous snapshot.
	PreviousID RevisionID `msgpack:"<,omitempty" json:"previousID,omitempty"`

	/// Patch Metadata
	// Change is the change-set between the previous revision and this one.
	// see [settings.Changes] for more details.
	Change settings.ChangeSet `msgpack:"s" json:"change,omitempty"`
	// Time is when the capture was taken.
	Time time.Time `msgpack:"t" json:"time,omitempty"`
}
