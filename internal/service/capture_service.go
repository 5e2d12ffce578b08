// Package service sits between the CLI and the capture store: it decides
// whether a capture becomes a full snapshot or a change-set patch and can
// reconstruct any past revision by replaying the patch chain.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vios-project/vios/internal/store"
	"github.com/vios-project/vios/pkg/settings"
)

// UnchangedCaptureError is returned by Commit when the captured tree equals
// the latest stored revision. The revision ID of that revision is attached
// so callers can still report it.
type UnchangedCaptureError struct {
	RevisionID store.RevisionID
}

func (e UnchangedCaptureError) Error() string {
	return fmt.Sprintf("capture identical to revision %s", e.RevisionID)
}

// CaptureService tracks captured BIOS settings trees per system.
// It stores the captures in a capture store and allows restoring
// the full settings tree at a specific revision.
type CaptureService struct {
	cs            store.CaptureStore
	snapshotEvery uint64 // create full snapshot after this many patches

	cache *stateCache
}

// NewCaptureService creates a new CaptureService instance.
func NewCaptureService(cs store.CaptureStore, snapshotEvery uint64, enableCache bool) *CaptureService {
	if snapshotEvery == 0 {
		snapshotEvery = 10
	}
	svc := &CaptureService{
		cs:            cs,
		snapshotEvery: snapshotEvery,
	}
	if enableCache {
		svc.cache = newStateCache()
	}
	return svc
}

// Commit persists [tree] and returns the new revision ID. Committing a tree
// identical to the latest revision returns [UnchangedCaptureError] with the
// existing ID instead of writing an empty patch.
func (t *CaptureService) Commit(
	ctx context.Context,
	systemID string,
	tree settings.Tree,
) (store.RevisionID, error) {
	latest, err := t.cs.GetLatestRevision(ctx, systemID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return 0, err
		}

		snapshot := store.Snapshot{Tree: settings.Clone(tree), Time: time.Now().UTC()}
		if err := t.cs.SetSnapshot(ctx, systemID, &snapshot); err != nil {
			return 0, err
		}
		t.warmCache(systemID, snapshot.ID, tree)
		return snapshot.ID, nil
	}

	// reconstruct latest state to diff against
	base, err := t.Restore(ctx, systemID, latest)
	if err != nil {
		return 0, err
	}

	change := settings.Changes(base.Tree, tree)
	if change == nil {
		return latest, UnchangedCaptureError{RevisionID: latest}
	}

	chain, err := t.patchDistance(ctx, systemID, latest)
	if err != nil {
		return 0, err
	}

	// check if it's time for a full snapshot
	if uint64(chain) >= t.snapshotEvery-1 {
		snapshot := store.Snapshot{
			PreviousID: latest,
			Tree:       settings.Clone(tree),
			Time:       time.Now().UTC(),
		}
		if err := t.cs.SetSnapshot(ctx, systemID, &snapshot); err != nil {
			return 0, err
		}
		t.warmCache(systemID, snapshot.ID, tree)
		return snapshot.ID, nil
	}

	p := &store.Patch{
		PreviousID: latest,
		Change:     change,
		Time:       time.Now().UTC(),
	}
	if err := t.cs.SetPatch(ctx, systemID, p); err != nil {
		return 0, err
	}
	t.warmCache(systemID, p.ID, tree)
	return p.ID, nil
}

// Restore brings back the settings tree at [rev].
func (t *CaptureService) Restore(
	ctx context.Context,
	systemID string,
	rev store.RevisionID,
) (*store.Snapshot, error) {
	if state := t.cachedState(systemID, rev); state != nil {
		return &store.Snapshot{ID: rev, Tree: settings.Clone(state)}, nil
	}

	var chain []*store.Patch
	cur := rev
	for {
		snap, p, err := t.cs.Get(ctx, systemID, cur)
		if err != nil {
			return nil, fmt.Errorf("broken chain at %s: %w", cur, err)
		}
		if snap != nil {
			// found the base snapshot; replay the patches on a copy
			state := settings.Clone(snap.Tree)
			at := snap.Time
			for i := len(chain) - 1; i >= 0; i-- {
				settings.Patch(state, chain[i].Change)
				at = chain[i].Time
			}
			t.warmCache(systemID, rev, state)
			return &store.Snapshot{ID: rev, Tree: state, Time: at}, nil
		}
		chain = append(chain, p)
		cur = p.PreviousID
	}
}

func (t *CaptureService) patchDistance(ctx context.Context, systemID string, from store.RevisionID) (int, error) {
	n := 0
	cur := from
	for {
		snap, p, err := t.cs.Get(ctx, systemID, cur)
		if err != nil {
			return 0, err
		}
		if snap != nil {
			return n, nil
		}
		n++
		cur = p.PreviousID
	}
}

func (t *CaptureService) warmCache(systemID string, rev store.RevisionID, tree settings.Tree) {
	if t.cache == nil {
		return
	}
	t.cache.set(systemID, &captureState{tree: settings.Clone(tree), rev: rev})
}

func (t *CaptureService) cachedState(systemID string, rev store.RevisionID) settings.Tree {
	if t.cache == nil {
		return nil
	}
	if state := t.cache.get(systemID); state != nil && state.rev == rev {
		return state.tree
	}
	return nil
}
