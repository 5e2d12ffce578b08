package bbolt

import (
	"context"
	"encoding/binary"

	"go.etcd.io/bbolt"

	"github.com/vios-project/vios/internal/store"
)

// SetSnapshot stores a full snapshot and bumps the counter.
func (s *Store) SetSnapshot(
	_ context.Context,
	systemID string,
	snapshot *store.Snapshot,
) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		revNum, err := s.claimNextRevision(tx, systemID)
		if err != nil {
			return err
		}
		snapshot.ID = revNum

		payload, err := s.codec.Marshal(snapshot)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketSnapshots).Put(keySystemRevision(systemID, revNum), payload)
	})
}

// SetPatch stores a delta and bumps the counter.
func (s *Store) SetPatch(
	_ context.Context,
	systemID string,
	p *store.Patch,
) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		revNum, err := s.claimNextRevision(tx, systemID)
		if err != nil {
			return err
		}
		p.ID = revNum

		payload, err := s.codec.Marshal(p)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketPatches).Put(keySystemRevision(systemID, revNum), payload)
	})
}

// Get loads whatever is stored at revID: a snapshot or a patch.
func (s *Store) Get(
	_ context.Context,
	systemID string,
	revID store.RevisionID,
) (*store.Snapshot, *store.Patch, error) {
	var snapshot *store.Snapshot
	var p *store.Patch
	err := s.db.View(func(tx *bbolt.Tx) error {
		key := keySystemRevision(systemID, revID)
		if v := tx.Bucket(bucketSnapshots).Get(key); v != nil {
			snapshot = &store.Snapshot{}
			return s.codec.Unmarshal(v, snapshot)
		}
		if v := tx.Bucket(bucketPatches).Get(key); v != nil {
			p = &store.Patch{}
			return s.codec.Unmarshal(v, p)
		}
		return store.ErrNotFound
	})
	if err != nil {
		return nil, nil, err
	}
	return snapshot, p, nil
}

// GetLatestRevision returns the highest committed revision for systemID.
func (s *Store) GetLatestRevision(
	_ context.Context,
	systemID string,
) (store.RevisionID, error) {
	// check cache first
	s.nextRevisionCounterMutex.RLock()
	if next, ok := s.nextRevisionCounter[systemID]; ok {
		s.nextRevisionCounterMutex.RUnlock()
		return store.RevisionID(next - 1), nil
	}
	s.nextRevisionCounterMutex.RUnlock()

	var next uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketLatest).Get([]byte(systemID))
		if v == nil {
			return store.ErrNotFound
		}
		next = binary.BigEndian.Uint64(v)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.nextRevisionCounterMutex.Lock()
	s.nextRevisionCounter[systemID] = next
	s.nextRevisionCounterMutex.Unlock()
	return store.RevisionID(next - 1), nil
}

// WalkRevisions visits every revision of systemID in ascending order.
func (s *Store) WalkRevisions(
	systemID string,
	fn func(revID store.RevisionID, snap *store.Snapshot, p *store.Patch) bool,
) error {
	latest, err := s.GetLatestRevision(context.Background(), systemID)
	if err != nil {
		return err
	}
	for rev := store.RevisionID(0); rev <= latest; rev++ {
		snap, p, err := s.Get(context.Background(), systemID, rev)
		if err != nil {
			return err
		}
		if !fn(rev, snap, p) {
			return nil
		}
	}
	return nil
}

// Systems lists every system ID with at least one stored revision.
func (s *Store) Systems() ([]string, error) {
	var systems []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLatest).ForEach(func(k, _ []byte) error {
			systems = append(systems, string(k))
			return nil
		})
	})
	return systems, err
}
