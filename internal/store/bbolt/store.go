// Package bbolt provides the BoltDB-backed capture store. One file holds
// every system's capture history; captures are rare (one per compare or
// apply run), so revisions are stored individually without any batching.
package bbolt

import (
	"fmt"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/vios-project/vios/internal/store"
)

var (
	bucketSnapshots = []byte("snapshots") // <system>|rev -> Snapshot
	bucketPatches   = []byte("patches")   // <system>|rev -> Patch
	bucketLatest    = []byte("latest")    // <system>     -> uint64(nextRev)
)

type Store struct {
	db    *bbolt.DB
	codec store.Codec

	nextRevisionCounterMutex sync.RWMutex
	nextRevisionCounter      map[string]uint64
}

var _ store.CaptureStore = (*Store)(nil)

// New opens (or creates) a BoltDB database file.
// Pass nil for [codec] to use the default MessagePack implementation.
// With [durable] set, every commit is fsynced to disk.
func New(path string, codec store.Codec, durable bool) (*Store, error) {
	if codec == nil {
		codec = store.DefaultCodec
	}
	db, err := bbolt.Open(path, 0666, &bbolt.Options{
		Timeout:      0,
		NoSync:       !durable,
		FreelistType: bbolt.FreelistMapType,
	})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSnapshots, bucketPatches, bucketLatest} {
			if _, e := tx.CreateBucketIfNotExists(b); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create default buckets: %w", err)
	}
	return &Store{
		db:                  db,
		codec:               codec,
		nextRevisionCounter: make(map[string]uint64),
	}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.db.Path()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
