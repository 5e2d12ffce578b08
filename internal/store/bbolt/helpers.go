package bbolt

import (
	"encoding/binary"

	"go.etcd.io/bbolt"

	"github.com/vios-project/vios/internal/store"
)

func keySystemRevision(systemID string, id store.RevisionID) []byte {
	buf := make([]byte, len(systemID)+1+8)
	copy(buf, systemID)
	buf[len(systemID)] = '|'
	binary.BigEndian.PutUint64(buf[len(systemID)+1:], uint64(id))
	return buf
}

// claimNextRevision atomically increments the nextRevisionCounter in bucketLatest *and*
// updates the in-memory cache. It returns the newly assigned revision number.
func (s *Store) claimNextRevision(tx *bbolt.Tx, systemID string) (store.RevisionID, error) {
	latest := tx.Bucket(bucketLatest)

	var next uint64
	if raw := latest.Get([]byte(systemID)); raw != nil {
		next = binary.BigEndian.Uint64(raw)
	}
	revisionNumber := store.RevisionID(next)
	next++

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	if err := latest.Put([]byte(systemID), buf); err != nil {
		return 0, err
	}

	s.nextRevisionCounterMutex.Lock()
	s.nextRevisionCounter[systemID] = next
	s.nextRevisionCounterMutex.Unlock()

	return revisionNumber, nil
}
