package history

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fairtick/fairtick/pkg/types"
)

var (
	bucketSessions  = []byte("sessions")
	bucketDecisions = []byte("decisions")
)

// Session describes one scheduler run.
type Session struct {
	RunID     string    `json:"runId"`
	StartedAt time.Time `json:"startedAt"`
	CPUs      int       `json:"cpus"`
	Quantum   int       `json:"quantum"`
}

// Store is a BoltDB-backed decision log.
type Store struct {
	db    *bolt.DB
	runID string
}

// Open creates or opens the decision log under dir and records the session.
func Open(dir string, session Session) (*Store, error) {
	dbPath := filepath.Join(dir, "fairtick.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSessions, bucketDecisions} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		b := tx.Bucket(bucketSessions)
		data, err := json.Marshal(&session)
		if err != nil {
			return err
		}
		return b.Put([]byte(session.RunID), data)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, runID: session.RunID}, nil
}

// Append records one decision.
func (s *Store) Append(d *types.Decision) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDecisions)
		data, err := json.Marshal(d)
		if err != nil {
			return err
		}
		return b.Put(s.decisionKey(d.VTime), data)
	})
}

// Decisions returns all recorded decisions for this run in vtime order.
func (s *Store) Decisions() ([]*types.Decision, error) {
	var out []*types.Decision
	prefix := []byte(s.runID + "/")
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketDecisions).Cursor()
		for k, v := c.Seek(prefix); k != nil && len(k) > len(prefix) && string(k[:len(prefix)]) == string(prefix); k, v = c.Next() {
			var d types.Decision
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("decode decision %s: %w", k, err)
			}
			out = append(out, &d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// decisionKey orders decisions by run then tick. Zero-padding keeps bucket
// order equal to numeric vtime order.
func (s *Store) decisionKey(vtime int) []byte {
	return []byte(fmt.Sprintf("%s/%012d", s.runID, vtime))
}
