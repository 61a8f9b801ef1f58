// Package history records every pipeline run in a local bbolt file.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("runs")

// Status of a finished run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record describes one run over one transcript.
type Record struct {
	ID          string        `json:"id"`
	Source      string        `json:"source"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Status      Status        `json:"status"`
	Chunks      int           `json:"chunks"`
	TotalTokens int           `json:"total_tokens"`
	Attempts    int           `json:"attempts"`
	Error       string        `json:"error,omitempty"`
	Outputs     []string      `json:"outputs,omitempty"`
}

// Store is safe for concurrent use.
type Store struct {
	db *bolt.DB
}

// Open creates the database file and its bucket if missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// NewRecord starts a record for source with a fresh ID.
func NewRecord(source string, startedAt time.Time) Record {
	return Record{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: startedAt,
	}
}

// Put stores r, keyed by its ID.
func (s *Store) Put(r Record) error {
	if r.ID == "" {
		return fmt.Errorf("history record has no id")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(r.ID), data)
	})
}

// Get returns the record with id, and false if there is none.
func (s *Store) Get(id string) (Record, bool, error) {
	var (
		r     Record
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(id))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &r)
	})
	return r, found, err
}

// List returns all records ordered by start time.
func (s *Store) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(_, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	return records, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
