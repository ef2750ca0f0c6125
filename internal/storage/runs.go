package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"kyberbench/internal/utils"
)

type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
	StatusCancelled RunStatus = "cancelled"
)

// Run is one registry entry describing a dataset, benchmark or optimization
// run. Metrics holds the flattened latency summaries and counters.
type Run struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Seed      uint64             `json:"seed"`
	Requested int                `json:"requested"`
	Completed int                `json:"completed"`
	Anomalies int                `json:"anomalies"`
	Output    string             `json:"output"`
	Status    RunStatus          `json:"status"`
	Error     string             `json:"error,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Started   time.Time          `json:"started"`
	Finished  time.Time          `json:"finished,omitempty"`
}

var runsBucket = []byte("runs")

// RunStore is the bbolt-backed run registry.
type RunStore struct {
	db *bolt.DB
}

func OpenRunStore(path string) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}
	return &RunStore{db: db}, nil
}

func (s *RunStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin registers run as running. An empty ID is filled in.
func (s *RunStore) Begin(run *Run) error {
	if s == nil || s.db == nil {
		return ErrDBNotConnected
	}
	if run.ID == "" {
		run.ID = utils.GenerateRandomID()
	}
	if run.Started.IsZero() {
		run.Started = time.Now()
	}
	run.Status = StatusRunning

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(runsBucket)
		if b.Get([]byte(run.ID)) != nil {
			return utils.ErrDuplicateID.WithDetails(run.ID)
		}
		return putRun(b, run)
	})
}

// Finish applies update to the stored run and stamps the finish time.
func (s *RunStore) Finish(id string, update func(*Run)) error {
	if s == nil || s.db == nil {
		return ErrDBNotConnected
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(runsBucket)
		run, err := getRun(b, id)
		if err != nil {
			return err
		}
		update(run)
		run.Finished = time.Now()
		return putRun(b, run)
	})
}

func (s *RunStore) Get(id string) (*Run, error) {
	if s == nil || s.db == nil {
		return nil, ErrDBNotConnected
	}
	var run *Run
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		run, err = getRun(tx.Bucket(runsBucket), id)
		return err
	})
	return run, err
}

// List returns all runs, newest first.
func (s *RunStore) List() ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, ErrDBNotConnected
	}
	var out []Run
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(_, v []byte) error {
			var r Run
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			out = append(out, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started.After(out[j].Started) })
	return out, nil
}

func getRun(b *bolt.Bucket, id string) (*Run, error) {
	v := b.Get([]byte(id))
	if v == nil {
		return nil, ErrRunNotFound.WithDetails(id)
	}
	var r Run
	if err := json.Unmarshal(v, &r); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &r, nil
}

func putRun(b *bolt.Bucket, run *Run) error {
	v, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return b.Put([]byte(run.ID), v)
}
