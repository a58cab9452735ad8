// Package history persists job records and recently opened files in a
// local bbolt database. Losing this file loses nothing but history.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"

	"cutplot/models"
)

const (
	bucketJobs   = "jobs"
	bucketRecent = "recent-files"
)

type Store struct {
	db *bolt.DB
}

// Open creates or opens the database at path, creating parent
// directories and buckets as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketJobs, bucketRecent} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AddJob appends one record, assigning its ID and timestamp when unset,
// and returns the stored record.
func (s *Store) AddJob(rec models.JobRecord) (models.JobRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.When.IsZero() {
		rec.When = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("encode job: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketJobs))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), data)
	})
	if err != nil {
		return rec, fmt.Errorf("store job: %w", err)
	}
	return rec, nil
}

// Jobs returns up to limit records, newest first. limit <= 0 means all.
func (s *Store) Jobs(limit int) ([]models.JobRecord, error) {
	var jobs []models.JobRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketJobs)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var rec models.JobRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode job %d: %w", unmarshalSeq(k), err)
			}
			jobs = append(jobs, rec)
			if limit > 0 && len(jobs) >= limit {
				return nil
			}
		}
		return nil
	})
	return jobs, err
}

// ExportYAML writes every record, oldest first, as a YAML document.
func (s *Store) ExportYAML(path string) error {
	jobs, err := s.Jobs(0)
	if err != nil {
		return err
	}
	for i, j := 0, len(jobs)-1; i < j; i, j = i+1, j-1 {
		jobs[i], jobs[j] = jobs[j], jobs[i]
	}

	doc := struct {
		Exported time.Time          `yaml:"exported"`
		Jobs     []models.JobRecord `yaml:"jobs"`
	}{Exported: time.Now(), Jobs: jobs}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// TouchRecent records path as just opened and prunes the list to max
// entries, dropping the oldest.
func (s *Store) TouchRecent(path string, max int) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRecent))
		stamp, err := time.Now().MarshalBinary()
		if err != nil {
			return err
		}
		if err := b.Put([]byte(abs), stamp); err != nil {
			return err
		}

		if max <= 0 {
			return nil
		}
		entries, err := collectRecent(b)
		if err != nil {
			return err
		}
		for i := max; i < len(entries); i++ {
			if err := b.Delete([]byte(entries[i].Path)); err != nil {
				return err
			}
		}
		return nil
	})
}

// RecentFiles lists known paths, newest first.
func (s *Store) RecentFiles() ([]models.RecentFile, error) {
	var entries []models.RecentFile
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		entries, err = collectRecent(tx.Bucket([]byte(bucketRecent)))
		return err
	})
	return entries, err
}

func collectRecent(b *bolt.Bucket) ([]models.RecentFile, error) {
	var entries []models.RecentFile
	err := b.ForEach(func(k, v []byte) error {
		var opened time.Time
		if err := opened.UnmarshalBinary(v); err != nil {
			return fmt.Errorf("decode recent entry %s: %w", k, err)
		}
		entries = append(entries, models.RecentFile{Path: string(k), OpenedAt: opened})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].OpenedAt.After(entries[j].OpenedAt)
	})
	return entries, nil
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
