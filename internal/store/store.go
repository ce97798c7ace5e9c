// Package store persists VM configuration in an embedded bbolt
// database. One bucket holds all VM records as JSON values keyed by VM
// id; writes are transactional, so a crash mid-write cannot corrupt
// previously committed records. Computed container groups are never
// stored here — they are recomputed on every refresh.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cargobay/cargobay/internal/domain"
)

var bucketVMs = []byte("vms")

// VMRecord is the stored shape of one VM.
type VMRecord struct {
	Id         string             `json:"id"`
	Name       string             `json:"name"`
	State      domain.VMState     `json:"state"`
	CPUs       uint32             `json:"cpus"`
	MemoryMB   uint64             `json:"memory_mb"`
	DiskGB     uint64             `json:"disk_gb"`
	Rosetta    bool               `json:"rosetta"`
	SharedDirs []domain.SharedDir `json:"shared_dirs"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Info converts the stored record to its frontend shape.
func (r VMRecord) Info() domain.VMInfo {
	return domain.VMInfo{
		Id:       r.Id,
		Name:     r.Name,
		State:    r.State,
		CPUs:     r.CPUs,
		MemoryMB: r.MemoryMB,
		DiskGB:   r.DiskGB,
		Rosetta:  r.Rosetta,
		Mounts:   r.SharedDirs,
	}
}

// Store holds VM records in a single-file bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVMs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create vms bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveVM inserts or replaces one VM record.
func (s *Store) SaveVM(rec VMRecord) error {
	if rec.Id == "" {
		return fmt.Errorf("refusing to save VM record without id")
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal VM record: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVMs).Put([]byte(rec.Id), value)
	})
}

// GetVM loads one VM record by id.
func (s *Store) GetVM(id string) (VMRecord, error) {
	var rec VMRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketVMs).Get([]byte(id))
		if value == nil {
			return NewNotFoundError(id)
		}
		return json.Unmarshal(value, &rec)
	})
	return rec, err
}

// ListVMs returns every stored record, ordered by name then id.
func (s *Store) ListVMs() ([]VMRecord, error) {
	var records []VMRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVMs).ForEach(func(_, value []byte) error {
			var rec VMRecord
			if err := json.Unmarshal(value, &rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].Id < records[j].Id
	})
	return records, nil
}

// DeleteVM removes one VM record by id.
func (s *Store) DeleteVM(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVMs)
		if b.Get([]byte(id)) == nil {
			return NewNotFoundError(id)
		}
		return b.Delete([]byte(id))
	})
}
