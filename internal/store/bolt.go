// Package store persists transactions and classification rules in a
// Bolt database. Transactions are keyed by their content fingerprint,
// which gives insert-if-absent semantics for free; rules are keyed by a
// bucket sequence number so they replay in insertion order.
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/boltdb/bolt"

	"github.com/bankfeed-dev/bankfeed/internal/model"
)

var (
	bucketTransactions = []byte("transactions")
	bucketRules        = []byte("rules")
)

// Bolt is the Bolt-backed store. Safe for concurrent use; every mutation
// runs inside a single Bolt read-write transaction.
type Bolt struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketTransactions, bucketRules} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

// Close closes the underlying database.
func (s *Bolt) Close() error {
	return s.db.Close()
}

// InsertTransaction inserts a record keyed by its ID unless that ID is
// already present. Returns whether the record was inserted. A duplicate
// is a no-op, not an error, and never updates the existing record; this
// is what makes whole-file re-upload idempotent.
func (s *Bolt) InsertTransaction(rec model.TransactionRecord) (bool, error) {
	if rec.ID == "" {
		return false, fmt.Errorf("transaction has no id")
	}

	inserted := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		key := []byte(rec.ID)
		if b.Get(key) != nil {
			return nil
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding transaction %s: %w", rec.ID, err)
		}
		if err := b.Put(key, val); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}

// GetTransaction returns the record with the given ID, if present.
func (s *Bolt) GetTransaction(id string) (model.TransactionRecord, bool, error) {
	var rec model.TransactionRecord
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		val := tx.Bucket(bucketTransactions).Get([]byte(id))
		if val == nil {
			return nil
		}
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("decoding transaction %s: %w", id, err)
		}
		found = true
		return nil
	})
	return rec, found, err
}

// Transactions returns all stored records.
func (s *Bolt) Transactions() ([]model.TransactionRecord, error) {
	var recs []model.TransactionRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTransactions).ForEach(func(k, v []byte) error {
			var rec model.TransactionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decoding transaction %s: %w", k, err)
			}
			recs = append(recs, rec)
			return nil
		})
	})
	return recs, err
}

// AddRule appends a rule to the ordered rule list.
func (s *Bolt) AddRule(rule model.Rule) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRules)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("rule sequence: %w", err)
		}
		val, err := json.Marshal(rule)
		if err != nil {
			return fmt.Errorf("encoding rule %q: %w", rule.Keyword, err)
		}
		return b.Put(ruleKey(seq), val)
	})
}

// Rules returns all rules in insertion order.
func (s *Bolt) Rules() ([]model.Rule, error) {
	var rules []model.Rule
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRules).ForEach(func(k, v []byte) error {
			var rule model.Rule
			if err := json.Unmarshal(v, &rule); err != nil {
				return fmt.Errorf("decoding rule %x: %w", k, err)
			}
			rules = append(rules, rule)
			return nil
		})
	})
	return rules, err
}

// ApplyRule sets category and bucket on every record that is still
// Uncategorized and whose name contains the rule keyword, case
// insensitively. The whole sweep is one read-write transaction, so a
// rule applies atomically. Returns the number of records changed.
func (s *Bolt) ApplyRule(rule model.Rule) (int, error) {
	keyword := strings.ToLower(rule.Keyword)
	changed := 0

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)

		// Collect matches first: writing while a cursor iterates is
		// not safe in Bolt.
		updates := make(map[string][]byte)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec model.TransactionRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decoding transaction %s: %w", k, err)
			}
			if rec.Classified() {
				continue
			}
			if !strings.Contains(strings.ToLower(rec.Name), keyword) {
				continue
			}

			rec.Category = rule.Category
			rec.Bucket = rule.Bucket
			val, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encoding transaction %s: %w", rec.ID, err)
			}
			updates[string(k)] = val
		}

		for k, val := range updates {
			if err := b.Put([]byte(k), val); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// ruleKey encodes a sequence number as a big-endian key so Bolt's sorted
// iteration matches insertion order.
func ruleKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
