// Package msgbolt archives received messages in a BoltDB file so a host
// session can be reviewed after the process exits.
package msgbolt

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"lobbynet/internal/paths"
)

const (
	bMeta     = "meta"
	bMessages = "messages"
	kCreated  = "created_at"

	defaultTO    = 2 * time.Second
	defaultLimit = 500
)

// Record is one archived message.
type Record struct {
	Seq  uint64    `json:"seq"`
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// Archive is an append-only message log keyed by sequence number.
type Archive struct {
	db *bolt.DB
}

// Open opens (or creates) an archive at path.
func Open(path string) (*Archive, error) {
	if path == "" {
		return nil, errors.New("empty archive path")
	}
	if _, err := paths.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: defaultTO})
	if err != nil {
		return nil, err
	}

	a := &Archive{db: db}
	if err := a.db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(bMeta))
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(bMessages)); err != nil {
			return err
		}
		if meta.Get([]byte(kCreated)) == nil {
			return meta.Put([]byte(kCreated), encodeI64(time.Now().Unix()))
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) Close() error { return a.db.Close() }

// Append stores text and returns its sequence number (starting at 1).
func (a *Archive) Append(text string, at time.Time) (uint64, error) {
	var seq uint64
	err := a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bMessages))
		next, err := b.NextSequence()
		if err != nil {
			return err
		}
		val, err := json.Marshal(Record{Seq: next, At: at.UTC(), Text: text})
		if err != nil {
			return err
		}
		if err := b.Put(seqKey(next), val); err != nil {
			return err
		}
		seq = next
		return nil
	})
	return seq, err
}

// ListSince returns records with Seq > since in order, at most limit of
// them (limit <= 0 means 500).
func (a *Archive) ListSince(since uint64, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	out := make([]Record, 0, min(limit, 256))

	err := a.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bMessages)).Cursor()
		for k, v := c.Seek(seqKey(since + 1)); k != nil && len(out) < limit; k, v = c.Next() {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				// Corruption: skip the record, keep the rest readable.
				continue
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// Count returns the number of archived messages.
func (a *Archive) Count() (int, error) {
	var n int
	err := a.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bMessages)).Stats().KeyN
		return nil
	})
	return n, err
}

// CreatedAt reports when the archive file was first initialised.
func (a *Archive) CreatedAt() (time.Time, error) {
	var ts int64
	err := a.db.View(func(tx *bolt.Tx) error {
		ts = decodeI64(tx.Bucket([]byte(bMeta)).Get([]byte(kCreated)))
		return nil
	})
	return time.Unix(ts, 0), err
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func encodeI64(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func decodeI64(b []byte) int64 {
	if len(b) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}
