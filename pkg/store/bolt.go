package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// DefaultBucket holds items when no bucket name is configured.
	DefaultBucket = "items"

	indexSuffix = ".index"
)

// Bolt is a Source backed by a bbolt database. Items are stored as JSON under
// an insertion sequence number, so the natural order is import order. A
// companion index bucket maps row ids to sequence numbers.
type Bolt struct {
	db      *bolt.DB
	bucket  []byte
	index   []byte
	idField string
}

// BoltOptions configures OpenBolt.
type BoltOptions struct {
	Bucket  string
	IDField string
	Timeout time.Duration
}

// OpenBolt opens (or creates) the database at path.
func OpenBolt(path string, opts BoltOptions) (*Bolt, error) {
	if opts.Bucket == "" {
		opts.Bucket = DefaultBucket
	}
	if opts.IDField == "" {
		opts.IDField = DefaultIDField
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second
	}

	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	b := &Bolt{
		db:      db,
		bucket:  []byte(opts.Bucket),
		index:   []byte(opts.Bucket + indexSuffix),
		idField: opts.IDField,
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(b.bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(b.index)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Put inserts or replaces items, keyed by their id field. Items without an id
// are rejected.
func (b *Bolt) Put(ctx context.Context, items ...Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		data := tx.Bucket(b.bucket)
		index := tx.Bucket(b.index)
		for _, it := range items {
			id := it.ID(b.idField)
			if id == "" {
				return fmt.Errorf("store: item without %q field", b.idField)
			}
			key := index.Get([]byte(id))
			if key == nil {
				seq, err := data.NextSequence()
				if err != nil {
					return err
				}
				key = marshalSeq(seq)
				if err := index.Put([]byte(id), key); err != nil {
					return err
				}
			}
			v, err := json.Marshal(it)
			if err != nil {
				return err
			}
			if err := data.Put(key, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load implements Source.
func (b *Bolt) Load(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []Item
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).ForEach(func(_, v []byte) error {
			it, err := unmarshalItem(v)
			if err != nil {
				return err
			}
			items = append(items, it)
			return nil
		})
	})
	return items, err
}

// LoadRange implements RangeSource by walking a cursor over the window only.
func (b *Bolt) LoadRange(ctx context.Context, start, count int) (Result, error) {
	if err := ValidateRange(start, count); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	var res Result
	err := b.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket(b.bucket)
		res.Total = bk.Stats().KeyN
		c := bk.Cursor()
		i := 0
		for k, v := c.First(); k != nil && len(res.Items) < count; k, v = c.Next() {
			if i >= start {
				it, err := unmarshalItem(v)
				if err != nil {
					return err
				}
				res.Items = append(res.Items, it)
			}
			i++
		}
		return nil
	})
	return res, err
}

// Update implements Source.
func (b *Bolt) Update(ctx context.Context, id, field string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		key := tx.Bucket(b.index).Get([]byte(id))
		if key == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		data := tx.Bucket(b.bucket)
		it, err := unmarshalItem(data.Get(key))
		if err != nil {
			return err
		}
		it[field] = value
		v, err := json.Marshal(it)
		if err != nil {
			return err
		}
		return data.Put(key, v)
	})
}

// Len returns the number of stored items. It counts the data bucket, as
// LoadRange does for Result.Total.
func (b *Bolt) Len() (int, error) {
	var n int
	err := b.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(b.bucket).Stats().KeyN
		return nil
	})
	return n, err
}

func unmarshalItem(v []byte) (Item, error) {
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var it Item
	if err := dec.Decode(&it); err != nil {
		return nil, err
	}
	return it, nil
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
