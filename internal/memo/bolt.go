package memo

import (
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/mitchgrout/maw32trail/internal/diffs"
)

// bucket names for the three memo tables inside a bbolt-backed cache.
var (
	bucketKey = []byte("key")
	bucketAdd = []byte("add")
	bucketMaj = []byte("maj")
)

// BoltCache is an optional, incrementally-writable companion to the flat
// binary memo format. A long search that augments its memo tables
// on-the-fly (sampling an entry the flat files didn't have) can persist
// each new entry as it's discovered instead of re-serialising the whole
// table at shutdown.
type BoltCache struct {
	db *bolt.DB
}

// OpenBoltCache opens (creating if necessary) a bbolt-backed memo cache.
func OpenBoltCache(path string) (*BoltCache, error) {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, errors.Wrap(err, "memo: open bolt cache")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketKey, bucketAdd, bucketMaj} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "memo: initialise bolt buckets")
	}
	return &BoltCache{db: db}, nil
}

// Close releases the underlying bbolt file.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// PutKeymix persists a single key-mix entry.
func (c *BoltCache) PutKeymix(dx byte, round int, entries []diffs.Entry) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKey).Put([]byte{dx, byte(round)}, diffs.EncodeEntries(entries))
	})
}

// PutAdd persists a single add entry.
func (c *BoltCache) PutAdd(dx, dy byte, entries []diffs.Entry) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAdd).Put([]byte{dx, dy}, diffs.EncodeEntries(entries))
	})
}

// PutMaj persists a single maj entry.
func (c *BoltCache) PutMaj(dx, dy, dz byte, entries []diffs.Entry) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMaj).Put([]byte{dx, dy, dz}, diffs.EncodeEntries(entries))
	})
}

// LoadInto copies every cached entry into an in-memory Store, for use at
// startup alongside (or instead of) the flat binary memo files.
func (c *BoltCache) LoadInto(s *Store) error {
	return c.db.View(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketKey).ForEach(func(k, v []byte) error {
			if len(k) != 2 {
				return nil
			}
			s.PutKeymix(k[0], int(k[1]), diffs.DecodeEntries(v))
			return nil
		}); err != nil {
			return err
		}
		if err := tx.Bucket(bucketAdd).ForEach(func(k, v []byte) error {
			if len(k) != 2 {
				return nil
			}
			s.PutAdd(k[0], k[1], diffs.DecodeEntries(v))
			return nil
		}); err != nil {
			return err
		}
		return tx.Bucket(bucketMaj).ForEach(func(k, v []byte) error {
			if len(k) != 3 {
				return nil
			}
			s.PutMaj(k[0], k[1], k[2], diffs.DecodeEntries(v))
			return nil
		})
	})
}
