package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketDocuments = []byte("cid2json")

var _ Cache = (*BoltCache)(nil)

// BoltCache implements Cache on a bbolt database. Values are prefixed with
// a compression scheme byte.
type BoltCache struct {
	db *bbolt.DB
}

// OpenBoltCache opens or creates the cache database at dbPath.
func OpenBoltCache(dbPath string) (*BoltCache, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: empty cache path", ErrIOFailure)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIOFailure, dbPath, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDocuments)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create bucket: %w", ErrIOFailure, err)
	}
	return &BoltCache{db: db}, nil
}

// Close closes the underlying database.
func (c *BoltCache) Close() error { return c.db.Close() }

// Put stores doc under cid, replacing any previous entry.
func (c *BoltCache) Put(cid string, doc []byte) error {
	cid, err := NormalizeCID(cid)
	if err != nil {
		return err
	}
	if len(doc) == 0 {
		return ErrEmptyContent
	}
	v, err := encodeValue(doc)
	if err != nil {
		return fmt.Errorf("%w: compress: %w", ErrIOFailure, err)
	}
	err = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocuments).Put([]byte(cid), v)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return nil
}

// Get returns the document cached for cid.
func (c *BoltCache) Get(cid string) ([]byte, error) {
	cid, err := NormalizeCID(cid)
	if err != nil {
		return nil, err
	}
	var raw []byte
	err = c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketDocuments).Get([]byte(cid))
		if v == nil {
			return ErrNotFound
		}
		// bbolt values are only valid inside the transaction.
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, cid)
		}
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	doc, err := decodeValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrIOFailure, cid, err)
	}
	return doc, nil
}

// Has reports whether cid is cached.
func (c *BoltCache) Has(cid string) (bool, error) {
	cid, err := NormalizeCID(cid)
	if err != nil {
		return false, err
	}
	var ok bool
	err = c.db.View(func(tx *bbolt.Tx) error {
		ok = tx.Bucket(bucketDocuments).Get([]byte(cid)) != nil
		return nil
	})
	return ok, err
}

// Delete removes cid from the cache.
func (c *BoltCache) Delete(cid string) error {
	cid, err := NormalizeCID(cid)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocuments).Delete([]byte(cid))
	})
}

// List returns every cached CID in key order.
func (c *BoltCache) List() ([]string, error) {
	var cids []string
	err := c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(k, _ []byte) error {
			cids = append(cids, string(k))
			return nil
		})
	})
	return cids, err
}
