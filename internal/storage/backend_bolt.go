package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var guildsBucket = []byte("guilds")

type boltBackend struct {
	db *bbolt.DB
}

func newBoltBackend(path string) (*boltBackend, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(guildsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create guilds bucket: %w", err)
	}
	return &boltBackend{db: db}, nil
}

func (b *boltBackend) Load(_ context.Context, guildID string, rec *Record) (bool, error) {
	found := false
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(guildsBucket).Get([]byte(guildID))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, rec)
	})
	return found, err
}

func (b *boltBackend) Save(_ context.Context, guildID string, rec *Record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error serializing guild record: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(guildsBucket).Put([]byte(guildID), value)
	})
}

func (b *boltBackend) Close() error {
	return b.db.Close()
}
