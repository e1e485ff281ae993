package storage

import (
	"context"

	"karaoke-bot/datastore"
)

type jsonBackend struct {
	ds *datastore.DataStore
}

func newJSONBackend(path string) (*jsonBackend, error) {
	ds, err := datastore.New(path)
	if err != nil {
		return nil, err
	}
	return &jsonBackend{ds: ds}, nil
}

func (b *jsonBackend) Load(_ context.Context, guildID string, rec *Record) (bool, error) {
	return b.ds.Get(guildID, rec)
}

func (b *jsonBackend) Save(_ context.Context, guildID string, rec *Record) error {
	return b.ds.Put(guildID, rec)
}

func (b *jsonBackend) Close() error {
	return b.ds.Close()
}
