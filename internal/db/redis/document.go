package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/showroom/internal/db"
)

// Put stores a product document as JSON under the key prefix.
func (s *Store) Put(ctx context.Context, doc db.Document) (bool, error) {
	key := s.key(doc.ID)

	n, err := s.do(ctx, s.b().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}

	cmd := s.b().Arbitrary("JSON.SET").Keys(key).Args("$", string(doc.Data)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return false, &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return n == 0, nil
}

// PutMulti pipelines JSON.SET for every document.
func (s *Store) PutMulti(ctx context.Context, docs []db.Document) error {
	if len(docs) == 0 {
		return nil
	}
	cmds := make(rueidis.Commands, 0, len(docs))
	for _, d := range docs {
		cmds = append(cmds, s.b().Arbitrary("JSON.SET").Keys(s.key(d.ID)).Args("$", string(d.Data)).Build())
	}
	for _, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpJSONSet, Err: err}
		}
	}
	return nil
}

// Get returns the JSON document stored for id.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	cmd := s.b().Arbitrary("JSON.GET").Keys(s.key(id)).Build()
	raw, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	}
	if raw == "" {
		return nil, db.ErrKeyNotFound
	}
	return []byte(raw), nil
}

// Delete removes a product document.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.do(ctx, s.b().Del().Key(s.key(id)).Build()).AsInt64()
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	if n == 0 {
		return db.ErrKeyNotFound
	}
	return nil
}
