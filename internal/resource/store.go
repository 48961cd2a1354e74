// Package resource maps skill names onto objects in the blob store.
package resource

import (
	"context"
	"time"

	"github.com/stemstr/skillgate/internal/mimes"
)

const (
	skillFilename = "SKILL.md"

	DefaultExpiry = 24 * time.Hour
)

type blobStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	PresignGet(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

func New(blobs blobStore, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		blobs:  blobs,
		expiry: expiry,
	}
}

type Store struct {
	blobs  blobStore
	expiry time.Duration
}

// Key is the object key holding the content of the skill called name.
func Key(name string) string {
	return name + "/" + skillFilename
}

// Exists reports whether the skill is in the store. Not found is (false, nil).
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := s.blobs.Exists(ctx, Key(name))
	if err != nil {
		return false, &StoreError{Op: "exists", Name: name, Err: err}
	}
	return ok, nil
}

// Sign returns a url granting read access to the skill for Expiry(). The
// object may have been removed since Exists; that surfaces as an error here
// or as a failed download, never as a retry.
func (s *Store) Sign(ctx context.Context, name string) (string, error) {
	key := Key(name)
	signed, err := s.blobs.PresignGet(ctx, key, mimes.FromFilename(key), s.expiry)
	if err != nil {
		return "", &StoreError{Op: "sign", Name: name, Err: err}
	}
	return signed, nil
}

func (s *Store) Expiry() time.Duration {
	return s.expiry
}
