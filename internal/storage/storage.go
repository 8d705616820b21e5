// Package storage keeps wetbag and heat documents outside the relational
// database, either in memory or in an S3-compatible bucket.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/JPGarCar/tridu-server/internal/models"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("document not found")

// Backend stores raw objects by key
type Backend interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// DocumentStore persists wetbag and heat documents
type DocumentStore interface {
	GetWetbag(ctx context.Context, id string) (*models.Wetbag, error)
	PutWetbag(ctx context.Context, wetbag *models.Wetbag) error
	GetHeat(ctx context.Context, id int) (*models.Heat, error)
	PutHeat(ctx context.Context, heat *models.Heat) error
}

// Store encodes documents as JSON objects on a Backend
type Store struct {
	backend Backend
	prefix  string
}

var _ DocumentStore = (*Store)(nil)

// New returns a Store writing under prefix
func New(backend Backend, prefix string) *Store {
	return &Store{backend: backend, prefix: prefix}
}

// NewMemory returns a Store backed by process memory
func NewMemory() *Store {
	return New(NewMemoryBackend(), "")
}

// WetbagKey returns the object key of a wetbag document
func (s *Store) WetbagKey(id string) string {
	return s.prefix + "wetbags/" + id + ".json"
}

// HeatKey returns the object key of a heat document
func (s *Store) HeatKey(id int) string {
	return s.prefix + "heats/" + strconv.Itoa(id) + ".json"
}

// GetWetbag reads a wetbag by document id
func (s *Store) GetWetbag(ctx context.Context, id string) (*models.Wetbag, error) {
	var w models.Wetbag
	if err := s.get(ctx, s.WetbagKey(id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// PutWetbag writes a wetbag under its document id
func (s *Store) PutWetbag(ctx context.Context, wetbag *models.Wetbag) error {
	return s.put(ctx, s.WetbagKey(wetbag.ID()), wetbag)
}

// GetHeat reads a transferred heat
func (s *Store) GetHeat(ctx context.Context, id int) (*models.Heat, error) {
	var h models.Heat
	if err := s.get(ctx, s.HeatKey(id), &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// PutHeat writes a heat under its id
func (s *Store) PutHeat(ctx context.Context, heat *models.Heat) error {
	return s.put(ctx, s.HeatKey(heat.ID), heat)
}

func (s *Store) put(ctx context.Context, key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.backend.Put(ctx, key, body)
}

func (s *Store) get(ctx context.Context, key string, v interface{}) error {
	body, err := s.backend.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
