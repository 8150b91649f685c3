// Package cache is a best-effort TTL memo for list/detail query results.
// Each resource family owns its own instance; a write against the family
// purges the whole instance because one write can touch many cached views.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Sentinel keys for whole-collection listings.
const (
	KeyAllBags       = "allBags"
	KeyCategories    = "categories"
	KeySubCategories = "subCategories"
	KeyBlogs         = "blogs"
	KeyContacts      = "contacts"
)

// DefaultTTL matches the one-hour window every family uses.
const DefaultTTL = time.Hour

// Store holds JSON-shapeable values under string keys with an absolute,
// non-sliding TTL. It is never the source of truth; a miss always falls
// through to persistence.
type Store struct {
	lru *expirable.LRU[string, any]
}

// New builds a Store evicting after ttl. size bounds the entry count; zero
// or negative means a sane small default.
func New(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = 128
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{lru: expirable.NewLRU[string, any](size, nil, ttl)}
}

func (s *Store) Get(key string) (any, bool) {
	return s.lru.Get(key)
}

func (s *Store) Set(key string, value any) {
	s.lru.Add(key, value)
}

// Del drops one entry; used after single-entity update/delete.
func (s *Store) Del(key string) {
	s.lru.Remove(key)
}

// Purge drops every entry regardless of TTL; used after any create and most
// updates/deletes.
func (s *Store) Purge() {
	s.lru.Purge()
}

func (s *Store) Keys() []string {
	return s.lru.Keys()
}

func (s *Store) Len() int {
	return s.lru.Len()
}
