// Package memory implements the repository contracts on in-process maps.
// It backs STORE_DRIVER=memory for local runs and the test suites.
package memory

import (
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one lock, like a single database.
type Store struct {
	mu           sync.RWMutex
	users        map[primitive.ObjectID]userRecord
	companies    map[primitive.ObjectID]companyRecord
	jobs         map[primitive.ObjectID]jobRecord
	applications map[primitive.ObjectID]applicationRecord

	// seq breaks created_at ties so "newest first" is stable in fast tests
	seq int64
}

func NewStore() *Store {
	return &Store{
		users:        map[primitive.ObjectID]userRecord{},
		companies:    map[primitive.ObjectID]companyRecord{},
		jobs:         map[primitive.ObjectID]jobRecord{},
		applications: map[primitive.ObjectID]applicationRecord{},
	}
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func stamp(id *primitive.ObjectID, created, updated *time.Time) {
	now := time.Now().UTC()
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]struct{} {
	out := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func sortNewestFirst[T any](items []T, key func(T) (time.Time, int64)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, si := key(items[i])
		tj, sj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return si > sj
	})
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
