package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"log/slog"

	"github.com/n4u77i/reminderApp/internal/codec"
	"github.com/n4u77i/reminderApp/internal/model"
)

// QueryOps constrains a secondary index query. The zero value returns every
// record for the owner in ascending due-time order.
type QueryOps struct {
	SortValue  string
	Descending bool
}

type indexEntry struct {
	sortKey string
	id      string
}

// MemoryStore is the embedded expiring store. Records live in an id-keyed map
// and an owner-partitioned index kept sorted by sort key, mirroring the table
// plus secondary index layout of the DynamoDB backend. All methods are safe
// for concurrent use; the sweeper is the only remover besides nothing.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]codec.Value
	owner map[string][]indexEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]map[string]codec.Value),
		owner: make(map[string][]indexEntry),
	}
}

// Put inserts or fully replaces the record keyed by its id attribute.
// Repeated puts with the same id overwrite (last writer wins).
func (s *MemoryStore) Put(ctx context.Context, record map[string]codec.Value) error {
	_, span := getTracer().Start(ctx, "memory-put")
	defer span.End()

	id := record[model.AttrID].Str()
	if id == "" {
		return storageErr("put", fmt.Errorf("record has no %s attribute", model.AttrID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.items[id]; ok {
		s.dropIndexEntry(prev[model.AttrOwnerKey].Str(), id)
	}

	s.items[id] = cloneRecord(record)
	s.addIndexEntry(record[model.AttrOwnerKey].Str(), record[model.AttrSortKey].Str(), id)

	return nil
}

// Get is a point lookup by id. Returns ErrReminderNotFound when absent.
func (s *MemoryStore) Get(ctx context.Context, id string) (map[string]codec.Value, error) {
	_, span := getTracer().Start(ctx, "memory-get")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.items[id]
	if !ok {
		return nil, ErrReminderNotFound
	}
	return cloneRecord(record), nil
}

// QueryByOwner returns every record whose owner key matches, ordered by sort
// key. Re-issuing the query yields the current matching set, not a cursor.
func (s *MemoryStore) QueryByOwner(ctx context.Context, owner string, ops *QueryOps) ([]map[string]codec.Value, error) {
	_, span := getTracer().Start(ctx, "memory-query")
	defer span.End()

	if ops == nil {
		ops = &QueryOps{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.owner[owner]
	records := make([]map[string]codec.Value, 0, len(entries))
	for _, e := range entries {
		if ops.SortValue != "" && e.sortKey != ops.SortValue {
			continue
		}
		records = append(records, cloneRecord(s.items[e.id]))
	}

	if ops.Descending {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}

	return records, nil
}

// ExpiredBefore returns the records whose TTL is at or before t.
func (s *MemoryStore) ExpiredBefore(ctx context.Context, t time.Time) ([]map[string]codec.Value, error) {
	_, span := getTracer().Start(ctx, "memory-expired-before")
	defer span.End()

	cutoff := t.Unix()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []map[string]codec.Value
	for _, record := range s.items {
		if ttl := record[model.AttrTTL].Int(); ttl != 0 && ttl <= cutoff {
			expired = append(expired, cloneRecord(record))
		}
	}

	sort.Slice(expired, func(i, j int) bool {
		return expired[i][model.AttrSortKey].Str() < expired[j][model.AttrSortKey].Str()
	})

	return expired, nil
}

// Remove deletes the record and returns its pre-removal snapshot. The delete
// and the snapshot are taken under one lock so the image is never a tombstone.
func (s *MemoryStore) Remove(ctx context.Context, id string) (map[string]codec.Value, error) {
	_, span := getTracer().Start(ctx, "memory-remove")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.items[id]
	if !ok {
		return nil, ErrReminderNotFound
	}

	delete(s.items, id)
	s.dropIndexEntry(record[model.AttrOwnerKey].Str(), id)

	storeLogger.Info("record removed", slog.String("id", id))

	return record, nil
}

// addIndexEntry keeps the owner partition sorted by (sortKey, id). Millisecond
// sort keys share a digit count until the year 2286 so lexicographic order
// matches numeric order, same as the string range key in the DynamoDB table.
func (s *MemoryStore) addIndexEntry(owner, sortKey, id string) {
	if owner == "" {
		return
	}
	entries := s.owner[owner]
	at := sort.Search(len(entries), func(i int) bool {
		if entries[i].sortKey != sortKey {
			return entries[i].sortKey > sortKey
		}
		return entries[i].id >= id
	})
	entries = append(entries, indexEntry{})
	copy(entries[at+1:], entries[at:])
	entries[at] = indexEntry{sortKey: sortKey, id: id}
	s.owner[owner] = entries
}

func (s *MemoryStore) dropIndexEntry(owner, id string) {
	entries := s.owner[owner]
	for i, e := range entries {
		if e.id == id {
			s.owner[owner] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(s.owner[owner]) == 0 {
		delete(s.owner, owner)
	}
}

func cloneRecord(record map[string]codec.Value) map[string]codec.Value {
	clone := make(map[string]codec.Value, len(record))
	for k, v := range record {
		clone[k] = v
	}
	return clone
}
