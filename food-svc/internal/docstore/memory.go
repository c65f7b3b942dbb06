package docstore

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryEntry struct {
	data json.RawMessage
	seq  uint64
}

// MemoryStore keeps documents in process. Transactions hold the store lock for
// their whole duration and restore a snapshot when fn fails.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]memoryEntry
	seq         uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]memoryEntry)}
}

func (m *MemoryStore) Get(ctx context.Context, ref Ref) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(ref)
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(collection), nil
}

func (m *MemoryStore) Where(ctx context.Context, collection, field string, value any) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.where(collection, field, value)
}

func (m *MemoryStore) Set(ctx context.Context, ref Ref, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(ref, v)
}

func (m *MemoryStore) Create(ctx context.Context, ref Ref, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(ref, v)
}

func (m *MemoryStore) Add(ctx context.Context, collection string, v any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add(collection, v)
}

func (m *MemoryStore) Update(ctx context.Context, ref Ref, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(ref, fields)
}

func (m *MemoryStore) Delete(ctx context.Context, ref Ref) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delete(ref)
	return nil
}

func (m *MemoryStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	if err := fn(ctx, &memoryTx{store: m}); err != nil {
		m.collections = snapshot
		return err
	}
	return nil
}

func (m *MemoryStore) snapshot() map[string]map[string]memoryEntry {
	copied := make(map[string]map[string]memoryEntry, len(m.collections))
	for name, docs := range m.collections {
		inner := make(map[string]memoryEntry, len(docs))
		for id, entry := range docs {
			inner[id] = entry
		}
		copied[name] = inner
	}
	return copied
}

func (m *MemoryStore) get(ref Ref) (Document, error) {
	entry, ok := m.collections[ref.Collection][ref.ID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: ref.ID, Data: entry.data}, nil
}

func (m *MemoryStore) list(collection string) []Document {
	docs := m.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return docs[ids[i]].seq < docs[ids[j]].seq })

	result := make([]Document, 0, len(ids))
	for _, id := range ids {
		result = append(result, Document{ID: id, Data: docs[id].data})
	}
	return result
}

func (m *MemoryStore) where(collection, field string, value any) ([]Document, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var want any
	if err := json.Unmarshal(raw, &want); err != nil {
		return nil, err
	}

	result := []Document{}
	for _, doc := range m.list(collection) {
		var fields map[string]any
		if err := json.Unmarshal(doc.Data, &fields); err != nil {
			continue
		}
		if got, ok := fields[field]; ok && reflect.DeepEqual(got, want) {
			result = append(result, doc)
		}
	}
	return result, nil
}

func (m *MemoryStore) put(ref Ref, data json.RawMessage) {
	docs, ok := m.collections[ref.Collection]
	if !ok {
		docs = make(map[string]memoryEntry)
		m.collections[ref.Collection] = docs
	}
	entry, exists := docs[ref.ID]
	if !exists {
		m.seq++
		entry.seq = m.seq
	}
	entry.data = data
	docs[ref.ID] = entry
}

func (m *MemoryStore) set(ref Ref, v any) error {
	data, err := encode(v)
	if err != nil {
		return err
	}
	m.put(ref, data)
	return nil
}

func (m *MemoryStore) create(ref Ref, v any) error {
	if _, ok := m.collections[ref.Collection][ref.ID]; ok {
		return ErrAlreadyExists
	}
	return m.set(ref, v)
}

func (m *MemoryStore) add(collection string, v any) (string, error) {
	id := uuid.NewString()
	if err := m.create(Doc(collection, id), v); err != nil {
		return "", err
	}
	return id, nil
}

func (m *MemoryStore) update(ref Ref, fields map[string]any) error {
	entry, ok := m.collections[ref.Collection][ref.ID]
	if !ok {
		return ErrNotFound
	}
	data, err := merge(entry.data, fields)
	if err != nil {
		return err
	}
	m.put(ref, data)
	return nil
}

func (m *MemoryStore) delete(ref Ref) {
	delete(m.collections[ref.Collection], ref.ID)
}

type memoryTx struct {
	store *MemoryStore
}

func (t *memoryTx) Get(ctx context.Context, ref Ref) (Document, error) {
	return t.store.get(ref)
}

func (t *memoryTx) List(ctx context.Context, collection string) ([]Document, error) {
	return t.store.list(collection), nil
}

func (t *memoryTx) Where(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return t.store.where(collection, field, value)
}

func (t *memoryTx) Set(ctx context.Context, ref Ref, v any) error {
	return t.store.set(ref, v)
}

func (t *memoryTx) Create(ctx context.Context, ref Ref, v any) error {
	return t.store.create(ref, v)
}

func (t *memoryTx) Add(ctx context.Context, collection string, v any) (string, error) {
	return t.store.add(collection, v)
}

func (t *memoryTx) Update(ctx context.Context, ref Ref, fields map[string]any) error {
	return t.store.update(ref, fields)
}

func (t *memoryTx) Delete(ctx context.Context, ref Ref) error {
	t.store.delete(ref)
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Tx    = (*memoryTx)(nil)
)
