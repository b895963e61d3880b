package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/yungbote/gigpost-backend/internal/types"
)

// MemoryStore is an in-process RequestStore with the same conditional
// write semantics as the Redis store. It backs service tests and local
// runs without a Redis instance.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]string
	seq  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]string)}
}

func (m *MemoryStore) Create(ctx context.Context, req *types.ServiceRequest) (*types.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := types.Now()
	doc := *req
	doc.Version = 1
	doc.CreatedOn = now
	doc.LastModified = now

	raw, err := json.Marshal(&doc)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(doc.Reference)
	if _, exists := m.docs[key]; !exists {
		m.seq = append(m.seq, key)
	}
	m.docs[key] = string(raw)
	return &doc, nil
}

func (m *MemoryStore) Update(ctx context.Context, req *types.ServiceRequest) (*types.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(req.Reference)
	raw, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	var current types.ServiceRequest
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		return nil, err
	}
	if current.Version != req.Version {
		return nil, ErrVersionConflict
	}

	doc := *req
	doc.Version++
	doc.LastModified = types.Now()
	next, err := json.Marshal(&doc)
	if err != nil {
		return nil, err
	}
	m.docs[key] = string(next)
	return &doc, nil
}

func (m *MemoryStore) FindByReference(ctx context.Context, reference string) (*types.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(reference)
}

func (m *MemoryStore) getLocked(reference string) (*types.ServiceRequest, error) {
	raw, ok := m.docs[strings.ToLower(reference)]
	if !ok {
		return nil, ErrNotFound
	}
	var doc types.ServiceRequest
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (m *MemoryStore) List(ctx context.Context, p Paging) ([]*types.ServiceRequest, error) {
	return m.listWhere(p, func(*types.ServiceRequest) bool { return true })
}

func (m *MemoryStore) ListByStatus(ctx context.Context, p Paging, statuses []types.RequestStatus) ([]*types.ServiceRequest, error) {
	return m.listWhere(p, func(r *types.ServiceRequest) bool {
		for _, s := range statuses {
			if r.Status == s {
				return true
			}
		}
		return false
	})
}

func (m *MemoryStore) ListByServiceClient(ctx context.Context, p Paging, userReference string) ([]*types.ServiceRequest, error) {
	return m.listWhere(p, func(r *types.ServiceRequest) bool {
		return strings.EqualFold(r.ServiceClient.UserReference, userReference)
	})
}

func (m *MemoryStore) listWhere(p Paging, match func(*types.ServiceRequest) bool) ([]*types.ServiceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []*types.ServiceRequest
	for _, key := range m.seq {
		doc, err := m.getLocked(key)
		if err != nil {
			continue
		}
		if match(doc) {
			all = append(all, doc)
		}
	}

	start := p.Offset()
	if start >= len(all) {
		return []*types.ServiceRequest{}, nil
	}
	end := start + p.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *MemoryStore) CountByStatus(ctx context.Context, status types.RequestStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, key := range m.seq {
		doc, err := m.getLocked(key)
		if err != nil {
			continue
		}
		if doc.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) CountAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.docs)), nil
}
