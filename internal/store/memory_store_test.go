package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yungbote/gigpost-backend/internal/types"
)

func seedStore(t *testing.T, m *MemoryStore, reference, client string, status types.RequestStatus) *types.ServiceRequest {
	t.Helper()
	created, err := m.Create(context.Background(), &types.ServiceRequest{
		Reference:     reference,
		ServiceCode:   types.ServiceCode,
		Status:        status,
		Summary:       "test request",
		Amount:        types.Amount{Currency: "NGN", Value: "100.00"},
		ServiceClient: types.ServiceClient{UserReference: client},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func TestCreateAssignsVersionAndTimestamps(t *testing.T) {
	m := NewMemoryStore()
	created := seedStore(t, m, "r-1", "client-1", types.RequestStatusActive)
	if created.Version != 1 {
		t.Fatalf("version: want=1 got=%d", created.Version)
	}
	if created.CreatedOn == "" || created.LastModified == "" {
		t.Fatalf("timestamps not assigned: %+v", created)
	}
}

func TestUpdateBumpsVersionOnMatch(t *testing.T) {
	m := NewMemoryStore()
	created := seedStore(t, m, "r-1", "client-1", types.RequestStatusActive)

	created.Summary = "updated"
	saved, err := m.Update(context.Background(), created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if saved.Version != 2 {
		t.Fatalf("version: want=2 got=%d", saved.Version)
	}

	found, err := m.FindByReference(context.Background(), "r-1")
	if err != nil {
		t.Fatalf("FindByReference: %v", err)
	}
	if found.Summary != "updated" {
		t.Fatalf("summary: want=updated got=%s", found.Summary)
	}
}

func TestUpdateRejectsStaleVersion(t *testing.T) {
	m := NewMemoryStore()
	created := seedStore(t, m, "r-1", "client-1", types.RequestStatusActive)

	stale := *created
	if _, err := m.Update(context.Background(), created); err != nil {
		t.Fatalf("first update: %v", err)
	}

	stale.Summary = "from a stale read"
	_, err := m.Update(context.Background(), &stale)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("error: want=%v got=%v", ErrVersionConflict, err)
	}
}

func TestUpdateUnknownReference(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Update(context.Background(), &types.ServiceRequest{Reference: "ghost", Version: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error: want=%v got=%v", ErrNotFound, err)
	}
}

func TestFindIsCaseInsensitive(t *testing.T) {
	m := NewMemoryStore()
	seedStore(t, m, "Mixed-Case-Ref", "client-1", types.RequestStatusActive)
	if _, err := m.FindByReference(context.Background(), "mixed-case-ref"); err != nil {
		t.Fatalf("FindByReference: %v", err)
	}
}

func TestListPreservesInsertionOrderAndPages(t *testing.T) {
	m := NewMemoryStore()
	for i := 0; i < 5; i++ {
		seedStore(t, m, fmt.Sprintf("r-%d", i), "client-1", types.RequestStatusActive)
	}

	page, err := m.List(context.Background(), Paging{Index: 1, Size: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size: want=2 got=%d", len(page))
	}
	if page[0].Reference != "r-2" || page[1].Reference != "r-3" {
		t.Fatalf("page contents: got %s, %s", page[0].Reference, page[1].Reference)
	}

	past, err := m.List(context.Background(), Paging{Index: 9, Size: 2})
	if err != nil {
		t.Fatalf("List past end: %v", err)
	}
	if len(past) != 0 {
		t.Fatalf("past-end page: want=0 got=%d", len(past))
	}
}

func TestListByStatusAndCounts(t *testing.T) {
	m := NewMemoryStore()
	seedStore(t, m, "r-1", "client-1", types.RequestStatusActive)
	seedStore(t, m, "r-2", "client-2", types.RequestStatusCompleted)
	seedStore(t, m, "r-3", "client-1", types.RequestStatusActive)

	active, err := m.ListByStatus(context.Background(), Paging{Size: 10}, []types.RequestStatus{types.RequestStatusActive})
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active: want=2 got=%d", len(active))
	}

	mine, err := m.ListByServiceClient(context.Background(), Paging{Size: 10}, "CLIENT-1")
	if err != nil {
		t.Fatalf("ListByServiceClient: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("client requests: want=2 got=%d", len(mine))
	}

	completed, err := m.CountByStatus(context.Background(), types.RequestStatusCompleted)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if completed != 1 {
		t.Fatalf("completed count: want=1 got=%d", completed)
	}
	total, err := m.CountAll(context.Background())
	if err != nil {
		t.Fatalf("CountAll: %v", err)
	}
	if total != 3 {
		t.Fatalf("total: want=3 got=%d", total)
	}
}
