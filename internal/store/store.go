package store

import (
	"context"
	"errors"

	"github.com/yungbote/gigpost-backend/internal/types"
)

var (
	// ErrNotFound means no aggregate exists under the given reference.
	ErrNotFound = errors.New("request not found")
	// ErrVersionConflict means a conditional write lost the race: the
	// stored version no longer matches the version that was read.
	ErrVersionConflict = errors.New("request version conflict")
)

type Paging struct {
	Index int
	Size  int
}

func (p Paging) Offset() int {
	if p.Index < 0 || p.Size <= 0 {
		return 0
	}
	return p.Index * p.Size
}

func (p Paging) Limit() int {
	if p.Size <= 0 {
		return 50
	}
	return p.Size
}

// RequestStore is the versioned document accessor for ServiceRequest
// aggregates. Create assigns creation and modification timestamps and
// an initial version. Update is a conditional write: it succeeds only
// if the stored version equals req.Version, then bumps the version and
// refreshes last-modified; otherwise it returns ErrVersionConflict.
// Implementations must apply the version check atomically.
type RequestStore interface {
	Create(ctx context.Context, req *types.ServiceRequest) (*types.ServiceRequest, error)
	Update(ctx context.Context, req *types.ServiceRequest) (*types.ServiceRequest, error)
	FindByReference(ctx context.Context, reference string) (*types.ServiceRequest, error)
	List(ctx context.Context, p Paging) ([]*types.ServiceRequest, error)
	ListByStatus(ctx context.Context, p Paging, statuses []types.RequestStatus) ([]*types.ServiceRequest, error)
	ListByServiceClient(ctx context.Context, p Paging, userReference string) ([]*types.ServiceRequest, error)
	CountByStatus(ctx context.Context, status types.RequestStatus) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}
