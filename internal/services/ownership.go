package services

import (
	"context"
	"errors"

	"github.com/yungbote/gigpost-backend/internal/store"
	"github.com/yungbote/gigpost-backend/internal/types"
)

// ownership resolves the acting-authority identity for a command target.
// Read-only: it never mutates and is safe to call before authorization.
type ownership struct {
	store store.RequestStore
}

func (o ownership) requestOwner(ctx context.Context, requestReference string) (string, error) {
	found, err := o.find(ctx, requestReference)
	if err != nil {
		return "", err
	}
	return found.ServiceClient.UserReference, nil
}

// investmentOwner returns the committer of a service provider, or empty
// when the sub-resource is unknown (the authorization gate then rejects
// unless a permitted role applies).
func (o ownership) investmentOwner(ctx context.Context, requestReference, investmentReference string) (string, error) {
	found, err := o.find(ctx, requestReference)
	if err != nil {
		return "", err
	}
	if provider, ok := found.FindServiceProvider(investmentReference); ok {
		return provider.UserReference, nil
	}
	return "", nil
}

func (o ownership) bargainOwner(ctx context.Context, requestReference, bargainReference string) (string, error) {
	found, err := o.find(ctx, requestReference)
	if err != nil {
		return "", err
	}
	if offer, ok := found.FindOffer(bargainReference); ok {
		return offer.UserReference, nil
	}
	return "", nil
}

func (o ownership) find(ctx context.Context, requestReference string) (*types.ServiceRequest, error) {
	found, err := o.store.FindByReference(ctx, requestReference)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errNotFound()
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

// requireMutable rejects any mutation of a COMPLETED or CANCELLED
// aggregate before a write is attempted.
func requireMutable(found *types.ServiceRequest) error {
	switch found.Status {
	case types.RequestStatusCompleted:
		return errInvalidState(CodeRequestCompleted, "request is completed and no longer accepts changes")
	case types.RequestStatusCancelled:
		return errInvalidState(CodeRequestCancelled, "request is cancelled and no longer accepts changes")
	}
	return nil
}

func requireMutableWithProvider(found *types.ServiceRequest, investmentReference string) error {
	if err := requireMutable(found); err != nil {
		return err
	}
	if _, ok := found.FindServiceProvider(investmentReference); !ok {
		return errNotFound()
	}
	return nil
}

func requireMutableWithOffer(found *types.ServiceRequest, bargainReference string) error {
	if err := requireMutable(found); err != nil {
		return err
	}
	if _, ok := found.FindOffer(bargainReference); !ok {
		return errNotFound()
	}
	return nil
}
