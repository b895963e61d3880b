package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/gigpost-backend/internal/logger"
	"github.com/yungbote/gigpost-backend/internal/models"
	"github.com/yungbote/gigpost-backend/internal/store"
	"github.com/yungbote/gigpost-backend/internal/types"
)

// BargainService covers the counter-offer commands: proposing an offer,
// the client accepting or rejecting one, and the proposer withdrawing
// their own.
type BargainService interface {
	Add(ctx context.Context, cmd models.AddBargainCommand) (*models.ResourceReference, error)
	Accept(ctx context.Context, cmd models.AcceptBargainCommand) error
	Reject(ctx context.Context, cmd models.RejectBargainCommand) error
	Delete(ctx context.Context, cmd models.DeleteBargainCommand) error
}

type bargainService struct {
	log    *logger.Logger
	store  store.RequestStore
	owners ownership
	runner *CommandRunner
}

func NewBargainService(log *logger.Logger, requestStore store.RequestStore, runner *CommandRunner) BargainService {
	return &bargainService{
		log:    log.With("service", "BargainService"),
		store:  requestStore,
		owners: ownership{store: requestStore},
		runner: runner,
	}
}

func (s *bargainService) Add(ctx context.Context, cmd models.AddBargainCommand) (*models.ResourceReference, error) {
	result, err := s.runner.Execute(ctx, commandSpec{
		Name:   "AddBargain",
		Caller: cmd.Caller,
		ResourceOwner: func(context.Context) (string, error) {
			return cmd.Caller.UserReference, nil
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireString(v, "currency", cmd.Bargain.Currency)
			v = requireDecimal(v, "value", cmd.Bargain.Value)
			return v
		},
		Precheck: func(ctx context.Context) error {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return err
			}
			return requireMutable(found)
		},
		Mutate: func(ctx context.Context) (*CommandResult, error) {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return nil, err
			}
			offer := types.Offer{
				Reference:     uuid.NewString(),
				UserReference: cmd.Caller.UserReference,
				Amount: types.Amount{
					Currency: cmd.Bargain.Currency,
					Value:    cmd.Bargain.Value,
				},
				Comment:   cmd.Bargain.Comment,
				Status:    types.OfferStatusPending,
				CreatedOn: types.Now(),
			}
			if found.Bargain == nil {
				found.Bargain = &types.Bargain{Offers: []types.Offer{}}
			}
			found.Bargain.Offers = append(found.Bargain.Offers, offer)
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{
				RequestReference: saved.Reference,
				ItemReference:    offer.Reference,
				Request:          saved,
			}, nil
		},
		Broadcast: true,
		Notify: &notifySpec{
			Type: func(*CommandResult) types.UserNotificationType {
				return types.NotificationInvestorBargainAdded
			},
			Audience: func(res *CommandResult) []string { return allPartiesExceptActor(res.Request, res.ItemReference) },
			Summary: func(res *CommandResult, recipient string) string {
				if equalIdentity(res.Request.ServiceClient.UserReference, recipient) {
					return "someone made a bargain on your Service Request post"
				}
				return "someone else made a bargain on a Service Request post that you commented on"
			},
			Payload:    bargainPayload,
			Attributes: cmd,
		},
	})
	if err != nil {
		return nil, err
	}
	return &models.ResourceReference{Reference: result.ItemReference}, nil
}

func bargainPayload(res *CommandResult) any {
	return types.BargainNotificationPayload{
		RequestReference: res.RequestReference,
		BargainReference: res.ItemReference,
	}
}

func (s *bargainService) Accept(ctx context.Context, cmd models.AcceptBargainCommand) error {
	_, err := s.runner.Execute(ctx, commandSpec{
		Name:   "AcceptBargain",
		Caller: cmd.Caller,
		ResourceOwner: func(ctx context.Context) (string, error) {
			return s.owners.requestOwner(ctx, cmd.RequestReference)
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireString(v, "bargain_reference", cmd.BargainReference)
			return v
		},
		Precheck: func(ctx context.Context) error {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return err
			}
			return requireMutableWithOffer(found, cmd.BargainReference)
		},
		Mutate: func(ctx context.Context) (*CommandResult, error) {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return nil, err
			}
			offer, ok := found.FindOffer(cmd.BargainReference)
			if !ok {
				return nil, errNotFound()
			}
			offer.Status = types.OfferStatusAccepted
			// Last accept wins: a later accept simply moves the pointer.
			found.Bargain.AcceptedBargainReference = offer.Reference
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{
				RequestReference: saved.Reference,
				ItemReference:    offer.Reference,
				Request:          saved,
			}, nil
		},
		Broadcast: true,
		Notify: &notifySpec{
			Type: func(*CommandResult) types.UserNotificationType {
				return types.NotificationBargainAccepted
			},
			Audience: func(res *CommandResult) []string { return allPartiesExceptClient(res.Request) },
			Summary: func(res *CommandResult, recipient string) string {
				if offer, ok := res.Request.FindOffer(res.ItemReference); ok {
					if equalIdentity(offer.UserReference, recipient) {
						return "the bargain you made on a Service Request post, was accepted"
					}
				}
				return "someone's bargain on a Service Request post that you commented on, was accepted"
			},
			Payload:    bargainPayload,
			Attributes: cmd,
		},
	})
	return err
}

func (s *bargainService) Reject(ctx context.Context, cmd models.RejectBargainCommand) error {
	_, err := s.runner.Execute(ctx, commandSpec{
		Name:   "RejectBargain",
		Caller: cmd.Caller,
		ResourceOwner: func(ctx context.Context) (string, error) {
			return s.owners.requestOwner(ctx, cmd.RequestReference)
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireString(v, "bargain_reference", cmd.BargainReference)
			return v
		},
		Precheck: func(ctx context.Context) error {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return err
			}
			return requireMutableWithOffer(found, cmd.BargainReference)
		},
		Mutate: func(ctx context.Context) (*CommandResult, error) {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return nil, err
			}
			offer, ok := found.FindOffer(cmd.BargainReference)
			if !ok {
				return nil, errNotFound()
			}
			offer.Status = types.OfferStatusRejected
			clearAcceptedPointer(found, offer.Reference)
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{
				RequestReference: saved.Reference,
				ItemReference:    offer.Reference,
				Request:          saved,
			}, nil
		},
		Broadcast: true,
		Notify: &notifySpec{
			Type: func(*CommandResult) types.UserNotificationType {
				return types.NotificationBargainRejected
			},
			Audience: func(res *CommandResult) []string { return allPartiesExceptClient(res.Request) },
			Summary: func(res *CommandResult, recipient string) string {
				if offer, ok := res.Request.FindOffer(res.ItemReference); ok {
					if equalIdentity(offer.UserReference, recipient) {
						return "the bargain you made on a Service Request post, was rejected"
					}
				}
				return "someone's bargain on a Service Request post that you commented on, was rejected"
			},
			Payload:    bargainPayload,
			Attributes: cmd,
		},
	})
	return err
}

func (s *bargainService) Delete(ctx context.Context, cmd models.DeleteBargainCommand) error {
	_, err := s.runner.Execute(ctx, commandSpec{
		Name:   "DeleteBargain",
		Caller: cmd.Caller,
		ResourceOwner: func(ctx context.Context) (string, error) {
			return s.owners.bargainOwner(ctx, cmd.RequestReference, cmd.BargainReference)
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireString(v, "bargain_reference", cmd.BargainReference)
			return v
		},
		Precheck: func(ctx context.Context) error {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return err
			}
			return requireMutableWithOffer(found, cmd.BargainReference)
		},
		Mutate: func(ctx context.Context) (*CommandResult, error) {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return nil, err
			}
			offer, ok := found.FindOffer(cmd.BargainReference)
			if !ok {
				return nil, errNotFound()
			}
			offer.Deleted = true
			offer.DeletedOn = types.Now()
			clearAcceptedPointer(found, offer.Reference)
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{
				RequestReference: saved.Reference,
				ItemReference:    offer.Reference,
				Request:          saved,
			}, nil
		},
		Broadcast: true,
		// Withdrawing an offer broadcasts the new state but does not
		// push user notifications.
	})
	return err
}

// clearAcceptedPointer drops the accepted-offer pointer when the offer
// it points at is being rejected or withdrawn.
func clearAcceptedPointer(found *types.ServiceRequest, offerReference string) {
	if found.Bargain == nil {
		return
	}
	if equalIdentity(found.Bargain.AcceptedBargainReference, offerReference) {
		found.Bargain.AcceptedBargainReference = ""
	}
}
