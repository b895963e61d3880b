package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/gigpost-backend/internal/logger"
	"github.com/yungbote/gigpost-backend/internal/models"
	"github.com/yungbote/gigpost-backend/internal/store"
	"github.com/yungbote/gigpost-backend/internal/types"
)

// ProviderService covers the service-provider (investment) commands:
// committing to a request, removing a commitment, and recording payment.
type ProviderService interface {
	Add(ctx context.Context, cmd models.AddServiceProviderCommand) (*models.ResourceReference, error)
	Remove(ctx context.Context, cmd models.RemoveServiceProviderCommand) error
	MakePayment(ctx context.Context, cmd models.MakePaymentCommand) (*models.ResourceReference, error)
}

type providerService struct {
	log     *logger.Logger
	store   store.RequestStore
	owners  ownership
	runner  *CommandRunner
	selfURL string
}

func NewProviderService(log *logger.Logger, requestStore store.RequestStore, runner *CommandRunner, selfURL string) ProviderService {
	return &providerService{
		log:     log.With("service", "ProviderService"),
		store:   requestStore,
		owners:  ownership{store: requestStore},
		runner:  runner,
		selfURL: selfURL,
	}
}

func (s *providerService) Add(ctx context.Context, cmd models.AddServiceProviderCommand) (*models.ResourceReference, error) {
	result, err := s.runner.Execute(ctx, commandSpec{
		Name:   "AddServiceProvider",
		Caller: cmd.Caller,
		ResourceOwner: func(context.Context) (string, error) {
			return cmd.Caller.UserReference, nil
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireString(v, "currency", cmd.Provider.Currency)
			v = requireDecimal(v, "value", cmd.Provider.Value)
			v = requireString(v, "comment", cmd.Provider.Comment)
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
			provider := types.ServiceProvider{
				Reference:     uuid.NewString(),
				UserReference: cmd.Caller.UserReference,
				Amount: types.Amount{
					Currency: cmd.Provider.Currency,
					Value:    cmd.Provider.Value,
				},
				Comment:          cmd.Provider.Comment,
				CreatedOn:        types.Now(),
				InvestmentStatus: types.InvestmentStatus{Status: types.TransactionStatusPending},
			}
			found.ServiceProviders = append(found.ServiceProviders, provider)
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{
				RequestReference: saved.Reference,
				ItemReference:    provider.Reference,
				Request:          saved,
			}, nil
		},
		Broadcast: true,
		TTL:       s.buildTTLMessage,
		Notify: &notifySpec{
			Type:       investorAddedType,
			Audience:   func(res *CommandResult) []string { return allPartiesExceptActor(res.Request, res.ItemReference) },
			Summary:    investorAddedSummary,
			Payload:    investmentPayload,
			Attributes: cmd,
		},
	})
	if err != nil {
		return nil, err
	}
	return &models.ResourceReference{Reference: result.ItemReference}, nil
}

// buildTTLMessage embeds a fully qualified removal link a TTL worker
// can call back to expire the commitment.
func (s *providerService) buildTTLMessage(res *CommandResult) (*types.TimeToLive, error) {
	link := fmt.Sprintf("%s/gigpost/requests/%s/service-providers/%s/ttl",
		s.selfURL, res.RequestReference, res.ItemReference)
	return &types.TimeToLive{
		ServiceCode:         res.Request.ServiceCode,
		RequestReference:    res.Request.Reference,
		InvestmentReference: res.ItemReference,
		RequestCreatedOn:    res.Request.CreatedOn,
		DeletionLink:        link,
	}, nil
}

// investorAddedType splits SOLO vs PEER on a decimal-exact comparison of
// the committed value against the request's target amount.
func investorAddedType(res *CommandResult) types.UserNotificationType {
	provider, ok := res.Request.FindServiceProvider(res.ItemReference)
	if !ok {
		return types.NotificationPeerInvestorAdded
	}
	committed, err := decimal.NewFromString(provider.Amount.Value)
	if err != nil {
		return types.NotificationPeerInvestorAdded
	}
	target, err := decimal.NewFromString(res.Request.Amount.Value)
	if err != nil {
		return types.NotificationPeerInvestorAdded
	}
	if committed.Equal(target) {
		return types.NotificationSoloInvestorAdded
	}
	return types.NotificationPeerInvestorAdded
}

func investorAddedSummary(res *CommandResult, recipient string) string {
	amount := res.Request.Amount
	if provider, ok := res.Request.FindServiceProvider(res.ItemReference); ok {
		amount = provider.Amount
	}
	if equalIdentity(res.Request.ServiceClient.UserReference, recipient) {
		return fmt.Sprintf("someone wants to charge %s %s your Service Request", amount.Value, amount.Currency)
	}
	return fmt.Sprintf("someone else wants to charge %s %s for a Service Request post that you commented on", amount.Value, amount.Currency)
}

func investmentPayload(res *CommandResult) any {
	return types.InvestmentNotificationPayload{
		RequestReference:    res.RequestReference,
		InvestmentReference: res.ItemReference,
	}
}

func (s *providerService) Remove(ctx context.Context, cmd models.RemoveServiceProviderCommand) error {
	_, err := s.runner.Execute(ctx, commandSpec{
		Name:   "RemoveServiceProvider",
		Caller: cmd.Caller,
		ResourceOwner: func(ctx context.Context) (string, error) {
			// System-initiated removals act under their own identity;
			// a self removal must come from the committer.
			switch cmd.DeletedBy {
			case types.DeletedByPlatform, types.DeletedByTTLService:
				return cmd.Caller.UserReference, nil
			default:
				return s.owners.investmentOwner(ctx, cmd.RequestReference, cmd.InvestmentReference)
			}
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireString(v, "investment_reference", cmd.InvestmentReference)
			v = requireDeletedBy(v, "deleted_by", cmd.DeletedBy)
			return v
		},
		Precheck: func(ctx context.Context) error {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return err
			}
			return requireMutableWithProvider(found, cmd.InvestmentReference)
		},
		Mutate: func(ctx context.Context) (*CommandResult, error) {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return nil, err
			}
			if err := requireMutable(found); err != nil {
				return nil, err
			}
			provider, ok := found.FindServiceProvider(cmd.InvestmentReference)
			if !ok {
				return nil, errNotFound()
			}
			if provider.InvestmentStatus.Status == types.TransactionStatusSuccessful {
				return nil, errInvalidState(CodeRequestCompleted, "commitment is already paid and cannot be removed")
			}
			provider.Deleted = true
			provider.DeletedOn = types.Now()
			provider.DeletedBy = cmd.DeletedBy
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{
				RequestReference: saved.Reference,
				ItemReference:    cmd.InvestmentReference,
				Request:          saved,
			}, nil
		},
		Broadcast: true,
		Notify: &notifySpec{
			Type:       investorDeletedType,
			Audience:   investorDeletedAudience,
			Summary:    investorDeletedSummary,
			Payload:    investmentPayload,
			Attributes: cmd,
		},
	})
	return err
}

func investorDeletedType(res *CommandResult) types.UserNotificationType {
	deletedBy := types.DeletedByTTLService
	if provider, ok := res.Request.FindServiceProvider(res.ItemReference); ok {
		deletedBy = provider.DeletedBy
	}
	if deletedBy == types.DeletedByInvestor {
		return types.NotificationInvestorDeletedBySelf
	}
	return types.NotificationInvestorDeletedByTTL
}

// investorDeletedAudience: a self removal is not echoed back to the
// remover; a system removal notifies every party including the party
// whose commitment was removed.
func investorDeletedAudience(res *CommandResult) []string {
	if investorDeletedType(res) == types.NotificationInvestorDeletedBySelf {
		return allPartiesExceptActor(res.Request, res.ItemReference)
	}
	return allParties(res.Request)
}

func investorDeletedSummary(res *CommandResult, recipient string) string {
	if provider, ok := res.Request.FindServiceProvider(res.ItemReference); ok {
		if equalIdentity(provider.UserReference, recipient) {
			return "the comment you made on a Service Request post, was deleted"
		}
	}
	return "someone's comment on a Service Request post that you commented on, was deleted"
}

func (s *providerService) MakePayment(ctx context.Context, cmd models.MakePaymentCommand) (*models.ResourceReference, error) {
	result, err := s.runner.Execute(ctx, commandSpec{
		Name:   "MakePayment",
		Caller: cmd.Caller,
		ResourceOwner: func(ctx context.Context) (string, error) {
			return s.owners.investmentOwner(ctx, cmd.RequestReference, cmd.InvestmentReference)
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireString(v, "investment_reference", cmd.InvestmentReference)
			return v
		},
		Precheck: func(ctx context.Context) error {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return err
			}
			return requireMutableWithProvider(found, cmd.InvestmentReference)
		},
		Mutate: func(ctx context.Context) (*CommandResult, error) {
			found, err := s.owners.find(ctx, cmd.RequestReference)
			if err != nil {
				return nil, err
			}
			provider, ok := found.FindServiceProvider(cmd.InvestmentReference)
			if !ok {
				return nil, errNotFound()
			}
			if provider.Deleted {
				return nil, errInvalidState(CodeInvestmentRemoved, "commitment was removed and cannot be paid")
			}
			if provider.InvestmentStatus.Status == types.TransactionStatusSuccessful {
				return nil, errInvalidState(CodeRequestCompleted, "commitment is already paid")
			}
			// TODO: transaction reference and datetime should come from
			// the transaction service once it is integrated.
			transactionReference := uuid.NewString()
			provider.InvestmentStatus.TransactionReference = transactionReference
			provider.InvestmentStatus.TransactionDatetime = types.Now()
			provider.InvestmentStatus.Status = types.TransactionStatusSuccessful
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{
				RequestReference: saved.Reference,
				ItemReference:    transactionReference,
				Request:          saved,
			}, nil
		},
		Broadcast: true,
		// No user-notification publisher here: payment fan-out is the
		// updates broadcast only.
	})
	if err != nil {
		return nil, err
	}
	return &models.ResourceReference{Reference: result.ItemReference}, nil
}
