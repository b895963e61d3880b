package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/gigpost-backend/internal/clients/scheduler"
	"github.com/yungbote/gigpost-backend/internal/logger"
	"github.com/yungbote/gigpost-backend/internal/models"
	"github.com/yungbote/gigpost-backend/internal/requestdata"
	"github.com/yungbote/gigpost-backend/internal/store"
	"github.com/yungbote/gigpost-backend/internal/tokens"
	"github.com/yungbote/gigpost-backend/internal/types"
	"github.com/yungbote/gigpost-backend/internal/utils"
)

// RequestService covers whole-request commands: create, field updates,
// status updates, the scheduled-create passthrough, and all read-only
// queries over the aggregate collection.
type RequestService interface {
	Create(ctx context.Context, cmd models.CreateRequestCommand) (*types.ServiceRequest, error)
	CreateScheduled(ctx context.Context, cmd models.ScheduledRequestCommand) (*models.ResourceReference, error)
	UpdateSummary(ctx context.Context, cmd models.UpdateSummaryCommand) error
	UpdateAmount(ctx context.Context, cmd models.UpdateAmountCommand) error
	UpdateStatus(ctx context.Context, cmd models.UpdateRequestStatusCommand) error

	GetByReference(ctx context.Context, caller *requestdata.RequestData, reference string) (*types.ServiceRequest, error)
	Newsfeed(ctx context.Context, caller *requestdata.RequestData, p store.Paging) ([]*types.ServiceRequest, error)
	NewsfeedByStatus(ctx context.Context, caller *requestdata.RequestData, p store.Paging, statuses []types.RequestStatus) ([]*types.ServiceRequest, error)
	List(ctx context.Context, caller *requestdata.RequestData, p store.Paging) ([]*types.ServiceRequest, error)
	ListByStatus(ctx context.Context, caller *requestdata.RequestData, p store.Paging, statuses []types.RequestStatus) ([]*types.ServiceRequest, error)
	UserRequests(ctx context.Context, caller *requestdata.RequestData, p store.Paging) ([]*types.ServiceRequest, error)
	UserInvestments(ctx context.Context, caller *requestdata.RequestData, p store.Paging) ([]models.UserInvestment, error)
	Statistics(ctx context.Context, caller *requestdata.RequestData) ([]models.Statistic, error)
}

type requestService struct {
	log           *logger.Logger
	store         store.RequestStore
	owners        ownership
	runner        *CommandRunner
	scheduler     scheduler.Client
	selfURL       string
	signingSecret string
}

func NewRequestService(log *logger.Logger, requestStore store.RequestStore, runner *CommandRunner, schedulerClient scheduler.Client, selfURL, signingSecret string) RequestService {
	return &requestService{
		log:           log.With("service", "RequestService"),
		store:         requestStore,
		owners:        ownership{store: requestStore},
		runner:        runner,
		scheduler:     schedulerClient,
		selfURL:       strings.TrimRight(selfURL, "/"),
		signingSecret: signingSecret,
	}
}

func (s *requestService) Create(ctx context.Context, cmd models.CreateRequestCommand) (*types.ServiceRequest, error) {
	var created *types.ServiceRequest
	_, err := s.runner.Execute(ctx, commandSpec{
		Name:   "CreateRequest",
		Caller: cmd.Caller,
		ResourceOwner: func(context.Context) (string, error) {
			return cmd.Caller.UserReference, nil
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "summary", cmd.CreateRequest.Summary)
			v = requireAmount(v, "amount", cmd.CreateRequest.Amount)
			return v
		},
		Mutate: func(ctx context.Context) (*CommandResult, error) {
			// Status is always ACTIVE at creation regardless of input.
			fresh := &types.ServiceRequest{
				Reference:        uuid.NewString(),
				ServiceCode:      types.ServiceCode,
				RequestTag:       utils.GenerateRequestTag(types.ServiceCode),
				Status:           types.RequestStatusActive,
				Summary:          cmd.CreateRequest.Summary,
				Amount:           cmd.CreateRequest.Amount,
				ServiceClient:    types.ServiceClient{UserReference: cmd.Caller.UserReference},
				ServiceProviders: []types.ServiceProvider{},
				Bargain:          &types.Bargain{Offers: []types.Offer{}},
			}
			saved, err := s.store.Create(ctx, fresh)
			if err != nil {
				return nil, err
			}
			created = saved
			return &CommandResult{RequestReference: saved.Reference, Request: saved}, nil
		},
		Broadcast: true,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *requestService) CreateScheduled(ctx context.Context, cmd models.ScheduledRequestCommand) (*models.ResourceReference, error) {
	var violations []Violation
	violations = requireString(violations, "run_at", cmd.RunAt)
	violations = requireString(violations, "summary", cmd.CreateRequest.Summary)
	violations = requireAmount(violations, "amount", cmd.CreateRequest.Amount)
	runAt, parseErr := time.Parse(time.RFC3339, cmd.RunAt)
	if cmd.RunAt != "" && parseErr != nil {
		violations = append(violations, Violation{Field: "run_at", Message: "must be an RFC3339 timestamp"})
	}
	if len(violations) > 0 {
		return nil, errValidation(violations)
	}
	if s.scheduler == nil {
		return nil, &CommandError{Kind: KindInvalidState, Code: CodeSchedulerError, Message: "scheduler service is not configured"}
	}

	body, err := json.Marshal(cmd.CreateRequest)
	if err != nil {
		return nil, err
	}
	// The replayed POST goes through the same auth middleware as any
	// client call, so the job carries a bearer token minted for the
	// scheduling caller. It stays valid for an hour past the run time.
	replayToken, err := tokens.Sign(s.signingSecret, cmd.Caller, runAt.Add(time.Hour))
	if err != nil {
		return nil, err
	}
	ref, err := s.scheduler.ScheduleJob(ctx, scheduler.Job{
		RunAt:  cmd.RunAt,
		Method: "POST",
		URL:    s.selfURL + "/gigpost/requests",
		Headers: map[string]string{
			"Authorization":            "Bearer " + replayToken,
			"x-gigpost-user-reference": cmd.Caller.UserReference,
		},
		Body: body,
	})
	if err != nil {
		s.log.Error("schedule create-request failed", "error", err)
		return nil, &CommandError{Kind: KindInvalidState, Code: CodeSchedulerError, Message: "scheduler service rejected the job"}
	}
	return &models.ResourceReference{Reference: ref.Reference}, nil
}

func (s *requestService) UpdateSummary(ctx context.Context, cmd models.UpdateSummaryCommand) error {
	_, err := s.runner.Execute(ctx, commandSpec{
		Name:   "UpdateSummary",
		Caller: cmd.Caller,
		ResourceOwner: func(ctx context.Context) (string, error) {
			return s.owners.requestOwner(ctx, cmd.RequestReference)
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireString(v, "summary", cmd.Summary)
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
			found.Summary = cmd.Summary
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{RequestReference: saved.Reference, Request: saved}, nil
		},
		Broadcast: true,
	})
	return err
}

func (s *requestService) UpdateAmount(ctx context.Context, cmd models.UpdateAmountCommand) error {
	_, err := s.runner.Execute(ctx, commandSpec{
		Name:   "UpdateAmount",
		Caller: cmd.Caller,
		ResourceOwner: func(ctx context.Context) (string, error) {
			return s.owners.requestOwner(ctx, cmd.RequestReference)
		},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireAmount(v, "amount", cmd.Amount)
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
			found.Amount = cmd.Amount
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{RequestReference: saved.Reference, Request: saved}, nil
		},
		Broadcast: true,
	})
	return err
}

func (s *requestService) UpdateStatus(ctx context.Context, cmd models.UpdateRequestStatusCommand) error {
	_, err := s.runner.Execute(ctx, commandSpec{
		Name:   "UpdateRequestStatus",
		Caller: cmd.Caller,
		ResourceOwner: func(ctx context.Context) (string, error) {
			return s.owners.requestOwner(ctx, cmd.RequestReference)
		},
		PermittedRoles: []types.Role{types.RolePlatformAdmin},
		Validate: func() []Violation {
			var v []Violation
			v = requireString(v, "request_reference", cmd.RequestReference)
			v = requireRequestStatus(v, "status", cmd.Status)
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
			found.Status = cmd.Status
			saved, err := s.store.Update(ctx, found)
			if err != nil {
				return nil, err
			}
			return &CommandResult{RequestReference: saved.Reference, Request: saved}, nil
		},
		Broadcast: true,
	})
	return err
}

func (s *requestService) GetByReference(ctx context.Context, caller *requestdata.RequestData, reference string) (*types.ServiceRequest, error) {
	return s.owners.find(ctx, reference)
}

func (s *requestService) Newsfeed(ctx context.Context, caller *requestdata.RequestData, p store.Paging) ([]*types.ServiceRequest, error) {
	return s.store.List(ctx, p)
}

func (s *requestService) NewsfeedByStatus(ctx context.Context, caller *requestdata.RequestData, p store.Paging, statuses []types.RequestStatus) ([]*types.ServiceRequest, error) {
	if err := validStatuses(statuses); err != nil {
		return nil, err
	}
	return s.store.ListByStatus(ctx, p, statuses)
}

func (s *requestService) List(ctx context.Context, caller *requestdata.RequestData, p store.Paging) ([]*types.ServiceRequest, error) {
	if !caller.HasRole(types.RoleKYCAdmin, types.RolePlatformAdmin) {
		return nil, errForbidden()
	}
	return s.store.List(ctx, p)
}

func (s *requestService) ListByStatus(ctx context.Context, caller *requestdata.RequestData, p store.Paging, statuses []types.RequestStatus) ([]*types.ServiceRequest, error) {
	if !caller.HasRole(types.RoleKYCAdmin, types.RolePlatformAdmin) {
		return nil, errForbidden()
	}
	if err := validStatuses(statuses); err != nil {
		return nil, err
	}
	return s.store.ListByStatus(ctx, p, statuses)
}

func (s *requestService) UserRequests(ctx context.Context, caller *requestdata.RequestData, p store.Paging) ([]*types.ServiceRequest, error) {
	return s.store.ListByServiceClient(ctx, p, caller.UserReference)
}

// UserInvestments lists every commitment the caller has made across the
// paged request collection, including soft-deleted ones.
func (s *requestService) UserInvestments(ctx context.Context, caller *requestdata.RequestData, p store.Paging) ([]models.UserInvestment, error) {
	page, err := s.store.List(ctx, p)
	if err != nil {
		return nil, err
	}
	investments := []models.UserInvestment{}
	for _, request := range page {
		for _, provider := range request.ServiceProviders {
			if !strings.EqualFold(provider.UserReference, caller.UserReference) {
				continue
			}
			investments = append(investments, models.UserInvestment{
				RequestReference:    request.Reference,
				InvestmentReference: provider.Reference,
				UserReference:       provider.UserReference,
				RequestCreatedOn:    request.CreatedOn,
			})
		}
	}
	return investments, nil
}

func (s *requestService) Statistics(ctx context.Context, caller *requestdata.RequestData) ([]models.Statistic, error) {
	if !caller.HasRole(types.RolePlatformAdmin, types.RolePlatformUser) {
		return nil, errForbidden()
	}

	total, err := s.store.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := []models.Statistic{{Name: "Total", Value: strconv.FormatInt(total, 10)}}

	for _, status := range []types.RequestStatus{
		types.RequestStatusActive,
		types.RequestStatusInactive,
		types.RequestStatusCompleted,
		types.RequestStatusCancelled,
	} {
		count, err := s.store.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		stats = append(stats, models.Statistic{Name: statusLabel(status), Value: strconv.FormatInt(count, 10)})
	}
	return stats, nil
}

func validStatuses(statuses []types.RequestStatus) error {
	var violations []Violation
	if len(statuses) == 0 {
		violations = append(violations, Violation{Field: "statuses", Message: "must not be empty"})
	}
	for _, status := range statuses {
		if !status.Valid() {
			violations = append(violations, Violation{Field: "statuses", Message: fmt.Sprintf("%q is not a valid request status", string(status))})
		}
	}
	if len(violations) > 0 {
		return errValidation(violations)
	}
	return nil
}

func statusLabel(status types.RequestStatus) string {
	lower := strings.ToLower(string(status))
	if lower == "" {
		return lower
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}
