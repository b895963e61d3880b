package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/gigpost-backend/internal/bus"
	"github.com/yungbote/gigpost-backend/internal/logger"
	"github.com/yungbote/gigpost-backend/internal/requestdata"
	"github.com/yungbote/gigpost-backend/internal/store"
	"github.com/yungbote/gigpost-backend/internal/types"
)

// CommandResult is the committed outcome every fan-out publisher
// receives: the post-write aggregate plus the reference of whatever
// sub-resource the command allocated or touched. Publishers never
// re-read from the store.
type CommandResult struct {
	RequestReference string
	ItemReference    string
	Request          *types.ServiceRequest
}

// commandSpec describes one mutating use case to the runner. Mutate is
// the optimistic closure: it re-reads current state on every attempt,
// computes the next state, and performs the conditional write. The
// optional fan-out slots declare which publishers fire after commit; a
// nil slot is a no-op.
type commandSpec struct {
	Name string

	Caller         *requestdata.RequestData
	ResourceOwner  func(ctx context.Context) (string, error)
	PermittedRoles []types.Role

	Validate func() []Violation
	Precheck func(ctx context.Context) error
	Mutate   func(ctx context.Context) (*CommandResult, error)

	Broadcast bool
	TTL       func(res *CommandResult) (*types.TimeToLive, error)
	Notify    *notifySpec
}

// CommandRunner sequences the lifecycle shared by every mutating
// command: resolve owner, authorize, validate, precheck, run the
// mutation through the bounded retry loop, then fan out.
type CommandRunner struct {
	log      *logger.Logger
	fanout   *fanout
	maxRetry int
}

// NewCommandRunner builds the runner together with its fan-out stage.
// maxRetry is the number of immediate re-attempts after the first
// conflicting write.
func NewCommandRunner(log *logger.Logger, publisher bus.Publisher, topics Topics, maxRetry int) *CommandRunner {
	return &CommandRunner{
		log:      log.With("service", "CommandRunner"),
		fanout:   newFanout(log, publisher, topics),
		maxRetry: maxRetry,
	}
}

func (r *CommandRunner) Execute(ctx context.Context, spec commandSpec) (*CommandResult, error) {
	log := r.log.With("command", spec.Name)

	owner := ""
	if spec.ResourceOwner != nil {
		resolved, err := spec.ResourceOwner(ctx)
		if err != nil {
			return nil, err
		}
		owner = resolved
	}
	if err := authorize(spec.Caller, owner, spec.PermittedRoles); err != nil {
		log.Warn("authorization rejected", "owner", owner)
		return nil, err
	}

	if spec.Validate != nil {
		if violations := spec.Validate(); len(violations) > 0 {
			return nil, errValidation(violations)
		}
	}

	if spec.Precheck != nil {
		if err := spec.Precheck(ctx); err != nil {
			return nil, err
		}
	}

	result, err := r.executeWithRetry(ctx, spec.Mutate)
	if err != nil {
		return nil, err
	}

	r.fanout.dispatch(ctx, spec, result)
	return result, nil
}

// executeWithRetry re-invokes the mutation closure on version conflict,
// immediately and without backoff, up to the configured budget. The
// closure re-reads on each attempt so it always computes against the
// latest version.
func (r *CommandRunner) executeWithRetry(ctx context.Context, mutate func(ctx context.Context) (*CommandResult, error)) (*CommandResult, error) {
	for attempt := 0; ; attempt++ {
		result, err := mutate(ctx)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}
		if attempt >= r.maxRetry {
			r.log.Error("version conflict retries exhausted", "attempts", attempt+1)
			return nil, errConflictExhausted()
		}
	}
}

// authorize passes when the caller is the resolved owner or holds one of
// the permitted roles. An empty role list means owner-only.
func authorize(caller *requestdata.RequestData, owner string, permitted []types.Role) error {
	if caller == nil {
		return errForbidden()
	}
	if owner != "" && strings.EqualFold(caller.UserReference, owner) {
		return nil
	}
	if caller.HasRole(permitted...) {
		return nil
	}
	return errForbidden()
}
