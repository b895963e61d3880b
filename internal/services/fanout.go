package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/gigpost-backend/internal/bus"
	"github.com/yungbote/gigpost-backend/internal/logger"
	"github.com/yungbote/gigpost-backend/internal/types"
)

// Default topic names; overridable through the environment.
const (
	DefaultUpdatesTopic           = "gigpost"
	DefaultTTLTopic               = "gigpost-ttl"
	DefaultUserNotificationsTopic = "user-notifications"
)

type Topics struct {
	Updates           string
	TTL               string
	UserNotifications string
}

// notifySpec is the per-user-notification capability of a command: how
// to pick the notification type, who hears about it, and how the event
// is worded relative to each recipient. Attributes is the original
// command input, embedded verbatim for audit.
type notifySpec struct {
	Type       func(res *CommandResult) types.UserNotificationType
	Audience   func(res *CommandResult) []string
	Summary    func(res *CommandResult, recipient string) string
	Payload    func(res *CommandResult) any
	Attributes any
}

// fanout turns one committed mutation into the outbound messages its
// command declares. Publish failures are logged and swallowed: once the
// conditional write commits, the mutation is the source of truth and
// messaging is best-effort.
type fanout struct {
	log    *logger.Logger
	bus    bus.Publisher
	topics Topics
}

func newFanout(log *logger.Logger, publisher bus.Publisher, topics Topics) *fanout {
	return &fanout{
		log:    log.With("service", "EventFanout"),
		bus:    publisher,
		topics: topics,
	}
}

func (f *fanout) dispatch(ctx context.Context, spec commandSpec, res *CommandResult) {
	if f == nil || f.bus == nil || res == nil || res.Request == nil {
		return
	}
	log := f.log.With("command", spec.Name, "request_reference", res.RequestReference)

	if spec.Broadcast {
		f.publishUpdates(ctx, log, res)
	}
	if spec.TTL != nil {
		f.publishTTL(ctx, log, spec, res)
	}
	if spec.Notify != nil {
		f.publishUserNotifications(ctx, log, spec, res)
	}
}

// publishUpdates broadcasts the full post-mutation aggregate on the
// well-known updates topic, at most once per successful mutation.
func (f *fanout) publishUpdates(ctx context.Context, log *logger.Logger, res *CommandResult) {
	raw, err := json.Marshal(res.Request)
	if err != nil {
		log.Error("marshal updates message failed", "error", err)
		return
	}
	if err := f.bus.Publish(ctx, f.topics.Updates, string(raw)); err != nil {
		log.Warn("publish updates failed", "error", err)
	}
}

func (f *fanout) publishTTL(ctx context.Context, log *logger.Logger, spec commandSpec, res *CommandResult) {
	msg, err := spec.TTL(res)
	if err != nil || msg == nil {
		if err != nil {
			log.Error("build TTL message failed", "error", err)
		}
		return
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		log.Error("marshal TTL message failed", "error", err)
		return
	}
	if err := f.bus.Publish(ctx, f.topics.TTL, string(raw)); err != nil {
		log.Warn("publish TTL failed", "error", err)
	}
}

// publishUserNotifications builds and publishes one message per
// audience member, in parallel. A failure for one recipient never
// aborts the others; the first error is logged after all dispatches
// have finished.
func (f *fanout) publishUserNotifications(ctx context.Context, log *logger.Logger, spec commandSpec, res *CommandResult) {
	notify := spec.Notify
	audience := notify.Audience(res)
	if len(audience) == 0 {
		return
	}
	notificationType := notify.Type(res)

	payload := ""
	if notify.Payload != nil {
		raw, err := json.Marshal(notify.Payload(res))
		if err != nil {
			log.Error("marshal notification payload failed", "error", err)
			return
		}
		payload = string(raw)
	}
	attributes := ""
	if notify.Attributes != nil {
		raw, err := json.Marshal(notify.Attributes)
		if err != nil {
			log.Error("marshal notification attributes failed", "error", err)
			return
		}
		attributes = string(raw)
	}

	var g errgroup.Group
	for _, recipient := range audience {
		g.Go(func() error {
			notification := types.UserNotification{
				Reference:     uuid.NewString(),
				CreatedOn:     types.Now(),
				ServiceCode:   types.ServiceCode,
				UserReference: recipient,
				Type:          notificationType,
				Summary:       notify.Summary(res, recipient),
				Payload:       payload,
				Attributes:    attributes,
			}
			raw, err := json.Marshal(&notification)
			if err != nil {
				return err
			}
			return f.bus.Publish(ctx, f.topics.UserNotifications, string(raw))
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("one or more user notifications failed", "error", err)
	}
}
