package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/yungbote/gigpost-backend/internal/logger"
	"github.com/yungbote/gigpost-backend/internal/models"
	"github.com/yungbote/gigpost-backend/internal/requestdata"
	"github.com/yungbote/gigpost-backend/internal/store"
	"github.com/yungbote/gigpost-backend/internal/types"
)

const testSigningSecret = "test-secret"

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() { log.Sync() })
	return log
}

// fakePublisher records every published message per topic.
type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][]string
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{messages: make(map[string][]string)}
}

func (f *fakePublisher) Publish(ctx context.Context, topic, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[topic] = append(f.messages[topic], payload)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) published(topic string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages[topic]...)
}

func (f *fakePublisher) notifications(t *testing.T) []types.UserNotification {
	t.Helper()
	raws := f.published(DefaultUserNotificationsTopic)
	out := make([]types.UserNotification, 0, len(raws))
	for _, raw := range raws {
		var n types.UserNotification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			t.Fatalf("unmarshal notification: %v", err)
		}
		out = append(out, n)
	}
	return out
}

type testEnv struct {
	store    *store.MemoryStore
	pub      *fakePublisher
	runner   *CommandRunner
	requests RequestService
	provider ProviderService
	bargains BargainService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := mustTestLogger(t)
	memStore := store.NewMemoryStore()
	pub := newFakePublisher()
	topics := Topics{
		Updates:           DefaultUpdatesTopic,
		TTL:               DefaultTTLTopic,
		UserNotifications: DefaultUserNotificationsTopic,
	}
	runner := NewCommandRunner(log, pub, topics, 3)
	return &testEnv{
		store:    memStore,
		pub:      pub,
		runner:   runner,
		requests: NewRequestService(log, memStore, runner, nil, "http://localhost:8080", testSigningSecret),
		provider: NewProviderService(log, memStore, runner, "http://localhost:8080"),
		bargains: NewBargainService(log, memStore, runner),
	}
}

func caller(userReference string, roles ...types.Role) *requestdata.RequestData {
	return &requestdata.RequestData{UserReference: userReference, Username: userReference, Roles: roles}
}

func seedRequest(t *testing.T, env *testEnv, owner, value string) *types.ServiceRequest {
	t.Helper()
	created, err := env.requests.Create(context.Background(), models.CreateRequestCommand{
		Caller: caller(owner),
		CreateRequest: models.CreateRequest{
			Summary: "need someone to fix the fence",
			Amount:  types.Amount{Currency: "NGN", Value: value},
		},
	})
	if err != nil {
		t.Fatalf("seed create request: %v", err)
	}
	return created
}

func seedProvider(t *testing.T, env *testEnv, requestReference, investor, value string) string {
	t.Helper()
	ref, err := env.provider.Add(context.Background(), models.AddServiceProviderCommand{
		Caller:           caller(investor),
		RequestReference: requestReference,
		Provider: models.AddServiceProviderModel{
			Currency: "NGN",
			Value:    value,
			Comment:  "can do this next week",
		},
	})
	if err != nil {
		t.Fatalf("seed add provider: %v", err)
	}
	return ref.Reference
}

func seedBargain(t *testing.T, env *testEnv, requestReference, proposer, value string) string {
	t.Helper()
	ref, err := env.bargains.Add(context.Background(), models.AddBargainCommand{
		Caller:           caller(proposer),
		RequestReference: requestReference,
		Bargain: models.AddBargainModel{
			Currency: "NGN",
			Value:    value,
			Comment:  "will do it for less",
		},
	})
	if err != nil {
		t.Fatalf("seed add bargain: %v", err)
	}
	return ref.Reference
}

func mustFind(t *testing.T, env *testEnv, reference string) *types.ServiceRequest {
	t.Helper()
	found, err := env.store.FindByReference(context.Background(), reference)
	if err != nil {
		t.Fatalf("find request %s: %v", reference, err)
	}
	return found
}

func asCommandError(t *testing.T, err error) *CommandError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a command error, got nil")
	}
	cmdErr, ok := err.(*CommandError)
	if !ok {
		t.Fatalf("expected *CommandError, got %T: %v", err, err)
	}
	return cmdErr
}
