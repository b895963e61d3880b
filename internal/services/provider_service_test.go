package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yungbote/gigpost-backend/internal/models"
	"github.com/yungbote/gigpost-backend/internal/types"
)

func TestAddServiceProviderSoloInvestor(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	investmentRef := seedProvider(t, env, created.Reference, "investor-1", "100.00")

	found := mustFind(t, env, created.Reference)
	provider, ok := found.FindServiceProvider(investmentRef)
	if !ok {
		t.Fatalf("provider %s not on aggregate", investmentRef)
	}
	if provider.InvestmentStatus.Status != types.TransactionStatusPending {
		t.Fatalf("investment status: want=%s got=%s", types.TransactionStatusPending, provider.InvestmentStatus.Status)
	}

	notifications := env.pub.notifications(t)
	if len(notifications) != 1 {
		t.Fatalf("notifications: want=1 got=%d", len(notifications))
	}
	got := notifications[0]
	if got.Type != types.NotificationSoloInvestorAdded {
		t.Fatalf("type: want=%s got=%s", types.NotificationSoloInvestorAdded, got.Type)
	}
	if got.UserReference != "client-1" {
		t.Fatalf("recipient: want=client-1 got=%s", got.UserReference)
	}
	if !strings.Contains(got.Summary, "your Service Request") {
		t.Fatalf("owner-facing summary expected, got %q", got.Summary)
	}
	var payload types.InvestmentNotificationPayload
	if err := json.Unmarshal([]byte(got.Payload), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.InvestmentReference != investmentRef {
		t.Fatalf("payload investment: want=%s got=%s", investmentRef, payload.InvestmentReference)
	}
}

func TestAddServiceProviderPeerInvestor(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	seedProvider(t, env, created.Reference, "investor-1", "100.00")
	seedProvider(t, env, created.Reference, "investor-2", "40.00")

	notifications := env.pub.notifications(t)
	var peer []types.UserNotification
	for _, n := range notifications {
		if n.Type == types.NotificationPeerInvestorAdded {
			peer = append(peer, n)
		}
	}
	// The second commitment is partial, so everyone except investor-2
	// hears about it: the client and investor-1.
	if len(peer) != 2 {
		t.Fatalf("peer notifications: want=2 got=%d", len(peer))
	}
	recipients := map[string]bool{}
	for _, n := range peer {
		recipients[n.UserReference] = true
		if n.UserReference == "investor-2" {
			t.Fatalf("the committing party must not be notified about itself")
		}
	}
	if !recipients["client-1"] || !recipients["investor-1"] {
		t.Fatalf("recipients: want client-1 and investor-1, got %v", recipients)
	}
}

func TestAddServiceProviderPublishesTTLMessage(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	investmentRef := seedProvider(t, env, created.Reference, "investor-1", "100.00")

	raws := env.pub.published(DefaultTTLTopic)
	if len(raws) != 1 {
		t.Fatalf("TTL messages: want=1 got=%d", len(raws))
	}
	var msg types.TimeToLive
	if err := json.Unmarshal([]byte(raws[0]), &msg); err != nil {
		t.Fatalf("unmarshal TTL message: %v", err)
	}
	if msg.InvestmentReference != investmentRef {
		t.Fatalf("TTL investment: want=%s got=%s", investmentRef, msg.InvestmentReference)
	}
	wantLink := "http://localhost:8080/gigpost/requests/" + created.Reference + "/service-providers/" + investmentRef + "/ttl"
	if msg.DeletionLink != wantLink {
		t.Fatalf("deletion link: want=%s got=%s", wantLink, msg.DeletionLink)
	}
}

func TestAddServiceProviderRejectedOnCancelledRequest(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	if err := env.requests.UpdateStatus(context.Background(), models.UpdateRequestStatusCommand{
		Caller:           caller("client-1"),
		RequestReference: created.Reference,
		Status:           types.RequestStatusCancelled,
	}); err != nil {
		t.Fatalf("cancel request: %v", err)
	}

	_, err := env.provider.Add(context.Background(), models.AddServiceProviderCommand{
		Caller:           caller("investor-1"),
		RequestReference: created.Reference,
		Provider:         models.AddServiceProviderModel{Currency: "NGN", Value: "100.00", Comment: "late"},
	})
	cmdErr := asCommandError(t, err)
	if cmdErr.Code != CodeRequestCancelled {
		t.Fatalf("code: want=%s got=%s", CodeRequestCancelled, cmdErr.Code)
	}
}

func TestRemoveServiceProviderBySelf(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	investmentRef := seedProvider(t, env, created.Reference, "investor-1", "100.00")

	err := env.provider.Remove(context.Background(), models.RemoveServiceProviderCommand{
		Caller:              caller("investor-1"),
		RequestReference:    created.Reference,
		InvestmentReference: investmentRef,
		DeletedBy:           types.DeletedByInvestor,
	})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}

	found := mustFind(t, env, created.Reference)
	provider, ok := found.FindServiceProvider(investmentRef)
	if !ok {
		t.Fatalf("soft-deleted provider must stay on the aggregate")
	}
	if !provider.Deleted || provider.DeletedBy != types.DeletedByInvestor || provider.DeletedOn == "" {
		t.Fatalf("soft-delete fields not set: %+v", provider)
	}

	var deletions []types.UserNotification
	for _, n := range env.pub.notifications(t) {
		if n.Type == types.NotificationInvestorDeletedBySelf {
			deletions = append(deletions, n)
		}
	}
	if len(deletions) != 1 {
		t.Fatalf("deletion notifications: want=1 got=%d", len(deletions))
	}
	if deletions[0].UserReference != "client-1" {
		t.Fatalf("recipient: want=client-1 got=%s", deletions[0].UserReference)
	}
}

func TestRemoveServiceProviderByTTLNotifiesRemovedParty(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	investmentRef := seedProvider(t, env, created.Reference, "investor-1", "100.00")

	err := env.provider.Remove(context.Background(), models.RemoveServiceProviderCommand{
		Caller:              caller("ttl-worker"),
		RequestReference:    created.Reference,
		InvestmentReference: investmentRef,
		DeletedBy:           types.DeletedByTTLService,
	})
	if err != nil {
		t.Fatalf("Remove by TTL: %v", err)
	}

	var deletions []types.UserNotification
	for _, n := range env.pub.notifications(t) {
		if n.Type == types.NotificationInvestorDeletedByTTL {
			deletions = append(deletions, n)
		}
	}
	if len(deletions) != 2 {
		t.Fatalf("deletion notifications: want=2 got=%d", len(deletions))
	}
	summaries := map[string]string{}
	for _, n := range deletions {
		summaries[n.UserReference] = n.Summary
	}
	removedSummary, ok := summaries["investor-1"]
	if !ok {
		t.Fatalf("removed party must be notified: got recipients %v", summaries)
	}
	if !strings.Contains(removedSummary, "the comment you made") {
		t.Fatalf("removed party should get the first-person wording, got %q", removedSummary)
	}
}

func TestRemoveServiceProviderRejectsPaidCommitment(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	investmentRef := seedProvider(t, env, created.Reference, "investor-1", "100.00")
	if _, err := env.provider.MakePayment(context.Background(), models.MakePaymentCommand{
		Caller:              caller("investor-1"),
		RequestReference:    created.Reference,
		InvestmentReference: investmentRef,
	}); err != nil {
		t.Fatalf("MakePayment: %v", err)
	}

	err := env.provider.Remove(context.Background(), models.RemoveServiceProviderCommand{
		Caller:              caller("investor-1"),
		RequestReference:    created.Reference,
		InvestmentReference: investmentRef,
		DeletedBy:           types.DeletedByInvestor,
	})
	if cmdErr := asCommandError(t, err); cmdErr.Kind != KindInvalidState {
		t.Fatalf("kind: want=%s got=%s", KindInvalidState, cmdErr.Kind)
	}
}

func TestMakePaymentMarksSuccessfulWithoutUserNotifications(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	investmentRef := seedProvider(t, env, created.Reference, "investor-1", "100.00")
	before := len(env.pub.notifications(t))

	ref, err := env.provider.MakePayment(context.Background(), models.MakePaymentCommand{
		Caller:              caller("investor-1"),
		RequestReference:    created.Reference,
		InvestmentReference: investmentRef,
	})
	if err != nil {
		t.Fatalf("MakePayment: %v", err)
	}
	if ref.Reference == "" {
		t.Fatalf("expected a transaction reference")
	}

	found := mustFind(t, env, created.Reference)
	provider, _ := found.FindServiceProvider(investmentRef)
	if provider.InvestmentStatus.Status != types.TransactionStatusSuccessful {
		t.Fatalf("investment status: want=%s got=%s", types.TransactionStatusSuccessful, provider.InvestmentStatus.Status)
	}
	if provider.InvestmentStatus.TransactionReference != ref.Reference {
		t.Fatalf("transaction reference: want=%s got=%s", ref.Reference, provider.InvestmentStatus.TransactionReference)
	}
	if provider.InvestmentStatus.TransactionDatetime == "" {
		t.Fatalf("transaction datetime not set")
	}

	if after := len(env.pub.notifications(t)); after != before {
		t.Fatalf("payment must not push user notifications: before=%d after=%d", before, after)
	}
}

func TestMakePaymentOnRemovedCommitment(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	investmentRef := seedProvider(t, env, created.Reference, "investor-1", "100.00")
	if err := env.provider.Remove(context.Background(), models.RemoveServiceProviderCommand{
		Caller:              caller("investor-1"),
		RequestReference:    created.Reference,
		InvestmentReference: investmentRef,
		DeletedBy:           types.DeletedByInvestor,
	}); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	_, err := env.provider.MakePayment(context.Background(), models.MakePaymentCommand{
		Caller:              caller("investor-1"),
		RequestReference:    created.Reference,
		InvestmentReference: investmentRef,
	})
	cmdErr := asCommandError(t, err)
	if cmdErr.Code != CodeInvestmentRemoved {
		t.Fatalf("code: want=%s got=%s", CodeInvestmentRemoved, cmdErr.Code)
	}
}

func TestMakePaymentTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	created := seedRequest(t, env, "client-1", "100.00")
	investmentRef := seedProvider(t, env, created.Reference, "investor-1", "100.00")

	pay := func() error {
		_, err := env.provider.MakePayment(context.Background(), models.MakePaymentCommand{
			Caller:              caller("investor-1"),
			RequestReference:    created.Reference,
			InvestmentReference: investmentRef,
		})
		return err
	}
	if err := pay(); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	cmdErr := asCommandError(t, pay())
	if cmdErr.Code != CodeRequestCompleted {
		t.Fatalf("code: want=%s got=%s", CodeRequestCompleted, cmdErr.Code)
	}
}
