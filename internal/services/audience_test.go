package services

import (
	"testing"

	"github.com/yungbote/gigpost-backend/internal/types"
)

func audienceFixture() *types.ServiceRequest {
	return &types.ServiceRequest{
		Reference:     "r-1",
		ServiceClient: types.ServiceClient{UserReference: "client-1"},
		ServiceProviders: []types.ServiceProvider{
			{Reference: "inv-1", UserReference: "investor-1"},
			{Reference: "inv-2", UserReference: "Investor-1"},
			{Reference: "inv-3", UserReference: "investor-2", Deleted: true, DeletedBy: types.DeletedByTTLService},
		},
		Bargain: &types.Bargain{
			Offers: []types.Offer{
				{Reference: "off-1", UserReference: "haggler"},
				{Reference: "off-2", UserReference: "client-1"},
			},
		},
	}
}

func TestAllPartiesDedupesAndKeepsDeleted(t *testing.T) {
	parties := allParties(audienceFixture())
	want := []string{"client-1", "investor-1", "investor-2", "haggler"}
	if len(parties) != len(want) {
		t.Fatalf("parties: want=%v got=%v", want, parties)
	}
	for i, p := range want {
		if parties[i] != p {
			t.Fatalf("parties[%d]: want=%s got=%s", i, p, parties[i])
		}
	}
}

func TestAllPartiesExceptActorByInvestment(t *testing.T) {
	parties := allPartiesExceptActor(audienceFixture(), "inv-3")
	for _, p := range parties {
		if p == "investor-2" {
			t.Fatalf("actor should be excluded, got %v", parties)
		}
	}
	if len(parties) != 3 {
		t.Fatalf("parties: want=3 got=%d (%v)", len(parties), parties)
	}
}

func TestAllPartiesExceptActorByOffer(t *testing.T) {
	parties := allPartiesExceptActor(audienceFixture(), "off-1")
	for _, p := range parties {
		if p == "haggler" {
			t.Fatalf("proposer should be excluded, got %v", parties)
		}
	}
}

func TestAllPartiesExceptClient(t *testing.T) {
	parties := allPartiesExceptClient(audienceFixture())
	for _, p := range parties {
		if p == "client-1" {
			t.Fatalf("client should be excluded, got %v", parties)
		}
	}
	if len(parties) != 3 {
		t.Fatalf("parties: want=3 got=%d (%v)", len(parties), parties)
	}
}

func TestAllPartiesUnknownActorExcludesNobody(t *testing.T) {
	fixture := audienceFixture()
	if got := len(allPartiesExceptActor(fixture, "missing")); got != len(allParties(audienceFixture())) {
		t.Fatalf("unknown actor should exclude nobody, got %d parties", got)
	}
}
