package services

import (
	"strings"

	"github.com/yungbote/gigpost-backend/internal/types"
)

// Audience helpers. All parties of a request are the service client,
// every service provider identity and every bargain proposer identity,
// deduplicated in first-seen order. Soft-deleted entries still count as
// parties: a system-initiated removal must be able to notify the party
// it just removed, whose entry is already flagged in the post-mutation
// aggregate. Inclusion/exclusion variants below implement the
// per-command audience rules.

func allParties(request *types.ServiceRequest) []string {
	var parties []string
	seen := make(map[string]struct{})
	add := func(userReference string) {
		if userReference == "" {
			return
		}
		key := strings.ToLower(userReference)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		parties = append(parties, userReference)
	}

	add(request.ServiceClient.UserReference)
	for _, provider := range request.ServiceProviders {
		add(provider.UserReference)
	}
	if request.Bargain != nil {
		for _, offer := range request.Bargain.Offers {
			add(offer.UserReference)
		}
	}
	return parties
}

// allPartiesExceptActor drops the party that owns the sub-resource the
// command acted on (the committer of a service provider, the proposer
// of an offer).
func allPartiesExceptActor(request *types.ServiceRequest, itemReference string) []string {
	actor := ""
	if provider, ok := request.FindServiceProvider(itemReference); ok {
		actor = provider.UserReference
	} else if offer, ok := request.FindOffer(itemReference); ok {
		actor = offer.UserReference
	}
	return excluding(allParties(request), actor)
}

// allPartiesExceptClient drops the request owner. Used for bargain
// accept/reject, where the client is always the acting party.
func allPartiesExceptClient(request *types.ServiceRequest) []string {
	return excluding(allParties(request), request.ServiceClient.UserReference)
}

func equalIdentity(a, b string) bool {
	return strings.EqualFold(a, b)
}

func excluding(parties []string, drop string) []string {
	if drop == "" {
		return parties
	}
	out := parties[:0]
	for _, p := range parties {
		if strings.EqualFold(p, drop) {
			continue
		}
		out = append(out, p)
	}
	return out
}
