package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yungbote/gigpost-backend/internal/types"
)

// Validation collects every violation instead of failing fast, so a
// client can fix a whole payload in one round trip.

func requireString(violations []Violation, field, value string) []Violation {
	if strings.TrimSpace(value) == "" {
		violations = append(violations, Violation{Field: field, Message: "must not be empty"})
	}
	return violations
}

func requireAmount(violations []Violation, field string, amount types.Amount) []Violation {
	if strings.TrimSpace(amount.Currency) == "" {
		violations = append(violations, Violation{Field: field + ".currency", Message: "must not be empty"})
	}
	if strings.TrimSpace(amount.Value) == "" {
		violations = append(violations, Violation{Field: field + ".value", Message: "must not be empty"})
		return violations
	}
	if _, err := decimal.NewFromString(amount.Value); err != nil {
		violations = append(violations, Violation{Field: field + ".value", Message: "must be a decimal string"})
	}
	return violations
}

func requireDecimal(violations []Violation, field, value string) []Violation {
	if strings.TrimSpace(value) == "" {
		violations = append(violations, Violation{Field: field, Message: "must not be empty"})
		return violations
	}
	if _, err := decimal.NewFromString(value); err != nil {
		violations = append(violations, Violation{Field: field, Message: "must be a decimal string"})
	}
	return violations
}

func requireRequestStatus(violations []Violation, field string, status types.RequestStatus) []Violation {
	if !status.Valid() {
		violations = append(violations, Violation{Field: field, Message: fmt.Sprintf("%q is not a valid request status", string(status))})
	}
	return violations
}

func requireDeletedBy(violations []Violation, field string, deletedBy types.DeletedBy) []Violation {
	if !deletedBy.Valid() {
		violations = append(violations, Violation{Field: field, Message: fmt.Sprintf("%q is not a valid deletion actor", string(deletedBy))})
	}
	return violations
}
