package models

import (
	"github.com/yungbote/gigpost-backend/internal/requestdata"
	"github.com/yungbote/gigpost-backend/internal/types"
)

// CreateRequest is the inbound body for creating a service request.
type CreateRequest struct {
	Amount  types.Amount `json:"amount"`
	Summary string       `json:"summary"`
}

// AddServiceProviderModel is the inbound body for committing to a
// request as a service provider.
type AddServiceProviderModel struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
	Comment  string `json:"comment"`
}

// AddBargainModel is the inbound body for proposing a counter-offer.
type AddBargainModel struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
	Comment  string `json:"comment"`
}

type SummaryModel struct {
	Summary string `json:"summary"`
}

type RequestStatusModel struct {
	Status types.RequestStatus `json:"status"`
}

// ResourceReference is the response body of commands that allocate a
// new sub-resource.
type ResourceReference struct {
	Reference string `json:"reference"`
}

type Statistic struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type UserInvestment struct {
	RequestReference    string `json:"request_reference"`
	InvestmentReference string `json:"investment_reference"`
	UserReference       string `json:"user_reference"`
	RequestCreatedOn    string `json:"request_created_on"`
}

// Command requests. Every mutating command carries the authenticated
// caller alongside its input; the caller is what the authorization gate
// sees, the rest is what gets audited into notification attributes.

type CreateRequestCommand struct {
	Caller        *requestdata.RequestData `json:"-"`
	CreateRequest CreateRequest            `json:"create_request"`
}

type UpdateSummaryCommand struct {
	Caller           *requestdata.RequestData `json:"-"`
	RequestReference string                   `json:"request_reference"`
	Summary          string                   `json:"summary"`
}

type UpdateAmountCommand struct {
	Caller           *requestdata.RequestData `json:"-"`
	RequestReference string                   `json:"request_reference"`
	Amount           types.Amount             `json:"amount"`
}

type UpdateRequestStatusCommand struct {
	Caller           *requestdata.RequestData `json:"-"`
	RequestReference string                   `json:"request_reference"`
	Status           types.RequestStatus      `json:"status"`
}

type AddServiceProviderCommand struct {
	Caller           *requestdata.RequestData `json:"-"`
	RequestReference string                   `json:"request_reference"`
	Provider         AddServiceProviderModel  `json:"service_provider"`
}

type RemoveServiceProviderCommand struct {
	Caller              *requestdata.RequestData `json:"-"`
	RequestReference    string                   `json:"request_reference"`
	InvestmentReference string                   `json:"investment_reference"`
	DeletedBy           types.DeletedBy          `json:"deleted_by"`
}

type MakePaymentCommand struct {
	Caller              *requestdata.RequestData `json:"-"`
	RequestReference    string                   `json:"request_reference"`
	InvestmentReference string                   `json:"investment_reference"`
}

type AddBargainCommand struct {
	Caller           *requestdata.RequestData `json:"-"`
	RequestReference string                   `json:"request_reference"`
	Bargain          AddBargainModel          `json:"bargain"`
}

type AcceptBargainCommand struct {
	Caller           *requestdata.RequestData `json:"-"`
	RequestReference string                   `json:"request_reference"`
	BargainReference string                   `json:"bargain_reference"`
}

type RejectBargainCommand struct {
	Caller           *requestdata.RequestData `json:"-"`
	RequestReference string                   `json:"request_reference"`
	BargainReference string                   `json:"bargain_reference"`
}

type DeleteBargainCommand struct {
	Caller           *requestdata.RequestData `json:"-"`
	RequestReference string                   `json:"request_reference"`
	BargainReference string                   `json:"bargain_reference"`
}

type ScheduledRequestCommand struct {
	Caller        *requestdata.RequestData `json:"-"`
	RunAt         string                   `json:"run_at"`
	CreateRequest CreateRequest            `json:"create_request"`
}
