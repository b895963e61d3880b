package types

import "strings"

// ServiceCode identifies this service in tags, notifications and TTL messages.
const ServiceCode = "GIG"

type RequestStatus string

const (
	RequestStatusActive    RequestStatus = "ACTIVE"
	RequestStatusInactive  RequestStatus = "INACTIVE"
	RequestStatusCompleted RequestStatus = "COMPLETED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusActive, RequestStatusInactive, RequestStatusCompleted, RequestStatusCancelled:
		return true
	}
	return false
}

// Mutable reports whether the aggregate still accepts mutations. Once a
// request is COMPLETED or CANCELLED it is read-only.
func (s RequestStatus) Mutable() bool {
	return s != RequestStatusCompleted && s != RequestStatusCancelled
}

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusSuccessful TransactionStatus = "SUCCESSFUL"
)

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "PENDING"
	OfferStatusAccepted OfferStatus = "ACCEPTED"
	OfferStatusRejected OfferStatus = "REJECTED"
)

// DeletedBy categorizes the actor of a service-provider soft delete. It
// drives both the ownership policy for the remove command and the
// notification audience.
type DeletedBy string

const (
	DeletedByInvestor   DeletedBy = "INVESTOR"
	DeletedByTTLService DeletedBy = "TTL_SERVICE"
	DeletedByPlatform   DeletedBy = "PLATFORM"
)

func (d DeletedBy) Valid() bool {
	switch d {
	case DeletedByInvestor, DeletedByTTLService, DeletedByPlatform:
		return true
	}
	return false
}

// Amount is a currency plus a decimal string. The value is kept as a
// string end to end; arithmetic and comparison always go through a
// decimal parse, never float.
type Amount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type ServiceClient struct {
	BankAccountReference string `json:"bank_account_reference,omitempty"`
	UserReference        string `json:"user_reference"`
}

type InvestmentStatus struct {
	Status               TransactionStatus `json:"status"`
	TransactionReference string            `json:"transaction_reference,omitempty"`
	TransactionDatetime  string            `json:"transaction_datetime,omitempty"`
}

type ServiceProvider struct {
	Reference        string           `json:"reference"`
	UserReference    string           `json:"user_reference"`
	Amount           Amount           `json:"amount"`
	Comment          string           `json:"comment,omitempty"`
	CreatedOn        string           `json:"created_on"`
	Deleted          bool             `json:"deleted,omitempty"`
	DeletedOn        string           `json:"deleted_on,omitempty"`
	DeletedBy        DeletedBy        `json:"deleted_by,omitempty"`
	InvestmentStatus InvestmentStatus `json:"investment_status"`
}

type Offer struct {
	Reference     string      `json:"reference"`
	UserReference string      `json:"user_reference"`
	Amount        Amount      `json:"amount"`
	Comment       string      `json:"comment,omitempty"`
	CreatedOn     string      `json:"created_on"`
	Deleted       bool        `json:"deleted,omitempty"`
	DeletedOn     string      `json:"deleted_on,omitempty"`
	Status        OfferStatus `json:"status"`
}

type Bargain struct {
	Offers                   []Offer `json:"offers"`
	AcceptedBargainReference string  `json:"accepted_bargain_reference,omitempty"`
}

// ServiceRequest is the aggregate root. Version is the sole
// concurrency-control field: every store update is conditional on it and
// increments it. Sub-entities are append-only; deletion is always a
// soft-delete flag on the element.
type ServiceRequest struct {
	Reference        string            `json:"reference"`
	Version          int64             `json:"version"`
	ServiceCode      string            `json:"service_code"`
	RequestTag       string            `json:"request_tag"`
	Status           RequestStatus     `json:"status"`
	Summary          string            `json:"summary"`
	Amount           Amount            `json:"amount"`
	ServiceClient    ServiceClient     `json:"service_client"`
	ServiceProviders []ServiceProvider `json:"service_providers"`
	Bargain          *Bargain          `json:"bargain,omitempty"`
	CreatedOn        string            `json:"created_on"`
	LastModified     string            `json:"last_modified"`
}

// FindServiceProvider returns the service provider with the given
// reference, deleted or not. The second return is false when absent.
func (r *ServiceRequest) FindServiceProvider(reference string) (*ServiceProvider, bool) {
	for i := range r.ServiceProviders {
		if strings.EqualFold(r.ServiceProviders[i].Reference, reference) {
			return &r.ServiceProviders[i], true
		}
	}
	return nil, false
}

// FindOffer returns the bargain offer with the given reference, deleted
// or not. The second return is false when the bargain or offer is absent.
func (r *ServiceRequest) FindOffer(reference string) (*Offer, bool) {
	if r.Bargain == nil {
		return nil, false
	}
	for i := range r.Bargain.Offers {
		if strings.EqualFold(r.Bargain.Offers[i].Reference, reference) {
			return &r.Bargain.Offers[i], true
		}
	}
	return nil, false
}
