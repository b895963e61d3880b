package types

type UserNotificationType string

const (
	NotificationSoloInvestorAdded     UserNotificationType = "SOLO_INVESTOR_ADDED"
	NotificationPeerInvestorAdded     UserNotificationType = "PEER_INVESTOR_ADDED"
	NotificationInvestorDeletedBySelf UserNotificationType = "INVESTOR_DELETED_BY_SELF"
	NotificationInvestorDeletedByTTL  UserNotificationType = "INVESTOR_DELETED_BY_TTL"
	NotificationInvestorBargainAdded  UserNotificationType = "INVESTOR_BARGAIN_ADDED"
	NotificationBargainAccepted       UserNotificationType = "BARGAIN_ACCEPTED"
	NotificationBargainRejected       UserNotificationType = "BARGAIN_REJECTED"
)

// UserNotification is the per-recipient message published on the
// user-notifications topic. Payload and Attributes are pre-serialized
// JSON strings: Payload carries the resource references, Attributes the
// original command input for audit.
type UserNotification struct {
	Reference     string               `json:"reference"`
	CreatedOn     string               `json:"created_on"`
	ServiceCode   string               `json:"service_code"`
	UserReference string               `json:"user_reference"`
	Type          UserNotificationType `json:"type"`
	Summary       string               `json:"summary"`
	Payload       string               `json:"payload"`
	Attributes    string               `json:"attributes"`
}

type InvestmentNotificationPayload struct {
	RequestReference    string `json:"request_reference"`
	InvestmentReference string `json:"investment_reference"`
}

type BargainNotificationPayload struct {
	RequestReference string `json:"request_reference"`
	BargainReference string `json:"bargain_reference"`
}

// TimeToLive is the deferred-deletion message published on the TTL
// topic when a service provider is added. DeletionLink is the fully
// qualified remove endpoint a TTL worker invokes after expiry.
type TimeToLive struct {
	ServiceCode         string `json:"service_code"`
	RequestReference    string `json:"request_reference"`
	InvestmentReference string `json:"investment_reference"`
	RequestCreatedOn    string `json:"request_created_on"`
	DeletionLink        string `json:"deletion_link"`
}
