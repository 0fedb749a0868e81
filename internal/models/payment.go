package models

// GatewayEvent is the decoded body of a gateway webhook delivery.
type GatewayEvent struct {
	Event string           `json:"event"`
	Data  GatewayEventData `json:"data"`
}

type GatewayEventData struct {
	Reference string        `json:"reference"`
	Amount    int64         `json:"amount"` // kobo, bookkeeping only
	Status    string        `json:"status"`
	PaidAt    string        `json:"paid_at"`
	Metadata  EventMetadata `json:"metadata"`
}

// EventMetadata is round-tripped through the gateway from the initiation
// request. The reconciler trusts these ids, never a client-supplied permit id.
type EventMetadata struct {
	PermitID int `json:"permit_id"`
	OwnerID  int `json:"owner_id"`
}
