package domain

import "encoding/json"

// Request types understood by the platform.
const (
	RequestTypePurchase = "purchase"
	RequestTypeChange   = "change"
	RequestTypeSuspend  = "suspend"
	RequestTypeResume   = "resume"
	RequestTypeCancel   = "cancel"
)

const (
	StatusPending   = "pending"
	StatusInquiring = "inquiring"
	StatusApproved  = "approved"
	StatusFailed    = "failed"
)

// Request is a fulfillment request for a subscription asset.
type Request struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Note          string `json:"note,omitempty"`
	Reason        string `json:"reason,omitempty"`
	ActivationKey string `json:"activation_key,omitempty"`
	Asset         Asset  `json:"asset"`
}

func (r *Request) ProductID() string {
	return r.Asset.Product.ID
}

type Asset struct {
	ID          string  `json:"id"`
	Status      string  `json:"status,omitempty"`
	ExternalID  string  `json:"external_id,omitempty"`
	ExternalUID string  `json:"external_uid,omitempty"`
	Product     Product `json:"product"`
	Items       []Item  `json:"items,omitempty"`
	Params      Params  `json:"params,omitempty"`
	Tiers       Tiers   `json:"tiers"`
}

type Product struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Item is a purchased line. Quantity arrives either as a number or as a
// numeric string.
type Item struct {
	ID       string      `json:"id"`
	MPN      string      `json:"mpn,omitempty"`
	Quantity json.Number `json:"quantity,omitempty"`
}

type Tiers struct {
	Customer TierAccount `json:"customer"`
	Tier1    TierAccount `json:"tier1"`
	Tier2    TierAccount `json:"tier2"`
}

type TierAccount struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}
