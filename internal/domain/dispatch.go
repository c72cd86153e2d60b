package domain

import (
	"time"

	"github.com/google/uuid"
)

type ItemKind string

const (
	KindRequest    ItemKind = "request"
	KindTierConfig ItemKind = "tier_config"
)

// DispatchRecord is the audit entry written after every dispatch.
type DispatchRecord struct {
	ID         uuid.UUID
	ItemID     string
	Kind       ItemKind
	Outcome    string
	Result     string
	Error      *string
	StartedAt  time.Time
	FinishedAt time.Time
}
