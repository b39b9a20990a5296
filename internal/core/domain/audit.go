package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionUserCreate   AuditAction = "USER_CREATE"
	AuditActionWalletCreate AuditAction = "WALLET_CREATE"
	AuditActionTransfer     AuditAction = "TRANSFER"
)

// AuditLog records a single successful write against the ledger.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	UserID       *int64      `json:"user_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
