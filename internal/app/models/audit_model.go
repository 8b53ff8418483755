package models

import (
	"time"

	"github.com/google/uuid"
)

// ConsoleAction is the kind of list mutation being audited.
type ConsoleAction string

const (
	ConsoleActionDelete     ConsoleAction = "DELETE"
	ConsoleActionBulkDelete ConsoleAction = "BULK_DELETE"
)

// ConsoleAuditLog records a destructive action an operator took from a list.
// ItemIDs and FailedIDs hold JSON arrays.
type ConsoleAuditLog struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	ActorID   uuid.UUID     `json:"actor_id" gorm:"type:uuid;not null;index"`
	Actor     string        `json:"actor" gorm:"type:varchar(100)"`
	Resource  string        `json:"resource" gorm:"type:varchar(50);not null"`
	Action    ConsoleAction `json:"action" gorm:"type:varchar(20);not null"`
	ItemIDs   string        `json:"item_ids" gorm:"type:jsonb;not null"`
	FailedIDs *string       `json:"failed_ids,omitempty" gorm:"type:jsonb"`
	Succeeded bool          `json:"succeeded" gorm:"not null"`
	CreatedAt time.Time     `json:"created_at" gorm:"not null"`
}
