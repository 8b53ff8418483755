package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Segment       string          `json:"segment,omitempty"`
	Status        string          `json:"status"`
	LifetimeValue decimal.Decimal `json:"lifetime_value"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (c Customer) ItemID() string {
	return c.ID.String()
}
