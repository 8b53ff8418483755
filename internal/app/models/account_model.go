package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusClosed    AccountStatus = "CLOSED"
)

// Account is a wallet account as listed by the admin API.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	ConnectID uuid.UUID       `json:"connect_id"`
	Username  string          `json:"username"`
	Email     string          `json:"email,omitempty"`
	Status    AccountStatus   `json:"status"`
	Balance   decimal.Decimal `json:"balance"`
	Points    int64           `json:"points"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (a Account) ItemID() string {
	return a.ID.String()
}
