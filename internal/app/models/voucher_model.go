package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VoucherType string

const (
	VoucherTypeBalance       VoucherType = "BALANCE"
	VoucherTypeLoyaltyPoints VoucherType = "LOYALTY_POINTS"
	VoucherTypeDiscount      VoucherType = "DISCOUNT"
)

type VoucherStatus string

const (
	VoucherStatusActive   VoucherStatus = "ACTIVE"
	VoucherStatusInactive VoucherStatus = "INACTIVE"
	VoucherStatusRedeemed VoucherStatus = "REDEEMED"
	VoucherStatusExpired  VoucherStatus = "EXPIRED"
)

// Voucher is a row of the vouchers list as the admin API returns it.
type Voucher struct {
	ID                 uuid.UUID        `json:"id"`
	Code               string           `json:"code"`
	Name               string           `json:"name"`
	Type               VoucherType      `json:"type"`
	Value              decimal.Decimal  `json:"value"`
	Currency           string           `json:"currency"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	MaxRedeemCount     int              `json:"max_redeem_count"`
	CurrentRedeemCount int              `json:"current_redeem_count"`
	ValidFrom          time.Time        `json:"valid_from"`
	ValidUntil         *time.Time       `json:"valid_until,omitempty"`
	Status             VoucherStatus    `json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
}

func (v Voucher) ItemID() string {
	return v.ID.String()
}

