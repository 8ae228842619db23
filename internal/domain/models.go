package domain

import "time"

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyIDR Currency = "IDR"
	CurrencyTHB Currency = "THB"
	CurrencyVND Currency = "VND"
	CurrencyPHP Currency = "PHP"
)

var ValidCurrencies = map[Currency]bool{
	CurrencyUSD: true,
	CurrencyEUR: true,
	CurrencyGBP: true,
	CurrencyIDR: true,
	CurrencyTHB: true,
	CurrencyVND: true,
	CurrencyPHP: true,
}

// ChargeRequest is deduplicated on IdempotencyKey alone; the other fields
// only reach the gateway.
type ChargeRequest struct {
	AmountCents    int64    `json:"amount_cents"`
	Currency       Currency `json:"currency"`
	CustomerID     string   `json:"customer_id"`
	IdempotencyKey string   `json:"-"`
}

// ChargeResult.Attempts counts gateway invocations made by this call and
// is zero for a replay.
type ChargeResult struct {
	ChargeID string `json:"charge_id"`
	Replayed bool   `json:"replayed"`
	Attempts int    `json:"attempts,omitempty"`
}

// IdempotencyRecord exists only for keys whose charge succeeded.
type IdempotencyRecord struct {
	Key         string    `json:"key"`
	ChargeID    string    `json:"charge_id"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

type Charge struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	IdempotencyKey     string    `json:"idempotency_key" gorm:"type:varchar(64);index;not null"`
	AmountCents        int64     `json:"amount_cents" gorm:"not null"`
	Currency           Currency  `json:"currency" gorm:"type:varchar(3);not null"`
	CustomerID         string    `json:"customer_id" gorm:"type:varchar(100);not null"`
	RequestFingerprint string    `json:"request_fingerprint" gorm:"type:varchar(64);not null"`
	Attempts           int       `json:"attempts" gorm:"not null;default:1"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Charge) TableName() string {
	return "charges"
}
