package models

import (
	"time"
)

const (
	TxDeposit       = "deposit"
	TxWithdraw      = "withdraw"
	TxTournamentFee = "tournament_fee"
)

// Transaction is one append-only ledger entry. Amount is signed:
// deposits are positive, withdrawals and fees negative. Rows are never
// updated or deleted; the audit worker replays them to verify balances.
type Transaction struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"not null;index"`
	Kind         string    `json:"kind" gorm:"not null"`
	Amount       float64   `json:"amount" gorm:"not null"`
	TournamentID string    `json:"tournament_id,omitempty" gorm:"index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}
