package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	CashSessionOpen   = "open"
	CashSessionClosed = "closed"
)

const (
	MovementSale       = "sale"
	MovementDeposit    = "deposit"
	MovementWithdrawal = "withdrawal"
)

var (
	ErrSessionClosed     = errors.New("cash session is closed")
	ErrInsufficientFunds = errors.New("withdrawal exceeds current balance")
	ErrUnknownMovement   = errors.New("unknown movement type")
)

// CashSession is the durable cash-register state machine: closed -> open -> closed.
// Every balance change is recorded as a CashMovement, so the session can be rebuilt
// from its event log after a crash.
type CashSession struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	OperatorID   uuid.UUID  `gorm:"type:uuid;not null" json:"operator_id"`
	Status       string     `gorm:"size:20;not null;default:'open';index" json:"status"`
	OpeningCents int64      `gorm:"not null" json:"opening_cents"`
	BalanceCents int64      `gorm:"not null" json:"balance_cents"`
	ClosingCents *int64     `json:"closing_cents,omitempty"`
	OpenedAt     time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CashMovement is an append-only ledger entry against a session.
type CashMovement struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"session_id"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	Type         string     `gorm:"size:20;not null;index" json:"type"`
	AmountCents  int64      `gorm:"not null" json:"amount_cents"`
	ComandaID    *uuid.UUID `gorm:"type:uuid;index" json:"comanda_id,omitempty"`
	Description  string     `gorm:"size:255" json:"description,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

// Apply mutates the running balance for a movement. Sales and deposits credit,
// withdrawals debit and must not overdraw the drawer.
func (s *CashSession) Apply(movementType string, amountCents int64) error {
	if s.Status != CashSessionOpen {
		return ErrSessionClosed
	}
	switch movementType {
	case MovementSale, MovementDeposit:
		s.BalanceCents += amountCents
	case MovementWithdrawal:
		if amountCents > s.BalanceCents {
			return ErrInsufficientFunds
		}
		s.BalanceCents -= amountCents
	default:
		return ErrUnknownMovement
	}
	return nil
}

// Close stamps the final balance and transitions to closed. Closing twice is an error.
func (s *CashSession) Close(at time.Time) error {
	if s.Status != CashSessionOpen {
		return ErrSessionClosed
	}
	closing := s.BalanceCents
	s.Status = CashSessionClosed
	s.ClosingCents = &closing
	s.ClosedAt = &at
	return nil
}
