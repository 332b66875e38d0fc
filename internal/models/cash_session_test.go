package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashSessionApply(t *testing.T) {
	tests := []struct {
		name        string
		movements   []struct {
			typ    string
			amount int64
		}
		wantBalance int64
		wantErr     error
	}{
		{
			name: "opening float plus sale and withdrawal",
			movements: []struct {
				typ    string
				amount int64
			}{
				{MovementSale, 5500},
				{MovementDeposit, 2000},
				{MovementWithdrawal, 2000},
			},
			wantBalance: 15500,
		},
		{
			name: "withdrawal cannot overdraw the drawer",
			movements: []struct {
				typ    string
				amount int64
			}{
				{MovementWithdrawal, 10001},
			},
			wantErr: ErrInsufficientFunds,
		},
		{
			name: "unknown movement type is rejected",
			movements: []struct {
				typ    string
				amount int64
			}{
				{"refund", 100},
			},
			wantErr: ErrUnknownMovement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &CashSession{
				Status:       CashSessionOpen,
				OpeningCents: 10000,
				BalanceCents: 10000,
			}

			var err error
			for _, m := range tt.movements {
				if err = session.Apply(m.typ, m.amount); err != nil {
					break
				}
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, session.BalanceCents)
		})
	}
}

func TestCashSessionApplyOnClosedSession(t *testing.T) {
	session := &CashSession{Status: CashSessionClosed}
	assert.ErrorIs(t, session.Apply(MovementSale, 100), ErrSessionClosed)
}

func TestCashSessionClose(t *testing.T) {
	session := &CashSession{
		Status:       CashSessionOpen,
		OpeningCents: 5000,
		BalanceCents: 8200,
	}

	closedAt := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	require.NoError(t, session.Close(closedAt))

	assert.Equal(t, CashSessionClosed, session.Status)
	require.NotNil(t, session.ClosingCents)
	assert.Equal(t, int64(8200), *session.ClosingCents)
	require.NotNil(t, session.ClosedAt)
	assert.Equal(t, closedAt, *session.ClosedAt)

	// Closing twice is an error and must not touch the stamped values.
	assert.ErrorIs(t, session.Close(closedAt.Add(time.Hour)), ErrSessionClosed)
	assert.Equal(t, closedAt, *session.ClosedAt)
}
