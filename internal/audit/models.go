package audit

import "time"

// Outcome is one terminal CC interaction: a record that reached
// WaitDestruction and was removed from the pool. This is an append-only
// operator history for reconciliation and billing, never a source for
// reconstructing FSM state — the pool always starts empty on restart.
type Outcome struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	ChannelID      string `gorm:"index"`
	RecordID       uint16
	Dialect        string
	IsAgent        bool
	IsCCNR         bool
	TerminalReason string
	CreatedAt      time.Time
	ClosedAt       time.Time
}

// TableName pins the GORM table name independent of the struct name.
func (Outcome) TableName() string {
	return "cc_outcomes"
}
