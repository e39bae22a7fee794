package entity

import "time"

type StepName string

const (
	StepCreate StepName = "create"
	StepBet    StepName = "bet"
	StepSubmit StepName = "submit"
	StepPayout StepName = "payout"
	// StepEvicted marks a session dropped by the store before it was settled.
	StepEvicted StepName = "evicted"
)

type StepStatus string

const (
	StepOK     StepStatus = "ok"
	StepFailed StepStatus = "failed"
)

// Step is one journal line describing the outcome of an escrow step.
type Step struct {
	ID        string     `json:"id"`
	GameID    string     `json:"gameId"`
	Name      StepName   `json:"step"`
	Status    StepStatus `json:"status"`
	TxHash    string     `json:"txHash,omitempty"`
	Ledger    int32      `json:"ledger,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
