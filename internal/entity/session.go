package entity

import "time"

type SessionStatus string

const (
	SessionCreated   SessionStatus = "created"
	SessionBetPlaced SessionStatus = "bet_placed"
	SessionFunded    SessionStatus = "funded"
	SessionSettled   SessionStatus = "settled"
)

// Session tracks one escrowed bet from creation until the payout.
type Session struct {
	ID              string        `json:"id"`
	EscrowPublicKey string        `json:"escrow_public_key"`
	EscrowSecretKey string        `json:"escrow_secret_key"`
	BetAmount       string        `json:"bet_amount"`
	PlayerPublicKey string        `json:"player_public_key,omitempty"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func NewSession(id, escrowPublicKey, escrowSecretKey, betAmount string, now time.Time) *Session {
	return &Session{
		ID:              id,
		EscrowPublicKey: escrowPublicKey,
		EscrowSecretKey: escrowSecretKey,
		BetAmount:       betAmount,
		Status:          SessionCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CanBet reports whether playerPublicKey may build the bet payment: on a fresh session, or
// again by the same player while the payment has not landed.
func (that *Session) CanBet(playerPublicKey string) bool {
	switch that.Status {
	case SessionCreated:
		return true
	case SessionBetPlaced:
		return that.PlayerPublicKey == playerPublicKey
	default:
		return false
	}
}

// HoldsBet reports whether the escrow may hold the player's stake.
func (that *Session) HoldsBet() bool {
	return that.Status == SessionBetPlaced || that.Status == SessionFunded
}

func (that *Session) PlaceBet(playerPublicKey string, now time.Time) {
	that.PlayerPublicKey = playerPublicKey
	that.Status = SessionBetPlaced
	that.UpdatedAt = now
}

func (that *Session) MarkFunded(now time.Time) {
	that.Status = SessionFunded
	that.UpdatedAt = now
}

// Account is a ledger key pair handed out to a client.
type Account struct {
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

// Receipt identifies a transaction accepted by the network.
type Receipt struct {
	Hash   string `json:"hash"`
	Ledger int32  `json:"ledger"`
}

func (that *Session) MarkSettled(now time.Time) {
	that.Status = SessionSettled
	that.UpdatedAt = now
}
