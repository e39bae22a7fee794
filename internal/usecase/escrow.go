package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rocketscienceinc/fairchain-backend/internal/apperror"
	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
	"github.com/rocketscienceinc/fairchain-backend/internal/pkg"
	"github.com/rocketscienceinc/fairchain-backend/internal/repository"
)

// stroops: the network keeps 7 fractional digits.
const maxAmountPlaces = 7

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type stepJournal interface {
	Append(ctx context.Context, step *entity.Step) error
	ListByGame(ctx context.Context, gameID string) ([]entity.Step, error)
}

type ledgerClient interface {
	CreateFundedAccount(ctx context.Context) (entity.Account, error)
	BuildPayment(ctx context.Context, from, to, amount string) (string, error)
	Submit(ctx context.Context, signedXDR string) (entity.Receipt, error)
	Pay(ctx context.Context, secret, to, amount string) (entity.Receipt, error)
	ValidateAddress(address string) error
}

type PlaceBetInput struct {
	PlayerPublicKey string
	GameID          string
	Amount          string
}

type Payout struct {
	Message string
	Receipt entity.Receipt
}

type EscrowUseCase struct {
	logger   *slog.Logger
	sessions sessionRepo
	journal  stepJournal
	ledger   ledgerClient
	locks    *keyedMutex

	now        func() time.Time
	generateID func() (string, error)
}

func NewEscrowUseCase(logger *slog.Logger, sessions sessionRepo, journal stepJournal, ledger ledgerClient) *EscrowUseCase {
	return &EscrowUseCase{
		logger:   logger.With("component", "escrow"),
		sessions: sessions,
		journal:  journal,
		ledger:   ledger,
		locks:    newKeyedMutex(),

		now:        func() time.Time { return time.Now().UTC() },
		generateID: pkg.GenerateGameID,
	}
}

// CreateGame funds a fresh escrow account and opens a session for the bet.
func (that *EscrowUseCase) CreateGame(ctx context.Context, betAmount string) (*entity.Session, error) {
	log := that.logger.With("method", "CreateGame")

	amount, err := ParseAmount(betAmount)
	if err != nil {
		return nil, err
	}

	gameID, err := that.generateID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	escrow, err := that.ledger.CreateFundedAccount(ctx)
	if err != nil {
		that.record(ctx, gameID, entity.StepCreate, entity.Receipt{}, err)

		return nil, fmt.Errorf("failed to create escrow account: %w", err)
	}

	session := entity.NewSession(gameID, escrow.PublicKey, escrow.SecretKey, amount, that.now())
	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.record(ctx, gameID, entity.StepCreate, entity.Receipt{}, nil)
	log.Info("game created", "gameID", gameID, "escrow", escrow.PublicKey, "betAmount", amount)

	return session, nil
}

func (that *EscrowUseCase) CreateTestAccount(ctx context.Context) (entity.Account, error) {
	account, err := that.ledger.CreateFundedAccount(ctx)
	if err != nil {
		return entity.Account{}, fmt.Errorf("failed to create test account: %w", err)
	}

	return account, nil
}

// PlaceBet returns the unsigned payment player -> escrow for the client to sign.
// Only a created session takes a bet; the same player may ask again until the payment lands.
// The player's balance is not checked here; the network rejects underfunded submissions.
func (that *EscrowUseCase) PlaceBet(ctx context.Context, input PlaceBetInput) (string, error) {
	log := that.logger.With("method", "PlaceBet", "gameID", input.GameID)

	if input.PlayerPublicKey == "" || input.GameID == "" {
		return "", fmt.Errorf("%w: playerPublicKey and gameId", apperror.ErrMissingFields)
	}

	if err := that.ledger.ValidateAddress(input.PlayerPublicKey); err != nil {
		return "", err
	}

	unlock := that.locks.Lock(input.GameID)
	defer unlock()

	session, err := that.getSession(ctx, input.GameID)
	if err != nil {
		return "", err
	}

	if !session.CanBet(input.PlayerPublicKey) {
		return "", fmt.Errorf("%w: %s", apperror.ErrInvalidSession, session.Status)
	}

	amount := session.BetAmount
	if input.Amount != "" {
		if amount, err = ParseAmount(input.Amount); err != nil {
			return "", err
		}
	}

	transactionXDR, err := that.ledger.BuildPayment(ctx, input.PlayerPublicKey, session.EscrowPublicKey, amount)
	if err != nil {
		that.record(ctx, session.ID, entity.StepBet, entity.Receipt{}, err)

		return "", fmt.Errorf("failed to build bet transaction: %w", err)
	}

	session.PlaceBet(input.PlayerPublicKey, that.now())
	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	that.record(ctx, session.ID, entity.StepBet, entity.Receipt{}, nil)
	log.Info("bet prepared", "player", input.PlayerPublicKey, "amount", amount)

	return transactionXDR, nil
}

// SubmitTransaction forwards a signed envelope. With a gameID the session is marked funded
// once the network accepted it; a rejected submission leaves the session as it was.
func (that *EscrowUseCase) SubmitTransaction(ctx context.Context, signedXDR, gameID string) (entity.Receipt, error) {
	log := that.logger.With("method", "SubmitTransaction", "gameID", gameID)

	if strings.TrimSpace(signedXDR) == "" {
		return entity.Receipt{}, fmt.Errorf("%w: signedXdr", apperror.ErrMissingFields)
	}

	var session *entity.Session
	if gameID != "" {
		unlock := that.locks.Lock(gameID)
		defer unlock()

		var err error
		if session, err = that.getSession(ctx, gameID); err != nil {
			return entity.Receipt{}, err
		}
	}

	receipt, err := that.ledger.Submit(ctx, signedXDR)
	if session != nil {
		that.record(ctx, session.ID, entity.StepSubmit, receipt, err)
	}

	if err != nil {
		return entity.Receipt{}, fmt.Errorf("failed to submit transaction: %w", err)
	}

	if session != nil && session.Status == entity.SessionBetPlaced {
		session.MarkFunded(that.now())
		if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
			log.Error("failed to mark session funded", "error", err)
		}
	}

	log.Info("transaction submitted", "hash", receipt.Hash, "ledger", receipt.Ledger)

	return receipt, nil
}

// DistributeWinnings pays the recorded bet amount from escrow to the winner. The session is
// settled and removed only after the network confirmed the payout; concurrent calls for one
// game are serialised and all but the first see ErrGameNotFound.
func (that *EscrowUseCase) DistributeWinnings(ctx context.Context, gameID, winnerPublicKey string) (Payout, error) {
	log := that.logger.With("method", "DistributeWinnings", "gameID", gameID)

	if gameID == "" || winnerPublicKey == "" {
		return Payout{}, fmt.Errorf("%w: gameId and winnerPublicKey", apperror.ErrMissingFields)
	}

	if err := that.ledger.ValidateAddress(winnerPublicKey); err != nil {
		return Payout{}, err
	}

	unlock := that.locks.Lock(gameID)
	defer unlock()

	session, err := that.getSession(ctx, gameID)
	if err != nil {
		return Payout{}, err
	}

	receipt, err := that.ledger.Pay(ctx, session.EscrowSecretKey, winnerPublicKey, session.BetAmount)
	that.record(ctx, session.ID, entity.StepPayout, receipt, err)

	if err != nil {
		log.Error("payout failed, session kept", "error", err)

		return Payout{}, fmt.Errorf("failed to distribute winnings: %w", err)
	}

	// settled first: a record left behind by a failed delete still blocks a second payout
	session.MarkSettled(that.now())
	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		log.Error("failed to mark session settled", "error", err)
	}

	if err = that.sessions.DeleteByID(ctx, session.ID); err != nil {
		log.Error("failed to delete settled session", "error", err)
	}

	log.Info("winnings distributed", "winner", winnerPublicKey, "hash", receipt.Hash)

	return Payout{Message: "Winnings distributed successfully", Receipt: receipt}, nil
}

// Steps returns the journal of a game, oldest first.
func (that *EscrowUseCase) Steps(ctx context.Context, gameID string) ([]entity.Step, error) {
	steps, err := that.journal.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}

	return steps, nil
}

// getSession loads an open session. A settled session counts as gone.
func (that *EscrowUseCase) getSession(ctx context.Context, gameID string) (*entity.Session, error) {
	session, err := that.sessions.GetByID(ctx, gameID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, gameID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Status == entity.SessionSettled {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, gameID)
	}

	return session, nil
}

// EvictionRecorder returns the callback for a session store that drops sessions on its own.
// A dropped session that may hold a stake takes the only copy of the escrow key with it,
// so it is logged and journaled.
func EvictionRecorder(logger *slog.Logger, journal stepJournal) func(*entity.Session) {
	log := logger.With("component", "escrow", "method", "EvictionRecorder")

	return func(session *entity.Session) {
		if !session.HoldsBet() {
			return
		}

		log.Error("session with a placed bet dropped from store",
			"gameID", session.ID, "status", session.Status, "escrow", session.EscrowPublicKey)

		step := &entity.Step{
			GameID:    session.ID,
			Name:      entity.StepEvicted,
			Status:    entity.StepFailed,
			Detail:    fmt.Sprintf("session %s dropped from store, escrow %s", session.Status, session.EscrowPublicKey),
			CreatedAt: time.Now().UTC(),
		}

		if err := journal.Append(context.Background(), step); err != nil {
			log.Error("failed to append journal step", "gameID", session.ID, "error", err)
		}
	}
}

// record writes a journal line. Journal failures are logged and never fail the step.
func (that *EscrowUseCase) record(ctx context.Context, gameID string, name entity.StepName, receipt entity.Receipt, stepErr error) {
	step := &entity.Step{
		GameID:    gameID,
		Name:      name,
		Status:    entity.StepOK,
		TxHash:    receipt.Hash,
		Ledger:    receipt.Ledger,
		CreatedAt: that.now(),
	}

	if stepErr != nil {
		step.Status = entity.StepFailed
		step.Detail = stepErr.Error()
	}

	if err := that.journal.Append(context.WithoutCancel(ctx), step); err != nil {
		that.logger.Error("failed to append journal step", "gameID", gameID, "step", name, "error", err)
	}
}

// ParseAmount validates a positive amount with at most 7 decimal places and returns it
// in canonical form.
func ParseAmount(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: amount is required", apperror.ErrInvalidBetAmount)
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidBetAmount, value)
	}

	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: must be greater than zero", apperror.ErrInvalidBetAmount)
	}

	if !amount.Equal(amount.Truncate(maxAmountPlaces)) {
		return "", fmt.Errorf("%w: at most %d decimal places", apperror.ErrInvalidBetAmount, maxAmountPlaces)
	}

	return amount.String(), nil
}
