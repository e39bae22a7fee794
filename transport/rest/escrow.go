package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
	"github.com/rocketscienceinc/fairchain-backend/internal/usecase"
)

const (
	msgCreateGameFailed    = "Failed to create game"
	msgCreateAccountFailed = "Failed to create test account"
	msgPlaceBetFailed      = "Failed to place bet"
	msgSubmitFailed        = "Failed to submit transaction"
	msgDistributeFailed    = "Failed to handle game end"
	msgListStepsFailed     = "Failed to list game steps"

	pathValueGameID = "gameId"
)

type escrowUseCase interface {
	CreateGame(ctx context.Context, betAmount string) (*entity.Session, error)
	CreateTestAccount(ctx context.Context) (entity.Account, error)
	PlaceBet(ctx context.Context, input usecase.PlaceBetInput) (string, error)
	SubmitTransaction(ctx context.Context, signedXDR, gameID string) (entity.Receipt, error)
	DistributeWinnings(ctx context.Context, gameID, winnerPublicKey string) (usecase.Payout, error)
	Steps(ctx context.Context, gameID string) ([]entity.Step, error)
}

type EscrowHandler interface {
	CreateGame(w http.ResponseWriter, req *http.Request)
	CreateTestAccount(w http.ResponseWriter, req *http.Request)
	PlaceBet(w http.ResponseWriter, req *http.Request)
	SubmitTransaction(w http.ResponseWriter, req *http.Request)
	GameEnd(w http.ResponseWriter, req *http.Request)
	Steps(w http.ResponseWriter, req *http.Request)
}

type escrowHandler struct {
	logger *slog.Logger
	escrow escrowUseCase
}

func NewEscrowHandler(logger *slog.Logger, escrow escrowUseCase) EscrowHandler {
	return &escrowHandler{
		logger: logger.With("handler", "escrow"),
		escrow: escrow,
	}
}

type createGameRequest struct {
	BetAmount amount `json:"betAmount"`
}

type createGameResponse struct {
	GameID          string `json:"gameId"`
	BetAmount       string `json:"betAmount"`
	EscrowPublicKey string `json:"escrowPublicKey"`
}

func (that *escrowHandler) CreateGame(w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "CreateGame")

	var body createGameRequest
	if err := decode(w, req, &body); err != nil {
		fail(w, err, msgCreateGameFailed)
		return
	}

	session, err := that.escrow.CreateGame(req.Context(), string(body.BetAmount))
	if err != nil {
		log.Error("failed to create game", "error", err)
		fail(w, err, msgCreateGameFailed)
		return
	}

	success(w, createGameResponse{
		GameID:          session.ID,
		BetAmount:       session.BetAmount,
		EscrowPublicKey: session.EscrowPublicKey,
	})
}

func (that *escrowHandler) CreateTestAccount(w http.ResponseWriter, req *http.Request) {
	account, err := that.escrow.CreateTestAccount(req.Context())
	if err != nil {
		that.logger.Error("failed to create test account", "error", err)
		fail(w, err, msgCreateAccountFailed)
		return
	}

	success(w, account)
}

type placeBetRequest struct {
	PlayerPublicKey string `json:"playerPublicKey"`
	GameID          string `json:"gameId"`
	Amount          amount `json:"amount"`
}

type placeBetResponse struct {
	TransactionXDR string `json:"transactionXdr"`
}

func (that *escrowHandler) PlaceBet(w http.ResponseWriter, req *http.Request) {
	var body placeBetRequest
	if err := decode(w, req, &body); err != nil {
		fail(w, err, msgPlaceBetFailed)
		return
	}

	transactionXDR, err := that.escrow.PlaceBet(req.Context(), usecase.PlaceBetInput{
		PlayerPublicKey: body.PlayerPublicKey,
		GameID:          body.GameID,
		Amount:          string(body.Amount),
	})
	if err != nil {
		that.logger.Error("failed to place bet", "gameID", body.GameID, "error", err)
		fail(w, err, msgPlaceBetFailed)
		return
	}

	success(w, placeBetResponse{TransactionXDR: transactionXDR})
}

type submitRequest struct {
	SignedXDR string `json:"signedXdr"`
	GameID    string `json:"gameId"`
}

func (that *escrowHandler) SubmitTransaction(w http.ResponseWriter, req *http.Request) {
	var body submitRequest
	if err := decode(w, req, &body); err != nil {
		fail(w, err, msgSubmitFailed)
		return
	}

	receipt, err := that.escrow.SubmitTransaction(req.Context(), body.SignedXDR, body.GameID)
	if err != nil {
		that.logger.Error("failed to submit transaction", "gameID", body.GameID, "error", err)
		fail(w, err, msgSubmitFailed)
		return
	}

	success(w, receipt)
}

type gameEndRequest struct {
	GameID          string `json:"gameId"`
	WinnerPublicKey string `json:"winnerPublicKey"`
}

type gameEndResponse struct {
	Message         string `json:"message"`
	TransactionHash string `json:"transactionHash"`
	Ledger          int32  `json:"ledger"`
}

func (that *escrowHandler) GameEnd(w http.ResponseWriter, req *http.Request) {
	var body gameEndRequest
	if err := decode(w, req, &body); err != nil {
		fail(w, err, msgDistributeFailed)
		return
	}

	payout, err := that.escrow.DistributeWinnings(req.Context(), body.GameID, body.WinnerPublicKey)
	if err != nil {
		that.logger.Error("failed to handle game end", "gameID", body.GameID, "error", err)
		fail(w, err, msgDistributeFailed)
		return
	}

	success(w, gameEndResponse{
		Message:         payout.Message,
		TransactionHash: payout.Receipt.Hash,
		Ledger:          payout.Receipt.Ledger,
	})
}

func (that *escrowHandler) Steps(w http.ResponseWriter, req *http.Request) {
	gameID := req.PathValue(pathValueGameID)

	steps, err := that.escrow.Steps(req.Context(), gameID)
	if err != nil {
		that.logger.Error("failed to list steps", "gameID", gameID, "error", err)
		fail(w, err, msgListStepsFailed)
		return
	}

	if steps == nil {
		steps = []entity.Step{}
	}

	success(w, steps)
}
