package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/fairchain-backend/internal/apperror"
	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
	"github.com/rocketscienceinc/fairchain-backend/internal/repository"
)

const (
	playerKey = "GPLAYER"
	winnerKey = "GWINNER"
)

var (
	errFaucetDown = errors.New("faucet down")
	errBadAuth    = errors.New("tx_bad_auth")
	errJournal    = errors.New("disk full")
	errRedisDown  = errors.New("connection refused")
)

// stickySessions keeps every session it is asked to delete.
type stickySessions struct {
	repository.SessionRepository
}

func (that *stickySessions) DeleteByID(_ context.Context, _ string) error {
	return errRedisDown
}

type mockLedger struct {
	mock.Mock
}

func (that *mockLedger) CreateFundedAccount(ctx context.Context) (entity.Account, error) {
	args := that.Called(ctx)
	return args.Get(0).(entity.Account), args.Error(1)
}

func (that *mockLedger) BuildPayment(ctx context.Context, from, to, amount string) (string, error) {
	args := that.Called(ctx, from, to, amount)
	return args.String(0), args.Error(1)
}

func (that *mockLedger) Submit(ctx context.Context, signedXDR string) (entity.Receipt, error) {
	args := that.Called(ctx, signedXDR)
	return args.Get(0).(entity.Receipt), args.Error(1)
}

func (that *mockLedger) Pay(ctx context.Context, secret, to, amount string) (entity.Receipt, error) {
	args := that.Called(ctx, secret, to, amount)
	return args.Get(0).(entity.Receipt), args.Error(1)
}

func (that *mockLedger) ValidateAddress(address string) error {
	if address == "" || address[0] != 'G' {
		return apperror.ErrInvalidPublicKey
	}

	return nil
}

type memoryJournal struct {
	mu    sync.Mutex
	steps []entity.Step
	err   error
}

func (that *memoryJournal) Append(_ context.Context, step *entity.Step) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.err != nil {
		return that.err
	}

	that.steps = append(that.steps, *step)

	return nil
}

func (that *memoryJournal) ListByGame(_ context.Context, gameID string) ([]entity.Step, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	steps := make([]entity.Step, 0)
	for _, step := range that.steps {
		if step.GameID == gameID {
			steps = append(steps, step)
		}
	}

	return steps, nil
}

type escrowFixture struct {
	useCase  *EscrowUseCase
	ledger   *mockLedger
	sessions repository.SessionRepository
	journal  *memoryJournal
}

func newEscrowFixture(t *testing.T) *escrowFixture {
	t.Helper()

	fixture := &escrowFixture{
		ledger:   &mockLedger{},
		sessions: repository.NewMemorySessionRepository(100, time.Hour, nil),
		journal:  &memoryJournal{},
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	fixture.useCase = NewEscrowUseCase(logger, fixture.sessions, fixture.journal, fixture.ledger)
	fixture.useCase.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	t.Cleanup(func() { fixture.ledger.AssertExpectations(t) })

	return fixture
}

// withSession stores a session in the given state.
func (that *escrowFixture) withSession(t *testing.T, id string, status entity.SessionStatus) *entity.Session {
	t.Helper()

	session := entity.NewSession(id, "GESCROW"+id, "SSECRET"+id, "10", that.useCase.now())
	session.Status = status
	if status != entity.SessionCreated {
		session.PlayerPublicKey = playerKey
	}

	require.NoError(t, that.sessions.CreateOrUpdate(context.Background(), session))

	return session
}

func TestParseAmount(t *testing.T) {
	valid := map[string]string{
		"10":        "10",
		" 2.50 ":    "2.5",
		"0.0000001": "0.0000001",
	}

	for input, expected := range valid {
		amount, err := ParseAmount(input)

		require.NoError(t, err, input)
		assert.Equal(t, expected, amount)
	}

	for _, input := range []string{"", "0", "-1", "abc", "1.12345678"} {
		_, err := ParseAmount(input)

		require.ErrorIs(t, err, apperror.ErrInvalidBetAmount, input)
	}
}

func TestEscrowUseCase_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a funded escrow session", func(t *testing.T) {
		// Given: the faucet funds the escrow
		f := newEscrowFixture(t)
		f.ledger.On("CreateFundedAccount", mock.Anything).
			Return(entity.Account{PublicKey: "GESCROW", SecretKey: "SESCROW"}, nil).
			Once()

		// When: a game is created
		session, err := f.useCase.CreateGame(ctx, "10")

		// Then: the session is stored in created state with an 8 character id
		require.NoError(t, err)
		assert.Len(t, session.ID, 8)
		assert.Equal(t, "GESCROW", session.EscrowPublicKey)

		stored, err := f.sessions.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.SessionCreated, stored.Status)
		assert.Equal(t, "SESCROW", stored.EscrowSecretKey)
		assert.Equal(t, "10", stored.BetAmount)

		steps, err := f.useCase.Steps(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, steps, 1)
		assert.Equal(t, entity.StepCreate, steps[0].Name)
		assert.Equal(t, entity.StepOK, steps[0].Status)
	})

	t.Run("Two games get distinct escrow accounts", func(t *testing.T) {
		f := newEscrowFixture(t)
		f.ledger.On("CreateFundedAccount", mock.Anything).Return(entity.Account{PublicKey: "GONE", SecretKey: "SONE"}, nil).Once()
		f.ledger.On("CreateFundedAccount", mock.Anything).Return(entity.Account{PublicKey: "GTWO", SecretKey: "STWO"}, nil).Once()

		first, err := f.useCase.CreateGame(ctx, "1")
		require.NoError(t, err)
		second, err := f.useCase.CreateGame(ctx, "1")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.NotEqual(t, first.EscrowPublicKey, second.EscrowPublicKey)
	})

	t.Run("Rejects invalid amounts without touching the ledger", func(t *testing.T) {
		f := newEscrowFixture(t)

		for _, amount := range []string{"", "0", "-5", "ten"} {
			_, err := f.useCase.CreateGame(ctx, amount)

			require.ErrorIs(t, err, apperror.ErrInvalidBetAmount)
		}

		f.ledger.AssertNotCalled(t, "CreateFundedAccount", mock.Anything)
	})

	t.Run("Faucet failure aborts creation", func(t *testing.T) {
		// Given: the faucet is down
		f := newEscrowFixture(t)
		f.useCase.generateID = func() (string, error) { return "fixedid1", nil }
		f.ledger.On("CreateFundedAccount", mock.Anything).Return(entity.Account{}, errFaucetDown).Once()

		// When: a game is created
		_, err := f.useCase.CreateGame(ctx, "10")

		// Then: nothing is stored and the failure is journaled
		require.ErrorIs(t, err, errFaucetDown)

		_, err = f.sessions.GetByID(ctx, "fixedid1")
		require.ErrorIs(t, err, repository.ErrNotFound)

		steps, err := f.useCase.Steps(ctx, "fixedid1")
		require.NoError(t, err)
		require.Len(t, steps, 1)
		assert.Equal(t, entity.StepFailed, steps[0].Status)
		assert.Contains(t, steps[0].Detail, "faucet down")
	})

	t.Run("Journal failures do not fail the request", func(t *testing.T) {
		f := newEscrowFixture(t)
		f.journal.err = errJournal
		f.ledger.On("CreateFundedAccount", mock.Anything).Return(entity.Account{PublicKey: "GESCROW", SecretKey: "S"}, nil).Once()

		_, err := f.useCase.CreateGame(ctx, "10")

		require.NoError(t, err)
	})
}

func TestEscrowUseCase_CreateTestAccount(t *testing.T) {
	f := newEscrowFixture(t)
	f.ledger.On("CreateFundedAccount", mock.Anything).Return(entity.Account{PublicKey: "GTEST", SecretKey: "STEST"}, nil).Once()

	account, err := f.useCase.CreateTestAccount(context.Background())

	require.NoError(t, err)
	assert.Equal(t, entity.Account{PublicKey: "GTEST", SecretKey: "STEST"}, account)
}

func TestEscrowUseCase_PlaceBet(t *testing.T) {
	ctx := context.Background()

	t.Run("Builds the player to escrow payment", func(t *testing.T) {
		// Given: a created session
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0001", entity.SessionCreated)
		f.ledger.On("BuildPayment", mock.Anything, playerKey, session.EscrowPublicKey, "10").Return("AAAA", nil).Once()

		// When: the player bets
		xdr, err := f.useCase.PlaceBet(ctx, PlaceBetInput{PlayerPublicKey: playerKey, GameID: session.ID, Amount: "10"})

		// Then: the envelope is returned and the session records the player
		require.NoError(t, err)
		assert.Equal(t, "AAAA", xdr)

		stored, err := f.sessions.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.SessionBetPlaced, stored.Status)
		assert.Equal(t, playerKey, stored.PlayerPublicKey)
	})

	t.Run("Defaults to the session amount", func(t *testing.T) {
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0002", entity.SessionCreated)
		f.ledger.On("BuildPayment", mock.Anything, playerKey, session.EscrowPublicKey, session.BetAmount).Return("BBBB", nil).Once()

		xdr, err := f.useCase.PlaceBet(ctx, PlaceBetInput{PlayerPublicKey: playerKey, GameID: session.ID})

		require.NoError(t, err)
		assert.Equal(t, "BBBB", xdr)
	})

	t.Run("Unknown game is not found", func(t *testing.T) {
		f := newEscrowFixture(t)

		_, err := f.useCase.PlaceBet(ctx, PlaceBetInput{PlayerPublicKey: playerKey, GameID: "missing1", Amount: "10"})

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Validates input", func(t *testing.T) {
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0003", entity.SessionCreated)

		_, err := f.useCase.PlaceBet(ctx, PlaceBetInput{GameID: session.ID, Amount: "10"})
		require.ErrorIs(t, err, apperror.ErrMissingFields)

		_, err = f.useCase.PlaceBet(ctx, PlaceBetInput{PlayerPublicKey: "bad", GameID: session.ID, Amount: "10"})
		require.ErrorIs(t, err, apperror.ErrInvalidPublicKey)

		_, err = f.useCase.PlaceBet(ctx, PlaceBetInput{PlayerPublicKey: playerKey, GameID: session.ID, Amount: "-1"})
		require.ErrorIs(t, err, apperror.ErrInvalidBetAmount)
	})

	t.Run("Only an open session takes a bet", func(t *testing.T) {
		testCases := []struct {
			name    string
			status  entity.SessionStatus
			player  string
			wantErr error
		}{
			{name: "funded", status: entity.SessionFunded, player: playerKey, wantErr: apperror.ErrInvalidSession},
			{name: "funded by another player", status: entity.SessionFunded, player: "GOTHER", wantErr: apperror.ErrInvalidSession},
			{name: "bet placed by another player", status: entity.SessionBetPlaced, player: "GOTHER", wantErr: apperror.ErrInvalidSession},
			{name: "settled", status: entity.SessionSettled, player: playerKey, wantErr: apperror.ErrGameNotFound},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				// Given: a session past the created state
				f := newEscrowFixture(t)
				session := f.withSession(t, "game0005", tc.status)

				// When: a bet is placed on it
				_, err := f.useCase.PlaceBet(ctx, PlaceBetInput{PlayerPublicKey: tc.player, GameID: session.ID})

				// Then: it is refused without building a payment and the session is unchanged
				require.ErrorIs(t, err, tc.wantErr)
				f.ledger.AssertNotCalled(t, "BuildPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

				stored, err := f.sessions.GetByID(ctx, session.ID)
				require.NoError(t, err)
				assert.Equal(t, tc.status, stored.Status)
				assert.Equal(t, playerKey, stored.PlayerPublicKey)
			})
		}
	})

	t.Run("Same player may rebuild the bet before paying", func(t *testing.T) {
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0006", entity.SessionBetPlaced)
		f.ledger.On("BuildPayment", mock.Anything, playerKey, session.EscrowPublicKey, "10").Return("CCCC", nil).Once()

		xdr, err := f.useCase.PlaceBet(ctx, PlaceBetInput{PlayerPublicKey: playerKey, GameID: session.ID})

		require.NoError(t, err)
		assert.Equal(t, "CCCC", xdr)
	})

	t.Run("Ledger failure leaves the session untouched", func(t *testing.T) {
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0004", entity.SessionCreated)
		f.ledger.On("BuildPayment", mock.Anything, playerKey, session.EscrowPublicKey, "10").Return("", errFaucetDown).Once()

		_, err := f.useCase.PlaceBet(ctx, PlaceBetInput{PlayerPublicKey: playerKey, GameID: session.ID, Amount: "10"})

		require.Error(t, err)

		stored, err := f.sessions.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.SessionCreated, stored.Status)
		assert.Empty(t, stored.PlayerPublicKey)
	})
}

func TestEscrowUseCase_SubmitTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Marks the session funded", func(t *testing.T) {
		// Given: a session with a placed bet
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0010", entity.SessionBetPlaced)
		f.ledger.On("Submit", mock.Anything, "SIGNED").Return(entity.Receipt{Hash: "abc", Ledger: 5}, nil).Once()

		// When: the signed envelope is submitted
		receipt, err := f.useCase.SubmitTransaction(ctx, "SIGNED", session.ID)

		// Then: the receipt comes back and the session is funded
		require.NoError(t, err)
		assert.Equal(t, entity.Receipt{Hash: "abc", Ledger: 5}, receipt)

		stored, err := f.sessions.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.SessionFunded, stored.Status)
	})

	t.Run("Rejected envelope keeps the session in bet_placed", func(t *testing.T) {
		// Given: the network rejects the signature
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0011", entity.SessionBetPlaced)
		f.ledger.On("Submit", mock.Anything, "WRONGKEY").Return(entity.Receipt{}, errBadAuth).Once()

		// When: the envelope signed with the wrong key is submitted
		_, err := f.useCase.SubmitTransaction(ctx, "WRONGKEY", session.ID)

		// Then: the error surfaces and the session did not advance
		require.ErrorIs(t, err, errBadAuth)

		stored, err := f.sessions.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.SessionBetPlaced, stored.Status)

		steps, err := f.useCase.Steps(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, steps, 1)
		assert.Equal(t, entity.StepSubmit, steps[0].Name)
		assert.Equal(t, entity.StepFailed, steps[0].Status)
	})

	t.Run("Works without a game id", func(t *testing.T) {
		f := newEscrowFixture(t)
		f.ledger.On("Submit", mock.Anything, "SIGNED").Return(entity.Receipt{Hash: "abc", Ledger: 5}, nil).Once()

		receipt, err := f.useCase.SubmitTransaction(ctx, "SIGNED", "")

		require.NoError(t, err)
		assert.Equal(t, "abc", receipt.Hash)
	})

	t.Run("Requires an envelope", func(t *testing.T) {
		f := newEscrowFixture(t)

		_, err := f.useCase.SubmitTransaction(ctx, " ", "")

		require.ErrorIs(t, err, apperror.ErrMissingFields)
	})
}

func TestEscrowUseCase_DistributeWinnings(t *testing.T) {
	ctx := context.Background()

	t.Run("Pays the winner and forgets the session", func(t *testing.T) {
		// Given: a funded session
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0020", entity.SessionFunded)
		f.ledger.On("Pay", mock.Anything, session.EscrowSecretKey, winnerKey, "10").
			Return(entity.Receipt{Hash: "payout", Ledger: 9}, nil).
			Once()

		// When: the game ends
		payout, err := f.useCase.DistributeWinnings(ctx, session.ID, winnerKey)

		// Then: the receipt is returned
		require.NoError(t, err)
		assert.Equal(t, "Winnings distributed successfully", payout.Message)
		assert.Equal(t, entity.Receipt{Hash: "payout", Ledger: 9}, payout.Receipt)

		// Then: a second call for the same game is not found
		_, err = f.useCase.DistributeWinnings(ctx, session.ID, winnerKey)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Failed payout keeps the session", func(t *testing.T) {
		// Given: the payout is rejected by the network
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0021", entity.SessionFunded)
		f.ledger.On("Pay", mock.Anything, session.EscrowSecretKey, winnerKey, "10").Return(entity.Receipt{}, errBadAuth).Once()

		// When: the game ends
		_, err := f.useCase.DistributeWinnings(ctx, session.ID, winnerKey)

		// Then: the error surfaces and the escrow key is still held
		require.ErrorIs(t, err, errBadAuth)

		stored, err := f.sessions.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.EscrowSecretKey, stored.EscrowSecretKey)
	})

	t.Run("Settled record left by a failed delete stays closed", func(t *testing.T) {
		// Given: a funded session in a store that cannot delete
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0024", entity.SessionFunded)
		f.useCase.sessions = &stickySessions{SessionRepository: f.sessions}
		f.ledger.On("Pay", mock.Anything, session.EscrowSecretKey, winnerKey, "10").
			Return(entity.Receipt{Hash: "payout", Ledger: 9}, nil).
			Once()

		// When: the game ends
		_, err := f.useCase.DistributeWinnings(ctx, session.ID, winnerKey)

		// Then: the payout succeeded and the record is kept as settled
		require.NoError(t, err)

		stored, err := f.sessions.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.SessionSettled, stored.Status)

		// Then: every later call treats the game as gone
		_, err = f.useCase.PlaceBet(ctx, PlaceBetInput{PlayerPublicKey: playerKey, GameID: session.ID})
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		_, err = f.useCase.SubmitTransaction(ctx, "SIGNED", session.ID)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		_, err = f.useCase.DistributeWinnings(ctx, session.ID, winnerKey)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)

		f.ledger.AssertNumberOfCalls(t, "Pay", 1)
		f.ledger.AssertNotCalled(t, "BuildPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.ledger.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	})

	t.Run("Concurrent calls pay once", func(t *testing.T) {
		// Given: a funded session and a slow network
		f := newEscrowFixture(t)
		session := f.withSession(t, "game0022", entity.SessionFunded)
		f.ledger.On("Pay", mock.Anything, session.EscrowSecretKey, winnerKey, "10").
			After(20*time.Millisecond).
			Return(entity.Receipt{Hash: "payout", Ledger: 9}, nil).
			Once()

		// When: several game-end calls race
		const callers = 5

		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = f.useCase.DistributeWinnings(ctx, session.ID, winnerKey)
			}()
		}
		wg.Wait()

		// Then: exactly one succeeds and the rest are not found
		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}

			require.ErrorIs(t, err, apperror.ErrGameNotFound)
		}

		assert.Equal(t, 1, succeeded)
		f.ledger.AssertNumberOfCalls(t, "Pay", 1)
	})

	t.Run("Validates input", func(t *testing.T) {
		f := newEscrowFixture(t)

		_, err := f.useCase.DistributeWinnings(ctx, "", winnerKey)
		require.ErrorIs(t, err, apperror.ErrMissingFields)

		_, err = f.useCase.DistributeWinnings(ctx, "game0023", "nope")
		require.ErrorIs(t, err, apperror.ErrInvalidPublicKey)

		_, err = f.useCase.DistributeWinnings(ctx, "game0023", winnerKey)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestEvictionRecorder(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("Journals a funded session pushed out at capacity", func(t *testing.T) {
		// Given: a store of two with a funded session as the oldest entry
		journal := &memoryJournal{}
		sessions := repository.NewMemorySessionRepository(2, time.Hour, EvictionRecorder(logger, journal))

		funded := entity.NewSession("game0030", "GESCROW30", "SSECRET30", "10", time.Now().UTC())
		funded.PlaceBet(playerKey, time.Now().UTC())
		funded.MarkFunded(time.Now().UTC())
		require.NoError(t, sessions.CreateOrUpdate(ctx, funded))

		// When: two more games are created
		for _, id := range []string{"game0031", "game0032"} {
			require.NoError(t, sessions.CreateOrUpdate(ctx, entity.NewSession(id, "GESCROW", "SSECRET", "10", time.Now().UTC())))
		}

		// Then: the funded session is gone and its loss is journaled
		_, err := sessions.GetByID(ctx, funded.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)

		steps, err := journal.ListByGame(ctx, funded.ID)
		require.NoError(t, err)
		require.Len(t, steps, 1)
		assert.Equal(t, entity.StepEvicted, steps[0].Name)
		assert.Equal(t, entity.StepFailed, steps[0].Status)
		assert.Contains(t, steps[0].Detail, "GESCROW30")
		assert.NotContains(t, steps[0].Detail, "SSECRET30")
	})

	t.Run("Ignores sessions without a stake", func(t *testing.T) {
		journal := &memoryJournal{}
		record := EvictionRecorder(logger, journal)

		record(entity.NewSession("game0033", "GESCROW", "SSECRET", "10", time.Now().UTC()))

		settled := entity.NewSession("game0034", "GESCROW", "SSECRET", "10", time.Now().UTC())
		settled.MarkSettled(time.Now().UTC())
		record(settled)

		assert.Empty(t, journal.steps)
	})

	t.Run("A paid out session leaves no eviction line", func(t *testing.T) {
		// Given: the use case on a store that journals evictions
		f := newEscrowFixture(t)
		sessions := repository.NewMemorySessionRepository(10, time.Hour, EvictionRecorder(logger, f.journal))
		f.useCase.sessions = sessions
		f.sessions = sessions
		session := f.withSession(t, "game0035", entity.SessionFunded)
		f.ledger.On("Pay", mock.Anything, session.EscrowSecretKey, winnerKey, "10").
			Return(entity.Receipt{Hash: "payout", Ledger: 9}, nil).
			Once()

		// When: the winnings are distributed
		_, err := f.useCase.DistributeWinnings(ctx, session.ID, winnerKey)
		require.NoError(t, err)

		// Then: only the payout is journaled
		steps, err := f.useCase.Steps(ctx, session.ID)
		require.NoError(t, err)
		require.Len(t, steps, 1)
		assert.Equal(t, entity.StepPayout, steps[0].Name)
	})
}
