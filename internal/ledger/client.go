package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"

	"github.com/rocketscienceinc/fairchain-backend/internal/apperror"
	"github.com/rocketscienceinc/fairchain-backend/internal/config"
	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
)

const (
	opFund    = "fund"
	opAccount = "account"
	opSubmit  = "submit"
)

// Horizon is the part of horizonclient.ClientInterface the client relies on.
type Horizon interface {
	AccountDetail(request horizonclient.AccountRequest) (horizon.Account, error)
	SubmitTransactionXDR(transactionXdr string) (horizon.Transaction, error)
}

type funder interface {
	Fund(ctx context.Context, address string) error
}

type Options struct {
	NetworkPassphrase string
	BaseFee           int64
	TxTimeout         int64
	Retry             RetryPolicy
	Registry          metrics.Registry
}

// Client builds, signs and submits native payments and funds test accounts.
type Client struct {
	logger   *slog.Logger
	horizon  Horizon
	faucet   funder
	registry metrics.Registry

	passphrase string
	baseFee    int64
	txTimeout  int64
	retry      RetryPolicy
}

func New(logger *slog.Logger, horizonClient Horizon, faucet funder, opts Options) *Client {
	if opts.NetworkPassphrase == "" {
		opts.NetworkPassphrase = network.TestNetworkPassphrase
	}

	if opts.BaseFee <= 0 {
		opts.BaseFee = txnbuild.MinBaseFee
	}

	if opts.TxTimeout <= 0 {
		opts.TxTimeout = 30
	}

	if opts.Registry == nil {
		opts.Registry = metrics.DefaultRegistry
	}

	return &Client{
		logger:   logger.With("component", "ledger"),
		horizon:  horizonClient,
		faucet:   faucet,
		registry: opts.Registry,

		passphrase: opts.NetworkPassphrase,
		baseFee:    opts.BaseFee,
		txTimeout:  opts.TxTimeout,
		retry:      opts.Retry,
	}
}

// NewFromConfig wires Horizon and Friendbot clients from the configuration.
func NewFromConfig(logger *slog.Logger, cfg *config.Config) *Client {
	httpClient := &http.Client{Timeout: cfg.Stellar.RequestTimeout}

	horizonClient := &horizonclient.Client{
		HorizonURL: cfg.Stellar.HorizonURL,
		HTTP:       httpClient,
	}

	return New(logger, horizonClient, NewFaucet(cfg.Stellar.FriendbotURL, httpClient), Options{
		NetworkPassphrase: cfg.Stellar.NetworkPassphrase,
		BaseFee:           cfg.Stellar.BaseFee,
		TxTimeout:         cfg.Stellar.TxTimeout,
		Retry: RetryPolicy{
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
			MaxElapsedTime:  cfg.Retry.MaxElapsedTime,
		},
	})
}

func (that *Client) NewKeypair() (entity.Account, error) {
	kp, err := keypair.Random()
	if err != nil {
		return entity.Account{}, fmt.Errorf("failed to generate keypair: %w", err)
	}

	return entity.Account{PublicKey: kp.Address(), SecretKey: kp.Seed()}, nil
}

// CreateFundedAccount generates a keypair and funds it through the faucet.
func (that *Client) CreateFundedAccount(ctx context.Context) (entity.Account, error) {
	account, err := that.NewKeypair()
	if err != nil {
		return entity.Account{}, err
	}

	if err = that.Fund(ctx, account.PublicKey); err != nil {
		return entity.Account{}, err
	}

	return account, nil
}

func (that *Client) Fund(ctx context.Context, address string) error {
	err := that.call(ctx, opFund, func() error {
		return that.faucet.Fund(ctx, address)
	})
	if err != nil {
		return err
	}

	that.logger.Info("account funded", "address", address)

	return nil
}

func (that *Client) ValidateAddress(address string) error {
	if _, err := keypair.ParseAddress(address); err != nil {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidPublicKey, address)
	}

	return nil
}

// BuildPayment returns the unsigned base64 XDR of a native payment from -> to.
func (that *Client) BuildPayment(ctx context.Context, from, to, amount string) (string, error) {
	if err := that.ValidateAddress(to); err != nil {
		return "", err
	}

	account, err := that.loadAccount(ctx, from)
	if err != nil {
		return "", err
	}

	tx, err := that.newPayment(&account, to, amount)
	if err != nil {
		return "", err
	}

	envelope, err := tx.Base64()
	if err != nil {
		return "", fmt.Errorf("failed to encode transaction: %w", err)
	}

	return envelope, nil
}

// Submit forwards a signed envelope to the network.
func (that *Client) Submit(ctx context.Context, signedXDR string) (entity.Receipt, error) {
	genericTx, err := txnbuild.TransactionFromXDR(signedXDR)
	if err != nil {
		return entity.Receipt{}, fmt.Errorf("%w: %w", apperror.ErrInvalidTransaction, err)
	}

	if tx, ok := genericTx.Transaction(); ok && len(tx.Signatures()) == 0 {
		return entity.Receipt{}, fmt.Errorf("%w: envelope is not signed", apperror.ErrInvalidTransaction)
	}

	return that.submit(ctx, signedXDR)
}

// Pay sends amount from the account behind secret to the destination.
func (that *Client) Pay(ctx context.Context, secret, to, amount string) (entity.Receipt, error) {
	if err := that.ValidateAddress(to); err != nil {
		return entity.Receipt{}, err
	}

	kp, err := keypair.ParseFull(secret)
	if err != nil {
		return entity.Receipt{}, fmt.Errorf("failed to parse signing key: %w", err)
	}

	account, err := that.loadAccount(ctx, kp.Address())
	if err != nil {
		return entity.Receipt{}, err
	}

	tx, err := that.newPayment(&account, to, amount)
	if err != nil {
		return entity.Receipt{}, err
	}

	tx, err = tx.Sign(that.passphrase, kp)
	if err != nil {
		return entity.Receipt{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	envelope, err := tx.Base64()
	if err != nil {
		return entity.Receipt{}, fmt.Errorf("failed to encode transaction: %w", err)
	}

	return that.submit(ctx, envelope)
}

func (that *Client) newPayment(source txnbuild.Account, to, amount string) (*txnbuild.Transaction, error) {
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        source,
		IncrementSequenceNum: true,
		BaseFee:              that.baseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(that.txTimeout),
		},
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: to,
				Amount:      amount,
				Asset:       txnbuild.NativeAsset{},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	return tx, nil
}

func (that *Client) loadAccount(ctx context.Context, address string) (horizon.Account, error) {
	if err := that.ValidateAddress(address); err != nil {
		return horizon.Account{}, err
	}

	var account horizon.Account

	err := that.call(ctx, opAccount, func() error {
		var err error
		account, err = that.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: address})

		return err
	})

	return account, err
}

// submit resends the same envelope on transient failures, so a retry can never pay twice.
func (that *Client) submit(ctx context.Context, envelope string) (entity.Receipt, error) {
	var tx horizon.Transaction

	err := that.call(ctx, opSubmit, func() error {
		var err error
		tx, err = that.horizon.SubmitTransactionXDR(envelope)

		return err
	})
	if err != nil {
		return entity.Receipt{}, err
	}

	that.logger.Info("transaction submitted", "hash", tx.Hash, "ledger", tx.Ledger)

	return entity.Receipt{Hash: tx.Hash, Ledger: tx.Ledger}, nil
}

func (that *Client) call(ctx context.Context, op string, fn func() error) error {
	log := that.logger.With("method", op)
	start := time.Now()

	err := that.retry.do(ctx, fn, func(err error, wait time.Duration) {
		that.countRetry(op)
		log.Warn("retrying ledger call", "error", err, "wait", wait)
	})

	that.observe(op, start, err)

	if err != nil {
		var lerr *Error
		if errors.As(err, &lerr) {
			return err
		}

		return newError(op, err)
	}

	return nil
}
