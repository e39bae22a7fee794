package ledger

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/stellar/go/clients/horizonclient"
)

var (
	ErrFaucetFailed     = errors.New("faucet failed to fund account")
	ErrInvalidFaucetURL = errors.New("invalid faucet url")
)

// Error is a failed round-trip to the network. Status, Detail and Codes are set when
// Horizon answered with a problem document.
type Error struct {
	Op     string
	Status int
	Detail string
	Codes  []string
	Err    error
}

func (that *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(that.Op)
	sb.WriteString(" failed")

	switch {
	case that.Detail != "":
		sb.WriteString(": ")
		sb.WriteString(that.Detail)
	case that.Err != nil:
		sb.WriteString(": ")
		sb.WriteString(that.Err.Error())
	}

	if len(that.Codes) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(that.Codes, ", "))
		sb.WriteString("]")
	}

	return sb.String()
}

func (that *Error) Unwrap() error {
	return that.Err
}

// StatusError is a non-2xx answer from the faucet.
type StatusError struct {
	Code int
	Body string
}

func (that *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", that.Code, that.Body)
}

func (that *StatusError) Is(target error) bool {
	return target == ErrFaucetFailed
}

func newError(op string, err error) error {
	if err == nil {
		return nil
	}

	lerr := &Error{Op: op, Err: err}

	if hErr := horizonclient.GetError(err); hErr != nil {
		lerr.Status = hErr.Problem.Status
		lerr.Detail = hErr.Problem.Title

		if codes, cErr := hErr.ResultCodes(); cErr == nil && codes != nil {
			if codes.TransactionCode != "" {
				lerr.Codes = append(lerr.Codes, codes.TransactionCode)
			}
			lerr.Codes = append(lerr.Codes, codes.OperationCodes...)
		}

		return lerr
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		lerr.Status = statusErr.Code
	}

	return lerr
}

// isTransient reports whether a retry may succeed: transport failures, 5xx and 429.
// Local failures such as a malformed url or request are permanent.
func isTransient(err error) bool {
	status := 0

	if hErr := horizonclient.GetError(err); hErr != nil {
		status = hErr.Problem.Status
		if status == 0 && hErr.Response != nil {
			status = hErr.Response.StatusCode
		}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.Code
	}

	if status == 0 {
		return isTransportError(err)
	}

	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}

func isTransportError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Op != "parse"
	}

	var netErr net.Error

	return errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
