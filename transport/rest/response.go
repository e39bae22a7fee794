package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rocketscienceinc/fairchain-backend/internal/apperror"
	"github.com/rocketscienceinc/fairchain-backend/internal/ledger"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	maxBodyBytes = 1 << 20

	msgInvalidBody  = "Invalid request body"
	msgGameNotFound = "Game not found"
)

var errInvalidBody = errors.New("invalid request body")

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(body)
}

func success(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Status: statusSuccess, Data: data})
}

func failure(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Status: statusError, Message: message})
}

// fail maps a use case error onto the envelope. Validation errors and ledger errors carry
// their own message, anything else is answered with fallback.
func fail(w http.ResponseWriter, err error, fallback string) {
	var ledgerErr *ledger.Error

	switch {
	case errors.Is(err, errInvalidBody):
		failure(w, http.StatusBadRequest, msgInvalidBody)
	case apperror.IsValidation(err):
		failure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperror.ErrGameNotFound):
		failure(w, http.StatusNotFound, msgGameNotFound)
	case errors.As(err, &ledgerErr):
		failure(w, http.StatusInternalServerError, ledgerErr.Error())
	default:
		failure(w, http.StatusInternalServerError, fallback)
	}
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(w http.ResponseWriter, req *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	return nil
}

// amount accepts a bet amount sent either as a JSON string or a number.
type amount string

func (that *amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*that = amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number: %w", err)
	}

	*that = amount(n.String())

	return nil
}
