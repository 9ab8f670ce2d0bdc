package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/sprintertech/intent-ledger/ledger"
)

type BigInt struct {
	*big.Int
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	if b.Int == nil {
		b.Int = new(big.Int)
	}

	s := strings.Trim(string(data), "\"")
	_, ok := b.SetString(s, 10)
	if !ok {
		return fmt.Errorf("failed to parse big.Int from %s", s)
	}

	return nil
}

func (b *BigInt) MarshalJSON() ([]byte, error) {
	return []byte(b.String()), nil
}

func JSONError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	type errorResponse struct {
		Code   int    `json:"code"`
		Reason string `json:"reason"`
	}
	resp := errorResponse{
		Reason: err.Error(),
		Code:   code,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// LedgerError renders a ledger error with the status code matching its kind.
func LedgerError(w http.ResponseWriter, err error) {
	JSONError(w, err, statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnknownIntent):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrIllegalTransition):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrNotAuthorizedSolver),
		errors.Is(err, ledger.ErrNotIntentOwner),
		errors.Is(err, ledger.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrAuthorizationInvalid),
		errors.Is(err, ledger.ErrAuthorizationExpired),
		errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrTransferFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func intentID(vars map[string]string) (uint64, error) {
	id, err := strconv.ParseUint(vars["intentId"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field 'intentId' invalid")
	}
	return id, nil
}
