package handlers

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/sprintertech/intent-ledger/custody"
	"github.com/sprintertech/intent-ledger/ledger"
)

type IntentTypeName string

const (
	DepositType    IntentTypeName = "deposit"
	WithdrawalType IntentTypeName = "withdrawal"
)

type PermitBody struct {
	Owner     string  `json:"owner"`
	Spender   string  `json:"spender"`
	Asset     string  `json:"asset"`
	Amount    *BigInt `json:"amount"`
	Nonce     *BigInt `json:"nonce"`
	Deadline  uint64  `json:"deadline"`
	Signature string  `json:"signature"`
}

type CreateBody struct {
	Type        IntentTypeName `json:"type"`
	Caller      string         `json:"caller"`
	Owner       string         `json:"owner"`
	Beneficiary string         `json:"beneficiary"`
	Asset       string         `json:"asset"`
	Amount      *BigInt        `json:"amount"`
	Permit      *PermitBody    `json:"permit"`
}

type CallerBody struct {
	Caller string `json:"caller"`
}

type IntentsHandler struct {
	ledger *ledger.IntentLedger
}

func NewIntentsHandler(ledger *ledger.IntentLedger) *IntentsHandler {
	return &IntentsHandler{
		ledger: ledger,
	}
}

// HandleCreate creates a new deposit or withdrawal intent. The caller field
// models the transaction sender attested by the upstream gateway; deposits
// additionally carry the owner's signed permit consumed by custody.
func (h *IntentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	b := &CreateBody{}
	d := json.NewDecoder(r.Body)
	err := d.Decode(b)
	if err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}

	err = h.validate(b)
	if err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}

	var i *ledger.Intent
	switch b.Type {
	case DepositType:
		{
			permit, err := parsePermit(b.Permit)
			if err != nil {
				JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
				return
			}

			i, err = h.ledger.CreateDeposit(
				common.HexToAddress(b.Owner),
				common.HexToAddress(b.Asset),
				b.Amount.Int,
				permit,
			)
			if err != nil {
				LedgerError(w, err)
				return
			}
		}
	case WithdrawalType:
		{
			i, err = h.ledger.CreateWithdrawal(
				common.HexToAddress(b.Caller),
				common.HexToAddress(b.Beneficiary),
				common.HexToAddress(b.Asset),
				b.Amount.Int,
			)
			if err != nil {
				LedgerError(w, err)
				return
			}
		}
	default:
		JSONError(w, fmt.Errorf("invalid intent type %s", b.Type), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(i)
}

// HandleGet returns the stored intent record.
func (h *IntentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := intentID(mux.Vars(r))
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	i, err := h.ledger.Intent(id)
	if err != nil {
		LedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(i)
}

// HandleFulfill records a solver attestation that the external action behind
// the intent has been performed.
func (h *IntentsHandler) HandleFulfill(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.ledger.RegisterFulfillment)
}

// HandleSettle performs the fee split and pays the intent out of custody.
func (h *IntentsHandler) HandleSettle(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.ledger.Settle)
}

// HandleRequestAbort starts the two-phase abort for the intent owner.
func (h *IntentsHandler) HandleRequestAbort(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.ledger.RequestAbort)
}

// HandleAbort completes a requested abort and refunds the owner in full.
func (h *IntentsHandler) HandleAbort(w http.ResponseWriter, r *http.Request) {
	id, err := intentID(mux.Vars(r))
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	if err := h.ledger.Abort(id); err != nil {
		LedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleRejectAbort puts an intent with a pending abort request back onto
// the settlement path.
func (h *IntentsHandler) HandleRejectAbort(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.ledger.RejectAbort)
}

func (h *IntentsHandler) transition(w http.ResponseWriter, r *http.Request, op func(common.Address, uint64) error) {
	id, err := intentID(mux.Vars(r))
	if err != nil {
		JSONError(w, err, http.StatusBadRequest)
		return
	}

	b := &CallerBody{}
	d := json.NewDecoder(r.Body)
	if err := d.Decode(b); err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}
	if b.Caller == "" {
		JSONError(w, fmt.Errorf("missing field 'caller'"), http.StatusBadRequest)
		return
	}

	if err := op(common.HexToAddress(b.Caller), id); err != nil {
		LedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *IntentsHandler) validate(b *CreateBody) error {
	if b.Asset == "" {
		return fmt.Errorf("missing field 'asset'")
	}
	if b.Amount == nil {
		return fmt.Errorf("missing field 'amount'")
	}

	switch b.Type {
	case DepositType:
		if b.Owner == "" {
			return fmt.Errorf("missing field 'owner'")
		}
		if b.Permit == nil {
			return fmt.Errorf("missing field 'permit'")
		}
	case WithdrawalType:
		if b.Caller == "" {
			return fmt.Errorf("missing field 'caller'")
		}
		if b.Beneficiary == "" {
			return fmt.Errorf("missing field 'beneficiary'")
		}
	}
	return nil
}

func parsePermit(b *PermitBody) (*custody.Permit, error) {
	if b.Amount == nil || b.Nonce == nil {
		return nil, fmt.Errorf("permit missing 'amount' or 'nonce'")
	}

	signature, err := hex.DecodeString(strings.TrimPrefix(b.Signature, "0x"))
	if err != nil {
		return nil, fmt.Errorf("permit signature invalid hex: %s", err)
	}

	return &custody.Permit{
		Owner:     common.HexToAddress(b.Owner),
		Spender:   common.HexToAddress(b.Spender),
		Asset:     common.HexToAddress(b.Asset),
		Amount:    b.Amount.Int,
		Nonce:     b.Nonce.Int,
		Deadline:  b.Deadline,
		Signature: signature,
	}, nil
}
