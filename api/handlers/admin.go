package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"

	"github.com/sprintertech/intent-ledger/ledger"
)

type SolverBody struct {
	Caller string `json:"caller"`
	Solver string `json:"solver"`
}

type GarbageCollectBody struct {
	Caller string   `json:"caller"`
	Ids    []uint64 `json:"ids"`
}

type AdminHandler struct {
	ledger *ledger.IntentLedger
}

func NewAdminHandler(ledger *ledger.IntentLedger) *AdminHandler {
	return &AdminHandler{
		ledger: ledger,
	}
}

// HandleApproveSolver adds an address to the solver registry.
func (h *AdminHandler) HandleApproveSolver(w http.ResponseWriter, r *http.Request) {
	b := &SolverBody{}
	d := json.NewDecoder(r.Body)
	if err := d.Decode(b); err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}
	if b.Caller == "" || b.Solver == "" {
		JSONError(w, fmt.Errorf("missing field 'caller' or 'solver'"), http.StatusBadRequest)
		return
	}

	err := h.ledger.ApproveSolver(common.HexToAddress(b.Caller), common.HexToAddress(b.Solver))
	if err != nil {
		LedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleRevokeSolver removes an address from the solver registry.
func (h *AdminHandler) HandleRevokeSolver(w http.ResponseWriter, r *http.Request) {
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

	vars := mux.Vars(r)
	err := h.ledger.RevokeSolver(common.HexToAddress(b.Caller), common.HexToAddress(vars["address"]))
	if err != nil {
		LedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleGarbageCollect marks the listed settled and aborted intents as
// deleted and returns the collected ids. Non-collectable ids are skipped.
func (h *AdminHandler) HandleGarbageCollect(w http.ResponseWriter, r *http.Request) {
	b := &GarbageCollectBody{}
	d := json.NewDecoder(r.Body)
	if err := d.Decode(b); err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}
	if b.Caller == "" {
		JSONError(w, fmt.Errorf("missing field 'caller'"), http.StatusBadRequest)
		return
	}

	collected, err := h.ledger.GarbageCollect(common.HexToAddress(b.Caller), b.Ids)
	if err != nil {
		LedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string][]uint64{"deleted": collected})
}
