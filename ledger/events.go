package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
)

type EventKind string

const (
	IntentCreatedEvent   EventKind = "IntentCreated"
	IntentFulfilledEvent EventKind = "IntentFulfilled"
	IntentSettledEvent   EventKind = "IntentSettled"
	IntentAbortedEvent   EventKind = "IntentAborted"
	AbortRejectedEvent   EventKind = "AbortRejected"
	IntentDeletedEvent   EventKind = "IntentDeleted"
	SolverUpdatedEvent   EventKind = "SolverUpdated"
)

// Event is a lifecycle notification consumed by external indexers. Intent
// fields are only set on intent-scoped kinds, solver fields only on
// SolverUpdated.
type Event struct {
	Kind EventKind `json:"kind"`

	ID     uint64         `json:"id,omitempty"`
	Type   IntentType     `json:"type,omitempty"`
	Owner  common.Address `json:"owner,omitempty"`
	Asset  common.Address `json:"asset,omitempty"`
	Amount *big.Int       `json:"amount,omitempty"`

	Solver   common.Address `json:"solver,omitempty"`
	Approved bool           `json:"approved,omitempty"`
}

func (l *IntentLedger) emit(e Event) {
	select {
	case l.events <- e:
	default:
		log.Warn().Str("kind", string(e.Kind)).Uint64("intent", e.ID).Msg("Event channel full, dropping event")
	}
}

func newIntentEvent(kind EventKind, i *Intent) Event {
	return Event{
		Kind:   kind,
		ID:     i.ID,
		Type:   i.Type,
		Owner:  i.Owner,
		Asset:  i.Asset,
		Amount: i.Amount,
	}
}
