package ledger

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// FeeDenominator is the basis point denominator used for fee calculations.
const FeeDenominator = 10000

type IntentType uint8

const (
	DepositIntent IntentType = iota + 1
	WithdrawalIntent
)

func (t IntentType) String() string {
	switch t {
	case DepositIntent:
		return "deposit"
	case WithdrawalIntent:
		return "withdrawal"
	default:
		return "unknown"
	}
}

func (t IntentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *IntentType) UnmarshalText(data []byte) error {
	switch string(data) {
	case "deposit":
		*t = DepositIntent
	case "withdrawal":
		*t = WithdrawalIntent
	default:
		return fmt.Errorf("unknown intent type %s", data)
	}
	return nil
}

// State is the lifecycle state of an intent. There is no stored "none"
// state - an id with no record is the only representation of a missing
// intent.
type State uint8

const (
	StateActive State = iota + 1
	StateFulfilled
	StateRequestedAbort
	StateSettled
	StateAborted
	StateDeleted
)

var stateNames = map[State]string{
	StateActive:         "active",
	StateFulfilled:      "fulfilled",
	StateRequestedAbort: "requestedAbort",
	StateSettled:        "settled",
	StateAborted:        "aborted",
	StateDeleted:        "deleted",
}

func (s State) String() string {
	name, ok := stateNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(data []byte) error {
	for state, name := range stateNames {
		if name == string(data) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown intent state %s", data)
}

// InFlight reports whether the intent amount is still held in custody.
func (s State) InFlight() bool {
	return s == StateActive || s == StateFulfilled || s == StateRequestedAbort
}

// Collectable reports whether the intent may be garbage collected.
func (s State) Collectable() bool {
	return s == StateSettled || s == StateAborted
}

// Intent is a single value transfer request tracked by the ledger. Identity
// fields are fixed at creation; only State advances afterwards.
type Intent struct {
	ID          uint64         `json:"id"`
	Type        IntentType     `json:"type"`
	Owner       common.Address `json:"owner"`
	Beneficiary common.Address `json:"beneficiary"`
	Asset       common.Address `json:"asset"`
	Amount      *big.Int       `json:"amount"`
	FeeRateBps  uint64         `json:"feeRateBps"`
	State       State          `json:"state"`
}

// Fee returns floor(amount * feeRateBps / 10000). The settlement remainder
// is always computed as amount - fee so the two halves add up exactly.
func (i *Intent) Fee() *big.Int {
	fee := new(big.Int).Mul(i.Amount, new(big.Int).SetUint64(i.FeeRateBps))
	return fee.Div(fee, big.NewInt(FeeDenominator))
}
