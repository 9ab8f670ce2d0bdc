package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/sprintertech/intent-ledger/custody"
)

// Custody is the escrow collaborator the ledger moves funds through. Pull
// failures are reported with the custody package sentinel errors so the
// ledger can distinguish bad authorizations from failed transfers.
type Custody interface {
	PullFrom(payer common.Address, asset common.Address, amount *big.Int, permit *custody.Permit) error
	PushTo(asset common.Address, payouts ...custody.Payout) error
}

// Store persists intent records and solver registry membership. Intent
// returns ErrUnknownIntent when no record exists for an id.
type Store interface {
	Intent(id uint64) (*Intent, error)
	SaveIntent(intent *Intent) error
	NextID() (uint64, error)
	SetSolver(address common.Address, approved bool) error
	Solvers() (map[common.Address]struct{}, error)
	ForEachIntent(fn func(intent *Intent) error) error
}

// IntentLedger owns all intent records and enforces lifecycle legality. All
// operations are serialized; for operations that both advance state and move
// funds the post-transition state is saved before the outgoing transfer is
// issued, so a reentrant call observes the advanced state and fails its
// precondition check.
type IntentLedger struct {
	mu sync.Mutex

	store   Store
	custody Custody

	admin      common.Address
	vault      common.Address
	feeRateBps uint64

	solvers  map[common.Address]struct{}
	held     map[common.Address]*big.Int
	inFlight int64

	events chan<- Event
}

func NewIntentLedger(
	admin common.Address,
	vault common.Address,
	feeRateBps uint64,
	store Store,
	custody Custody,
	events chan<- Event,
) (*IntentLedger, error) {
	if feeRateBps > FeeDenominator {
		return nil, fmt.Errorf("fee rate %d exceeds %d bps", feeRateBps, FeeDenominator)
	}

	solvers, err := store.Solvers()
	if err != nil {
		return nil, err
	}

	l := &IntentLedger{
		store:      store,
		custody:    custody,
		admin:      admin,
		vault:      vault,
		feeRateBps: feeRateBps,
		solvers:    solvers,
		held:       make(map[common.Address]*big.Int),
		events:     events,
	}

	err = store.ForEachIntent(func(i *Intent) error {
		if i.State.InFlight() {
			l.hold(i.Asset, i.Amount)
			l.inFlight++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// CreateDeposit consumes the signed permit to pull amount of asset into
// custody and stores a new deposit intent in the Active state. On any
// failure no record is created and no funds move.
func (l *IntentLedger) CreateDeposit(owner common.Address, asset common.Address, amount *big.Int, permit *custody.Permit) (*Intent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	if err := l.custody.PullFrom(owner, asset, amount, permit); err != nil {
		return nil, mapCustodyError(err)
	}

	return l.create(&Intent{
		Type:        DepositIntent,
		Owner:       owner,
		Beneficiary: l.vault,
		Asset:       asset,
		Amount:      new(big.Int).Set(amount),
	})
}

// CreateWithdrawal stores a new withdrawal intent funded from the vault
// treasury in the same operation. Only registered solvers may create
// withdrawals; the beneficiary owns the intent and is paid at settlement.
func (l *IntentLedger) CreateWithdrawal(caller common.Address, beneficiary common.Address, asset common.Address, amount *big.Int) (*Intent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.solvers[caller]; !ok {
		return nil, ErrNotAuthorizedSolver
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	if err := l.custody.PullFrom(l.vault, asset, amount, nil); err != nil {
		return nil, mapCustodyError(err)
	}

	return l.create(&Intent{
		Type:        WithdrawalIntent,
		Owner:       beneficiary,
		Beneficiary: beneficiary,
		Asset:       asset,
		Amount:      new(big.Int).Set(amount),
	})
}

func (l *IntentLedger) create(i *Intent) (*Intent, error) {
	id, err := l.store.NextID()
	if err != nil {
		l.refund(i)
		return nil, err
	}

	i.ID = id
	i.FeeRateBps = l.feeRateBps
	i.State = StateActive
	if err := l.store.SaveIntent(i); err != nil {
		l.refund(i)
		return nil, err
	}

	l.hold(i.Asset, i.Amount)
	l.inFlight++
	l.emit(newIntentEvent(IntentCreatedEvent, i))
	return i, nil
}

// refund returns pulled funds when record creation fails after the pull
// succeeded. Best effort; a failure here is a custody discrepancy and is
// logged loudly.
func (l *IntentLedger) refund(i *Intent) {
	payer := i.Owner
	if i.Type == WithdrawalIntent {
		payer = l.vault
	}
	if err := l.custody.PushTo(i.Asset, custody.Payout{Recipient: payer, Amount: i.Amount}); err != nil {
		log.Error().Str("asset", i.Asset.Hex()).Msgf("Failed returning %s to %s after aborted creation: %s", i.Amount, payer, err)
	}
}

// RegisterFulfillment records a solver attestation that the external action
// behind an Active intent has been performed. No funds move.
func (l *IntentLedger) RegisterFulfillment(caller common.Address, id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.solvers[caller]; !ok {
		return ErrNotAuthorizedSolver
	}

	i, err := l.store.Intent(id)
	if err != nil {
		return err
	}
	if i.State != StateActive {
		return &TransitionError{ID: id, From: i.State, Op: "fulfill"}
	}

	i.State = StateFulfilled
	if err := l.store.SaveIntent(i); err != nil {
		return err
	}

	l.emit(newIntentEvent(IntentFulfilledEvent, i))
	return nil
}

// Settle splits a Fulfilled intent into fee and net and pays both out of
// custody; the fee goes to the calling solver, the net to the intent
// beneficiary. The Settled state is committed before the transfer is issued;
// if the transfer fails the previous record is restored.
func (l *IntentLedger) Settle(caller common.Address, id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.solvers[caller]; !ok {
		return ErrNotAuthorizedSolver
	}

	i, err := l.store.Intent(id)
	if err != nil {
		return err
	}
	if i.State != StateFulfilled {
		return &TransitionError{ID: id, From: i.State, Op: "settle"}
	}

	fee := i.Fee()
	net := new(big.Int).Sub(i.Amount, fee)

	i.State = StateSettled
	if err := l.store.SaveIntent(i); err != nil {
		return err
	}

	payouts := []custody.Payout{{Recipient: i.Beneficiary, Amount: net}}
	if fee.Sign() > 0 {
		payouts = append(payouts, custody.Payout{Recipient: caller, Amount: fee})
	}
	if err := l.custody.PushTo(i.Asset, payouts...); err != nil {
		l.revert(i, StateFulfilled)
		return fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}

	l.release(i.Asset, i.Amount)
	l.inFlight--
	l.emit(newIntentEvent(IntentSettledEvent, i))
	return nil
}

// RequestAbort moves an Active intent onto the two-phase abort path. Only
// the intent owner may request; no funds move until Abort completes it.
func (l *IntentLedger) RequestAbort(caller common.Address, id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, err := l.store.Intent(id)
	if err != nil {
		return err
	}
	if caller != i.Owner {
		return ErrNotIntentOwner
	}
	if i.State != StateActive {
		return &TransitionError{ID: id, From: i.State, Op: "request abort of"}
	}

	i.State = StateRequestedAbort
	return l.store.SaveIntent(i)
}

// Abort completes a requested abort and refunds the full original amount to
// the owner. Permissionless: the refund destination is fixed, so anyone may
// finish an abort no solver rejected.
func (l *IntentLedger) Abort(id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, err := l.store.Intent(id)
	if err != nil {
		return err
	}
	if i.State != StateRequestedAbort {
		return &TransitionError{ID: id, From: i.State, Op: "abort"}
	}

	i.State = StateAborted
	if err := l.store.SaveIntent(i); err != nil {
		return err
	}

	if err := l.custody.PushTo(i.Asset, custody.Payout{Recipient: i.Owner, Amount: i.Amount}); err != nil {
		l.revert(i, StateRequestedAbort)
		return fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}

	l.release(i.Asset, i.Amount)
	l.inFlight--
	l.emit(newIntentEvent(IntentAbortedEvent, i))
	return nil
}

// RejectAbort puts an intent with a pending abort request back onto the
// settlement path. Used by solvers when fulfillment already completed
// before the abort request landed.
func (l *IntentLedger) RejectAbort(caller common.Address, id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.solvers[caller]; !ok {
		return ErrNotAuthorizedSolver
	}

	i, err := l.store.Intent(id)
	if err != nil {
		return err
	}
	if i.State != StateRequestedAbort {
		return &TransitionError{ID: id, From: i.State, Op: "reject abort of"}
	}

	i.State = StateFulfilled
	if err := l.store.SaveIntent(i); err != nil {
		return err
	}

	l.emit(newIntentEvent(AbortRejectedEvent, i))
	return nil
}

// GarbageCollect marks settled and aborted intents as deleted and returns
// the ids it collected. Ids that are unknown or not in a collectable state
// are silently skipped; batch semantics are best effort.
func (l *IntentLedger) GarbageCollect(caller common.Address, ids []uint64) ([]uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.admin {
		return nil, ErrNotAuthorized
	}
	return l.collect(ids)
}

// SweepTerminal collects every settled and aborted intent. Invoked by the
// in-process garbage collection job on behalf of the administrator.
func (l *IntentLedger) SweepTerminal() ([]uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]uint64, 0)
	err := l.store.ForEachIntent(func(i *Intent) error {
		if i.State.Collectable() {
			ids = append(ids, i.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l.collect(ids)
}

func (l *IntentLedger) collect(ids []uint64) ([]uint64, error) {
	collected := make([]uint64, 0, len(ids))
	for _, id := range ids {
		i, err := l.store.Intent(id)
		if err != nil {
			if errors.Is(err, ErrUnknownIntent) {
				continue
			}
			return collected, err
		}
		if !i.State.Collectable() {
			continue
		}

		i.State = StateDeleted
		if err := l.store.SaveIntent(i); err != nil {
			return collected, err
		}

		collected = append(collected, id)
		l.emit(newIntentEvent(IntentDeletedEvent, i))
	}
	return collected, nil
}

// ApproveSolver adds an address to the solver registry. Idempotent; the
// membership event is emitted either way.
func (l *IntentLedger) ApproveSolver(caller common.Address, solver common.Address) error {
	return l.setSolver(caller, solver, true)
}

// RevokeSolver removes an address from the solver registry.
func (l *IntentLedger) RevokeSolver(caller common.Address, solver common.Address) error {
	return l.setSolver(caller, solver, false)
}

func (l *IntentLedger) setSolver(caller common.Address, solver common.Address, approved bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.admin {
		return ErrNotAuthorized
	}

	if err := l.store.SetSolver(solver, approved); err != nil {
		return err
	}
	if approved {
		l.solvers[solver] = struct{}{}
	} else {
		delete(l.solvers, solver)
	}

	l.emit(Event{Kind: SolverUpdatedEvent, Solver: solver, Approved: approved})
	return nil
}

// Intent returns the record stored for an id.
func (l *IntentLedger) Intent(id uint64) (*Intent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.Intent(id)
}

// IsSolver reports registry membership.
func (l *IntentLedger) IsSolver(address common.Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.solvers[address]
	return ok
}

// Held returns the custody balance for an asset, equal to the sum of
// amounts over all in-flight intents of that asset.
func (l *IntentLedger) Held(asset common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	held, ok := l.held[asset]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(held)
}

// InFlight returns the number of intents currently holding custody.
func (l *IntentLedger) InFlight() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.inFlight
}

func (l *IntentLedger) revert(i *Intent, prev State) {
	i.State = prev
	if err := l.store.SaveIntent(i); err != nil {
		log.Error().Uint64("intent", i.ID).Msgf("Failed restoring intent state after transfer failure: %s", err)
	}
}

func (l *IntentLedger) hold(asset common.Address, amount *big.Int) {
	held, ok := l.held[asset]
	if !ok {
		held = new(big.Int)
		l.held[asset] = held
	}
	held.Add(held, amount)
}

func (l *IntentLedger) release(asset common.Address, amount *big.Int) {
	l.held[asset].Sub(l.held[asset], amount)
}

func mapCustodyError(err error) error {
	switch {
	case errors.Is(err, custody.ErrPermitExpired):
		return ErrAuthorizationExpired
	case errors.Is(err, custody.ErrPermitRequired),
		errors.Is(err, custody.ErrPermitInvalid),
		errors.Is(err, custody.ErrNonceUsed),
		errors.Is(err, custody.ErrBadSignature):
		return fmt.Errorf("%w: %s", ErrAuthorizationInvalid, err)
	default:
		return fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}
}
