package custody

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Payout is a single outgoing transfer from custody. A PushTo call with
// multiple payouts applies all of them or none.
type Payout struct {
	Recipient common.Address
	Amount    *big.Int
}

// TokenVault is an in-memory token custody used as the custody collaborator
// of the intent ledger. It keeps per-account balances for every asset,
// verifies signed permits for pulls and keeps a replay-protected nonce per
// owner. Pulls without a permit are only allowed from trusted accounts
// (the vault treasury funding withdrawal intents).
type TokenVault struct {
	mu sync.Mutex

	chainID    *big.Int
	ledgerAddr common.Address
	trusted    map[common.Address]struct{}

	balances map[common.Address]map[common.Address]*big.Int
	nonces   map[common.Address]*big.Int

	now func() time.Time
}

func NewTokenVault(chainID *big.Int, ledgerAddr common.Address, trusted ...common.Address) *TokenVault {
	t := make(map[common.Address]struct{})
	for _, a := range trusted {
		t[a] = struct{}{}
	}

	return &TokenVault{
		chainID:    chainID,
		ledgerAddr: ledgerAddr,
		trusted:    t,
		balances:   make(map[common.Address]map[common.Address]*big.Int),
		nonces:     make(map[common.Address]*big.Int),
		now:        time.Now,
	}
}

// Mint credits an account with tokens. Used to bootstrap balances; real
// token supply management is out of scope.
func (v *TokenVault) Mint(account common.Address, asset common.Address, amount *big.Int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.credit(account, asset, amount)
}

// Balance returns the current balance of an account for an asset.
func (v *TokenVault) Balance(account common.Address, asset common.Address) *big.Int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return new(big.Int).Set(v.balance(account, asset))
}

// Nonce returns the next expected permit nonce for an owner.
func (v *TokenVault) Nonce(owner common.Address) *big.Int {
	v.mu.Lock()
	defer v.mu.Unlock()

	nonce, ok := v.nonces[owner]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(nonce)
}

// PullFrom moves amount of asset from the payer into ledger custody. With a
// permit it verifies the signature, binding and deadline and consumes the
// owner nonce; without one the payer has to be a trusted account.
func (v *TokenVault) PullFrom(payer common.Address, asset common.Address, amount *big.Int, permit *Permit) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if permit == nil {
		if _, ok := v.trusted[payer]; !ok {
			return ErrPermitRequired
		}
	} else {
		if err := v.verifyPermit(payer, asset, amount, permit); err != nil {
			return err
		}
		v.nonces[payer] = new(big.Int).Add(v.nonce(payer), big.NewInt(1))
	}

	if v.balance(payer, asset).Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s of %s", ErrInsufficientBalance, payer, v.balance(payer, asset), asset)
	}

	v.debit(payer, asset, amount)
	v.credit(v.ledgerAddr, asset, amount)
	return nil
}

// PushTo moves funds out of ledger custody. All payouts are applied
// atomically; if the total exceeds custody nothing moves.
func (v *TokenVault) PushTo(asset common.Address, payouts ...Payout) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	total := new(big.Int)
	for _, p := range payouts {
		total.Add(total, p.Amount)
	}

	if v.balance(v.ledgerAddr, asset).Cmp(total) < 0 {
		return fmt.Errorf("%w: custody holds %s of %s", ErrInsufficientBalance, v.balance(v.ledgerAddr, asset), asset)
	}

	v.debit(v.ledgerAddr, asset, total)
	for _, p := range payouts {
		v.credit(p.Recipient, asset, p.Amount)
	}
	return nil
}

func (v *TokenVault) verifyPermit(payer common.Address, asset common.Address, amount *big.Int, permit *Permit) error {
	if permit.Owner != payer || permit.Spender != v.ledgerAddr || permit.Asset != asset {
		return ErrPermitInvalid
	}
	if permit.Amount == nil || permit.Amount.Cmp(amount) != 0 {
		return ErrPermitInvalid
	}
	// nolint:gosec
	if permit.Deadline < uint64(v.now().Unix()) {
		return ErrPermitExpired
	}
	if permit.Nonce == nil || permit.Nonce.Cmp(v.nonce(payer)) != 0 {
		return ErrNonceUsed
	}

	signer, err := permit.Signer(v.chainID, v.ledgerAddr)
	if err != nil {
		return err
	}
	if signer != permit.Owner {
		return ErrBadSignature
	}
	return nil
}

func (v *TokenVault) nonce(owner common.Address) *big.Int {
	nonce, ok := v.nonces[owner]
	if !ok {
		return big.NewInt(0)
	}
	return nonce
}

func (v *TokenVault) balance(account common.Address, asset common.Address) *big.Int {
	assets, ok := v.balances[account]
	if !ok {
		return big.NewInt(0)
	}
	balance, ok := assets[asset]
	if !ok {
		return big.NewInt(0)
	}
	return balance
}

func (v *TokenVault) credit(account common.Address, asset common.Address, amount *big.Int) {
	assets, ok := v.balances[account]
	if !ok {
		assets = make(map[common.Address]*big.Int)
		v.balances[account] = assets
	}
	balance, ok := assets[asset]
	if !ok {
		balance = new(big.Int)
		assets[asset] = balance
	}
	balance.Add(balance, amount)
}

func (v *TokenVault) debit(account common.Address, asset common.Address, amount *big.Int) {
	v.balances[account][asset].Sub(v.balances[account][asset], amount)
}
