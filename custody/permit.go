package custody

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	DOMAIN_NAME = "IntentLedger"
	VERSION     = "1.0.0"
)

var (
	ErrPermitRequired      = errors.New("permit required")
	ErrPermitInvalid       = errors.New("permit does not match transfer")
	ErrPermitExpired       = errors.New("permit deadline passed")
	ErrNonceUsed           = errors.New("permit nonce already used")
	ErrBadSignature        = errors.New("permit signature invalid")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Permit is a signed, time-bounded authorization for the ledger to pull
// tokens from the owner. Signatures are 65-byte [R || S || V] over the
// EIP-712 typed data hash.
type Permit struct {
	Owner     common.Address `json:"owner"`
	Spender   common.Address `json:"spender"`
	Asset     common.Address `json:"asset"`
	Amount    *big.Int       `json:"amount"`
	Nonce     *big.Int       `json:"nonce"`
	Deadline  uint64         `json:"deadline"`
	Signature []byte         `json:"signature"`
}

// TypedDataHash calculates the hash the owner has to sign to authorize the
// pull of Amount of Asset into the spender's custody.
func (p *Permit) TypedDataHash(chainID *big.Int, verifyingContract common.Address) ([]byte, error) {
	msg := apitypes.TypedDataMessage{
		"owner":    p.Owner.Hex(),
		"spender":  p.Spender.Hex(),
		"asset":    p.Asset.Hex(),
		"amount":   p.Amount,
		"nonce":    p.Nonce,
		"deadline": new(big.Int).SetUint64(p.Deadline),
	}

	id := math.HexOrDecimal256(*chainID)
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Permit": []apitypes.Type{
				{Name: "owner", Type: "address"},
				{Name: "spender", Type: "address"},
				{Name: "asset", Type: "address"},
				{Name: "amount", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
		},
		PrimaryType: "Permit",
		Domain: apitypes.TypedDataDomain{
			Name:              DOMAIN_NAME,
			ChainId:           &id,
			Version:           VERSION,
			VerifyingContract: verifyingContract.Hex(),
		},
		Message: msg,
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return []byte{}, err
	}

	messageHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return []byte{}, err
	}

	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(messageHash)))
	return crypto.Keccak256(rawData), nil
}

// Signer recovers the address that signed the permit.
func (p *Permit) Signer(chainID *big.Int, verifyingContract common.Address) (common.Address, error) {
	if len(p.Signature) != crypto.SignatureLength {
		return common.Address{}, ErrBadSignature
	}

	hash, err := p.TypedDataHash(chainID, verifyingContract)
	if err != nil {
		return common.Address{}, err
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, p.Signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, ErrBadSignature
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Sign signs the permit typed data hash with the given key and stores the
// resulting signature on the permit.
func (p *Permit) Sign(key *ecdsa.PrivateKey, chainID *big.Int, verifyingContract common.Address) error {
	hash, err := p.TypedDataHash(chainID, verifyingContract)
	if err != nil {
		return err
	}

	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return err
	}

	p.Signature = sig
	return nil
}
