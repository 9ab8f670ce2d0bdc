package custody_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	"github.com/sprintertech/intent-ledger/custody"
)

type PermitTestSuite struct {
	suite.Suite
}

func TestRunPermitTestSuite(t *testing.T) {
	suite.Run(t, new(PermitTestSuite))
}

func (s *PermitTestSuite) Test_Signer_RecoversSigningKey() {
	key, err := crypto.GenerateKey()
	s.Nil(err)
	owner := crypto.PubkeyToAddress(key.PublicKey)

	p := &custody.Permit{
		Owner:    owner,
		Spender:  ledgerAddress,
		Asset:    assetAddress,
		Amount:   big.NewInt(100),
		Nonce:    big.NewInt(0),
		Deadline: uint64(time.Now().Add(time.Minute).Unix()),
	}
	s.Nil(p.Sign(key, chainID, ledgerAddress))

	signer, err := p.Signer(chainID, ledgerAddress)

	s.Nil(err)
	s.Equal(owner, signer)
}

func (s *PermitTestSuite) Test_Signer_MalformedSignature() {
	p := &custody.Permit{
		Owner:     recipient,
		Spender:   ledgerAddress,
		Asset:     assetAddress,
		Amount:    big.NewInt(100),
		Nonce:     big.NewInt(0),
		Deadline:  uint64(time.Now().Add(time.Minute).Unix()),
		Signature: []byte("too short"),
	}

	_, err := p.Signer(chainID, ledgerAddress)

	s.ErrorIs(err, custody.ErrBadSignature)
}

func (s *PermitTestSuite) Test_TypedDataHash_BindsAllFields() {
	base := &custody.Permit{
		Owner:    recipient,
		Spender:  ledgerAddress,
		Asset:    assetAddress,
		Amount:   big.NewInt(100),
		Nonce:    big.NewInt(0),
		Deadline: 1700000000,
	}
	baseHash, err := base.TypedDataHash(chainID, ledgerAddress)
	s.Nil(err)

	changed := *base
	changed.Amount = big.NewInt(101)
	changedHash, err := changed.TypedDataHash(chainID, ledgerAddress)
	s.Nil(err)
	s.NotEqual(baseHash, changedHash)

	otherChainHash, err := base.TypedDataHash(big.NewInt(10), ledgerAddress)
	s.Nil(err)
	s.NotEqual(baseHash, otherChainHash)

	otherContractHash, err := base.TypedDataHash(chainID, vaultAddress)
	s.Nil(err)
	s.NotEqual(baseHash, otherContractHash)
}
