package custody_test

import (
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	"github.com/sprintertech/intent-ledger/custody"
)

var (
	chainID       = big.NewInt(1)
	ledgerAddress = common.HexToAddress("0xCD31A1c9Bec0A1bAa527B26Fde2aDf44059e4c3d")
	vaultAddress  = common.HexToAddress("0x02a6E6840F2135D95cD2d9Be8D40b97c3a10d9eB")
	assetAddress  = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	recipient     = common.HexToAddress("0x44cd0b4F1023d1b4BBcE7ce0b2cDFa6Fa0a2cD2a")
)

type TokenVaultTestSuite struct {
	suite.Suite

	vault *custody.TokenVault

	ownerKey *ecdsa.PrivateKey
	owner    common.Address
}

func TestRunTokenVaultTestSuite(t *testing.T) {
	suite.Run(t, new(TokenVaultTestSuite))
}

func (s *TokenVaultTestSuite) SetupTest() {
	key, err := crypto.GenerateKey()
	s.Nil(err)
	s.ownerKey = key
	s.owner = crypto.PubkeyToAddress(key.PublicKey)

	s.vault = custody.NewTokenVault(chainID, ledgerAddress, vaultAddress)
	s.vault.Mint(s.owner, assetAddress, big.NewInt(1000))
	s.vault.Mint(vaultAddress, assetAddress, big.NewInt(1000))
}

func (s *TokenVaultTestSuite) permit(amount int64, deadline time.Time) *custody.Permit {
	p := &custody.Permit{
		Owner:    s.owner,
		Spender:  ledgerAddress,
		Asset:    assetAddress,
		Amount:   big.NewInt(amount),
		Nonce:    s.vault.Nonce(s.owner),
		Deadline: uint64(deadline.Unix()),
	}
	s.Nil(p.Sign(s.ownerKey, chainID, ledgerAddress))
	return p
}

func (s *TokenVaultTestSuite) Test_PullFrom_MissingPermit() {
	err := s.vault.PullFrom(s.owner, assetAddress, big.NewInt(100), nil)

	s.ErrorIs(err, custody.ErrPermitRequired)
	s.Equal(big.NewInt(1000), s.vault.Balance(s.owner, assetAddress))
}

func (s *TokenVaultTestSuite) Test_PullFrom_TrustedAccountWithoutPermit() {
	err := s.vault.PullFrom(vaultAddress, assetAddress, big.NewInt(100), nil)

	s.Nil(err)
	s.Equal(big.NewInt(900), s.vault.Balance(vaultAddress, assetAddress))
	s.Equal(big.NewInt(100), s.vault.Balance(ledgerAddress, assetAddress))
}

func (s *TokenVaultTestSuite) Test_PullFrom_AmountMismatch() {
	p := s.permit(100, time.Now().Add(time.Minute))

	err := s.vault.PullFrom(s.owner, assetAddress, big.NewInt(200), p)

	s.ErrorIs(err, custody.ErrPermitInvalid)
}

func (s *TokenVaultTestSuite) Test_PullFrom_WrongSpender() {
	p := s.permit(100, time.Now().Add(time.Minute))
	p.Spender = recipient

	err := s.vault.PullFrom(s.owner, assetAddress, big.NewInt(100), p)

	s.ErrorIs(err, custody.ErrPermitInvalid)
}

func (s *TokenVaultTestSuite) Test_PullFrom_ExpiredDeadline() {
	p := s.permit(100, time.Now().Add(-time.Minute))

	err := s.vault.PullFrom(s.owner, assetAddress, big.NewInt(100), p)

	s.ErrorIs(err, custody.ErrPermitExpired)
}

func (s *TokenVaultTestSuite) Test_PullFrom_TamperedAmount() {
	p := s.permit(100, time.Now().Add(time.Minute))
	p.Amount = big.NewInt(500)

	err := s.vault.PullFrom(s.owner, assetAddress, big.NewInt(500), p)

	s.ErrorIs(err, custody.ErrBadSignature)
}

func (s *TokenVaultTestSuite) Test_PullFrom_NonceReplay() {
	p := s.permit(100, time.Now().Add(time.Minute))
	s.Nil(s.vault.PullFrom(s.owner, assetAddress, big.NewInt(100), p))

	err := s.vault.PullFrom(s.owner, assetAddress, big.NewInt(100), p)

	s.ErrorIs(err, custody.ErrNonceUsed)
	s.Equal(big.NewInt(900), s.vault.Balance(s.owner, assetAddress))
}

func (s *TokenVaultTestSuite) Test_PullFrom_InsufficientBalance() {
	p := s.permit(5000, time.Now().Add(time.Minute))

	err := s.vault.PullFrom(s.owner, assetAddress, big.NewInt(5000), p)

	s.ErrorIs(err, custody.ErrInsufficientBalance)
}

func (s *TokenVaultTestSuite) Test_PullFrom_Valid() {
	p := s.permit(100, time.Now().Add(time.Minute))

	err := s.vault.PullFrom(s.owner, assetAddress, big.NewInt(100), p)

	s.Nil(err)
	s.Equal(big.NewInt(900), s.vault.Balance(s.owner, assetAddress))
	s.Equal(big.NewInt(100), s.vault.Balance(ledgerAddress, assetAddress))
	s.Equal(big.NewInt(1), s.vault.Nonce(s.owner))
}

func (s *TokenVaultTestSuite) Test_PushTo_InsufficientCustody() {
	err := s.vault.PushTo(assetAddress, custody.Payout{Recipient: recipient, Amount: big.NewInt(100)})

	s.ErrorIs(err, custody.ErrInsufficientBalance)
	s.Equal(big.NewInt(0), s.vault.Balance(recipient, assetAddress))
}

func (s *TokenVaultTestSuite) Test_PushTo_AtomicPayouts() {
	p := s.permit(100, time.Now().Add(time.Minute))
	s.Nil(s.vault.PullFrom(s.owner, assetAddress, big.NewInt(100), p))

	// second payout pushes the total over custody, nothing may move
	err := s.vault.PushTo(
		assetAddress,
		custody.Payout{Recipient: recipient, Amount: big.NewInt(60)},
		custody.Payout{Recipient: s.owner, Amount: big.NewInt(50)},
	)

	s.ErrorIs(err, custody.ErrInsufficientBalance)
	s.Equal(big.NewInt(0), s.vault.Balance(recipient, assetAddress))
	s.Equal(big.NewInt(100), s.vault.Balance(ledgerAddress, assetAddress))
}

func (s *TokenVaultTestSuite) Test_PushTo_Valid() {
	p := s.permit(100, time.Now().Add(time.Minute))
	s.Nil(s.vault.PullFrom(s.owner, assetAddress, big.NewInt(100), p))

	err := s.vault.PushTo(
		assetAddress,
		custody.Payout{Recipient: recipient, Amount: big.NewInt(60)},
		custody.Payout{Recipient: s.owner, Amount: big.NewInt(40)},
	)

	s.Nil(err)
	s.Equal(big.NewInt(60), s.vault.Balance(recipient, assetAddress))
	s.Equal(big.NewInt(940), s.vault.Balance(s.owner, assetAddress))
	s.Equal(big.NewInt(0), s.vault.Balance(ledgerAddress, assetAddress))
}
