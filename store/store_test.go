package store_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/sprintertech/intent-ledger/ledger"
	"github.com/sprintertech/intent-ledger/store"
)

type IntentStoreTestSuite struct {
	suite.Suite

	store *store.IntentStore
}

func TestRunIntentStoreTestSuite(t *testing.T) {
	suite.Run(t, new(IntentStoreTestSuite))
}

func (s *IntentStoreTestSuite) SetupTest() {
	var err error
	s.store, err = store.NewMemIntentStore()
	s.Nil(err)
}

func (s *IntentStoreTestSuite) TearDownTest() {
	_ = s.store.Close()
}

func (s *IntentStoreTestSuite) intent(id uint64, state ledger.State) *ledger.Intent {
	return &ledger.Intent{
		ID:          id,
		Type:        ledger.DepositIntent,
		Owner:       common.HexToAddress("0x6C8A0c210C4C097270FA5df9b799d79A6887b11A"),
		Beneficiary: common.HexToAddress("0x02a6E6840F2135D95cD2d9Be8D40b97c3a10d9eB"),
		Asset:       common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831"),
		Amount:      big.NewInt(1000),
		FeeRateBps:  50,
		State:       state,
	}
}

func (s *IntentStoreTestSuite) Test_Intent_Missing() {
	_, err := s.store.Intent(0)

	s.ErrorIs(err, ledger.ErrUnknownIntent)
}

func (s *IntentStoreTestSuite) Test_SaveIntent_Roundtrip() {
	i := s.intent(3, ledger.StateRequestedAbort)
	s.Nil(s.store.SaveIntent(i))

	stored, err := s.store.Intent(3)

	s.Nil(err)
	s.Equal(i, stored)
}

func (s *IntentStoreTestSuite) Test_SaveIntent_OverwritesState() {
	i := s.intent(3, ledger.StateActive)
	s.Nil(s.store.SaveIntent(i))

	i.State = ledger.StateFulfilled
	s.Nil(s.store.SaveIntent(i))

	stored, err := s.store.Intent(3)
	s.Nil(err)
	s.Equal(ledger.StateFulfilled, stored.State)
}

func (s *IntentStoreTestSuite) Test_NextID_Dense() {
	for expected := uint64(0); expected < 5; expected++ {
		id, err := s.store.NextID()
		s.Nil(err)
		s.Equal(expected, id)
	}
}

func (s *IntentStoreTestSuite) Test_Solvers_Membership() {
	solver := common.HexToAddress("0x8b6E9Cb0E84a997eBe6649054B0C98a1a5F200F3")
	other := common.HexToAddress("0x44cd0b4F1023d1b4BBcE7ce0b2cDFa6Fa0a2cD2a")

	s.Nil(s.store.SetSolver(solver, true))
	s.Nil(s.store.SetSolver(other, true))
	s.Nil(s.store.SetSolver(other, false))

	solvers, err := s.store.Solvers()

	s.Nil(err)
	s.Equal(map[common.Address]struct{}{solver: {}}, solvers)
}

func (s *IntentStoreTestSuite) Test_ForEachIntent_IteratesInIDOrder() {
	s.Nil(s.store.SaveIntent(s.intent(2, ledger.StateSettled)))
	s.Nil(s.store.SaveIntent(s.intent(0, ledger.StateActive)))
	s.Nil(s.store.SaveIntent(s.intent(1, ledger.StateAborted)))

	ids := []uint64{}
	err := s.store.ForEachIntent(func(i *ledger.Intent) error {
		ids = append(ids, i.ID)
		return nil
	})

	s.Nil(err)
	s.Equal([]uint64{0, 1, 2}, ids)
}
