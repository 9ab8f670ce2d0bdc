package cache_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"github.com/sprintertech/intent-ledger/cache"
	"github.com/sprintertech/intent-ledger/ledger"
)

type EventCacheTestSuite struct {
	suite.Suite

	ec       *cache.EventCache
	eventChn chan ledger.Event
	cancel   context.CancelFunc
}

func TestRunEventCacheTestSuite(t *testing.T) {
	suite.Run(t, new(EventCacheTestSuite))
}

func (s *EventCacheTestSuite) SetupTest() {
	s.eventChn = make(chan ledger.Event)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.ec = cache.NewEventCache(ctx, s.eventChn)
}

func (s *EventCacheTestSuite) TearDownTest() {
	s.cancel()
}

func (s *EventCacheTestSuite) event(kind ledger.EventKind, id uint64) ledger.Event {
	return ledger.Event{
		Kind:   kind,
		ID:     id,
		Type:   ledger.DepositIntent,
		Owner:  common.HexToAddress("0x6C8A0c210C4C097270FA5df9b799d79A6887b11A"),
		Asset:  common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831"),
		Amount: big.NewInt(100),
	}
}

func (s *EventCacheTestSuite) Test_Events_MissingIntent() {
	_, err := s.ec.Events(42)

	s.NotNil(err)
}

func (s *EventCacheTestSuite) Test_Events_CachedPerIntent() {
	s.eventChn <- s.event(ledger.IntentCreatedEvent, 1)
	s.eventChn <- s.event(ledger.IntentFulfilledEvent, 1)
	s.eventChn <- s.event(ledger.IntentCreatedEvent, 2)
	time.Sleep(time.Millisecond * 100)

	events, err := s.ec.Events(1)

	s.Nil(err)
	s.Equal(2, len(events))
	s.Equal(ledger.IntentCreatedEvent, events[0].Kind)
	s.Equal(ledger.IntentFulfilledEvent, events[1].Kind)
}

func (s *EventCacheTestSuite) Test_Events_SolverEventsNotCached() {
	s.eventChn <- ledger.Event{Kind: ledger.SolverUpdatedEvent, Approved: true}
	time.Sleep(time.Millisecond * 100)

	_, err := s.ec.Events(0)

	s.NotNil(err)
}

func (s *EventCacheTestSuite) Test_Subscribe_DeliversCachedAndLiveEvents() {
	s.eventChn <- s.event(ledger.IntentCreatedEvent, 1)
	time.Sleep(time.Millisecond * 100)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subChn := make(chan ledger.Event, 10)
	s.ec.Subscribe(ctx, 1, subChn)
	time.Sleep(time.Millisecond * 100)

	s.eventChn <- s.event(ledger.IntentFulfilledEvent, 1)
	time.Sleep(time.Millisecond * 100)

	first := <-subChn
	s.Equal(ledger.IntentCreatedEvent, first.Kind)
	second := <-subChn
	s.Equal(ledger.IntentFulfilledEvent, second.Kind)
}

func (s *EventCacheTestSuite) Test_Subscribe_IgnoresOtherIntents() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subChn := make(chan ledger.Event, 10)
	s.ec.Subscribe(ctx, 1, subChn)
	time.Sleep(time.Millisecond * 100)

	s.eventChn <- s.event(ledger.IntentCreatedEvent, 2)
	time.Sleep(time.Millisecond * 100)

	select {
	case <-subChn:
		s.FailNow("received event for different intent")
	default:
	}
}
