package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/sprintertech/intent-ledger/ledger"
)

var (
	intentPrefix = []byte("intent:")
	solverPrefix = []byte("solver:")
	nextIDKey    = []byte("id:next")
)

// IntentStore persists intent records, solver registry membership and the
// dense id counter in LevelDB. Records are stored append-only; deletion is a
// state, never a physical removal.
type IntentStore struct {
	mu sync.Mutex
	db *leveldb.DB
}

// NewIntentStore opens a store backed by the LevelDB database at path.
func NewIntentStore(path string) (*IntentStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &IntentStore{db: db}, nil
}

// NewMemIntentStore opens a store backed by in-memory storage. Used in tests.
func NewMemIntentStore() (*IntentStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &IntentStore{db: db}, nil
}

func (s *IntentStore) Close() error {
	return s.db.Close()
}

// Intent returns the record stored for an id or ledger.ErrUnknownIntent if
// none exists.
func (s *IntentStore) Intent(id uint64) (*ledger.Intent, error) {
	data, err := s.db.Get(intentKey(id), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ledger.ErrUnknownIntent
		}
		return nil, err
	}

	i := &ledger.Intent{}
	if err := json.Unmarshal(data, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *IntentStore) SaveIntent(i *ledger.Intent) error {
	data, err := json.Marshal(i)
	if err != nil {
		return err
	}
	return s.db.Put(intentKey(i.ID), data, nil)
}

// NextID allocates the next sequential intent id. Ids are dense and never
// reused.
func (s *IntentStore) NextID() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := uint64(0)
	data, err := s.db.Get(nextIDKey, nil)
	if err != nil {
		if !errors.Is(err, leveldb.ErrNotFound) {
			return 0, err
		}
	} else {
		next = binary.BigEndian.Uint64(data)
	}

	counter := make([]byte, 8)
	binary.BigEndian.PutUint64(counter, next+1)
	if err := s.db.Put(nextIDKey, counter, nil); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *IntentStore) SetSolver(address common.Address, approved bool) error {
	key := solverKey(address)
	if !approved {
		return s.db.Delete(key, nil)
	}
	return s.db.Put(key, []byte{1}, nil)
}

func (s *IntentStore) Solvers() (map[common.Address]struct{}, error) {
	solvers := make(map[common.Address]struct{})
	iter := s.db.NewIterator(util.BytesPrefix(solverPrefix), nil)
	defer iter.Release()

	for iter.Next() {
		address := common.BytesToAddress(iter.Key()[len(solverPrefix):])
		solvers[address] = struct{}{}
	}
	return solvers, iter.Error()
}

// ForEachIntent calls fn for every stored intent in id order.
func (s *IntentStore) ForEachIntent(fn func(i *ledger.Intent) error) error {
	iter := s.db.NewIterator(util.BytesPrefix(intentPrefix), nil)
	defer iter.Release()

	for iter.Next() {
		i := &ledger.Intent{}
		if err := json.Unmarshal(iter.Value(), i); err != nil {
			return err
		}
		if err := fn(i); err != nil {
			return err
		}
	}
	return iter.Error()
}

func solverKey(address common.Address) []byte {
	key := make([]byte, len(solverPrefix), len(solverPrefix)+common.AddressLength)
	copy(key, solverPrefix)
	return append(key, address.Bytes()...)
}

func intentKey(id uint64) []byte {
	key := make([]byte, len(intentPrefix)+8)
	copy(key, intentPrefix)
	binary.BigEndian.PutUint64(key[len(intentPrefix):], id)
	return key
}
