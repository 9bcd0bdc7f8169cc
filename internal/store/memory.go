package store

import (
	"github.com/hance08/ledgerd/internal/ledger"
	"github.com/hance08/ledgerd/internal/model"
)

// MemoryStore keeps accounts in a map. It is not safe for concurrent use;
// each processing shard owns its own instance.
type MemoryStore struct {
	accounts map[model.AccountID]*ledger.Ledger
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[model.AccountID]*ledger.Ledger)}
}

func (s *MemoryStore) GetOrCreate(id model.AccountID) *ledger.Ledger {
	l, ok := s.accounts[id]
	if !ok {
		l = ledger.New(id)
		s.accounts[id] = l
	}
	return l
}

// All returns the accounts in no particular order.
func (s *MemoryStore) All() []*ledger.Ledger {
	all := make([]*ledger.Ledger, 0, len(s.accounts))
	for _, l := range s.accounts {
		all = append(all, l)
	}
	return all
}
