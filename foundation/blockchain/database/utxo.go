package database

import (
	"sort"
	"sync"
)

// UTXOSet maintains the set of unspent outputs keyed by output id. A single
// writer at a time is allowed to mutate the set.
type UTXOSet struct {
	mu      sync.RWMutex
	outputs map[string]UnspentOutput
}

// NewUTXOSet constructs a set holding the specified outputs.
func NewUTXOSet(outputs ...UnspentOutput) *UTXOSet {
	set := UTXOSet{
		outputs: make(map[string]UnspentOutput),
	}

	for _, out := range outputs {
		set.outputs[out.ID] = out
	}

	return &set
}

// Get returns the unspent output for the specified id.
func (s *UTXOSet) Get(id string) (UnspentOutput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, exists := s.outputs[id]
	return out, exists
}

// Put adds the output to the set, replacing an output with the same id.
func (s *UTXOSet) Put(out UnspentOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outputs[out.ID] = out
}

// Len returns the number of unspent outputs.
func (s *UTXOSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.outputs)
}

// Clone makes a copy of the set that can be mutated independently.
func (s *UTXOSet) Clone() *UTXOSet {
	return NewUTXOSet(s.Values()...)
}

// Copy returns a copy of the outputs keyed by id.
func (s *UTXOSet) Copy() map[string]UnspentOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cpy := make(map[string]UnspentOutput, len(s.outputs))
	for id, out := range s.outputs {
		cpy[id] = out
	}
	return cpy
}

// Values returns the outputs ordered by id.
func (s *UTXOSet) Values() []UnspentOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedOutputs(s.outputs, func(UnspentOutput) bool { return true })
}

// ForAccount returns the outputs the account can spend ordered by id.
func (s *UTXOSet) ForAccount(accountID AccountID) []UnspentOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedOutputs(s.outputs, func(out UnspentOutput) bool { return out.IsMine(accountID) })
}

// Balance returns the total value of the outputs owned by the account.
func (s *UTXOSet) Balance(accountID AccountID) uint64 {
	var total uint64
	for _, out := range s.ForAccount(accountID) {
		total += out.Value
	}
	return total
}

// Accounts returns the balance of every account holding outputs, ordered by
// account id.
func (s *UTXOSet) Accounts() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balances := make(map[AccountID]uint64)
	for _, out := range s.outputs {
		balances[out.Owner] += out.Value
	}

	accounts := make([]Account, 0, len(balances))
	for accountID, balance := range balances {
		accounts = append(accounts, Account{AccountID: accountID, Balance: balance})
	}
	sort.Sort(byAccount(accounts))

	return accounts
}

// Equal reports whether both sets hold exactly the same outputs.
func (s *UTXOSet) Equal(other *UTXOSet) bool {
	a := s.Copy()
	b := other.Copy()

	if len(a) != len(b) {
		return false
	}

	for id, out := range a {
		if b[id] != out {
			return false
		}
	}

	return true
}

// =============================================================================

// sortedOutputs returns the outputs accepted by the filter ordered by id.
func sortedOutputs(outputs map[string]UnspentOutput, filter func(UnspentOutput) bool) []UnspentOutput {
	list := make([]UnspentOutput, 0, len(outputs))
	for _, out := range outputs {
		if filter(out) {
			list = append(list, out)
		}
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list
}
