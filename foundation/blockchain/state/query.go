package state

import (
	"errors"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
)

// Balance returns the value held by the account.
func (s *State) Balance(accountID database.AccountID) uint64 {
	return s.db.UTXOs().Balance(accountID)
}

// Accounts returns the balance of every account holding unspent outputs.
func (s *State) Accounts() []database.Account {
	return s.db.UTXOs().Accounts()
}

// Outputs returns the unspent outputs owned by the account.
func (s *State) Outputs(accountID database.AccountID) []database.UnspentOutput {
	return s.db.UTXOs().ForAccount(accountID)
}

// UTXOs returns a copy of the live set of unspent outputs.
func (s *State) UTXOs() *database.UTXOSet {
	return s.db.UTXOs().Clone()
}

// LatestBlock returns the last block appended to the chain.
func (s *State) LatestBlock() database.Block {
	return s.db.LatestBlock()
}

// Blocks returns every block in the chain starting with the genesis block.
func (s *State) Blocks() ([]database.Block, error) {
	return s.db.Blocks()
}

// Pending returns a copy of the block collecting transactions.
func (s *State) Pending() (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return database.Block{}, ErrNotSeeded
	}

	block := *s.pending
	block.Trans = append([]database.Tx(nil), s.pending.Trans...)

	return block, nil
}

// Validate audits the whole chain from the genesis block.
func (s *State) Validate() error {
	return s.db.Validate()
}

// Reconcile replays the chain and checks the result matches the live set of
// unspent outputs. Transactions waiting in the pending block have already
// changed the live set, so they must be mined first.
func (s *State) Reconcile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil && len(s.pending.Trans) > 0 {
		return errors.New("pending transactions must be mined before reconciling")
	}

	replayed, err := s.db.Reconstruct()
	if err != nil {
		return err
	}

	if !replayed.Equal(s.db.UTXOs()) {
		return errors.New("replayed outputs do not match the live outputs")
	}

	s.evHandler("state: Reconcile: live outputs match replay: utxos[%d]", replayed.Len())

	return nil
}
