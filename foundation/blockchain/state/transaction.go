package state

import (
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
)

// SendFunds builds a transaction from the wallet paying value to the
// specified account and submits it to the block collecting transactions.
func (s *State) SendFunds(from wallet.Wallet, to database.AccountID, value uint64) (database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return database.Tx{}, ErrNotSeeded
	}

	tx, err := from.SendFunds(to, value, s.db.UTXOs())
	if err != nil {
		s.evHandler("state: SendFunds: REJECTED: from[%s]: %s", from.AccountID.Short(), err)
		return database.Tx{}, err
	}

	return s.submit(tx)
}

// SubmitTx applies a signed transaction and adds it to the block collecting
// transactions. The returned transaction carries its id and outputs.
func (s *State) SubmitTx(tx database.Tx) (database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submit(tx)
}

// submit adds the transaction to the pending block. It expects the lock
// to be held.
func (s *State) submit(tx database.Tx) (database.Tx, error) {
	if s.pending == nil {
		return database.Tx{}, ErrNotSeeded
	}

	if err := s.db.AddTransaction(s.pending, &tx); err != nil {
		return database.Tx{}, err
	}

	return tx, nil
}
