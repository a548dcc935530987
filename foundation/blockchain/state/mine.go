package state

import (
	"context"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
)

// Seed mines the genesis block. The coinbase wallet pays the genesis balance
// to the specified account.
func (s *State) Seed(ctx context.Context, coinbase wallet.Wallet, to database.AccountID) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: Seed: started: to[%s]: balance[%d]", to.Short(), s.genesis.Balance)
	defer s.evHandler("state: Seed: completed")

	block, err := s.db.Genesis(ctx, coinbase.PrivateKey, to, s.genesis.Balance)
	if err != nil {
		return database.Block{}, err
	}

	next := database.NewBlock(block.Hash)
	s.pending = &next

	return block, nil
}

// MineBlock mines the block holding the submitted transactions and appends
// it to the chain. A new block is started to collect transactions. If the
// context is cancelled nothing is appended and the block keeps collecting.
func (s *State) MineBlock(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return database.Block{}, ErrNotSeeded
	}

	s.evHandler("state: MineBlock: MINING: trans[%d]: difficulty[%d]", len(s.pending.Trans), s.db.Difficulty())

	block := *s.pending
	if err := s.db.AddBlock(ctx, &block); err != nil {
		return database.Block{}, err
	}

	next := database.NewBlock(block.Hash)
	s.pending = &next

	return block, nil
}
