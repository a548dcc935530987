// Package state is the core API for the blockchain and implements the
// business rules for submitting transactions and mining blocks.
package state

import (
	"errors"
	"sync"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
)

// ErrNotSeeded is returned when the chain is used before the genesis block
// has been mined.
var ErrNotSeeded = errors.New("chain has not been seeded with a genesis block")

// =============================================================================

// Config represents the configuration required to start the blockchain.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage
	EvHandler database.EventHandler
}

// State manages the blockchain database and the block currently collecting
// transactions. Submitting transactions and mining happen one at a time.
type State struct {
	mu        sync.Mutex
	genesis   genesis.Genesis
	evHandler database.EventHandler

	db      *database.Database
	pending *database.Block
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := genesis.Validate(cfg.Genesis); err != nil {
		return nil, err
	}

	db, err := database.New(database.Config{
		Difficulty: cfg.Genesis.Difficulty,
		MinimumTx:  cfg.Genesis.MinimumTx,
		Storage:    cfg.Storage,
		EvHandler:  ev,
	})
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		evHandler: ev,
		db:        db,
	}

	// Storage that already holds a chain needs a block to collect the next
	// set of transactions.
	if block, err := db.NewBlock(); err == nil {
		state.pending = &block
	}

	return &state, nil
}

// Shutdown cleanly brings the blockchain down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: closing storage")
	return s.db.Close()
}

// Genesis returns a copy of the genesis settings.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}
