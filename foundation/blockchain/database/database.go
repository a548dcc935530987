// Package database handles all the lower level support for maintaining the
// blockchain and the in memory set of unspent outputs.
package database

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"sync"
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// EventHandler defines a function that is called when events occur in the
// processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to construct a database.
type Config struct {
	Difficulty uint    // Number of leading 0's required in a block hash.
	MinimumTx  uint64  // Smallest total of inputs a transaction may spend.
	Storage    Storage // Where the blocks of the chain are kept.
	EvHandler  EventHandler
}

// Database manages the chain of blocks and the live set of unspent outputs.
type Database struct {
	mu sync.RWMutex

	difficulty  uint
	minimumTx   uint64
	latestBlock Block
	utxos       *UTXOSet
	storage     Storage
	evHandler   EventHandler
}

// New constructs a new database. Any blocks already held by the storage are
// validated and replayed to rebuild the set of unspent outputs.
func New(cfg Config) (*Database, error) {
	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db := Database{
		difficulty: cfg.Difficulty,
		minimumTx:  cfg.MinimumTx,
		utxos:      NewUTXOSet(),
		storage:    cfg.Storage,
		evHandler:  ev,
	}

	blocks, err := db.Blocks()
	if err != nil {
		return nil, err
	}

	if len(blocks) > 0 {
		utxos, err := Replay(blocks, db.difficulty)
		if err != nil {
			return nil, fmt.Errorf("replaying stored blocks: %w", err)
		}

		db.utxos = utxos
		db.latestBlock = blocks[len(blocks)-1]

		var trans uint64
		for _, block := range blocks {
			trans += uint64(len(block.Trans))
		}
		advanceSequence(trans)

		ev("database: New: replayed blocks[%d]: utxos[%d]", len(blocks), utxos.Len())
	}

	return &db, nil
}

// Close closes the storage for the blocks.
func (db *Database) Close() error {
	return db.storage.Close()
}

// Difficulty returns the number of leading 0's required in a block hash.
func (db *Database) Difficulty() uint {
	return db.difficulty
}

// UTXOs returns the live set of unspent outputs.
func (db *Database) UTXOs() *UTXOSet {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.utxos
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// Genesis mines the genesis block of the chain. The coinbase key signs a
// transaction paying value to the specified account, and the output is
// added straight to the set of unspent outputs.
func (db *Database) Genesis(ctx context.Context, coinbase *ecdsa.PrivateKey, to AccountID, value uint64) (Block, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.latestBlock.Hash != "" {
		return Block{}, errors.New("chain already has a genesis block")
	}

	tx, err := NewGenesisTx(coinbase, to, value)
	if err != nil {
		return Block{}, fmt.Errorf("genesis transaction: %w", err)
	}

	block := NewBlock(GenesisPrevHash)
	if err := block.AddTransaction(&tx, db.utxos, db.minimumTx); err != nil {
		return Block{}, err
	}

	if err := block.Mine(ctx, db.difficulty, db.evHandler); err != nil {
		return Block{}, err
	}

	if err := db.storage.Write(block); err != nil {
		return Block{}, err
	}

	for _, out := range tx.Outputs {
		db.utxos.Put(out)
	}
	db.latestBlock = block

	db.evHandler("database: Genesis: blk[%s]: to[%s]: value[%d]", block.Hash, to.Short(), value)

	return block, nil
}

// NewBlock constructs a block that follows the latest block in the chain.
func (db *Database) NewBlock() (Block, error) {
	latest := db.LatestBlock()
	if latest.Hash == "" {
		return Block{}, ErrNoGenesis
	}

	return NewBlock(latest.Hash), nil
}

// AddTransaction applies the transaction against the live set of unspent
// outputs and adds it to the block.
func (db *Database) AddTransaction(block *Block, tx *Tx) error {
	if err := block.AddTransaction(tx, db.UTXOs(), db.minimumTx); err != nil {
		db.evHandler("database: AddTransaction: DISCARDED: tx[%v]: %s", tx, err)
		return err
	}

	db.evHandler("database: AddTransaction: ADDED: tx[%s]", tx)

	return nil
}

// AddBlock mines the block and appends it to the chain. If mining is
// cancelled the chain is left unchanged.
func (db *Database) AddBlock(ctx context.Context, block *Block) error {
	if err := block.Mine(ctx, db.difficulty, db.evHandler); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if block.Header.PrevBlockHash != db.latestBlock.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrChainLinkMismatch, block.Header.PrevBlockHash, db.latestBlock.Hash)
	}

	if err := db.storage.Write(*block); err != nil {
		return err
	}

	db.latestBlock = *block

	db.evHandler("database: AddBlock: blk[%s]: trans[%d]", block.Hash, len(block.Trans))

	return nil
}

// Blocks returns every block in the chain starting with the genesis block.
func (db *Database) Blocks() ([]Block, error) {
	var blocks []Block

	iter := db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// ForEach returns an iterator to walk through all the blocks starting with
// the genesis block.
func (db *Database) ForEach() Iterator {
	return db.storage.ForEach()
}

// Validate checks the whole chain from the genesis block. The live set of
// unspent outputs is not touched.
func (db *Database) Validate() error {
	blocks, err := db.Blocks()
	if err != nil {
		return err
	}

	if err := Validate(blocks, db.difficulty); err != nil {
		db.evHandler("database: Validate: INVALID: %s", err)
		return err
	}

	db.evHandler("database: Validate: VALID: blocks[%d]", len(blocks))

	return nil
}

// Reconstruct replays the chain into a new set of unspent outputs. Once every
// applied transaction has been mined, the result equals the live set.
func (db *Database) Reconstruct() (*UTXOSet, error) {
	blocks, err := db.Blocks()
	if err != nil {
		return nil, err
	}

	return Replay(blocks, db.difficulty)
}
