// Package memory implements the ability to read and write blocks to memory
// using a slice.
package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
)

// Memory represents the storage implementation for reading and storing
// blocks in memory using a slice. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.Block
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write appends the specified block to the chain. The block must link to the
// last block written, or be a genesis block when the chain is empty.
func (m *Memory) Write(block database.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := len(m.blocks)
	switch {
	case l == 0 && !block.IsGenesis():
		return errors.New("first block must be a genesis block")

	case l > 0 && block.Header.PrevBlockHash != m.blocks[l-1].Hash:
		return fmt.Errorf("block is out of order, prev %s, last %s", block.Header.PrevBlockHash, m.blocks[l-1].Hash)
	}

	m.blocks = append(m.blocks, copyBlock(block))

	return nil
}

// GetBlock searches the blockchain to locate and return the contents of
// the specified block by number.
func (m *Memory) GetBlock(num uint64) (database.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l := uint64(len(m.blocks))
	if l == 0 || num >= l {
		return database.Block{}, errors.New("block does not exist")
	}

	return copyBlock(m.blocks[num]), nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Reset will clear out the blockchain.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = []database.Block{}
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through and reading blocks in memory. This implements the database
// Iterator interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current block number being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block.
func (mi *memoryIterator) Next() (database.Block, error) {
	if mi.eoc {
		return database.Block{}, errors.New("end of chain")
	}

	block, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
	}

	mi.current++

	return block, err
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}

// =============================================================================

// copyBlock makes a deep copy of the block so callers can't change what
// is stored through shared slices.
func copyBlock(block database.Block) database.Block {
	trans := make([]database.Tx, len(block.Trans))
	for i, tx := range block.Trans {
		tx.Inputs = append([]database.TxInput(nil), tx.Inputs...)
		tx.Outputs = append([]database.UnspentOutput(nil), tx.Outputs...)
		tx.Signature = append([]byte(nil), tx.Signature...)
		trans[i] = tx
	}
	block.Trans = trans

	return block
}
