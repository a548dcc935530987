package database

import (
	"github.com/ardanlabs/utxochain/foundation/blockchain/merkle"
)

// Validate walks the chain from the genesis block and checks every block and
// transaction. It stops at the first broken rule and returns a
// ValidationError describing it. The blocks are not modified.
func Validate(blocks []Block, difficulty uint) error {
	_, err := Replay(blocks, difficulty)
	return err
}

// Replay validates the chain like Validate and returns the set of unspent
// outputs produced by replaying every transaction from the genesis block.
func Replay(blocks []Block, difficulty uint) (*UTXOSet, error) {
	if len(blocks) == 0 || !blocks[0].IsGenesis() {
		return nil, &ValidationError{Block: 0, Tx: -1, Err: ErrNoGenesis}
	}

	// Seed a working set with the outputs paid by the genesis block.
	working := NewUTXOSet()
	for _, tx := range blocks[0].Trans {
		for _, out := range tx.Outputs {
			working.outputs[out.ID] = out
		}
	}

	for i := 1; i < len(blocks); i++ {
		current := blocks[i]
		previous := blocks[i-1]

		if err := validateBlock(current, previous, difficulty); err != nil {
			return nil, &ValidationError{Block: i, Tx: -1, Err: err}
		}

		for t, tx := range current.Trans {
			if err := replayTx(tx, working); err != nil {
				return nil, &ValidationError{Block: i, Tx: t, Err: err}
			}
		}
	}

	return working, nil
}

// =============================================================================

// validateBlock checks the block hash, the link to the previous block, the
// proof of work and the merkle root.
func validateBlock(current Block, previous Block, difficulty uint) error {
	if current.Hash != current.CalculateHash() {
		return ErrHashMismatch
	}

	if previous.Hash != current.Header.PrevBlockHash {
		return ErrChainLinkMismatch
	}

	if !IsHashSolved(difficulty, current.Hash) {
		return ErrProofOfWorkUnmet
	}

	if current.Header.MerkleRoot != merkle.Root(current.TxIDs()) {
		return ErrHashMismatch
	}

	return nil
}

// replayTx checks a single transaction against the working set and applies
// its inputs and outputs to the set.
func replayTx(tx Tx, working *UTXOSet) error {
	if !tx.VerifySignature() {
		return ErrSignatureInvalid
	}

	resolved, err := tx.resolve(working.outputs)
	if err != nil {
		return err
	}

	spent, err := resolved.Value()
	if err != nil {
		return err
	}

	created, err := tx.OutputsValue()
	if err != nil {
		return err
	}

	if spent != created {
		return ErrValueMismatch
	}

	if len(tx.Outputs) != 2 || tx.Outputs[0].Owner != tx.To || tx.Outputs[1].Owner != tx.From {
		return ErrStructuralShape
	}

	if tx.Outputs[0].Value != tx.Value {
		return ErrValueMismatch
	}

	for _, out := range resolved {
		if !out.IsConsistent() {
			return ErrValueMismatch
		}
		delete(working.outputs, out.ID)
	}

	for _, out := range tx.Outputs {
		if !out.IsConsistent() || out.TxID != tx.ID {
			return ErrValueMismatch
		}
		working.outputs[out.ID] = out
	}

	return nil
}
