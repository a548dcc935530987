package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/merkle"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
)

// GenesisPrevHash is the previous block hash recorded by the genesis block.
const GenesisPrevHash = "0"

// =============================================================================

// BlockHeader represents the information hashed to produce the block hash.
type BlockHeader struct {
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	TimeStamp     int64  `json:"timestamp"`       // Time the block was created in milliseconds.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
	MerkleRoot    string `json:"merkle_root"`     // Merkle root of the transaction ids in this block.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader `json:"header"`
	Hash   string      `json:"hash"`
	Trans  []Tx        `json:"trans"`
}

// NewBlock constructs a new block that follows the block with the specified
// hash. The hash of the block is provisional until the block is mined.
func NewBlock(prevBlockHash string) Block {
	b := Block{
		Header: BlockHeader{
			PrevBlockHash: prevBlockHash,
			TimeStamp:     time.Now().UTC().UnixMilli(),
		},
	}
	b.Hash = b.CalculateHash()

	return b
}

// IsGenesis reports whether this is the first block of the chain.
func (b Block) IsGenesis() bool {
	return b.Header.PrevBlockHash == GenesisPrevHash
}

// AddTransaction applies the transaction against the set of unspent outputs
// and adds it to the block. Transactions added to the genesis block are not
// applied. On failure the block is unchanged.
func (b *Block) AddTransaction(tx *Tx, set *UTXOSet, minimum uint64) error {
	if tx == nil {
		return ErrNilTransaction
	}

	if !b.IsGenesis() {
		if err := tx.Apply(set, minimum); err != nil {
			return err
		}
	}

	b.Trans = append(b.Trans, *tx)

	return nil
}

// CalculateHash returns the hash of the block header.
func (b Block) CalculateHash() string {
	h := b.Header
	return signature.Hash(h.PrevBlockHash + strconv.FormatInt(h.TimeStamp, 10) + strconv.FormatUint(h.Nonce, 10) + h.MerkleRoot)
}

// TxIDs returns the ids of the transactions in block order.
func (b Block) TxIDs() []string {
	ids := make([]string, len(b.Trans))
	for i, tx := range b.Trans {
		ids[i] = tx.ID
	}
	return ids
}

// Mine sets the merkle root of the block and then performs the work to find
// a nonce that solves the proof of work for the specified difficulty. If the
// context is cancelled the block is left unchanged.
func (b *Block) Mine(ctx context.Context, difficulty uint, ev func(v string, args ...any)) error {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("database: Mine: MINING: started: prevBlk[%s]: trans[%d]: difficulty[%d]", b.Header.PrevBlockHash, len(b.Trans), difficulty)
	defer ev("database: Mine: MINING: completed")

	// Work on a copy so a cancelled search doesn't leave a partial result.
	nb := *b
	nb.Header.MerkleRoot = merkle.Root(nb.TxIDs())
	nb.Header.Nonce = 0
	nb.Hash = nb.CalculateHash()

	var attempts uint64
	for !IsHashSolved(difficulty, nb.Hash) {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED")
			return ctx.Err()
		}

		nb.Header.Nonce++
		nb.Hash = nb.CalculateHash()
	}

	ev("database: Mine: MINING: SOLVED: blk[%s]: attempts[%d]", nb.Hash, attempts)

	*b = nb

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("%s:trans[%d]", shortID(b.Hash), len(b.Trans))
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the proof of
// work rules. The hash must start with difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if difficulty > uint(len(hash)) {
		return false
	}

	return hash[:difficulty] == strings.Repeat("0", int(difficulty))
}
