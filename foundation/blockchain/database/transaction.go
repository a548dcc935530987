package database

import (
	"crypto/ecdsa"
	"fmt"
	"math/bits"
	"strconv"
	"sync/atomic"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// GenesisTxID is the id given to the transaction seeding the genesis block.
const GenesisTxID = "0"

// sequence is a count of how many transactions have been given an id. It is
// mixed into every id so two transactions with the same economic content
// never collide.
var sequence atomic.Uint64

// =============================================================================

// TxInput references an unspent output being consumed by a transaction.
type TxInput struct {
	OutputID string `json:"output_id"`
}

// Resolved holds the unspent outputs that the inputs of a transaction
// resolved to, in input order.
type Resolved []UnspentOutput

// Value returns the sum of the resolved outputs. A sum that does not fit in
// a uint64 fails with ErrValueMismatch.
func (r Resolved) Value() (uint64, error) {
	return sumValues(r)
}

// =============================================================================

// Tx is the transfer of value between two accounts.
type Tx struct {
	ID        string          `json:"id"`        // Assigned when the transaction is applied.
	From      AccountID       `json:"from"`      // Account sending the value.
	To        AccountID       `json:"to"`        // Account receiving the value.
	Value     uint64          `json:"value"`     // Amount of value being transferred.
	Signature hexutil.Bytes   `json:"signature"` // Signature over from, to and value.
	Inputs    []TxInput       `json:"inputs"`    // Outputs being spent.
	Outputs   []UnspentOutput `json:"outputs"`   // Outputs created by the transaction.
}

// NewTx constructs a new transaction. No validation is performed until the
// transaction is applied.
func NewTx(from AccountID, to AccountID, value uint64, inputs []TxInput) Tx {
	return Tx{
		From:   from,
		To:     to,
		Value:  value,
		Inputs: inputs,
	}
}

// NewGenesisTx constructs the transaction seeding the chain. It pays value to
// the specified account out of nothing and is never applied against a set
// of unspent outputs.
func NewGenesisTx(coinbase *ecdsa.PrivateKey, to AccountID, value uint64) (Tx, error) {
	if coinbase == nil {
		return Tx{}, fmt.Errorf("%w: missing coinbase key", signature.ErrSigning)
	}

	tx := NewTx(PublicKeyToAccountID(coinbase.PublicKey), to, value, nil)
	if err := tx.Sign(coinbase); err != nil {
		return Tx{}, err
	}

	tx.ID = GenesisTxID
	tx.Outputs = []UnspentOutput{NewUnspentOutput(to, value, tx.ID)}

	return tx, nil
}

// IsGenesis reports whether this is the transaction seeding the chain.
func (tx Tx) IsGenesis() bool {
	return tx.ID == GenesisTxID
}

// Sign uses the specified private key to sign the transaction.
func (tx *Tx) Sign(privateKey *ecdsa.PrivateKey) error {
	sig, err := signature.Sign(privateKey, tx.payload())
	if err != nil {
		return fmt.Errorf("signing transaction: %w", err)
	}

	tx.Signature = sig

	return nil
}

// VerifySignature reports whether the transaction was signed by the sender
// and the signed fields have not been altered since.
func (tx Tx) VerifySignature() bool {
	return signature.Verify(string(tx.From), tx.payload(), tx.Signature)
}

// Resolve locates the unspent outputs referenced by the inputs. The set is
// not changed.
func (tx Tx) Resolve(set *UTXOSet) (Resolved, error) {
	set.mu.RLock()
	defer set.mu.RUnlock()

	return tx.resolve(set.outputs)
}

// Apply validates the transaction against the set of unspent outputs and, if
// valid, spends the inputs and creates the outputs. On failure the set and
// the transaction are left unchanged.
func (tx *Tx) Apply(set *UTXOSet, minimum uint64) error {
	set.mu.Lock()
	defer set.mu.Unlock()

	resolved, err := tx.resolve(set.outputs)
	if err != nil {
		return err
	}

	if !tx.VerifySignature() {
		return ErrSignatureInvalid
	}

	total, err := resolved.Value()
	if err != nil {
		return err
	}

	if total < minimum {
		return fmt.Errorf("%w: inputs[%d] minimum[%d]", ErrBelowMinimum, total, minimum)
	}

	if total < tx.Value {
		return fmt.Errorf("%w: inputs[%d] value[%d]", ErrInsufficientBalance, total, tx.Value)
	}

	// Nothing below this point can fail.

	change := total - tx.Value
	tx.ID = newTxID(tx.From, tx.To, tx.Value)
	tx.Outputs = []UnspentOutput{
		NewUnspentOutput(tx.To, tx.Value, tx.ID),
		NewUnspentOutput(tx.From, change, tx.ID),
	}

	// Spent outputs are removed before the new outputs are added so a change
	// output sharing an id with a spent input survives, matching a replay of
	// the chain.
	for _, out := range resolved {
		delete(set.outputs, out.ID)
	}

	for _, out := range tx.Outputs {
		set.outputs[out.ID] = out
	}

	return nil
}

// OutputsValue returns the sum of the outputs created by the transaction. A
// sum that does not fit in a uint64 fails with ErrValueMismatch.
func (tx Tx) OutputsValue() (uint64, error) {
	return sumValues(tx.Outputs)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s->%s:%d", shortID(tx.ID), tx.From.Short(), tx.To.Short(), tx.Value)
}

// =============================================================================

// payload returns the bytes covered by the signature. Inputs and outputs are
// not part of the signed payload.
func (tx Tx) payload() []byte {
	return []byte(string(tx.From) + string(tx.To) + FormatValue(tx.Value))
}

// resolve looks up every input in the outputs. An input referencing an
// output that is missing, or that another input already referenced, fails
// the resolution.
func (tx Tx) resolve(outputs map[string]UnspentOutput) (Resolved, error) {
	resolved := make(Resolved, 0, len(tx.Inputs))
	seen := make(map[string]struct{}, len(tx.Inputs))

	for _, in := range tx.Inputs {
		if _, exists := seen[in.OutputID]; exists {
			return nil, fmt.Errorf("%w: output[%s] referenced twice", ErrMissingInput, in.OutputID)
		}
		seen[in.OutputID] = struct{}{}

		out, exists := outputs[in.OutputID]
		if !exists {
			return nil, fmt.Errorf("%w: output[%s]", ErrMissingInput, in.OutputID)
		}

		resolved = append(resolved, out)
	}

	return resolved, nil
}

// sumValues adds up the values of the outputs, failing on overflow.
func sumValues(outs []UnspentOutput) (uint64, error) {
	var total, carry uint64
	for _, out := range outs {
		total, carry = bits.Add64(total, out.Value, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%w: sum of values overflows", ErrValueMismatch)
		}
	}
	return total, nil
}

// advanceSequence moves the sequence forward to at least n so ids handed out
// after a chain is reloaded do not repeat ids already stored.
func advanceSequence(n uint64) {
	for {
		cur := sequence.Load()
		if cur >= n || sequence.CompareAndSwap(cur, n) {
			return
		}
	}
}

// newTxID calculates a unique id for a transaction using the next number
// in the sequence.
func newTxID(from AccountID, to AccountID, value uint64) string {
	seq := sequence.Add(1)
	return signature.Hash(string(from) + string(to) + FormatValue(value) + strconv.FormatUint(seq, 10))
}
