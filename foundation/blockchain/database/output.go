package database

import (
	"fmt"
	"strconv"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
)

// UnspentOutput represents value paid to an owner by a transaction. It can be
// spent exactly once by referencing its id as the input of a later
// transaction.
type UnspentOutput struct {
	ID    string    `json:"id"`    // Hash of the owner and value.
	Owner AccountID `json:"owner"` // Account that can spend this output.
	Value uint64    `json:"value"` // Amount of value held by the output.
	TxID  string    `json:"tx_id"` // Transaction that created this output.
}

// NewUnspentOutput constructs an output paying value to the owner. The id is
// derived from the owner and value.
func NewUnspentOutput(owner AccountID, value uint64, txID string) UnspentOutput {
	return UnspentOutput{
		ID:    outputID(owner, value),
		Owner: owner,
		Value: value,
		TxID:  txID,
	}
}

// IsMine reports whether the output belongs to the specified account.
func (out UnspentOutput) IsMine(accountID AccountID) bool {
	return out.Owner == accountID
}

// IsConsistent reports whether the id of the output still matches its
// owner and value.
func (out UnspentOutput) IsConsistent() bool {
	return out.ID == outputID(out.Owner, out.Value)
}

// String implements the fmt.Stringer interface for logging.
func (out UnspentOutput) String() string {
	return fmt.Sprintf("%s:%d", shortID(out.ID), out.Value)
}

// =============================================================================

// FormatValue provides the fixed formatting of a value used inside hashed and
// signed payloads.
func FormatValue(value uint64) string {
	return strconv.FormatUint(value, 10)
}

// outputID calculates the content hash identifying an output.
func outputID(owner AccountID, value uint64) string {
	return signature.Hash(string(owner) + FormatValue(value))
}

// shortID trims an id for log messages.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
