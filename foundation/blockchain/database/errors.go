package database

import (
	"errors"
	"fmt"
)

// Set of errors returned when applying transactions.
var (
	ErrNilTransaction      = errors.New("transaction is nil")
	ErrMissingInput        = errors.New("referenced unspent output not found")
	ErrSignatureInvalid    = errors.New("transaction signature is invalid")
	ErrBelowMinimum        = errors.New("transaction inputs below minimum")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Set of errors returned when validating the chain.
var (
	ErrNoGenesis         = errors.New("chain has no genesis block")
	ErrHashMismatch      = errors.New("block hash does not match block contents")
	ErrChainLinkMismatch = errors.New("previous block hash does not match")
	ErrProofOfWorkUnmet  = errors.New("block hash does not solve the proof of work")
	ErrValueMismatch     = errors.New("transaction values do not balance")
	ErrStructuralShape   = errors.New("transaction outputs have the wrong shape")
)

// =============================================================================

// ValidationError represents a failure found while validating the chain. It
// identifies the block and transaction that broke the rule. Tx is -1 when
// the rule applies to the block itself.
type ValidationError struct {
	Block int
	Tx    int
	Err   error
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	if ve.Tx < 0 {
		return fmt.Sprintf("block[%d]: %s", ve.Block, ve.Err)
	}
	return fmt.Sprintf("block[%d]: tx[%d]: %s", ve.Block, ve.Tx, ve.Err)
}

// Unwrap provides support for errors.Is against the rule that failed.
func (ve *ValidationError) Unwrap() error {
	return ve.Err
}

// IsValidationError checks if an error of type ValidationError exists.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationError returns a copy of the ValidationError pointer.
func GetValidationError(err error) *ValidationError {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return ve
}
