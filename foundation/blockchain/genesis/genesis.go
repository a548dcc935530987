// Package genesis maintains access to the genesis settings of the chain.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/utxochain/foundation/validate"
)

// Genesis represents the genesis settings of the chain.
type Genesis struct {
	Date       time.Time `json:"date"`
	Difficulty uint      `json:"difficulty" validate:"lte=64"`           // Number of leading 0's needed to solve the work problem.
	MinimumTx  uint64    `json:"minimum_tx" validate:"ltefield=Balance"` // Smallest total of inputs a transaction may spend.
	Balance    uint64    `json:"balance" validate:"required"`            // Value paid by the genesis transaction.
}

// Default returns the settings used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		Date:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Difficulty: 5,
		MinimumTx:  1,
		Balance:    100,
	}
}

// =============================================================================

// Load opens and consumes the genesis file and validates the settings.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := Validate(genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the genesis settings against the validation rules.
func Validate(genesis Genesis) error {
	if err := validate.Check(genesis); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	return nil
}
