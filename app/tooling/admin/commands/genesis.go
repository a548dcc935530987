// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"encoding/json"
	"os"

	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
)

// Genesis writes the default genesis settings to the specified path so they
// can be edited and handed to the node.
func Genesis(path string) error {
	gen := genesis.Default()
	if err := genesis.Validate(gen); err != nil {
		return err
	}

	data, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
