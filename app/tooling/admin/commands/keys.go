package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
)

// Keys generates a key file for every name in the folder the node reads its
// name service from. Existing key files are never replaced.
func Keys(folder string, names []string) (map[string]database.AccountID, error) {
	if err := os.MkdirAll(folder, 0700); err != nil {
		return nil, err
	}

	accounts := make(map[string]database.AccountID, len(names))
	for _, name := range names {
		path := filepath.Join(folder, name+".ecdsa")
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("key file %s already exists", path)
		}

		w, err := wallet.New()
		if err != nil {
			return nil, err
		}

		if err := w.Save(path); err != nil {
			return nil, err
		}

		accounts[name] = w.AccountID
	}

	return accounts, nil
}
