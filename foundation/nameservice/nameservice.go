// Package nameservice reads a folder of wallet keys and creates a name
// service lookup for the accounts they control.
package nameservice

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
)

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	accounts map[database.AccountID]string
	wallets  map[string]wallet.Wallet
}

// New constructs a name service with the wallets found under root. A wallet
// is named after its key file, so "alice.ecdsa" becomes "alice".
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[database.AccountID]string),
		wallets:  make(map[string]wallet.Wallet),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != ".ecdsa" {
			return nil
		}

		w, err := wallet.Load(fileName)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(path.Base(fileName), ".ecdsa")
		ns.accounts[w.AccountID] = name
		ns.wallets[name] = w

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified account. The account itself is
// returned when it has no name.
func (ns *NameService) Lookup(accountID database.AccountID) string {
	name, exists := ns.accounts[accountID]
	if !exists {
		return string(accountID)
	}
	return name
}

// Wallet returns the wallet registered under the name.
func (ns *NameService) Wallet(name string) (wallet.Wallet, bool) {
	w, exists := ns.wallets[name]
	return w, exists
}

// Names returns the registered names in order.
func (ns *NameService) Names() []string {
	names := make([]string, 0, len(ns.wallets))
	for name := range ns.wallets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[database.AccountID]string {
	cpy := make(map[database.AccountID]string, len(ns.accounts))
	for accountID, name := range ns.accounts {
		cpy[accountID] = name
	}
	return cpy
}
