// Package wallet provides the key pair of an identity on the chain and the
// ability to build transactions spending the outputs it owns.
package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet holds the private key used to sign transactions and the account
// that funds are paid to.
type Wallet struct {
	PrivateKey *ecdsa.PrivateKey
	AccountID  database.AccountID
}

// New generates a wallet with a new key pair.
func New() (Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return Wallet{}, fmt.Errorf("generating key: %w", err)
	}

	return FromPrivateKey(privateKey), nil
}

// FromPrivateKey constructs a wallet for an existing private key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey) Wallet {
	return Wallet{
		PrivateKey: privateKey,
		AccountID:  database.PublicKeyToAccountID(privateKey.PublicKey),
	}
}

// Load reads the private key stored at the specified path.
func Load(path string) (Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return Wallet{}, fmt.Errorf("loading key: %w", err)
	}

	return FromPrivateKey(privateKey), nil
}

// Save writes the private key to the specified path.
func (w Wallet) Save(path string) error {
	return crypto.SaveECDSA(path, w.PrivateKey)
}

// Balance returns the total value of the outputs owned by the wallet.
func (w Wallet) Balance(set *database.UTXOSet) uint64 {
	return set.Balance(w.AccountID)
}

// SendFunds builds and signs a transaction paying value to the specified
// account. Outputs owned by the wallet are gathered until they cover the
// value. The set is only read, the transaction still needs to be applied.
func (w Wallet) SendFunds(to database.AccountID, value uint64, set *database.UTXOSet) (database.Tx, error) {
	owned := set.ForAccount(w.AccountID)

	var total uint64
	for _, out := range owned {
		total += out.Value
	}

	if total < value {
		return database.Tx{}, fmt.Errorf("%w: balance[%d] value[%d]", database.ErrInsufficientBalance, total, value)
	}

	var inputs []database.TxInput
	var gathered uint64
	for _, out := range owned {
		gathered += out.Value
		inputs = append(inputs, database.TxInput{OutputID: out.ID})
		if gathered >= value {
			break
		}
	}

	tx := database.NewTx(w.AccountID, to, value, inputs)
	if err := tx.Sign(w.PrivateKey); err != nil {
		return database.Tx{}, err
	}

	return tx, nil
}
