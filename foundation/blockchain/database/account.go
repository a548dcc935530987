package database

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
)

// Account represents the balance held by an individual account.
type Account struct {
	AccountID AccountID `json:"account"`
	Balance   uint64    `json:"balance"`
}

// =============================================================================

// AccountID represents the public key of an identity. It is the address value
// funds are paid to and is used to verify transaction signatures.
type AccountID string

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(signature.PublicKeyString(pk))
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded uncompressed public key.
func (a AccountID) IsAccountID() bool {
	const publicKeyLength = 65

	if !has0xPrefix(a) {
		return false
	}
	a = a[2:]

	return len(a) == 2*publicKeyLength && a[:2] == "04" && isHex(a)
}

// Short returns the tail of the account for log messages. The head of every
// account is the same curve point prefix.
func (a AccountID) Short() string {
	if len(a) > 8 {
		return string(a[len(a)-8:])
	}
	return string(a)
}

// =============================================================================

// has0xPrefix validates the account starts with a 0x.
func has0xPrefix(a AccountID) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is valid hexadecimal string.
func isHex(a AccountID) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// =============================================================================

// byAccount provides sorting support by the account id value.
type byAccount []Account

// Len returns the number of accounts in the list.
func (ba byAccount) Len() int {
	return len(ba)
}

// Less helps to sort the list by account id in ascending order.
func (ba byAccount) Less(i, j int) bool {
	return ba[i].AccountID < ba[j].AccountID
}

// Swap moves accounts in the order of the account id value.
func (ba byAccount) Swap(i, j int) {
	ba[i], ba[j] = ba[j], ba[i]
}
