// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrSigning is returned when data can't be signed with the provided key.
var ErrSigning = errors.New("signing failed")

// utxoStamp is embedded into every digest that is signed. This makes it clear
// the signature comes from this ledger and can't be replayed elsewhere.
const utxoStamp = "\x19UTXO Signed Message:\n32"

// =============================================================================

// Hash returns the lower-case hex encoded SHA-256 digest of the value.
func Hash(value string) string {
	return HashBytes([]byte(value))
}

// HashBytes returns the lower-case hex encoded SHA-256 digest of the data.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Sign uses the specified private key to sign the message. The same key and
// message always produce the same signature.
func Sign(privateKey *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	if privateKey == nil || privateKey.D == nil {
		return nil, fmt.Errorf("%w: missing private key", ErrSigning)
	}

	// Sign the stamped digest with the private key to produce a signature.
	sig, err := crypto.Sign(stamp(message), privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	return sig, nil
}

// Verify reports whether the signature was produced over the message by the
// private key matching the encoded public key. Any malformed input is simply
// reported as false.
func Verify(publicKey string, message []byte, sig []byte) bool {
	if len(sig) != crypto.SignatureLength && len(sig) != crypto.SignatureLength-1 {
		return false
	}

	pk, err := hexutil.Decode(publicKey)
	if err != nil {
		return false
	}

	if _, err := crypto.UnmarshalPubkey(pk); err != nil {
		return false
	}

	// The recovery id is not part of the verification.
	rs := sig[:crypto.RecoveryIDOffset]

	return crypto.VerifySignature(pk, stamp(message), rs)
}

// PublicKeyString returns the canonical encoding of a public key. It is the
// 0x prefixed hex of the uncompressed curve point, so two keys produce the
// same string only if they hold the same key material.
func PublicKeyString(pk ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(&pk))
}

// ToPublicKey converts a canonical public key string back into a key.
func ToPublicKey(publicKey string) (*ecdsa.PublicKey, error) {
	pk, err := hexutil.Decode(publicKey)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}

	return crypto.UnmarshalPubkey(pk)
}

// SignatureString returns the signature as a string.
func SignatureString(sig []byte) string {
	return hexutil.Encode(sig)
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this message with the
// ledger stamp embedded into the final hash.
func stamp(message []byte) []byte {

	// Hash the message into a 32 byte array. This will provide a data length
	// consistency with all messages.
	msgHash := crypto.Keccak256(message)

	// Hash the stamp and msgHash together in a final 32 byte array
	// that represents the message.
	return crypto.Keccak256([]byte(utxoStamp), msgHash)
}
