// Package merkle provides the merkle root calculation used to bind the
// transactions of a block to the block hash.
//
// The root is produced by a sliding pairwise fold rather than a balanced
// binary tree. Every pass hashes each adjacent pair of the current layer, so
// a layer of n values becomes a layer of n-1 values:
//
//	layer:  a        b        c
//	pass 1: H(a|b)   H(b|c)
//	pass 2: H(H(a|b)|H(b|c))
//
// Blocks already mined carry roots from this fold.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
)

// Tree represents the layers produced while folding a set of ids into a
// single merkle root.
type Tree struct {
	Layers       [][]string
	MerkleRoot   string
	hashStrategy func() hash.Hash
}

// WithHashStrategy is used to change the default hash strategy of using sha256
// when constructing a new tree.
func WithHashStrategy(hashStrategy func() hash.Hash) func(t *Tree) {
	return func(t *Tree) {
		t.hashStrategy = hashStrategy
	}
}

// NewTree constructs a new merkle tree from the ordered set of ids.
func NewTree(ids []string, options ...func(t *Tree)) *Tree {
	t := Tree{
		hashStrategy: sha256.New,
	}

	for _, option := range options {
		option(&t)
	}

	t.Generate(ids)

	return &t
}

// Root returns the merkle root for the ordered set of ids. An empty set
// produces an empty root and a single id is its own root.
func Root(ids []string, options ...func(t *Tree)) string {
	return NewTree(ids, options...).MerkleRoot
}

// Generate folds the specified ids into the layers of the tree. If the tree
// has been generated previously, the tree is re-generated from scratch.
func (t *Tree) Generate(ids []string) {
	t.Layers = nil
	t.MerkleRoot = ""

	if len(ids) == 0 {
		return
	}

	layer := make([]string, len(ids))
	copy(layer, ids)
	t.Layers = append(t.Layers, layer)

	for len(layer) > 1 {
		next := make([]string, 0, len(layer)-1)
		for i := 1; i < len(layer); i++ {
			next = append(next, t.hashPair(layer[i-1], layer[i]))
		}

		t.Layers = append(t.Layers, next)
		layer = next
	}

	t.MerkleRoot = layer[0]
}

// Verify re-folds the ids held in the first layer and checks the result
// against the stored merkle root.
func (t *Tree) Verify() error {
	if len(t.Layers) == 0 {
		if t.MerkleRoot != "" {
			return errors.New("merkle root set for an empty tree")
		}
		return nil
	}

	calculated := Root(t.Layers[0], WithHashStrategy(t.hashStrategy))
	if calculated != t.MerkleRoot {
		return fmt.Errorf("merkle root is invalid, got %s, exp %s", t.MerkleRoot, calculated)
	}

	return nil
}

// Values returns a copy of the ids the tree was generated from.
func (t *Tree) Values() []string {
	if len(t.Layers) == 0 {
		return nil
	}

	ids := make([]string, len(t.Layers[0]))
	copy(ids, t.Layers[0])

	return ids
}

// String returns a string representation of the tree, one layer per line.
func (t *Tree) String() string {
	var s string
	for i, layer := range t.Layers {
		s += fmt.Sprintf("%d: %v\n", i, layer)
	}

	return s
}

// hashPair hashes the concatenation of two ids and returns the lower-case
// hex encoding of the result.
func (t *Tree) hashPair(left string, right string) string {
	h := t.hashStrategy()
	h.Write([]byte(left + right))

	return hex.EncodeToString(h.Sum(nil))
}
