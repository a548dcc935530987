package database_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/merkle"
	"github.com/ardanlabs/utxochain/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	pkHexKey    = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	otherHexKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
)

const difficulty = 2

// chain holds what a test needs to exercise a seeded database.
type chain struct {
	db       *database.Database
	coinbase *ecdsa.PrivateKey
	a        wallet.Wallet
	b        wallet.Wallet
}

func newChain(t *testing.T, minimum uint64) chain {
	t.Helper()

	coinbase, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a coinbase key : %s", failed, err)
	}

	a := loadWallet(t, pkHexKey)
	b := loadWallet(t, otherHexKey)

	store, err := memory.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct memory storage : %s", failed, err)
	}

	db, err := database.New(database.Config{
		Difficulty: difficulty,
		MinimumTx:  minimum,
		Storage:    store,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the database : %s", failed, err)
	}

	if _, err := db.Genesis(context.Background(), coinbase, a.AccountID, 100); err != nil {
		t.Fatalf("\t%s\tShould be able to mine the genesis block : %s", failed, err)
	}

	return chain{db: db, coinbase: coinbase, a: a, b: b}
}

func loadWallet(t *testing.T, hexKey string) wallet.Wallet {
	t.Helper()

	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the private key : %s", failed, err)
	}

	return wallet.FromPrivateKey(pk)
}

// send builds a transaction from the wallet and applies it to the block.
func (c chain) send(from wallet.Wallet, to wallet.Wallet, value uint64, block *database.Block) (database.Tx, error) {
	tx, err := from.SendFunds(to.AccountID, value, c.db.UTXOs())
	if err != nil {
		return database.Tx{}, err
	}

	if err := c.db.AddTransaction(block, &tx); err != nil {
		return database.Tx{}, err
	}

	return tx, nil
}

// mineNext mines the block and starts the next one.
func (c chain) mineNext(t *testing.T, block *database.Block) database.Block {
	t.Helper()

	if err := c.db.AddBlock(context.Background(), block); err != nil {
		t.Fatalf("\t%s\tShould be able to mine the block : %s", failed, err)
	}

	next, err := c.db.NewBlock()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to start a new block : %s", failed, err)
	}

	return next
}

func total(set *database.UTXOSet) uint64 {
	var sum uint64
	for _, out := range set.Values() {
		sum += out.Value
	}
	return sum
}

// =============================================================================

func TestLedger(t *testing.T) {
	t.Log("Given the need to move value between two accounts.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen A starts with the genesis balance.", testID)
		{
			c := newChain(t, 1)

			if got := c.db.UTXOs().Balance(c.a.AccountID); got != 100 {
				t.Fatalf("\t%s\tTest %d:\tShould have a balance of 100 for A : got %d", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould have a balance of 100 for A.", success, testID)

			block, err := c.db.NewBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to start a block : %s", failed, testID, err)
			}

			tx, err := c.send(c.a, c.b, 40, &block)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send 40 to B : %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to send 40 to B.", success, testID)

			if len(tx.Outputs) != 2 || tx.Outputs[0].Value != 40 || tx.Outputs[1].Value != 60 {
				t.Fatalf("\t%s\tTest %d:\tShould create a payment and a change output : got %v", failed, testID, tx.Outputs)
			}
			t.Logf("\t%s\tTest %d:\tShould create a payment and a change output.", success, testID)

			set := c.db.UTXOs()
			if set.Balance(c.a.AccountID) != 60 || set.Balance(c.b.AccountID) != 40 {
				t.Fatalf("\t%s\tTest %d:\tShould have balances of 60 and 40 : got %d %d", failed, testID, set.Balance(c.a.AccountID), set.Balance(c.b.AccountID))
			}
			t.Logf("\t%s\tTest %d:\tShould have balances of 60 and 40.", success, testID)

			// Spend everything A owns but ask for more than that.
			var inputs []database.TxInput
			for _, out := range set.ForAccount(c.a.AccountID) {
				inputs = append(inputs, database.TxInput{OutputID: out.ID})
			}
			big := database.NewTx(c.a.AccountID, c.b.AccountID, 1000, inputs)
			if err := big.Sign(c.a.PrivateKey); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction : %s", failed, testID, err)
			}

			before := set.Copy()
			if err := c.db.AddTransaction(&block, &big); !errors.Is(err, database.ErrInsufficientBalance) {
				t.Fatalf("\t%s\tTest %d:\tShould reject a send of 1000 : got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a send of 1000.", success, testID)

			if !reflect.DeepEqual(before, c.db.UTXOs().Copy()) || len(block.Trans) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the outputs and block unchanged after a rejection.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the outputs and block unchanged after a rejection.", success, testID)

			block = c.mineNext(t, &block)

			if _, err := c.send(c.b, c.a, 20, &block); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send 20 back to A : %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to send 20 back to A.", success, testID)

			c.mineNext(t, &block)

			set = c.db.UTXOs()
			if set.Balance(c.a.AccountID) != 80 || set.Balance(c.b.AccountID) != 20 {
				t.Fatalf("\t%s\tTest %d:\tShould have balances of 80 and 20 : got %d %d", failed, testID, set.Balance(c.a.AccountID), set.Balance(c.b.AccountID))
			}
			t.Logf("\t%s\tTest %d:\tShould have balances of 80 and 20.", success, testID)

			if err := c.db.Validate(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould validate the chain : %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould validate the chain.", success, testID)

			replayed, err := c.db.Reconstruct()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to replay the chain : %s", failed, testID, err)
			}

			if !replayed.Equal(set) {
				t.Fatalf("\t%s\tTest %d:\tShould replay to the live set of outputs.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould replay to the live set of outputs.", success, testID)
		}
	}
}

func TestConservation(t *testing.T) {
	t.Log("Given the need to conserve value across transactions.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen sending value back and forth.", testID)
		{
			c := newChain(t, 1)

			block, err := c.db.NewBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to start a block : %s", failed, testID, err)
			}

			sends := []struct {
				from  wallet.Wallet
				to    wallet.Wallet
				value uint64
			}{
				{c.a, c.b, 10},
				{c.a, c.b, 25},
				{c.b, c.a, 30},
				{c.a, c.a, 5},
				{c.b, c.a, 4},
			}

			for i, s := range sends {
				if _, err := c.send(s.from, s.to, s.value, &block); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to apply send %d : %s", failed, testID, i, err)
				}

				if got := total(c.db.UTXOs()); got != 100 {
					t.Fatalf("\t%s\tTest %d:\tShould hold 100 in total after send %d : got %d", failed, testID, i, got)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould hold 100 in total after every send.", success, testID)

			c.mineNext(t, &block)

			if err := c.db.Validate(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould validate the chain : %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould validate the chain.", success, testID)
		}
	}
}

func TestRejections(t *testing.T) {
	t.Log("Given the need to reject invalid transactions.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen spending an output twice.", testID)
		{
			c := newChain(t, 1)
			block, _ := c.db.NewBlock()

			tx, err := c.send(c.a, c.b, 40, &block)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send 40 to B : %s", failed, testID, err)
			}

			again := database.NewTx(c.a.AccountID, c.b.AccountID, 40, tx.Inputs)
			if err := again.Sign(c.a.PrivateKey); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction : %s", failed, testID, err)
			}

			if err := c.db.AddTransaction(&block, &again); !errors.Is(err, database.ErrMissingInput) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the double spend : got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the double spend.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen an input is listed twice.", testID)
		{
			c := newChain(t, 1)
			block, _ := c.db.NewBlock()

			out := c.db.UTXOs().ForAccount(c.a.AccountID)[0]
			inputs := []database.TxInput{{OutputID: out.ID}, {OutputID: out.ID}}

			tx := database.NewTx(c.a.AccountID, c.b.AccountID, 150, inputs)
			if err := tx.Sign(c.a.PrivateKey); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction : %s", failed, testID, err)
			}

			if err := c.db.AddTransaction(&block, &tx); !errors.Is(err, database.ErrMissingInput) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the repeated input : got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the repeated input.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the transaction is signed by someone else.", testID)
		{
			c := newChain(t, 1)
			block, _ := c.db.NewBlock()

			tx, err := c.a.SendFunds(c.b.AccountID, 40, c.db.UTXOs())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to build the transaction : %s", failed, testID, err)
			}

			if err := tx.Sign(c.b.PrivateKey); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction : %s", failed, testID, err)
			}

			before := c.db.UTXOs().Copy()
			if err := c.db.AddTransaction(&block, &tx); !errors.Is(err, database.ErrSignatureInvalid) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the forged signature : got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the forged signature.", success, testID)

			if !reflect.DeepEqual(before, c.db.UTXOs().Copy()) || tx.ID != "" || tx.Outputs != nil {
				t.Fatalf("\t%s\tTest %d:\tShould leave the outputs and transaction unchanged.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the outputs and transaction unchanged.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the inputs are below the minimum.", testID)
		{
			c := newChain(t, 50)
			block, _ := c.db.NewBlock()

			if _, err := c.send(c.a, c.b, 40, &block); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send 40 to B : %s", failed, testID, err)
			}

			if _, err := c.send(c.b, c.a, 10, &block); !errors.Is(err, database.ErrBelowMinimum) {
				t.Fatalf("\t%s\tTest %d:\tShould reject spending 40 with a minimum of 50 : got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject spending 40 with a minimum of 50.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the inputs add up past the largest value.", testID)
		{
			a := loadWallet(t, pkHexKey)
			b := loadWallet(t, otherHexKey)

			big := database.NewUnspentOutput(a.AccountID, math.MaxUint64, "big")
			one := database.NewUnspentOutput(a.AccountID, 1, "one")
			set := database.NewUTXOSet(big, one)

			tx := database.NewTx(a.AccountID, b.AccountID, 10, []database.TxInput{{OutputID: big.ID}, {OutputID: one.ID}})
			if err := tx.Sign(a.PrivateKey); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction : %s", failed, testID, err)
			}

			before := set.Copy()
			if err := tx.Apply(set, 1); !errors.Is(err, database.ErrValueMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the overflowing inputs : got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the overflowing inputs.", success, testID)

			if !reflect.DeepEqual(before, set.Copy()) || tx.ID != "" {
				t.Fatalf("\t%s\tTest %d:\tShould leave the outputs and transaction unchanged.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the outputs and transaction unchanged.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the transaction is nil.", testID)
		{
			c := newChain(t, 1)
			block, _ := c.db.NewBlock()

			if err := c.db.AddTransaction(&block, nil); !errors.Is(err, database.ErrNilTransaction) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the nil transaction : got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the nil transaction.", success, testID)
		}
	}
}

func TestSignedFields(t *testing.T) {
	a := loadWallet(t, pkHexKey)
	b := loadWallet(t, otherHexKey)

	tt := []struct {
		name  string
		alter func(tx *database.Tx)
	}{
		{"from", func(tx *database.Tx) { tx.From = b.AccountID }},
		{"to", func(tx *database.Tx) { tx.To = a.AccountID }},
		{"value", func(tx *database.Tx) { tx.Value++ }},
	}

	t.Log("Given the need to detect changes to a signed transaction.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen the %s field is changed.", testID, tst.name)
				{
					tx := database.NewTx(a.AccountID, b.AccountID, 40, nil)
					if err := tx.Sign(a.PrivateKey); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction : %s", failed, testID, err)
					}

					if !tx.VerifySignature() {
						t.Fatalf("\t%s\tTest %d:\tShould verify before the change.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould verify before the change.", success, testID)

					tst.alter(&tx)

					if tx.VerifySignature() {
						t.Fatalf("\t%s\tTest %d:\tShould not verify after the change.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not verify after the change.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func TestMining(t *testing.T) {
	t.Log("Given the need to mine blocks.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining a block with transactions.", testID)
		{
			c := newChain(t, 1)
			block, _ := c.db.NewBlock()

			if _, err := c.send(c.a, c.b, 40, &block); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send 40 to B : %s", failed, testID, err)
			}

			if err := block.Mine(context.Background(), 3, nil); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block : %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, testID)

			if !strings.HasPrefix(block.Hash, "000") || block.Hash != block.CalculateHash() {
				t.Fatalf("\t%s\tTest %d:\tShould have a solved hash matching the header : got %s", failed, testID, block.Hash)
			}
			t.Logf("\t%s\tTest %d:\tShould have a solved hash matching the header.", success, testID)

			if block.Header.MerkleRoot != merkle.Root(block.TxIDs()) {
				t.Fatalf("\t%s\tTest %d:\tShould record the merkle root of the transactions.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould record the merkle root of the transactions.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the difficulty is zero.", testID)
		{
			block := database.NewBlock("prev")

			if err := block.Mine(context.Background(), 0, nil); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block : %s", failed, testID, err)
			}

			if block.Header.Nonce != 0 || block.Header.MerkleRoot != "" {
				t.Fatalf("\t%s\tTest %d:\tShould solve with the first nonce : got %d", failed, testID, block.Header.Nonce)
			}
			t.Logf("\t%s\tTest %d:\tShould solve with the first nonce.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining is cancelled.", testID)
		{
			c := newChain(t, 1)
			block, _ := c.db.NewBlock()
			latest := c.db.LatestBlock()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			before := block
			if err := block.Mine(ctx, 64, nil); !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest %d:\tShould stop when the context is cancelled : got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould stop when the context is cancelled.", success, testID)

			if !reflect.DeepEqual(before, block) {
				t.Fatalf("\t%s\tTest %d:\tShould leave the block unchanged.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the block unchanged.", success, testID)

			if err := c.db.AddBlock(ctx, &block); !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest %d:\tShould not append a cancelled block : got %v", failed, testID, err)
			}

			if c.db.LatestBlock().Hash != latest.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould leave the chain unchanged.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the chain unchanged.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the block does not follow the latest block.", testID)
		{
			c := newChain(t, 1)
			block := database.NewBlock("stale")

			if err := c.db.AddBlock(context.Background(), &block); !errors.Is(err, database.ErrChainLinkMismatch) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block : got %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen checking a hash against a difficulty.", testID)
		{
			tt := []struct {
				difficulty uint
				hash       string
				exp        bool
			}{
				{0, "abc", true},
				{2, "00ab", true},
				{3, "00ab", false},
				{5, "000", false},
			}

			for _, tst := range tt {
				if got := database.IsHashSolved(tst.difficulty, tst.hash); got != tst.exp {
					t.Fatalf("\t%s\tTest %d:\tShould get %v for %d/%s : got %v", failed, testID, tst.exp, tst.difficulty, tst.hash, got)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould check the leading zeros of the hash.", success, testID)
		}
	}
}

func TestValidate(t *testing.T) {
	c := newChain(t, 1)

	block, _ := c.db.NewBlock()
	if _, err := c.send(c.a, c.b, 40, &block); err != nil {
		t.Fatalf("\t%s\tShould be able to send 40 to B : %s", failed, err)
	}
	block = c.mineNext(t, &block)

	if _, err := c.send(c.b, c.a, 20, &block); err != nil {
		t.Fatalf("\t%s\tShould be able to send 20 to A : %s", failed, err)
	}
	c.mineNext(t, &block)

	blocks, err := c.db.Blocks()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to read the blocks : %s", failed, err)
	}

	// Spend what B owns into outputs whose sum wraps around to the inputs.
	owned := c.db.UTXOs().ForAccount(c.b.AccountID)[0]
	overflow := database.NewTx(c.b.AccountID, c.a.AccountID, math.MaxUint64, []database.TxInput{{OutputID: owned.ID}})
	if err := overflow.Sign(c.b.PrivateKey); err != nil {
		t.Fatalf("\t%s\tShould be able to sign the transaction : %s", failed, err)
	}
	overflow.ID = "overflow"
	overflow.Outputs = []database.UnspentOutput{
		database.NewUnspentOutput(c.a.AccountID, math.MaxUint64, overflow.ID),
		database.NewUnspentOutput(c.b.AccountID, owned.Value+1, overflow.ID),
	}

	// Spend the genesis output a second time.
	respend := database.NewTx(c.a.AccountID, c.b.AccountID, 40, blocks[1].Trans[0].Inputs)
	if err := respend.Sign(c.a.PrivateKey); err != nil {
		t.Fatalf("\t%s\tShould be able to sign the transaction : %s", failed, err)
	}
	respend.ID = "respend"
	respend.Outputs = []database.UnspentOutput{
		database.NewUnspentOutput(c.b.AccountID, 40, respend.ID),
		database.NewUnspentOutput(c.a.AccountID, 60, respend.ID),
	}

	// forge mines a block holding the transaction on top of the chain.
	forge := func(blocks []database.Block, tx database.Tx) []database.Block {
		block := database.NewBlock(blocks[len(blocks)-1].Hash)
		block.Trans = []database.Tx{tx}
		if err := block.Mine(context.Background(), difficulty, nil); err != nil {
			return nil
		}
		return append(blocks, block)
	}

	// clone provides a deep copy of the chain for a test to tamper with.
	clone := func() []database.Block {
		cpy := make([]database.Block, len(blocks))
		for i, b := range blocks {
			b.Trans = append([]database.Tx(nil), b.Trans...)
			for j := range b.Trans {
				b.Trans[j].Outputs = append([]database.UnspentOutput(nil), b.Trans[j].Outputs...)
			}
			cpy[i] = b
		}
		return cpy
	}

	type table struct {
		name       string
		difficulty uint
		tamper     func(blocks []database.Block) []database.Block
		block      int
		tx         int
		exp        []error
	}

	tt := []table{
		{
			name:       "valid",
			difficulty: difficulty,
			tamper:     func(blocks []database.Block) []database.Block { return blocks },
		},
		{
			name:       "empty",
			difficulty: difficulty,
			tamper:     func([]database.Block) []database.Block { return nil },
			exp:        []error{database.ErrNoGenesis},
		},
		{
			name:       "amount",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				blocks[1].Trans[0].Value = 39
				return blocks
			},
			block: 1,
			exp:   []error{database.ErrHashMismatch, database.ErrStructuralShape, database.ErrSignatureInvalid},
		},
		{
			name:       "nonce",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				blocks[1].Header.Nonce++
				return blocks
			},
			block: 1,
			tx:    -1,
			exp:   []error{database.ErrHashMismatch},
		},
		{
			name:       "txid",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				blocks[2].Trans[0].ID = "tampered"
				return blocks
			},
			block: 2,
			tx:    -1,
			exp:   []error{database.ErrHashMismatch},
		},
		{
			name:       "link",
			difficulty: 0,
			tamper: func(blocks []database.Block) []database.Block {
				blocks[2].Header.PrevBlockHash = blocks[0].Hash
				blocks[2].Hash = blocks[2].CalculateHash()
				return blocks
			},
			block: 2,
			tx:    -1,
			exp:   []error{database.ErrChainLinkMismatch},
		},
		{
			name:       "work",
			difficulty: 64,
			tamper:     func(blocks []database.Block) []database.Block { return blocks },
			block:      1,
			tx:         -1,
			exp:        []error{database.ErrProofOfWorkUnmet},
		},
		{
			name:       "change",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				blocks[1].Trans[0].Outputs[1].Value++
				return blocks
			},
			block: 1,
			exp:   []error{database.ErrValueMismatch},
		},
		{
			name:       "shape",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				outs := blocks[1].Trans[0].Outputs
				outs[0], outs[1] = outs[1], outs[0]
				return blocks
			},
			block: 1,
			exp:   []error{database.ErrStructuralShape},
		},
		{
			name:       "extra output",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				tx := &blocks[1].Trans[0]
				tx.Outputs = append(tx.Outputs, database.NewUnspentOutput(tx.From, 0, tx.ID))
				return blocks
			},
			block: 1,
			exp:   []error{database.ErrStructuralShape},
		},
		{
			name:       "payment",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				outs := blocks[1].Trans[0].Outputs
				outs[0] = database.NewUnspentOutput(outs[0].Owner, outs[0].Value-1, outs[0].TxID)
				outs[1] = database.NewUnspentOutput(outs[1].Owner, outs[1].Value+1, outs[1].TxID)
				return blocks
			},
			block: 1,
			exp:   []error{database.ErrValueMismatch},
		},
		{
			name:       "missing input",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				blocks[2].Trans[0].Inputs = []database.TxInput{{OutputID: "missing"}}
				return blocks
			},
			block: 2,
			exp:   []error{database.ErrMissingInput},
		},
		{
			name:       "double spend",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				return forge(blocks, respend)
			},
			block: 3,
			exp:   []error{database.ErrMissingInput},
		},
		{
			name:       "overflow",
			difficulty: difficulty,
			tamper: func(blocks []database.Block) []database.Block {
				return forge(blocks, overflow)
			},
			block: 3,
			exp:   []error{database.ErrValueMismatch},
		},
	}

	t.Log("Given the need to validate the chain.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen checking the %s chain.", testID, tst.name)
				{
					blks := tst.tamper(clone())
					err := database.Validate(blks, tst.difficulty)

					if len(tst.exp) == 0 {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould validate the chain : %s", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould validate the chain.", success, testID)
						return
					}

					var matched bool
					for _, exp := range tst.exp {
						if errors.Is(err, exp) {
							matched = true
						}
					}
					if !matched {
						t.Fatalf("\t%s\tTest %d:\tShould fail with one of %v : got %v", failed, testID, tst.exp, err)
					}
					t.Logf("\t%s\tTest %d:\tShould fail with the expected rule : %s", success, testID, err)

					if len(blks) == 0 {
						return
					}

					ve := database.GetValidationError(err)
					if ve == nil || ve.Block != tst.block || ve.Tx != tst.tx {
						t.Fatalf("\t%s\tTest %d:\tShould report block %d tx %d : got %v", failed, testID, tst.block, tst.tx, ve)
					}
					t.Logf("\t%s\tTest %d:\tShould report block %d tx %d.", success, testID, tst.block, tst.tx)
				}
			}

			t.Run(tst.name, f)
		}
	}

	t.Log("Given the need to validate without side effects.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen validating the same chain twice.", testID)
		{
			before := clone()
			live := c.db.UTXOs().Copy()

			first := c.db.Validate()
			second := c.db.Validate()
			if first != nil || second != nil {
				t.Fatalf("\t%s\tTest %d:\tShould validate both times : %v %v", failed, testID, first, second)
			}
			t.Logf("\t%s\tTest %d:\tShould validate both times.", success, testID)

			after, _ := c.db.Blocks()
			if !reflect.DeepEqual(before, after) || !reflect.DeepEqual(live, c.db.UTXOs().Copy()) {
				t.Fatalf("\t%s\tTest %d:\tShould leave the chain and outputs unchanged.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the chain and outputs unchanged.", success, testID)
		}
	}
}

func TestReload(t *testing.T) {
	t.Log("Given the need to reload a chain from storage.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen storage already holds blocks.", testID)
		{
			c := newChain(t, 1)
			block, _ := c.db.NewBlock()
			if _, err := c.send(c.a, c.b, 30, &block); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send 30 to B : %s", failed, testID, err)
			}
			c.mineNext(t, &block)

			store, err := memory.New()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct memory storage : %s", failed, testID, err)
			}

			blocks, _ := c.db.Blocks()
			for _, b := range blocks {
				if err := store.Write(b); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write the block : %s", failed, testID, err)
				}
			}

			database.ResetSequence()

			db, err := database.New(database.Config{Difficulty: difficulty, MinimumTx: 1, Storage: store})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to reload the database : %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to reload the database.", success, testID)

			if got := database.Sequence(); got < 2 {
				t.Fatalf("\t%s\tTest %d:\tShould move the id sequence past the stored transactions : got %d", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould move the id sequence past the stored transactions.", success, testID)

			next, err := db.NewBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to start a block : %s", failed, testID, err)
			}

			tx, err := c.b.SendFunds(c.a.AccountID, 10, db.UTXOs())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to build the transaction : %s", failed, testID, err)
			}
			if err := db.AddTransaction(&next, &tx); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to apply the transaction : %s", failed, testID, err)
			}

			for _, b := range blocks {
				for _, stored := range b.Trans {
					if stored.ID == tx.ID {
						t.Fatalf("\t%s\tTest %d:\tShould give the new transaction an unused id : got %s", failed, testID, tx.ID)
					}
				}
			}
			t.Logf("\t%s\tTest %d:\tShould give the new transaction an unused id.", success, testID)

			if !db.UTXOs().Equal(c.db.UTXOs()) || db.LatestBlock().Hash != c.db.LatestBlock().Hash {
				t.Fatalf("\t%s\tTest %d:\tShould rebuild the same outputs and latest block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould rebuild the same outputs and latest block.", success, testID)
		}
	}
}
