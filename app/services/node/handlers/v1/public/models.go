package public

import (
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/nameservice"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type output struct {
	ID    string             `json:"id"`
	Owner database.AccountID `json:"owner"`
	Name  string             `json:"name"`
	Value uint64             `json:"value"`
	TxID  string             `json:"tx_id"`
}

type tx struct {
	ID        string             `json:"id"`
	From      database.AccountID `json:"from"`
	FromName  string             `json:"from_name"`
	To        database.AccountID `json:"to"`
	ToName    string             `json:"to_name"`
	Value     uint64             `json:"value"`
	Signature string             `json:"signature"`
	Inputs    []string           `json:"inputs"`
	Outputs   []output           `json:"outputs"`
}

type block struct {
	Number        int    `json:"number"`
	Hash          string `json:"hash"`
	PrevBlockHash string `json:"prev_block_hash"`
	TimeStamp     int64  `json:"timestamp"`
	Nonce         uint64 `json:"nonce"`
	MerkleRoot    string `json:"merkle_root"`
	Trans         []tx   `json:"trans"`
}

type balance struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance uint64             `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Pending     int       `json:"pending"`
	Balances    []balance `json:"balances"`
}

type validation struct {
	Valid  bool   `json:"valid"`
	Blocks int    `json:"blocks"`
	Block  *int   `json:"block,omitempty"`
	Tx     *int   `json:"tx,omitempty"`
	Error  string `json:"error,omitempty"`
}

// submitTx is the signed transaction a wallet submits to the node.
type submitTx struct {
	From      database.AccountID `json:"from" validate:"required"`
	To        database.AccountID `json:"to" validate:"required"`
	Value     uint64             `json:"value"`
	Signature hexutil.Bytes      `json:"signature" validate:"required"`
	Inputs    []string           `json:"inputs" validate:"required,min=1,dive,required"`
}

func (s submitTx) toTx() database.Tx {
	inputs := make([]database.TxInput, len(s.Inputs))
	for i, id := range s.Inputs {
		inputs[i] = database.TxInput{OutputID: id}
	}

	tx := database.NewTx(s.From, s.To, s.Value, inputs)
	tx.Signature = s.Signature

	return tx
}

// =============================================================================

func toOutput(out database.UnspentOutput, ns *nameservice.NameService) output {
	return output{
		ID:    out.ID,
		Owner: out.Owner,
		Name:  ns.Lookup(out.Owner),
		Value: out.Value,
		TxID:  out.TxID,
	}
}

func toOutputs(outs []database.UnspentOutput, ns *nameservice.NameService) []output {
	list := make([]output, len(outs))
	for i, out := range outs {
		list[i] = toOutput(out, ns)
	}
	return list
}

func toTx(dbTx database.Tx, ns *nameservice.NameService) tx {
	inputs := make([]string, len(dbTx.Inputs))
	for i, in := range dbTx.Inputs {
		inputs[i] = in.OutputID
	}

	return tx{
		ID:        dbTx.ID,
		From:      dbTx.From,
		FromName:  ns.Lookup(dbTx.From),
		To:        dbTx.To,
		ToName:    ns.Lookup(dbTx.To),
		Value:     dbTx.Value,
		Signature: dbTx.Signature.String(),
		Inputs:    inputs,
		Outputs:   toOutputs(dbTx.Outputs, ns),
	}
}

func toBlock(number int, dbBlock database.Block, ns *nameservice.NameService) block {
	trans := make([]tx, len(dbBlock.Trans))
	for i, dbTx := range dbBlock.Trans {
		trans[i] = toTx(dbTx, ns)
	}

	return block{
		Number:        number,
		Hash:          dbBlock.Hash,
		PrevBlockHash: dbBlock.Header.PrevBlockHash,
		TimeStamp:     dbBlock.Header.TimeStamp,
		Nonce:         dbBlock.Header.Nonce,
		MerkleRoot:    dbBlock.Header.MerkleRoot,
		Trans:         trans,
	}
}
