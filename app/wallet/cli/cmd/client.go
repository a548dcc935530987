package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
)

// client talks to the public api of a node.
type client struct {
	url  string
	http *http.Client
}

func newClient(url string) *client {
	return &client{
		url:  url,
		http: &http.Client{Timeout: time.Minute},
	}
}

type minedBlock struct {
	Number int    `json:"number"`
	Hash   string `json:"hash"`
	Trans  []any  `json:"trans"`
}

type validation struct {
	Valid  bool   `json:"valid"`
	Blocks int    `json:"blocks"`
	Error  string `json:"error"`
}

func (c *client) outputs(accountID database.AccountID) ([]database.UnspentOutput, error) {
	var outs []database.UnspentOutput
	if err := c.do(http.MethodGet, "/v1/outputs/"+string(accountID), nil, &outs); err != nil {
		return nil, err
	}
	return outs, nil
}

func (c *client) submit(tx database.Tx) (database.Tx, error) {
	inputs := make([]string, len(tx.Inputs))
	for i, in := range tx.Inputs {
		inputs[i] = in.OutputID
	}

	body := struct {
		From      database.AccountID `json:"from"`
		To        database.AccountID `json:"to"`
		Value     uint64             `json:"value"`
		Signature string             `json:"signature"`
		Inputs    []string           `json:"inputs"`
	}{
		From:      tx.From,
		To:        tx.To,
		Value:     tx.Value,
		Signature: tx.Signature.String(),
		Inputs:    inputs,
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(http.MethodPost, "/v1/tx/submit", body, &resp); err != nil {
		return database.Tx{}, err
	}

	tx.ID = resp.ID

	return tx, nil
}

func (c *client) mine() (minedBlock, error) {
	var block minedBlock
	if err := c.do(http.MethodPost, "/v1/blocks/mine", nil, &block); err != nil {
		return minedBlock{}, err
	}
	return block, nil
}

func (c *client) validate() (validation, error) {
	var v validation
	if err := c.do(http.MethodGet, "/v1/validate", nil, &v); err != nil {
		return validation{}, err
	}
	return v, nil
}

func (c *client) do(method string, path string, body any, resp any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.url+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var er struct {
			Error string `json:"error"`
		}
		json.NewDecoder(res.Body).Decode(&er)
		return fmt.Errorf("node returned %d: %s", res.StatusCode, er.Error)
	}

	return json.NewDecoder(res.Body).Decode(resp)
}
