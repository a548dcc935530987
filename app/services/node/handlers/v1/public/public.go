// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/utxochain/business/web/errs"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/events"
	"github.com/ardanlabs/utxochain/foundation/nameservice"
	"github.com/ardanlabs/utxochain/foundation/validate"
	"github.com/ardanlabs/utxochain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, open := <-ch:
			if !open {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis settings.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Genesis(), http.StatusOK)
}

// Blocks returns every block in the chain starting with the genesis block.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks, err := h.State.Blocks()
	if err != nil {
		return err
	}

	blocks := make([]block, len(dbBlocks))
	for i, dbBlock := range dbBlocks {
		blocks[i] = toBlock(i, dbBlock, h.NS)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// MineBlock mines the transactions waiting in the pending block.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("mine block", "traceid", v.TraceID)

	dbBlock, err := h.State.MineBlock(ctx)
	if err != nil {
		return errs.Ledger(err)
	}

	blocks, err := h.State.Blocks()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, toBlock(len(blocks)-1, dbBlock, h.NS), http.StatusCreated)
}

// Pending returns the transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlock, err := h.State.Pending()
	if err != nil {
		return errs.Ledger(err)
	}

	trans := make([]tx, len(dbBlock.Trans))
	for i, dbTx := range dbBlock.Trans {
		trans[i] = toTx(dbTx, h.NS)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// SubmitTx applies a signed transaction and adds it to the pending block.
func (h Handlers) SubmitTx(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTx
	if err := web.Decode(r, &st); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	for _, accountID := range []database.AccountID{st.From, st.To} {
		if !accountID.IsAccountID() {
			return errs.NewTrusted(fmt.Errorf("invalid account %q", accountID), http.StatusBadRequest)
		}
	}

	h.Log.Infow("submit tx", "traceid", v.TraceID, "from", st.From.Short(), "to", st.To.Short(), "value", st.Value, "inputs", len(st.Inputs))

	dbTx, err := h.State.SubmitTx(st.toTx())
	if err != nil {
		return errs.Ledger(err)
	}

	return web.Respond(ctx, w, toTx(dbTx, h.NS), http.StatusCreated)
}

// UTXOs returns the live set of unspent outputs.
func (h Handlers) UTXOs(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toOutputs(h.State.UTXOs().Values(), h.NS), http.StatusOK)
}

// Outputs returns the unspent outputs owned by the account.
func (h Handlers) Outputs(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := database.ToAccountID(web.Param(r, "account"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, toOutputs(h.State.Outputs(accountID), h.NS), http.StatusOK)
}

// Balances returns the balance of every account, or of the account provided.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accounts []database.Account

	switch account := web.Param(r, "account"); account {
	case "":
		accounts = h.State.Accounts()

	default:
		accountID, err := database.ToAccountID(account)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		accounts = []database.Account{{AccountID: accountID, Balance: h.State.Balance(accountID)}}
	}

	bals := make([]balance, len(accounts))
	for i, acct := range accounts {
		bals[i] = balance{
			Account: acct.AccountID,
			Name:    h.NS.Lookup(acct.AccountID),
			Balance: acct.Balance,
		}
	}

	var pending int
	if dbBlock, err := h.State.Pending(); err == nil {
		pending = len(dbBlock.Trans)
	}

	resp := balances{
		LatestBlock: h.State.LatestBlock().Hash,
		Pending:     pending,
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Validate audits the whole chain and reports the first broken rule.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks, err := h.State.Blocks()
	if err != nil {
		return err
	}

	resp := validation{
		Valid:  true,
		Blocks: len(dbBlocks),
	}

	if err := h.State.Validate(); err != nil {
		if !database.IsValidationError(err) {
			return err
		}
		ve := database.GetValidationError(err)

		resp.Valid = false
		resp.Block = &ve.Block
		if ve.Tx >= 0 {
			resp.Tx = &ve.Tx
		}
		resp.Error = ve.Err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
