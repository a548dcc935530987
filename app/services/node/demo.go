package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
	"go.uber.org/zap"
)

// demo moves value between two wallets, mines the blocks and audits the
// chain. A rejected send is logged and the demo carries on.
func demo(ctx context.Context, log *zap.SugaredLogger, st *state.State, from wallet.Wallet, to wallet.Wallet) error {
	sends := []struct {
		from  wallet.Wallet
		to    wallet.Wallet
		value uint64
		mine  bool
	}{
		{from, to, 40, true},
		{from, to, 1000, false},
		{to, from, 20, true},
	}

	for _, s := range sends {
		_, err := st.SendFunds(s.from, s.to.AccountID, s.value)
		switch {
		case errors.Is(err, database.ErrInsufficientBalance):
			log.Infow("demo", "status", "send rejected", "from", s.from.AccountID.Short(), "value", s.value, "ERROR", err)
			continue

		case err != nil:
			return fmt.Errorf("send %d: %w", s.value, err)
		}

		if s.mine {
			if _, err := st.MineBlock(ctx); err != nil {
				return fmt.Errorf("mine: %w", err)
			}
		}
	}

	if err := st.Validate(); err != nil {
		return err
	}

	if err := st.Reconcile(); err != nil {
		return err
	}

	for _, acct := range st.Accounts() {
		log.Infow("demo", "status", "balance", "account", acct.AccountID.Short(), "balance", acct.Balance)
	}

	return nil
}
