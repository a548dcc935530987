package cmd

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print the balance of the wallet",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	w, err := wallet.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	outs, err := newClient(nodeURL).outputs(w.AccountID)
	if err != nil {
		return err
	}

	set := database.NewUTXOSet(outs...)
	fmt.Fprintf(cmd.OutOrStdout(), "account: %s\noutputs: %d\nbalance: %d\n", w.AccountID, set.Len(), w.Balance(set))

	return nil
}
