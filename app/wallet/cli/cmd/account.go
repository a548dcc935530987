package cmd

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print account for the specific wallet",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func accountRun(cmd *cobra.Command, args []string) error {
	w, err := wallet.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), w.AccountID)

	return nil
}
