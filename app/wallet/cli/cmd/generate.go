package cmd

import (
	"fmt"
	"os"

	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(accountPath, 0700); err != nil {
			return err
		}

		path := getPrivateKeyPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("key file %s already exists", path)
		}

		w, err := wallet.New()
		if err != nil {
			return err
		}

		if err := w.Save(path); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), w.AccountID)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
