package cmd

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	to    string
	value uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send value to another account",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account receiving the value.")
	sendCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value to send.")
}

func sendRun(cmd *cobra.Command, args []string) error {
	w, err := wallet.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	toID, err := database.ToAccountID(to)
	if err != nil {
		return err
	}

	tx, err := send(newClient(nodeURL), w, toID, value)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "submitted tx %s\n", tx.ID)

	return nil
}

// send reads the outputs the wallet owns from the node, builds and signs the
// transaction and submits it.
func send(c *client, w wallet.Wallet, to database.AccountID, value uint64) (database.Tx, error) {
	outs, err := c.outputs(w.AccountID)
	if err != nil {
		return database.Tx{}, err
	}

	tx, err := w.SendFunds(to, value, database.NewUTXOSet(outs...))
	if err != nil {
		return database.Tx{}, err
	}

	return c.submit(tx)
}
