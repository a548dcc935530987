package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the pending transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		block, err := newClient(nodeURL).mine()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "mined block %d hash %s trans %d\n", block.Number, block.Hash, len(block.Trans))

		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to audit the whole chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newClient(nodeURL).validate()
		if err != nil {
			return err
		}

		if !v.Valid {
			return fmt.Errorf("chain is invalid: %s", v.Error)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "chain is valid: blocks %d\n", v.Blocks)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(validateCmd)
}
