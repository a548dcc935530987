// This program performs administrative tasks for the ledger node.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/utxochain/app/tooling/admin/commands"
	"github.com/ardanlabs/utxochain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	log.Infow("admin", "version", build, "args", os.Args[1:])
	return processCommands(os.Args, log)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string, log *zap.SugaredLogger) error {
	if len(args) < 3 {
		return errors.New("usage: admin genesis <path> | admin keys <folder> <name>...")
	}

	switch args[1] {
	case "genesis":
		if err := commands.Genesis(args[2]); err != nil {
			return fmt.Errorf("writing genesis: %w", err)
		}
		log.Infow("admin", "status", "genesis written", "path", args[2])

	case "keys":
		accounts, err := commands.Keys(args[2], args[3:])
		if err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}
		for name, accountID := range accounts {
			log.Infow("admin", "status", "key generated", "name", name, "account", accountID)
		}

	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
