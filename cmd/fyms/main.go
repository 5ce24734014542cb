package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/f3rmion/fy-multisig/bjj"
	"github.com/f3rmion/fy-multisig/cmd/flags"
	"github.com/f3rmion/fy-multisig/frost"
	"github.com/f3rmion/fy-multisig/multisig"
	"github.com/f3rmion/fy-multisig/prompt"
	"github.com/f3rmion/fy-multisig/wallet"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var (
	walletFlag = &cli.StringFlag{
		Name:    "wallet",
		Value:   defaultWalletPath(),
		Usage:   "path of the encrypted wallet file",
		EnvVars: []string{"FYMS_WALLET"},
	}
	passphraseFlag = &cli.StringFlag{
		Name:    "passphrase",
		Usage:   "wallet passphrase; prompted for when empty",
		EnvVars: []string{"FYMS_PASSPHRASE"},
	}
)

func defaultWalletPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wallet.json"
	}
	return filepath.Join(home, ".fyms", "wallet.json")
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "fyms",
		Usage: "Create multisig participants and sign transactions with other participants",
		Flags: append([]cli.Flag{walletFlag, passphraseFlag}, flags.LogFlags("FYMS", "fyms")...),
		Commands: []*cli.Command{
			participantCommand,
			dealerCommand,
			accountCommand,
			txCommand,
			signCommand,
			rpcCommand,
		},
	}
}

func main() {
	app := newApp()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

var term = prompt.NewTerminal(os.Stdin, os.Stderr)

// env is what every wallet command works with.
type env struct {
	log     *slog.Logger
	wallet  *wallet.Wallet
	service *multisig.Service
}

// openWallet opens the wallet file, asking for the passphrase when it is
// not configured.
func openWallet(cCtx *cli.Context) (*env, error) {
	logger := flags.SetupLogger(cCtx)

	passphrase := cCtx.String(passphraseFlag.Name)
	if passphrase == "" {
		var err error
		passphrase, err = term.Input(cCtx.Context, "Wallet passphrase")
		if err != nil {
			return nil, err
		}
	}

	f := frost.New(&bjj.BJJ{})
	store := wallet.NewFileStore(cCtx.String(walletFlag.Name), passphrase)
	w, err := wallet.Open(cCtx.Context, store, f, wallet.WithLogger(logger))
	if err != nil {
		return nil, errors.Wrap(err, "opening wallet")
	}
	return &env{
		log:     logger,
		wallet:  w,
		service: multisig.NewService(w, f, logger),
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLine(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}
