package main

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/f3rmion/fy-multisig/bjj"
	"github.com/f3rmion/fy-multisig/cmd/flags"
	"github.com/f3rmion/fy-multisig/httpserver"
	"github.com/f3rmion/fy-multisig/rpc"
	"github.com/f3rmion/fy-multisig/transaction"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var participantCommand = &cli.Command{
	Name:  "participant",
	Usage: "Manage multisig participant identities",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a participant secret and print its identity",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "name of the participant; prompted for when empty"},
			},
			Action: func(cCtx *cli.Context) error {
				e, err := openWallet(cCtx)
				if err != nil {
					return err
				}
				name, identity, err := createIdentity(cCtx, e, cCtx.String("name"))
				if err != nil {
					return err
				}
				e.log.Info("Created participant", "name", name)
				return term.Display("Identity", identity)
			},
		},
		{
			Name:  "list",
			Usage: "List participant names and identities",
			Action: func(cCtx *cli.Context) error {
				e, err := openWallet(cCtx)
				if err != nil {
					return err
				}
				for _, s := range e.wallet.MultisigSecrets(cCtx.Context) {
					printLine("%s\t%s", s.Name, s.Identity)
				}
				return nil
			},
		},
	},
}

var dealerCommand = &cli.Command{
	Name:  "dealer",
	Usage: "Act as trusted dealer for a new multisig account",
	Subcommands: []*cli.Command{
		{
			Name:  "split",
			Usage: "Generate a spending key and print one key package per identity",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "min-signers", Required: true, Usage: "number of participants needed to sign"},
				&cli.StringSliceFlag{Name: "identity", Required: true, Usage: "participant identity hex, repeat for each participant"},
			},
			Action: func(cCtx *cli.Context) error {
				e, err := openWallet(cCtx)
				if err != nil {
					return err
				}
				res, err := e.service.SplitSecret(cCtx.Context, cCtx.Int("min-signers"), cCtx.StringSlice("identity"))
				if err != nil {
					return err
				}
				return printJSON(res)
			},
		},
	},
}

var accountCommand = &cli.Command{
	Name:  "account",
	Usage: "Manage multisig accounts",
	Subcommands: []*cli.Command{
		{
			Name:  "import",
			Usage: "Import a key package dealt to one of the wallet's participants",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Required: true, Usage: "account name"},
				&cli.StringFlag{Name: "key-package", Required: true, Usage: "key package hex"},
				&cli.StringFlag{Name: "public-key-package", Required: true, Usage: "public key package hex"},
			},
			Action: func(cCtx *cli.Context) error {
				e, err := openWallet(cCtx)
				if err != nil {
					return err
				}
				name := cCtx.String("name")
				if err := e.service.ImportAccount(cCtx.Context, name, cCtx.String("key-package"), cCtx.String("public-key-package")); err != nil {
					return err
				}
				e.log.Info("Imported account", "name", name)
				return nil
			},
		},
		{
			Name:      "default",
			Usage:     "Show the default account, or set it when a name is given",
			ArgsUsage: "[name]",
			Action: func(cCtx *cli.Context) error {
				e, err := openWallet(cCtx)
				if err != nil {
					return err
				}
				if name := cCtx.Args().First(); name != "" {
					return e.wallet.SetDefaultAccount(cCtx.Context, name)
				}
				a, err := e.wallet.Account(cCtx.Context, "")
				if err != nil {
					return err
				}
				printLine("%s", a.Name)
				return nil
			},
		},
	},
}

var txCommand = &cli.Command{
	Name:  "tx",
	Usage: "Build unsigned transactions",
	Subcommands: []*cli.Command{
		{
			Name:  "new",
			Usage: "Wrap a payload into an unsigned transaction with fresh key randomness",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "payload", Required: true, Usage: "payload hex"},
			},
			Action: func(cCtx *cli.Context) error {
				payload, err := hex.DecodeString(cCtx.String("payload"))
				if err != nil {
					return errors.Wrap(err, "decoding payload")
				}
				tx, err := transaction.New(&bjj.BJJ{}, rand.Reader, payload)
				if err != nil {
					return err
				}
				printLine("%s", tx.Hex())
				return nil
			},
		},
	},
}

var rpcCommand = &cli.Command{
	Name:  "rpc",
	Usage: "Serve the multisig wallet API over HTTP",
	Subcommands: []*cli.Command{
		{
			Name:  "serve",
			Usage: "Run the multisig wallet API until interrupted",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "listen-addr",
					Value:   "127.0.0.1:8021",
					Usage:   "address to listen on for the wallet API",
					EnvVars: []string{"FYMS_RPC_LISTEN_ADDR"},
				},
			}, flags.ServerFlags("FYMS_RPC")...),
			Action: func(cCtx *cli.Context) error {
				e, err := openWallet(cCtx)
				if err != nil {
					return err
				}
				routes := rpc.NewHandler(e.service, e.log).Routes
				server := httpserver.New(flags.ConfigureServer(cCtx, e.log, cCtx.String("listen-addr")), routes)
				server.RunInBackground()

				e.log.Info("Wallet API is running, press Ctrl+C to stop")
				<-cCtx.Context.Done()
				e.log.Info("Shutdown signal received")

				server.Shutdown()
				e.log.Info("Wallet API shutdown complete")
				return nil
			},
		},
	},
}
