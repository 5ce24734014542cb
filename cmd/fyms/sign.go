package main

import (
	"context"

	"github.com/f3rmion/fy-multisig/multisig"
	"github.com/f3rmion/fy-multisig/relay"
	"github.com/f3rmion/fy-multisig/session"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var signCommand = &cli.Command{
	Name:  "sign",
	Usage: "Sign a transaction together with the other participants",
	Description: `Without a relay, every value is shown on screen and the other
participants' values are pasted in by hand. With --relay-url a new relay
session is started and its connection string is shown for the others;
--connection or --session-id joins an existing one.`,
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "account", Usage: "signing account; the default account when empty"},
		&cli.IntFlag{Name: "num-signers", Usage: "number of participants; prompted for when zero"},
		&cli.StringFlag{Name: "tx", Usage: "unsigned transaction hex; prompted for when empty"},
		&cli.StringFlag{Name: "relay-url", Usage: "relay base URL", EnvVars: []string{"FYMS_RELAY_URL"}},
		&cli.StringFlag{Name: "session-id", Usage: "relay session to join"},
		&cli.StringFlag{Name: "connection", Usage: "connection string of a relay session to join"},
		&cli.DurationFlag{Name: "poll-interval", Value: session.DefaultRelayPollInterval, Usage: "wait between relay polls"},
	},
	Action: func(cCtx *cli.Context) error {
		opts := session.StartOptions{
			NumSigners:          cCtx.Int("num-signers"),
			UnsignedTransaction: cCtx.String("tx"),
		}
		if err := opts.Validate(); err != nil {
			return err
		}

		e, err := openWallet(cCtx)
		if err != nil {
			return err
		}

		transport, err := signTransport(cCtx, e)
		if err != nil {
			return err
		}

		m := session.NewManager(transport, term,
			session.WithLogger(e.log),
			session.WithProgress(func(round session.Round, have, want int) {
				e.log.Info("Waiting for participants", "round", round.String(), "have", have, "want", want)
			}),
		)
		signer := &multisig.AccountSigner{Service: e.service, Account: cCtx.String("account")}
		res, err := session.Run(cCtx.Context, m, signer, opts)
		if err != nil {
			return err
		}
		return term.Display("Signature", res.Signature)
	},
}

// signTransport picks the interactive transport unless a relay is
// configured.
func signTransport(cCtx *cli.Context, e *env) (session.Transport, error) {
	base := cCtx.String("relay-url")
	id := cCtx.String("session-id")
	if conn := cCtx.String("connection"); conn != "" {
		var err error
		if base, id, err = relay.ParseConnectionString(conn); err != nil {
			return nil, err
		}
	}
	if base == "" {
		if id != "" {
			return nil, errors.New("--session-id needs --relay-url")
		}
		return session.NewInteractive(term), nil
	}

	t := session.NewRelayed(relay.NewClient(base), id,
		session.WithPollInterval(cCtx.Duration("poll-interval")),
		session.WithRelayLogger(e.log),
	)
	return &announcingRelay{Relayed: t}, nil
}

// announcingRelay shows the connection string as soon as a new session is
// opened, so the other participants can join while this one waits.
type announcingRelay struct {
	*session.Relayed
}

func (t *announcingRelay) Open(ctx context.Context, cfg session.Config) error {
	if err := t.Relayed.Open(ctx, cfg); err != nil {
		return err
	}
	return term.Display("Connection string", t.ConnectionString())
}

// createIdentity runs the participant naming flow on the terminal.
func createIdentity(cCtx *cli.Context, e *env, name string) (string, string, error) {
	return session.CreateIdentity(cCtx.Context, term, e.service, name)
}
