package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/f3rmion/fy-multisig/cmd/flags"
	"github.com/f3rmion/fy-multisig/httpserver"
	"github.com/f3rmion/fy-multisig/relay"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

var relayFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "listen-addr",
		Value:   "127.0.0.1:8080",
		Usage:   "address to listen on for the relay API",
		EnvVars: []string{"FYRELAY_LISTEN_ADDR"},
	},
	&cli.StringFlag{
		Name:    "redis-addr",
		Usage:   "redis address for shared session storage; sessions are kept in memory when empty",
		EnvVars: []string{"FYRELAY_REDIS_ADDR"},
	},
	&cli.StringFlag{
		Name:    "redis-password",
		Usage:   "redis password",
		EnvVars: []string{"FYRELAY_REDIS_PASSWORD"},
	},
	&cli.IntFlag{
		Name:    "redis-db",
		Usage:   "redis database number",
		EnvVars: []string{"FYRELAY_REDIS_DB"},
	},
	&cli.DurationFlag{
		Name:    "session-ttl",
		Value:   24 * time.Hour,
		Usage:   "time a session is kept after its last update",
		EnvVars: []string{"FYRELAY_SESSION_TTL"},
	},
}

func main() {
	app := &cli.App{
		Name:  "fyrelay",
		Usage: "Relay values between participants of multisig signing ceremonies",
		Flags: append(append(relayFlags, flags.LogFlags("FYRELAY", "fyrelay")...), flags.ServerFlags("FYRELAY")...),
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String("listen-addr")
			redisAddr := cCtx.String("redis-addr")
			ttl := cCtx.Duration("session-ttl")

			logger := flags.SetupLogger(cCtx)

			var store relay.Store
			if redisAddr != "" {
				client := redis.NewClient(&redis.Options{
					Addr:     redisAddr,
					Password: cCtx.String("redis-password"),
					DB:       cCtx.Int("redis-db"),
				})
				defer client.Close()

				ctx, cancel := context.WithTimeout(cCtx.Context, 5*time.Second)
				defer cancel()
				if err := client.Ping(ctx).Err(); err != nil {
					logger.Error("Failed to connect to redis", "addr", redisAddr, "err", err)
					return errors.Wrap(err, "connecting to redis")
				}
				logger.Info("Using redis session store", "addr", redisAddr)
				store = relay.NewRedisStore(client, ttl)
			} else {
				logger.Info("Using in-memory session store")
				mem := relay.NewMemoryStore(ttl)
				go sweep(cCtx.Context, mem, ttl)
				store = mem
			}

			srv := relay.NewServer(store, logger)
			server := httpserver.New(flags.ConfigureServer(cCtx, logger, listenAddr), srv.Routes)
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Relay is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Relay shutdown complete")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// sweep drops expired in-memory sessions periodically.
func sweep(ctx context.Context, mem *relay.MemoryStore, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	t := time.NewTicker(ttl / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			mem.Sweep()
		}
	}
}
