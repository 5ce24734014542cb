package flags

import (
	"log/slog"
	"time"

	"github.com/f3rmion/fy-multisig/httpserver"
	"github.com/f3rmion/fy-multisig/logutil"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String("log-service")

	logger := logutil.SetupLogger(&logutil.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: logutil.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger, listenAddr string) *httpserver.HTTPServerConfig {
	enablePprof := cCtx.Bool(PprofFlag.Name)
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second

	return &httpserver.HTTPServerConfig{
		ListenAddr:               listenAddr,
		Log:                      logger,
		EnablePprof:              enablePprof,
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}

// LogFlags returns the logging flags with env fallbacks under prefix,
// e.g. FYRELAY_LOG_JSON.
func LogFlags(prefix, service string) []cli.Flag {
	withEnv := func(f *cli.BoolFlag, env string) *cli.BoolFlag {
		c := *f
		c.EnvVars = []string{prefix + "_" + env}
		return &c
	}
	svc := LogServiceFlagFn(service)
	svc.EnvVars = []string{prefix + "_LOG_SERVICE"}
	return []cli.Flag{
		withEnv(LogJsonFlag, "LOG_JSON"),
		withEnv(LogDebugFlag, "LOG_DEBUG"),
		withEnv(LogUidFlag, "LOG_UID"),
		svc,
	}
}

// ServerFlags returns the HTTP server flags with env fallbacks under
// prefix.
func ServerFlags(prefix string) []cli.Flag {
	pprof := *PprofFlag
	pprof.EnvVars = []string{prefix + "_PPROF"}
	drain := *DrainSecondsFlag
	drain.EnvVars = []string{prefix + "_DRAIN_SECONDS"}
	return []cli.Flag{&pprof, &drain}
}
