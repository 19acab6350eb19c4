package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"igresolve/pkg/config"
	"igresolve/pkg/fetch"
	"igresolve/pkg/instagram"
	"igresolve/pkg/logger"
	"igresolve/pkg/ratelimit"
	"igresolve/pkg/resolver"
	"igresolve/pkg/server"
)

var (
	configFile   = flag.String("config", "", "Path to configuration file")
	listenAddr   = flag.String("listen", "", "Address to listen on (e.g. :8000)")
	rateLimit    = flag.Int("rate-limit", 0, "Outbound requests per minute")
	keepAliveURL = flag.String("keep-alive-url", "", "Public URL to ping periodically")
	logLevel     = flag.String("log-level", "", "Log level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	// Build command line flags map
	flags := make(map[string]interface{})
	if *listenAddr != "" {
		flags["listen"] = *listenAddr
	}
	if *rateLimit > 0 {
		flags["rate-limit"] = *rateLimit
	}
	if *keepAliveURL != "" {
		flags["keep-alive-url"] = *keepAliveURL
	}
	if *logLevel != "" {
		flags["log-level"] = *logLevel
	}

	// Load configuration
	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", "1.0").Info("resolution gateway starting")

	// One outbound budget shared by every component that talks upstream
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window)

	client := instagram.NewClient(cfg.Fetch.Timeout, limiter, log)
	dispatcher := fetch.New(&cfg.Fetch, limiter, log)
	res := resolver.New(client, dispatcher, &cfg.Resolver, log)

	srv := server.New(&cfg.Server, res, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		log.WithError(err).Error("server exited with error")
		os.Exit(1)
	}

	log.Info("server stopped")
}
