// templated serves the golden template store: project directory listings
// and template files for vios to fetch, an upload endpoint for new
// templates, and Prometheus metrics.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	var (
		flagListen string
		flagRoot   string
	)
	flag.StringVar(&flagListen, "listen", ":8080", "Address to listen on")
	flag.StringVar(&flagRoot, "root", "SUM_BIOS_configs", "Directory the templates are stored under")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Timestamp().
		Logger()

	if err := os.MkdirAll(flagRoot, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("Cannot create template root directory")
	}

	server := &Server{Root: flagRoot, Log: logger}
	httpServer := &http.Server{
		Addr:         flagListen,
		Handler:      NewRouter(server),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info().Str("listen", flagListen).Str("root", flagRoot).Msg("Serving golden templates")
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("Server stopped")
	}
}
