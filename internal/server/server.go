// Package server provides the Typographe check service: a JSON API for
// synchronous text checks, asynchronous directory jobs and WebSocket
// progress streaming.
package server

import (
	"fmt"
	"net/http"

	"github.com/FocuswithJustin/Typographe/core/lexicon"
	"github.com/FocuswithJustin/Typographe/internal/config"
	"github.com/FocuswithJustin/Typographe/internal/document"
	"github.com/FocuswithJustin/Typographe/internal/logging"
)

// Config holds server configuration.
type Config struct {
	Port           int
	Lexicon        string            // artifact path, empty = embedded default
	Levels         config.Map        // severity overrides applied to every request
	Translations   map[string]string // admonition title overrides
	AllowedOrigins []string          // CORS allowed origins (empty = allow all)
}

// ServerConfig is the active server configuration.
var ServerConfig Config

// serverLexicon backs every processor built for this server.
var serverLexicon *lexicon.Lexicon

// defaultProcessor handles requests without rule overrides.
var defaultProcessor *document.Processor

// Init loads the lexicon, builds the default processor and starts the
// WebSocket hub. It is separated from Start so tests can exercise the
// handler chain without binding a port.
func Init(cfg Config) {
	ServerConfig = cfg

	if cfg.Lexicon != "" {
		serverLexicon = lexicon.Load(cfg.Lexicon)
	} else {
		serverLexicon = lexicon.LoadDefault()
	}
	defaultProcessor = document.NewProcessor(document.Options{
		Lexicon:      serverLexicon,
		Levels:       cfg.Levels,
		Translations: cfg.Translations,
	})

	GlobalHub = NewHub()
	go GlobalHub.Run()
}

// Handler builds the full middleware chain around the route mux.
func Handler() http.Handler {
	var handler http.Handler = SecurityHeadersMiddleware(setupRoutes())
	handler = CORSMiddleware(CORSConfig{AllowedOrigins: ServerConfig.AllowedOrigins}, handler)
	return logging.CombinedMiddleware(handler)
}

// Start initializes the service and serves until the listener fails.
func Start(cfg Config) error {
	Init(cfg)

	logging.ServerStartup("check_api", "http", cfg.Port,
		"websocket_protocol", "ws",
		"lexicon_words", serverLexicon.WordCount())

	addr := fmt.Sprintf(":%d", cfg.Port)
	return http.ListenAndServe(addr, Handler())
}

// setupRoutes configures all HTTP routes.
func setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/v1/check", handleCheck)
	mux.HandleFunc("/v1/jobs", handleJobs)
	mux.HandleFunc("/v1/jobs/", handleJobByID)
	mux.HandleFunc("/v1/ws", handleWebSocket)

	return mux
}
