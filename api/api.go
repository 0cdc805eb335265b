// Package api exposes the message log and the state leaves over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vocdoni/maci-domainobjs/log"
	stg "github.com/vocdoni/maci-domainobjs/storage"
)

const (
	maxRequestBodyLog = 512 // Maximum length of request body to log
	shutdownTimeout   = 10 * time.Second
)

// APIConfig type represents the configuration for the API HTTP server.
type APIConfig struct {
	Host    string
	Port    int
	Storage *stg.Storage
	// EmptyVoteOptionTreeRoot is the vote option tree root of blank state
	// leaves.
	EmptyVoteOptionTreeRoot *big.Int
}

// API type represents the API HTTP server.
type API struct {
	router    *chi.Mux
	storage   *stg.Storage
	emptyRoot *big.Int
	addr      string
}

// New creates a new API instance with the given configuration. The server
// is started with Serve.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Storage == nil {
		return nil, fmt.Errorf("missing storage instance")
	}
	if conf.EmptyVoteOptionTreeRoot == nil {
		return nil, fmt.Errorf("missing empty vote option tree root")
	}
	a := &API{
		storage:   conf.Storage,
		emptyRoot: new(big.Int).Set(conf.EmptyVoteOptionTreeRoot),
		addr:      fmt.Sprintf("%s:%d", conf.Host, conf.Port),
	}
	a.initRouter()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (a *API) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting API server", "addr", a.addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("API server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Infow("API server stopped")
	return nil
}

// registerHandlers registers all the HTTP handlers for the API endpoints.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	// message endpoints
	log.Infow("register handler", "endpoint", MessagesEndpoint, "method", "POST")
	a.router.Post(MessagesEndpoint, a.publishMessage)
	log.Infow("register handler", "endpoint", MessagesEndpoint, "method", "GET",
		"parameters", FromQueryParam+","+ToQueryParam)
	a.router.Get(MessagesEndpoint, a.messages)
	log.Infow("register handler", "endpoint", MessageEndpoint, "method", "GET")
	a.router.Get(MessageEndpoint, a.message)
	log.Infow("register handler", "endpoint", MessagesABIEndpoint, "method", "POST")
	a.router.Post(MessagesABIEndpoint, a.publishMessageABI)
	log.Infow("register handler", "endpoint", MessageABIEndpoint, "method", "GET")
	a.router.Get(MessageABIEndpoint, a.messageABI)
	// state leaf endpoints
	log.Infow("register handler", "endpoint", BlankLeafEndpoint, "method", "GET")
	a.router.Get(BlankLeafEndpoint, a.blankLeaf)
	log.Infow("register handler", "endpoint", LeafEndpoint, "method", "GET")
	a.router.Get(LeafEndpoint, a.stateLeaf)
	// key endpoints
	log.Infow("register handler", "endpoint", ValidateKeysEndpoint, "method", "POST")
	a.router.Post(ValidateKeysEndpoint, a.validateKeys)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler)
	a.router.Use(loggingMiddleware(maxRequestBodyLog))
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.Timeout(45 * time.Second))

	a.registerHandlers()
}
