// Package api exposes the ledger over HTTP. Mutating requests carry an
// ed25519 authorization by the initiator; reads are open.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Akash-YS05/smash-cash/identity"
	"github.com/Akash-YS05/smash-cash/ledger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type APIConfig struct {
	APIEndpoint string
	// SignatureWindow bounds clock skew between signer and server and how
	// long accepted authorizations are remembered. Zero disables the skew
	// check and remembers them for the life of the process.
	SignatureWindow time.Duration
}

type server struct {
	engine *ledger.Engine
	window time.Duration
	seen   *identity.ReplayGuard
	now    func() time.Time
}

// NewRouter builds the gin engine serving all routes.
func NewRouter(engine *ledger.Engine, cfg APIConfig) *gin.Engine {
	s := &server{
		engine: engine,
		window: cfg.SignatureWindow,
		seen:   identity.NewReplayGuard(cfg.SignatureWindow),
		now:    time.Now,
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID(), tracing())
	registerRoutes(r, s)
	return r
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg APIConfig, engine *ledger.Engine) error {
	srv := &http.Server{
		Addr:              cfg.APIEndpoint,
		Handler:           NewRouter(engine, cfg),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("api: listening on %s", cfg.APIEndpoint)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
