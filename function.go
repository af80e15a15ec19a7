// Package summaryproxy exposes the summary proxy as a serverless HTTP
// function. Summarize is the entry point registered with the platform; it
// builds the handler chain on the first invocation and reuses it afterwards.
package summaryproxy

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/teilomillet/summaryproxy/config"
	"github.com/teilomillet/summaryproxy/errors"
	"github.com/teilomillet/summaryproxy/server/handlers"
	"github.com/teilomillet/summaryproxy/server/middleware"
	"github.com/teilomillet/summaryproxy/server/upstream"
	"go.uber.org/zap"
)

// NewHandler returns the serverless handler chain for gen. Preflight
// requests are answered by the CORS layer and never reach the handler.
func NewHandler(cfg *config.Config, gen upstream.ContentGenerator, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := upstream.NewClient(gen, cfg.Upstream.Model, logger)
	var h http.Handler = handlers.NewSummaryHandler(client, logger, nil)

	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.CORS(cfg.CORS)(h)
	return h
}

// Setup performs cold-start initialisation from the environment: it loads
// and validates the configuration, builds the logger and the Gemini client
// and returns the handler chain.
func Setup(ctx context.Context) (http.Handler, *zap.Logger, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	errors.SetLogger(logger)

	models, err := upstream.NewModels(ctx, cfg.Upstream)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Summary function initialised", zap.String("model", cfg.Upstream.Model))
	return NewHandler(cfg, models, logger), logger, nil
}

// lazyHandler runs setup once and serves every request through its result.
// A failed setup is remembered and answered with an internal error behind the
// default CORS policy, so preflights still succeed.
type lazyHandler struct {
	setup func(context.Context) (http.Handler, *zap.Logger, error)

	once    sync.Once
	handler http.Handler
	err     error
}

func (l *lazyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.once.Do(func() {
		// The request context ends with this invocation; the client outlives it.
		var err error
		if l.handler, _, err = l.setup(context.Background()); err != nil {
			l.err = err
			l.handler = setupFailure(err)
		}
	})
	l.handler.ServeHTTP(w, r)
}

func setupFailure(setupErr error) http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errors.DefaultLogger.Error("Function not initialised", zap.Error(setupErr))
		errors.WriteError(w, errors.NewInternalError(r.Header.Get(errors.RequestIDHeader), setupErr))
	})
	return middleware.CORS(config.DefaultConfig().CORS)(h)
}

var entry = &lazyHandler{setup: Setup}

// Summarize is the HTTP function entry point.
func Summarize(w http.ResponseWriter, r *http.Request) {
	entry.ServeHTTP(w, r)
}
