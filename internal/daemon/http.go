package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// NewOpsRouter construye el router HTTP de operaciones: /metrics y /healthz
func NewOpsRouter(metrics http.Handler, health func() map[string]interface{}) http.Handler {
	r := chi.NewRouter()

	r.Handle("/metrics", metrics)
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		body := map[string]interface{}{"status": "ok"}
		if health != nil {
			for k, v := range health() {
				body[k] = v
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})

	return r
}

// OpsServer sirve el router de operaciones en una dirección TCP
type OpsServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewOpsServer crea un servidor de operaciones
func NewOpsServer(addr string, handler http.Handler, logger *slog.Logger) *OpsServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start arranca el servidor en segundo plano
func (o *OpsServer) Start() {
	go func() {
		o.logger.Info("ops server starting", slog.String("addr", o.server.Addr))
		if err := o.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			o.logger.Error("ops server listen error", slog.String("error", err.Error()))
		}
	}()
}

// Shutdown detiene el servidor
func (o *OpsServer) Shutdown(ctx context.Context) error {
	if err := o.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("ops server shutdown: %w", err)
	}
	return nil
}
