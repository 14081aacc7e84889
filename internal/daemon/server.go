package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
)

// Server es el servidor Unix socket
type Server struct {
	socketPath string
	listener   net.Listener
	handlers   *Handlers
	logger     *slog.Logger
}

// Request representa una petición al daemon
type Request struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// Response representa una respuesta del daemon
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewServer crea un nuevo servidor
func NewServer(socketPath string, handlers *Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		handlers:   handlers,
		logger:     logger,
	}
}

// Start inicia el servidor
func (s *Server) Start(ctx context.Context) error {
	dir := filepath.Dir(s.socketPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}

	// Limpiar socket anterior si existe
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}

	s.logger.Info("server listening", slog.String("socket", s.socketPath))

	go s.acceptLoop(ctx)

	return nil
}

// acceptLoop acepta conexiones entrantes
func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", slog.String("error", err.Error()))
			continue
		}

		go s.handleConnection(ctx, conn)
	}
}

// handleConnection maneja una conexión individual
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		s.sendError(conn, fmt.Errorf("decode request: %w", err))
		return
	}

	s.logger.Debug("received request", slog.String("action", req.Action))

	resp := s.route(ctx, req)

	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.logger.Warn("encode response failed",
			slog.String("action", req.Action),
			slog.String("error", err.Error()),
		)
	}
}

// route despacha la acción al handler correspondiente
func (s *Server) route(ctx context.Context, req Request) Response {
	switch req.Action {
	case "ping":
		return Response{Success: true, Data: json.RawMessage(`{"message":"pong"}`)}
	case "platforms":
		return s.handlers.HandlePlatforms(ctx)
	case "accounts":
		return s.handlers.HandleAccounts(ctx, req.Payload)
	case "add":
		return s.handlers.HandleAdd(ctx, req.Payload)
	case "update":
		return s.handlers.HandleUpdate(ctx, req.Payload)
	case "remove":
		return s.handlers.HandleRemove(ctx, req.Payload)
	case "disconnect":
		return s.handlers.HandleDisconnect(ctx, req.Payload)
	case "connect":
		return s.handlers.HandleConnect(ctx, req.Payload)
	case "sync":
		return s.handlers.HandleSync(ctx, req.Payload)
	case "stats":
		return s.handlers.HandleStats(ctx)
	default:
		return Response{Success: false, Error: fmt.Sprintf("unknown action: %s", req.Action)}
	}
}

// sendError envía una respuesta de error
func (s *Server) sendError(conn net.Conn, err error) {
	resp := Response{
		Success: false,
		Error:   err.Error(),
	}
	_ = json.NewEncoder(conn).Encode(resp)
}

// Stop detiene el servidor
func (s *Server) Stop() error {
	s.logger.Info("server stopping")
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
