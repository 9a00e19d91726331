// Package rest is the HTTP/JSON transport of the taskboard server: routing,
// middleware, the session cookie and the auth and task handlers.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/metrics"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
	"github.com/gorilla/mux"
)

// UserService is the account logic the handlers depend on.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// TaskService is the task logic the handlers depend on.
type TaskService interface {
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Get(ctx context.Context, userID, id string) (*models.Task, error)
	Create(ctx context.Context, userID string, in services.CreateTaskInput) (*models.Task, error)
	Update(ctx context.Context, userID, id string, in services.UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

// ExportService produces downloadable task snapshots.
type ExportService interface {
	Export(ctx context.Context, userID string) (*services.TaskExport, error)
}

// TokenVerifier checks session tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Options configures a Server.
type Options struct {
	Address       string
	Environment   string
	CORSOrigin    string
	TokenTTL      time.Duration
	SecureCookies bool
}

// Server serves the REST API.
type Server struct {
	address       string
	environment   string
	corsOrigin    string
	tokenTTL      time.Duration
	secureCookies bool

	users   UserService
	tasks   TaskService
	exports ExportService
	tokens  TokenVerifier
	logger  logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewServer wires a Server. exports and m may be nil.
func NewServer(opts Options, l logging.Logger, users UserService, tasks TaskService, exports ExportService, tokens TokenVerifier, m *metrics.Metrics) *Server {
	return &Server{
		address:       opts.Address,
		environment:   opts.Environment,
		corsOrigin:    opts.CORSOrigin,
		tokenTTL:      opts.TokenTTL,
		secureCookies: opts.SecureCookies,
		users:         users,
		tasks:         tasks,
		exports:       exports,
		tokens:        tokens,
		logger:        l.With("module", "rest_server"),
		metrics:       m,
		now:           time.Now,
	}
}

// Handler builds the full middleware chain and routing table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	notFound := s.accessLog(http.HandlerFunc(s.handleNotFound))
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	a := r.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	a.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	a.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	a.Handle("/me", s.authenticate(http.HandlerFunc(s.handleMe))).Methods(http.MethodGet)

	t := r.PathPrefix("/api/tasks").Subrouter()
	t.Use(s.authenticate)
	t.HandleFunc("", s.handleListTasks).Methods(http.MethodGet)
	t.HandleFunc("", s.handleCreateTask).Methods(http.MethodPost)
	t.HandleFunc("/export", s.handleExportTasks).Methods(http.MethodPost)
	t.HandleFunc("/{id}", s.handleGetTask).Methods(http.MethodGet)
	t.HandleFunc("/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	t.HandleFunc("/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	return s.requestID(s.recoverPanic(s.cors(r)))
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen, shutdownTimeout)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting REST server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errCh
}
