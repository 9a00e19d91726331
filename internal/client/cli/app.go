package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/client/cache"
	"github.com/dmitrijs2005/taskboard/internal/client/client"
	"github.com/dmitrijs2005/taskboard/internal/client/config"
	"github.com/dmitrijs2005/taskboard/internal/client/services"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config      *config.Config
	authService *services.AuthService
	taskService *services.TaskService
	store       cache.Store
	reader      *bufio.Reader
	out         io.Writer

	mu   sync.Mutex
	mode Mode
}

// newStore picks the cache backend named in the config.
func newStore(ctx context.Context, c *config.Config) (cache.Store, error) {
	switch c.CacheMode {
	case config.CacheSQLite:
		return cache.OpenSQLiteStore(ctx, c.CacheDSN)
	case config.CacheMemory, "":
		return cache.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown cache mode %q", c.CacheMode)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	store, err := newStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return newApp(c, apiClient, store, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, api client.API, store cache.Store, reader *bufio.Reader, out io.Writer) *App {
	a := &App{config: c, store: store, reader: reader, out: out}

	notifier := services.NotifierFunc(a.notify)
	session := services.NewSession()
	a.authService = services.NewAuthService(api, store, session, notifier)
	a.taskService = services.NewTaskService(api, store, session, notifier)
	return a
}

func (a *App) notify(level services.Level, msg string) {
	if level == services.LevelError {
		fmt.Fprintln(a.out, "Error:", msg)
		return
	}
	fmt.Fprintln(a.out, msg)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.Session().LoggedIn()
}

func (a *App) getStatus() string {
	var parts []string
	if u := a.authService.Session().User(); u != nil {
		parts = append(parts, u.Email)
	}
	if m := a.getMode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// Root runs the REPL on stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to taskboard CLI (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}

	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
