// Package medichain wires the application together: it runs ledger and
// content-store resolution once at start-up and exposes the resolved handles
// plus the process-wide session state (active account, authorization token)
// to the rest of the application.
package medichain

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ddhhhkj/medichain-fixed/pkg/ipfs"
	"github.com/ddhhhkj/medichain-fixed/pkg/ledger"
)

// Config aggregates the per-backend resolution settings.
type Config struct {
	Ledger ledger.Config
	Store  ipfs.Config
	// Logger is propagated to both resolvers when they carry none.
	Logger *zap.Logger
}

// App holds the resolved backend handles and the session state for one
// process lifetime. The handles are written once during Connect and
// read-only afterwards; the session fields are mutated only by the
// wallet-connect and login flows.
type App struct {
	Ledger *ledger.Client
	Files  *ipfs.Client

	mu      sync.RWMutex
	account string
	token   string
}

// Connect resolves both backends concurrently and returns the assembled App.
// Resolution cannot fail: each resolver degrades to its simulation
// independently, so Connect never returns an error and the application is
// always usable afterwards. A slow content-store probe does not delay ledger
// resolution or vice versa. Re-resolution happens only via process restart.
func Connect(ctx context.Context, cfg Config) *App {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Ledger.Logger == nil {
		cfg.Ledger.Logger = log
	}
	if cfg.Store.Logger == nil {
		cfg.Store.Logger = log
	}

	app := &App{}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		app.Ledger = ledger.Resolve(ctx, cfg.Ledger)
	}()
	go func() {
		defer wg.Done()
		app.Files = ipfs.Resolve(ctx, cfg.Store)
	}()
	wg.Wait()

	log.Info("medichain: connectivity established",
		zap.String("ledger_mode", app.Ledger.Mode()),
		zap.String("store_mode", app.Files.Mode()))
	return app
}

// Account returns the active account identifier; empty until wallet
// connection succeeds.
func (a *App) Account() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.account
}

// SetAccount records the connected wallet account.
func (a *App) SetAccount(account string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.account = account
}

// Token returns the authorization token; empty until login succeeds.
func (a *App) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// SetToken records the authorization token obtained at login.
func (a *App) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// ClearSession resets account and token, e.g. on logout.
func (a *App) ClearSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.account = ""
	a.token = ""
}
