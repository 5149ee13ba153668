package medichain

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ddhhhkj/medichain-fixed/pkg/ipfs"
	"github.com/ddhhhkj/medichain-fixed/pkg/ledger"
)

// NewFromEnv bootstraps both backend clients from MEDICHAIN_* environment
// variables (resolving them concurrently, like Connect) and returns the
// assembled App. Unlike Connect it can fail: a forced live mode propagates
// the underlying error.
func NewFromEnv(ctx context.Context, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		wg         sync.WaitGroup
		lc         *ledger.Client
		fc         *ipfs.Client
		lerr, ferr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		lc, _, lerr = ledger.NewFromEnv(ctx, logger)
	}()
	go func() {
		defer wg.Done()
		fc, _, ferr = ipfs.NewFromEnv(ctx, logger)
	}()
	wg.Wait()

	if lerr != nil {
		return nil, lerr
	}
	if ferr != nil {
		return nil, ferr
	}

	logger.Info("medichain: connectivity established",
		zap.String("ledger_mode", lc.Mode()),
		zap.String("store_mode", fc.Mode()))
	return &App{Ledger: lc, Files: fc}, nil
}
