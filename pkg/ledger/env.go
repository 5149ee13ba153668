package ledger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ddhhhkj/medichain-fixed/internal/devseed"
	"github.com/ddhhhkj/medichain-fixed/pkg/ledger/deploy"
)

const (
	envMode        = "MEDICHAIN_MODE"
	envRPCURL      = "MEDICHAIN_RPC_URL"
	envDeployments = "MEDICHAIN_DEPLOYMENTS"
	envLedgerSeed  = "MEDICHAIN_LEDGER_SEED"

	modeAuto = "auto"
	modeLive = "live"
)

// NewFromEnv initialises a ledger client from MEDICHAIN_* environment
// variables and returns the resolved mode ("eth" or "mock"). In auto mode
// resolution degrades silently; in live mode an unreachable deployment is an
// error.
func NewFromEnv(ctx context.Context, logger *zap.Logger) (client *Client, mode string, err error) {
	mode = strings.ToLower(strings.TrimSpace(os.Getenv(envMode)))

	cfg := Config{
		RPCURL: strings.TrimSpace(os.Getenv(envRPCURL)),
		Logger: logger,
	}
	if path := strings.TrimSpace(os.Getenv(envDeployments)); path != "" {
		table, err := deploy.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("ledger: load deployments: %w", err)
		}
		cfg.Deployments = table
	}
	if path := strings.TrimSpace(os.Getenv(envLedgerSeed)); path != "" {
		seed, err := devseed.LoadLedgerSeed(path)
		if err != nil {
			return nil, "", fmt.Errorf("ledger: load mock seed: %w", err)
		}
		cfg.Sim = &SimOptions{Seed: seed}
	}

	switch mode {
	case "", modeAuto:
		client = Resolve(ctx, cfg)
		return client, client.Mode(), nil
	case modeLive:
		client = Resolve(ctx, cfg)
		if client.Mode() != ModeEth {
			return nil, "", fmt.Errorf("ledger: live mode requires a reachable deployment")
		}
		return client, ModeEth, nil
	case ModeMock:
		return NewSimulated(cfg.Sim), ModeMock, nil
	default:
		return nil, "", fmt.Errorf("ledger: unsupported %s value %q", envMode, mode)
	}
}
