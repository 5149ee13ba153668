package ipfs

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	envMode    = "MEDICHAIN_MODE"
	envAPIURL  = "MEDICHAIN_IPFS_API_URL"
	envTimeout = "MEDICHAIN_IPFS_TIMEOUT"

	modeAuto = "auto"
	modeLive = "live"
)

// NewFromEnv initialises a content-store client from MEDICHAIN_* environment
// variables and returns the resolved mode ("http" or "mock"). In auto mode
// resolution degrades silently; in live mode an unreachable daemon is an
// error.
func NewFromEnv(ctx context.Context, logger *zap.Logger) (client *Client, mode string, err error) {
	mode = strings.ToLower(strings.TrimSpace(os.Getenv(envMode)))

	cfg := Config{
		APIURL: strings.TrimSpace(os.Getenv(envAPIURL)),
		Logger: logger,
	}
	if raw := strings.TrimSpace(os.Getenv(envTimeout)); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, "", fmt.Errorf("ipfs: invalid %s value %q: %w", envTimeout, raw, err)
		}
		cfg.ProbeTimeout = timeout
	}

	switch mode {
	case "", modeAuto:
		client = Resolve(ctx, cfg)
		return client, client.Mode(), nil
	case modeLive:
		client = Resolve(ctx, cfg)
		if client.Mode() != ModeHTTP {
			return nil, "", fmt.Errorf("ipfs: live mode requires a reachable daemon")
		}
		return client, ModeHTTP, nil
	case ModeMock:
		return NewSimulated(), ModeMock, nil
	default:
		return nil, "", fmt.Errorf("ipfs: unsupported %s value %q", envMode, mode)
	}
}
