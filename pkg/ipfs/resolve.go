package ipfs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ddhhhkj/medichain-fixed/internal/httpx"
)

// Defaults matching a local IPFS daemon.
const (
	DefaultAPIURL       = "http://127.0.0.1:5001"
	DefaultProbeTimeout = 3 * time.Second
)

// Config controls content-store resolution.
type Config struct {
	// APIURL is the IPFS HTTP API endpoint. Defaults to DefaultAPIURL.
	APIURL string
	// ProbeTimeout bounds the single liveness probe. Defaults to
	// DefaultProbeTimeout.
	ProbeTimeout time.Duration
	// Logger receives resolution diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Resolve probes the configured endpoint once and returns the resolved
// handle: HTTP-backed on success, simulated on any failure. It never returns
// an error, never retries, and never blocks past the probe timeout.
func Resolve(ctx context.Context, cfg Config) *Client {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	client, err := New(apiURL, httpx.WithLogger(log), httpx.WithTimeout(timeout))
	if err != nil {
		log.Warn("ipfs: falling back to simulation",
			zap.String("stage", "store-unreachable"),
			zap.String("api_url", apiURL),
			zap.Error(err))
		return NewSimulated()
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	info, err := client.Version(probeCtx)
	if err != nil {
		log.Warn("ipfs: falling back to simulation",
			zap.String("stage", "store-unreachable"),
			zap.String("api_url", apiURL),
			zap.Duration("probe_timeout", timeout),
			zap.Error(err))
		return NewSimulated()
	}

	log.Info("ipfs: content store resolved",
		zap.String("api_url", apiURL),
		zap.String("version", info.Version))
	return client
}
