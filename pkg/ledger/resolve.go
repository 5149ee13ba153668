package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/ddhhhkj/medichain-fixed/pkg/ledger/deploy"
)

// DefaultRPCURL is the Ganache GUI endpoint used when no provider or RPC URL
// is configured.
const DefaultRPCURL = "http://127.0.0.1:7545"

// Config controls ledger resolution.
type Config struct {
	// Provider, when set, is used instead of dialing RPCURL.
	Provider Provider
	// RPCURL is the fallback JSON-RPC endpoint. Defaults to DefaultRPCURL.
	RPCURL string
	// Deployments overrides the embedded deployment table.
	Deployments *deploy.Table
	// Transactor is passed through to the Ethereum backend for writes.
	Transactor *bind.TransactOpts
	// Sim tunes the simulated fallback.
	Sim *SimOptions
	// Logger receives resolution diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Resolve negotiates a usable contract endpoint and returns the resolved
// handle. Every failure degrades to the simulated variant; Resolve never
// returns an error and never retries. Which stage failed is reported only
// through the logger.
func Resolve(ctx context.Context, cfg Config) *Client {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	provider := cfg.Provider
	if provider == nil {
		rpcURL := cfg.RPCURL
		if rpcURL == "" {
			rpcURL = DefaultRPCURL
		}
		dialed, err := ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			log.Warn("ledger: falling back to simulation",
				zap.String("stage", "provider-unavailable"),
				zap.String("rpc_url", rpcURL),
				zap.Error(err))
			return NewSimulated(cfg.Sim)
		}
		provider = dialed
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		log.Warn("ledger: falling back to simulation",
			zap.String("stage", "network-query-failed"),
			zap.Error(err))
		return NewSimulated(cfg.Sim)
	}

	table := cfg.Deployments
	if table == nil {
		table = deploy.Default()
	}
	record, ok := table.Lookup(chainID)
	if !ok || !record.Deployed() {
		log.Info("ledger: falling back to simulation",
			zap.String("stage", "no-deployment"),
			zap.String("chain_id", chainID.String()))
		return NewSimulated(cfg.Sim)
	}

	var ethOpts []EthOption
	if cfg.Transactor != nil {
		ethOpts = append(ethOpts, WithTransactor(cfg.Transactor))
	}
	client := Bind(record.Address, provider, ethOpts...)
	if _, err := client.Name(ctx); err != nil {
		log.Warn("ledger: falling back to simulation",
			zap.String("stage", "contract-not-live"),
			zap.String("chain_id", chainID.String()),
			zap.String("address", record.Address.Hex()),
			zap.Error(err))
		return NewSimulated(cfg.Sim)
	}

	log.Info("ledger: contract resolved",
		zap.String("chain_id", chainID.String()),
		zap.String("address", record.Address.Hex()))
	return client
}
