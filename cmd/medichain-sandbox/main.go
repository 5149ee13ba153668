// Command medichain-sandbox runs a local stand-in for both MediChain
// backends: an in-memory content store behind the IPFS HTTP API surface, and
// a minimal Ethereum JSON-RPC endpoint answering eth_chainId and the name()
// liveness call. It lets the resolvers exercise their live paths without a
// chain or daemon running.
package main

import (
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
	"go.uber.org/zap"

	"github.com/ddhhhkj/medichain-fixed/internal/jsonrpc"
	"github.com/ddhhhkj/medichain-fixed/pkg/ledger"
)

const contractName = "MediChain"

func main() {
	addr := flag.String("addr", ":8747", "listen address")
	chainID := flag.Int64("chain-id", 5777, "chain ID reported by the RPC stub")
	contract := flag.String("contract", "0x5FbDB2315678afecb367f032d93F642f64180aa3", "contract address the stub answers for")
	latency := flag.Duration("latency", 0, "artificial latency injected per request")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !common.IsHexAddress(*contract) {
		log.Fatal("invalid -contract address", zap.String("contract", *contract))
	}

	store := newMemStore()
	rpc := &rpcStub{
		chainID:  *chainID,
		contract: common.HexToAddress(*contract),
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v0/add", withMiddleware(log, *latency, store.handleAdd))
	mux.HandleFunc("/api/v0/cat", withMiddleware(log, *latency, store.handleCat))
	mux.HandleFunc("/api/v0/version", withMiddleware(log, *latency, store.handleVersion))
	mux.HandleFunc("/rpc", withMiddleware(log, *latency, rpc.handle))

	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	log.Info("medichain-sandbox listening", zap.String("addr", *addr))
	fmt.Println()
	fmt.Println("export MEDICHAIN_MODE=live")
	fmt.Printf("export MEDICHAIN_RPC_URL=http://%s/rpc\n", host)
	fmt.Printf("export MEDICHAIN_IPFS_API_URL=http://%s\n", host)
	fmt.Println("export MEDICHAIN_DEPLOYMENTS=deployments.yaml  # containing:")
	fmt.Println("#   networks:")
	fmt.Printf("#     %q:\n", fmt.Sprint(*chainID))
	fmt.Printf("#       address: %q\n", *contract)
	fmt.Println()

	server := &http.Server{Addr: *addr, Handler: mux}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server failed", zap.Error(err))
	}
}

func withMiddleware(log *zap.Logger, delay time.Duration, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		log.Debug("request",
			zap.String("request_id", uuid.NewString()),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		next(w, r)
	}
}

// memStore is a round-tripping content store: unlike the client-side
// simulation it remembers what was added, so add/cat behaves like a daemon.
type memStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (s *memStore) handleAdd(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sum, err := mh.Sum(nonce[:], mh.SHA2_256, -1)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	id := cid.NewCidV0(sum).String()

	s.mu.Lock()
	s.blobs[id] = data
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"Name": id, "Hash": id, "Size": len(data)})
}

func (s *memStore) handleCat(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("arg")
	s.mu.RLock()
	data, ok := s.blobs[id]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "merkledag: not found", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(data)
}

func (s *memStore) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"Version": "0.0.0-sandbox"})
}

// rpcStub answers just enough JSON-RPC for ledger resolution to land on the
// live path.
type rpcStub struct {
	chainID  int64
	contract common.Address
	log      *zap.Logger
}

func (s *rpcStub) handle(w http.ResponseWriter, r *http.Request) {
	req, err := jsonrpc.DecodeRequest(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch req.Method {
	case "eth_chainId":
		_ = jsonrpc.WriteResult(w, req, hexutil.EncodeBig(big.NewInt(s.chainID)))
	case "eth_call":
		s.handleCall(w, req)
	default:
		s.log.Debug("rpc method not stubbed", zap.String("method", req.Method))
		_ = jsonrpc.WriteError(w, req, -32601, "method not found")
	}
}

func (s *rpcStub) handleCall(w http.ResponseWriter, req *jsonrpc.Request) {
	var call struct {
		To   string `json:"to"`
		Data string `json:"data"`
	}
	if err := req.Param(0, &call); err != nil {
		_ = jsonrpc.WriteError(w, req, -32602, err.Error())
		return
	}
	if !common.IsHexAddress(call.To) || common.HexToAddress(call.To) != s.contract {
		_ = jsonrpc.WriteError(w, req, 3, "execution reverted: unknown contract")
		return
	}

	method := ledger.ContractABI().Methods["name"]
	if !strings.HasPrefix(strings.ToLower(call.Data), hexutil.Encode(method.ID)) {
		_ = jsonrpc.WriteError(w, req, 3, "execution reverted: method not stubbed")
		return
	}
	out, err := method.Outputs.Pack(contractName)
	if err != nil {
		_ = jsonrpc.WriteError(w, req, -32000, err.Error())
		return
	}
	_ = jsonrpc.WriteResult(w, req, hexutil.Encode(out))
}
