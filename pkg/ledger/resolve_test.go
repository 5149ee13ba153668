package ledger_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ddhhhkj/medichain-fixed/internal/jsonrpc"
	"github.com/ddhhhkj/medichain-fixed/pkg/ledger"
	"github.com/ddhhhkj/medichain-fixed/pkg/ledger/deploy"
)

const testAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

// newNodeStub serves the two JSON-RPC methods resolution needs: eth_chainId
// and eth_call for the name() probe. failProbe makes the probe revert.
func newNodeStub(t *testing.T, chainIDHex string, failProbe bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := jsonrpc.DecodeRequest(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		switch req.Method {
		case "eth_chainId":
			_ = jsonrpc.WriteResult(w, req, chainIDHex)
		case "eth_call":
			if failProbe {
				_ = jsonrpc.WriteError(w, req, 3, "execution reverted")
				return
			}
			out, err := ledger.ContractABI().Methods["name"].Outputs.Pack("MediChain")
			if err != nil {
				t.Errorf("pack name output: %v", err)
				_ = jsonrpc.WriteError(w, req, -32000, "pack failed")
				return
			}
			_ = jsonrpc.WriteResult(w, req, hexutil.Encode(out))
		default:
			_ = jsonrpc.WriteError(w, req, -32601, "method not found")
		}
	}))
}

func deployedTable(t *testing.T, chainID, address string) *deploy.Table {
	t.Helper()
	table, err := deploy.Parse([]byte("networks:\n  \"" + chainID + "\":\n    address: \"" + address + "\"\n"))
	if err != nil {
		t.Fatalf("parse table: %v", err)
	}
	return table
}

func TestResolveReturnsRealContract(t *testing.T) {
	srv := newNodeStub(t, "0x1691", false) // chain 5777
	defer srv.Close()

	client := ledger.Resolve(context.Background(), ledger.Config{
		RPCURL:      srv.URL,
		Deployments: deployedTable(t, "5777", testAddress),
	})

	if client.Mode() != ledger.ModeEth {
		t.Fatalf("expected eth mode, got %q", client.Mode())
	}
	if client.Address() != common.HexToAddress(testAddress) {
		t.Fatalf("bound to wrong address: %s", client.Address().Hex())
	}
	name, err := client.Name(context.Background())
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "MediChain" {
		t.Fatalf("unexpected contract name %q", name)
	}
}

func TestResolveFallsBackWhenNoDeployment(t *testing.T) {
	srv := newNodeStub(t, "0x1691", false)
	defer srv.Close()

	// Table has no entry for chain 5777.
	client := ledger.Resolve(context.Background(), ledger.Config{
		RPCURL:      srv.URL,
		Deployments: deployedTable(t, "1", testAddress),
	})
	if client.Mode() != ledger.ModeMock {
		t.Fatalf("expected mock mode, got %q", client.Mode())
	}

	// The degraded handle keeps working: login yields a usable role.
	role, err := client.Login(context.Background(), common.HexToAddress("0x1111111111111111111111111111111111111111"))
	if err != nil {
		t.Fatalf("Login on simulated handle: %v", err)
	}
	if role == ledger.RoleNone {
		t.Fatalf("expected a non-empty role")
	}
}

func TestResolveFallsBackOnSentinelAddress(t *testing.T) {
	srv := newNodeStub(t, "0x1691", false)
	defer srv.Close()

	client := ledger.Resolve(context.Background(), ledger.Config{
		RPCURL:      srv.URL,
		Deployments: deployedTable(t, "5777", "0x0000000000000000000000000000000000000000"),
	})
	if client.Mode() != ledger.ModeMock {
		t.Fatalf("expected mock mode for sentinel address, got %q", client.Mode())
	}
}

func TestResolveFallsBackWhenProbeFails(t *testing.T) {
	srv := newNodeStub(t, "0x1691", true)
	defer srv.Close()

	client := ledger.Resolve(context.Background(), ledger.Config{
		RPCURL:      srv.URL,
		Deployments: deployedTable(t, "5777", testAddress),
	})
	if client.Mode() != ledger.ModeMock {
		t.Fatalf("expected mock mode when probe fails, got %q", client.Mode())
	}
}

func TestResolveFallsBackWhenProviderUnreachable(t *testing.T) {
	// Grab a port with nothing listening on it.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	deadURL := "http://" + lis.Addr().String()
	lis.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := ledger.Resolve(ctx, ledger.Config{
		RPCURL:      deadURL,
		Deployments: deployedTable(t, "5777", testAddress),
	})
	if client.Mode() != ledger.ModeMock {
		t.Fatalf("expected mock mode, got %q", client.Mode())
	}
}
