package medichain_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ddhhhkj/medichain-fixed/pkg/ipfs"
	"github.com/ddhhhkj/medichain-fixed/pkg/ledger"
	"github.com/ddhhhkj/medichain-fixed/pkg/medichain"
)

// degradedConfig points both resolvers at endpoints with nothing listening.
func degradedConfig() medichain.Config {
	return medichain.Config{
		Ledger: ledger.Config{
			RPCURL: "http://127.0.0.1:1",
			Sim: &ledger.SimOptions{
				AcceptDelay:  time.Millisecond,
				ConfirmDelay: 5 * time.Millisecond,
			},
		},
		Store: ipfs.Config{
			APIURL:       "http://127.0.0.1:1",
			ProbeTimeout: 200 * time.Millisecond,
		},
	}
}

func TestConnectDegradesToSimulations(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app := medichain.Connect(ctx, degradedConfig())

	if app.Ledger.Mode() != ledger.ModeMock {
		t.Fatalf("ledger mode: got %q", app.Ledger.Mode())
	}
	if app.Files.Mode() != ipfs.ModeMock {
		t.Fatalf("store mode: got %q", app.Files.Mode())
	}

	// Degraded mode is fully usable end to end: store a record, reference it
	// from a registration, watch the write confirm.
	cid, err := app.Files.Add(ctx, bytes.NewReader([]byte("record")))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !strings.HasPrefix(cid, ipfs.CIDPrefix) {
		t.Fatalf("cid %q lacks prefix", cid)
	}

	pending, err := app.Ledger.RegisterPatient(ctx, ledger.RegisterPatientParams{Name: "Alice", RecordCID: cid})
	if err != nil {
		t.Fatalf("RegisterPatient: %v", err)
	}
	conf, err := pending.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if conf.TxHash == "" {
		t.Fatalf("empty tx hash")
	}

	role, err := app.Ledger.Login(ctx, common.HexToAddress("0x1111111111111111111111111111111111111111"))
	if err != nil || role == ledger.RoleNone {
		t.Fatalf("Login: %v (role %s)", err, role)
	}
}

func TestSessionStateLifecycle(t *testing.T) {
	app := medichain.Connect(context.Background(), degradedConfig())

	if app.Account() != "" || app.Token() != "" {
		t.Fatalf("session must start empty, got %q/%q", app.Account(), app.Token())
	}

	app.SetAccount("0x1111111111111111111111111111111111111111")
	app.SetToken("session-token")
	if app.Account() == "" || app.Token() == "" {
		t.Fatalf("session not recorded")
	}

	app.ClearSession()
	if app.Account() != "" || app.Token() != "" {
		t.Fatalf("ClearSession did not reset state")
	}
}

func TestSessionStateConcurrentAccess(t *testing.T) {
	app := medichain.Connect(context.Background(), degradedConfig())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			app.SetAccount("0x2222222222222222222222222222222222222222")
		}()
		go func() {
			defer wg.Done()
			_ = app.Account()
		}()
	}
	wg.Wait()
}

func TestNewFromEnvMockMode(t *testing.T) {
	t.Setenv("MEDICHAIN_MODE", "mock")

	app, err := medichain.NewFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if app.Ledger.Mode() != ledger.ModeMock || app.Files.Mode() != ipfs.ModeMock {
		t.Fatalf("expected both mocks, got %q/%q", app.Ledger.Mode(), app.Files.Mode())
	}
}

func TestNewFromEnvLiveModeFails(t *testing.T) {
	t.Setenv("MEDICHAIN_MODE", "live")
	t.Setenv("MEDICHAIN_RPC_URL", "http://127.0.0.1:1")
	t.Setenv("MEDICHAIN_IPFS_API_URL", "http://127.0.0.1:1")
	t.Setenv("MEDICHAIN_IPFS_TIMEOUT", "100ms")

	if _, err := medichain.NewFromEnv(context.Background(), nil); err == nil {
		t.Fatalf("expected error when live backends are unreachable")
	}
}
