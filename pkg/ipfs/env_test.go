package ipfs_test

import (
	"context"
	"testing"

	"github.com/ddhhhkj/medichain-fixed/pkg/ipfs"
)

func TestNewFromEnvMock(t *testing.T) {
	t.Setenv("MEDICHAIN_MODE", "mock")

	client, mode, err := ipfs.NewFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if mode != ipfs.ModeMock || client.Mode() != ipfs.ModeMock {
		t.Fatalf("expected mock mode, got %q/%q", mode, client.Mode())
	}
}

func TestNewFromEnvAutoReachable(t *testing.T) {
	srv, _ := newDaemonStub(t)
	defer srv.Close()

	t.Setenv("MEDICHAIN_MODE", "auto")
	t.Setenv("MEDICHAIN_IPFS_API_URL", srv.URL)

	_, mode, err := ipfs.NewFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if mode != ipfs.ModeHTTP {
		t.Fatalf("expected http mode, got %q", mode)
	}
}

func TestNewFromEnvLiveRequiresDaemon(t *testing.T) {
	t.Setenv("MEDICHAIN_MODE", "live")
	t.Setenv("MEDICHAIN_IPFS_API_URL", "http://127.0.0.1:1")
	t.Setenv("MEDICHAIN_IPFS_TIMEOUT", "100ms")

	if _, _, err := ipfs.NewFromEnv(context.Background(), nil); err == nil {
		t.Fatalf("expected error in forced live mode")
	}
}

func TestNewFromEnvBadTimeout(t *testing.T) {
	t.Setenv("MEDICHAIN_MODE", "mock")
	t.Setenv("MEDICHAIN_IPFS_TIMEOUT", "three seconds")

	if _, _, err := ipfs.NewFromEnv(context.Background(), nil); err == nil {
		t.Fatalf("expected error for malformed timeout")
	}
}

func TestNewFromEnvUnsupportedMode(t *testing.T) {
	t.Setenv("MEDICHAIN_MODE", "sneakernet")

	if _, _, err := ipfs.NewFromEnv(context.Background(), nil); err == nil {
		t.Fatalf("expected error for unsupported mode")
	}
}
