package ipfs_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ddhhhkj/medichain-fixed/pkg/ipfs"
)

func TestSimulatedAddYieldsDistinctCIDs(t *testing.T) {
	ctx := context.Background()
	client := ipfs.NewSimulated()

	payload := []byte("same content")
	first, err := client.Add(ctx, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := client.Add(ctx, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first == second {
		t.Fatalf("simulation must never deduplicate, got %q twice", first)
	}
	for _, cid := range []string{first, second} {
		if !strings.HasPrefix(cid, ipfs.CIDPrefix) {
			t.Fatalf("cid %q lacks %q prefix", cid, ipfs.CIDPrefix)
		}
	}
}

func TestSimulatedCatDeterministic(t *testing.T) {
	ctx := context.Background()
	client := ipfs.NewSimulated()

	// Never added, still retrievable.
	const id = "QmNeverAdded"
	first, err := client.Cat(ctx, id)
	if err != nil {
		t.Fatalf("Cat: %v", err)
	}
	second, err := client.Cat(ctx, id)
	if err != nil {
		t.Fatalf("Cat: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("Cat must be a pure function of the cid: %q vs %q", first, second)
	}
	if !bytes.Contains(first, []byte(id)) {
		t.Fatalf("placeholder content should embed the cid: %q", first)
	}

	other, err := client.Cat(ctx, "QmSomethingElse")
	if err != nil {
		t.Fatalf("Cat: %v", err)
	}
	if bytes.Equal(first, other) {
		t.Fatalf("distinct cids should yield distinct content")
	}
}

func TestSimulatedVersion(t *testing.T) {
	client := ipfs.NewSimulated()
	if client.Mode() != ipfs.ModeMock {
		t.Fatalf("expected mock mode, got %q", client.Mode())
	}
	info, err := client.Version(context.Background())
	if err != nil || info.Version == "" {
		t.Fatalf("Version: %+v, %v", info, err)
	}
}

func TestSimulatedHonorsContext(t *testing.T) {
	client := ipfs.NewSimulated()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Add(ctx, bytes.NewReader([]byte("x"))); err == nil {
		t.Fatalf("expected context error from Add")
	}
	if _, err := client.Cat(ctx, "QmX"); err == nil {
		t.Fatalf("expected context error from Cat")
	}
}
