package ipfs

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

// CIDPrefix is the prefix of every identifier the simulation produces
// (CIDv0, base58 sha2-256).
const CIDPrefix = "Qm"

const simVersion = "0.0.0-sim"

// NewSimulated returns a client backed by the in-memory store simulation.
// Add fabricates a fresh CID on every call and never deduplicates; Cat
// synthesizes deterministic placeholder content for any CID, whether or not
// it was ever added. Neither operation fails.
func NewSimulated() *Client {
	return NewWithBackend(&simStore{}, ModeMock)
}

// simStore keeps no state: identifiers are random, content is a pure
// function of the requested CID.
type simStore struct{}

func (s *simStore) Add(ctx context.Context, _ []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("ipfs: generate simulated cid: %w", err)
	}
	sum, err := mh.Sum(nonce[:], mh.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("ipfs: hash simulated cid: %w", err)
	}
	return cid.NewCidV0(sum).String(), nil
}

func (s *simStore) Cat(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte("Simulated medical record stored at " + id + "\n"), nil
}

func (s *simStore) Version(ctx context.Context) (*VersionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &VersionInfo{Version: simVersion}, nil
}
