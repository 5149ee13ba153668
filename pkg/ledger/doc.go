// Package ledger provides the client for the MediChain smart contract. The
// public Client type exposes the contract's read and write operations through
// a Backend interface with two implementations: an Ethereum-bound backend
// built on go-ethereum, and an in-memory simulated backend used when no live
// deployment can be reached. Resolve performs the one-shot endpoint
// negotiation (provider dial, chain-ID query, deployment lookup, liveness
// probe) and degrades to the simulated backend on any failure; it never
// returns an error. Callers invoke the same operations regardless of which
// backend is active.
package ledger
