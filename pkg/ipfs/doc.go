// Package ipfs provides the content-store client used to persist medical
// record contents off-chain. The HTTP backend speaks the IPFS HTTP API
// (add, cat, and version as the liveness probe); the simulated backend
// fabricates CID-shaped identifiers and deterministic placeholder content
// so the application keeps working without a daemon. Resolve probes the
// configured endpoint once, within a bounded timeout, and falls back to the
// simulation on any failure; it never returns an error.
package ipfs
