// Package jsonrpc implements the minimal JSON-RPC 2.0 envelope needed to
// emulate an Ethereum node endpoint: request decoding plus result and error
// responses. It backs the sandbox RPC stub and the resolver tests; it is not
// a general JSON-RPC implementation.
package jsonrpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Request is an incoming JSON-RPC 2.0 call.
type Request struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// Response is an outgoing JSON-RPC 2.0 reply.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// DecodeRequest reads a single JSON-RPC request from r.
func DecodeRequest(r io.Reader) (*Request, error) {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("jsonrpc: decode request: %w", err)
	}
	if req.Method == "" {
		return nil, fmt.Errorf("jsonrpc: request missing method")
	}
	return &req, nil
}

// Param decodes the i-th request parameter into out.
func (r *Request) Param(i int, out any) error {
	if i < 0 || i >= len(r.Params) {
		return fmt.Errorf("jsonrpc: %s: missing param %d", r.Method, i)
	}
	if err := json.Unmarshal(r.Params[i], out); err != nil {
		return fmt.Errorf("jsonrpc: %s: decode param %d: %w", r.Method, i, err)
	}
	return nil
}

// WriteResult writes a success response for req.
func WriteResult(w http.ResponseWriter, req *Request, result any) error {
	return write(w, Response{JSONRPC: "2.0", ID: req.ID, Result: result})
}

// WriteError writes an error response for req.
func WriteError(w http.ResponseWriter, req *Request, code int, message string) error {
	return write(w, Response{JSONRPC: "2.0", ID: req.ID, Error: &Error{Code: code, Message: message}})
}

func write(w http.ResponseWriter, resp Response) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}
