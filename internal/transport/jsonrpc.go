package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error codes from the JSON-RPC 2.0 spec. Domain failures are reported as
// ErrInternal with the mapped API error in the message; the other codes cover
// envelope problems only.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
)

// Request is an incoming JSON-RPC 2.0 call. Params stay raw until the method
// handler knows which type to decode into.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

func (r Request) valid() bool {
	return r.JSONRPC == "2.0" && r.Method != ""
}

// Response is an outgoing JSON-RPC 2.0 reply. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error is the JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ParseRequest decodes one request from body and checks the envelope.
func ParseRequest(body io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("parse error: %w", err)
	}
	if !req.valid() {
		return Request{}, fmt.Errorf("invalid request")
	}
	return req, nil
}

// WriteResult writes a success response for the given request ID.
func WriteResult(w http.ResponseWriter, id any, result any) {
	writeResponse(w, Response{JSONRPC: "2.0", Result: result, ID: id})
}

// WriteError writes an error response for the given request ID.
func WriteError(w http.ResponseWriter, id any, code int, message string, data any) {
	writeResponse(w, Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	})
}

// writeResponse always answers 200: JSON-RPC failures live in the envelope,
// not in the HTTP status.
func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
