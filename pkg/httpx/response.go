package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/pkg/slogx"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// Envelope is the body shape of every API response.
type Envelope struct {
	Success  bool       `json:"success"`
	Data     any        `json:"data,omitempty"`
	Error    *ErrorBody `json:"error,omitempty"`
	Metadata Metadata   `json:"metadata"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Metadata struct {
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// NewMetadata stamps the current time and the request's correlation id.
func NewMetadata(r *http.Request) Metadata {
	return Metadata{
		Timestamp:     time.Now().UTC(),
		CorrelationID: slogx.CorrelationID(r.Context()),
	}
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteData writes a successful envelope carrying data.
func WriteData(w http.ResponseWriter, r *http.Request, code int, data any) {
	WriteJSON(w, code, Envelope{
		Success:  true,
		Data:     data,
		Metadata: NewMetadata(r),
	})
}

// WriteError writes a failure envelope. An *APIError is rendered as is;
// anything else is logged and reported as a generic internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		slogx.FromContext(r.Context()).Error("unhandled error", "error", err)
		apiErr = ErrInternal
	}
	WriteJSON(w, apiErr.Status, Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
		Metadata: NewMetadata(r),
	})
}

// DecodeJSON reads a JSON request body into v, bounded by MaxBodyBytes.
// Failures are returned as a VALIDATION_ERROR.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return ErrValidation.WithMessage("content type must be application/json")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrValidation.WithMessage("request body is empty")
		}
		return ErrValidation.WithMessage(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}
