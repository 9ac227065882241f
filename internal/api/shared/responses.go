package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/product-api/internal/config"
	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/redact"
)

// ContentTypeJSON is sent with every response.
const ContentTypeJSON = "application/json; charset=utf-8"

// MessageResponse is the legacy error body, also used as the error member of
// an envelope.
type MessageResponse struct {
	Message          string   `json:"message"`
	ValidationErrors []string `json:"validationErrors,omitempty"`
}

// SuccessResponse is the legacy body of a successful delete.
type SuccessResponse struct {
	Success string `json:"success"`
}

// Envelope is the discriminated response body used by the envelope format.
type Envelope struct {
	Status string           `json:"status"`
	Data   any              `json:"data,omitempty"`
	Error  *MessageResponse `json:"error,omitempty"`
}

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

// responseOptions holds configurable options for error responses.
type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level. Use it when a client-facing 4xx hides a
// server-side failure, such as a database error.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// Responder writes response bodies in the configured format.
type Responder struct {
	format string
}

// NewResponder creates a Responder for format, either
// config.ResponseFormatLegacy or config.ResponseFormatEnvelope.
// Anything else falls back to the legacy format.
func NewResponder(format string) *Responder {
	if format != config.ResponseFormatEnvelope {
		format = config.ResponseFormatLegacy
	}
	return &Responder{format: format}
}

// Format returns the active response format.
func (rs *Responder) Format() string {
	return rs.format
}

// Enveloped reports whether responses are wrapped in an Envelope.
func (rs *Responder) Enveloped() bool {
	return rs.format == config.ResponseFormatEnvelope
}

// MutationNotFoundStatus is the status for a missing product on update or
// delete: 400 in the legacy format, 404 in the envelope format.
func (rs *Responder) MutationNotFoundStatus() int {
	if rs.Enveloped() {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// Data writes a successful response carrying data.
func (rs *Responder) Data(w http.ResponseWriter, r *http.Request, status int, data any) {
	if rs.Enveloped() {
		RespondWithJSON(w, r, status, Envelope{Status: StatusSuccess, Data: data})
		return
	}
	RespondWithJSON(w, r, status, data)
}

// Success writes a successful response that only carries a message, such as
// the result of a delete.
func (rs *Responder) Success(w http.ResponseWriter, r *http.Request, status int, message string) {
	if rs.Enveloped() {
		RespondWithJSON(w, r, status, Envelope{
			Status: StatusSuccess,
			Data:   MessageResponse{Message: message},
		})
		return
	}
	RespondWithJSON(w, r, status, SuccessResponse{Success: message})
}

// Error writes an error response with the given status code and message.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rs.write(w, r, status, MessageResponse{Message: message})
}

// ValidationError writes a 400 response listing every violated rule.
func (rs *Responder) ValidationError(w http.ResponseWriter, r *http.Request, message string, messages []string) {
	rs.write(w, r, http.StatusBadRequest, MessageResponse{
		Message:          message,
		ValidationErrors: messages,
	})
}

// ErrorAndLog writes an error response and also logs the detailed error.
// The client only sees userMessage; err is redacted and logged.
//
// Log level strategy:
// - 5xx errors: Always logged at ERROR level
// - 4xx errors: By default logged at DEBUG level
// - 4xx errors with WithElevatedLogLevel(): WARN level
func (rs *Responder) ErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	logAttrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}

	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if responseOpts.elevateLogLevel && status >= http.StatusBadRequest {
		logLevel = slog.LevelWarn
	}

	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	rs.Error(w, r, status, userMessage)
}

func (rs *Responder) write(w http.ResponseWriter, r *http.Request, status int, body MessageResponse) {
	if rs.Enveloped() {
		RespondWithJSON(w, r, status, Envelope{Status: StatusError, Error: &body})
		return
	}
	RespondWithJSON(w, r, status, body)
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}
