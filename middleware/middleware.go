// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/danielhkuo/scheduling-poll/auth"
	"github.com/danielhkuo/scheduling-poll/models"
)

// Response formats
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatXML  = "xml"
)

const (
	RequestIDHeader = "X-Request-ID"
	flashCookie     = "flash"
)

type requestIDKey struct{}

// statusRecorder captures the status code for the access log
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithLogging wraps a handler with request logging and a request id
func WithLogging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID))

			logger.Debug("request started",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote", r.RemoteAddr),
			)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Info("request completed",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

// RequestID returns the id assigned by WithLogging
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// UserFinder resolves hashed API keys to users
type UserFinder interface {
	FindUserByAPIKeyHash(ctx context.Context, apiKeyHash string) (*models.User, error)
}

// Authenticate resolves the API key, if any, and stores the acting user in
// the request context. Requests without a key continue anonymously; a key
// that matches no user is rejected.
func Authenticate(users UserFinder, salt string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := auth.APIKeyFromRequest(r)
			if errors.Is(err, auth.ErrMissingAPIKey) {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindUserByAPIKeyHash(r.Context(), auth.HashAPIKey(key, salt))
			if err != nil {
				logger.Debug("api key rejected", zap.Error(err), zap.String("request_id", RequestID(r.Context())))
				ErrorResponse(w, r, http.StatusUnauthorized, auth.ErrInvalidAPIKey.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// RequireUser rejects anonymous requests
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFromContext(r.Context()) == nil {
			ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		next(w, r)
	}
}

// RequestFormat picks the response format from the path extension, the
// "format" query parameter, then the Accept header. HTML is the default.
func RequestFormat(r *http.Request) string {
	if ext := strings.TrimPrefix(mux.Vars(r)["format"], "."); ext != "" {
		return ext
	}
	switch f := r.URL.Query().Get("format"); f {
	case FormatJSON, FormatXML, FormatHTML:
		return f
	}

	return acceptFormat(r.Header.Get("Accept"))
}

var acceptFormats = map[string]string{
	"text/html":             FormatHTML,
	"application/xhtml+xml": FormatHTML,
	"text/*":                FormatHTML,
	"*/*":                   FormatHTML,
	"application/json":      FormatJSON,
	"application/xml":       FormatXML,
	"text/xml":              FormatXML,
}

// acceptFormat returns the format of the highest weighted known media range.
// Ties go to the range listed first, so browsers (text/html before
// application/xml;q=0.9) get HTML.
func acceptFormat(accept string) string {
	best, bestQ := FormatHTML, 0.0
	for _, part := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		format, ok := acceptFormats[mediaType]
		if !ok {
			continue
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			if q, err = strconv.ParseFloat(raw, 64); err != nil {
				continue
			}
		}
		if q > bestQ {
			best, bestQ = format, q
		}
	}
	return best
}

// IsAPI reports whether the request asks for a machine-readable format
func IsAPI(r *http.Request) bool {
	return RequestFormat(r) != FormatHTML
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// XMLResponse writes an XML response with declaration
func XMLResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(data)
}

// Respond writes data as XML for XML requests and as JSON otherwise
func Respond(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	if RequestFormat(r) == FormatXML {
		XMLResponse(w, statusCode, data)
		return
	}
	JSONResponse(w, statusCode, data)
}

// ErrorResponse writes an error in the request's format. HTML requests get
// plain text; handlers render their own pages where it matters.
func ErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	if RequestFormat(r) == FormatHTML {
		http.Error(w, message, statusCode)
		return
	}
	Respond(w, r, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// IsXMLBody reports whether the request body is XML
func IsXMLBody(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/xml") || strings.HasPrefix(ct, "text/xml")
}

// ParseXMLBody parses the request body into the given struct
func ParseXMLBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return xml.NewDecoder(r.Body).Decode(v)
}

// IsJSONBody reports whether the request body is JSON
func IsJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// SetFlash stores a one-shot message shown on the next HTML page
func SetFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + ":" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns and clears the pending flash message
func PopFlash(w http.ResponseWriter, r *http.Request) (kind, message string) {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return "", ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", ""
	}
	kind, message, _ = strings.Cut(value, ":")
	return kind, message
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+auth.APIKeyHeader)
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
