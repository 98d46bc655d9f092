package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	j "github.com/goccy/go-json"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/source"
)

// ErrUnsupportedMediaType is returned by DecodeRequest for bodies it cannot read.
var ErrUnsupportedMediaType = errors.New("middleware: unsupported media type")

// MaxBodyBytes caps request bodies read by DecodeRequest.
const MaxBodyBytes = 1 << 20

// ctxKeyParsed is a typed context key for storing parsed values.
// Using a generic struct type ensures uniqueness per T.
type ctxKeyParsed[T any] struct{}

// ContextWithParsed attaches a parsed value to the context.
func ContextWithParsed[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyParsed[T]{}, v)
}

// ParsedFromContext retrieves a parsed value from context.
func ParsedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyParsed[T]{}).(T)
	return v, ok
}

// IssueView is the JSON shape of one issue.
type IssueView struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// Payload is the 422 response body.
type Payload struct {
	Issues []IssueView `json:"issues"`
	formskema.FlatIssues
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(issues formskema.Issues) Payload {
	views := make([]IssueView, len(issues))
	for i, it := range issues {
		views[i] = IssueView{Path: it.Pointer(), Code: it.Code, Message: it.Message, Params: it.Params}
	}
	return Payload{Issues: views, FlatIssues: issues.Flatten()}
}

// DecodeRequest reads the raw input of r: the query string for GET and
// HEAD, otherwise a JSON, YAML or form body.
func DecodeRequest(r *http.Request) (any, error) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return source.Values(r.URL.Query()), nil
	}
	ct := r.Header.Get("Content-Type")
	mt, _, err := mime.ParseMediaType(ct)
	if ct != "" && err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, ct)
	}
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	switch mt {
	case "", "application/json":
		return source.JSONReader(body)
	case "application/yaml", "application/x-yaml", "text/yaml":
		b, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		return source.YAML(b)
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = body
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		return source.Values(r.PostForm), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt)
}

// Failure describes the response for a request that did not validate.
type Failure struct {
	Status int
	Body   any
}

// Validate decodes r and parses it with s. On failure it returns the status
// and body to respond with: 415 for unreadable media types, 400 for malformed
// bodies and 422 with an ErrorPayload for validation issues.
func Validate[T any](r *http.Request, s formskema.Schema[T]) (T, *Failure) {
	var zero T
	raw, err := DecodeRequest(r)
	if err != nil {
		if errors.Is(err, ErrUnsupportedMediaType) {
			return zero, &Failure{Status: http.StatusUnsupportedMediaType, Body: map[string]any{"error": err.Error()}}
		}
		if iss, ok := formskema.AsIssues(err); ok {
			return zero, &Failure{Status: http.StatusBadRequest, Body: ErrorPayload(iss)}
		}
		return zero, &Failure{Status: http.StatusBadRequest, Body: map[string]any{"error": err.Error()}}
	}
	res := s.SafeParse(r.Context(), raw)
	v, ok := res.Value()
	if !ok {
		return zero, &Failure{Status: http.StatusUnprocessableEntity, Body: ErrorPayload(res.Issues())}
	}
	return v, nil
}

// Handler validates requests against s before calling next with the parsed
// value in the request context.
func Handler[T any](s formskema.Schema[T], next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, fail := Validate(r, s)
		if fail != nil {
			WriteJSON(w, fail.Status, fail.Body)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithParsed(r.Context(), v)))
	})
}

// WriteJSON encodes body with go-json.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = j.NewEncoder(w).Encode(body)
}
