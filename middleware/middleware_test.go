package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	j "github.com/goccy/go-json"

	"github.com/reoring/formskema/dsl"
	"github.com/reoring/formskema/middleware"
)

type signup struct {
	Name string  `json:"name"`
	Age  float64 `json:"age"`
}

func signupSchema(t *testing.T) *dsl.Typed[signup] {
	t.Helper()
	s, err := dsl.Bind[signup](dsl.Object().
		Field("name", dsl.String().Trim().NonEmpty()).
		Field("age", dsl.Number().Coerce().Min(18)))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	return s
}

func serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, *signup) {
	t.Helper()
	var got *signup
	h := middleware.Handler(signupSchema(t), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.ParsedFromContext[signup](r.Context())
		if !ok {
			t.Fatalf("parsed value missing from context")
		}
		got = &v
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, got
}

func TestHandler_JSONSuccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":" Ann ","age":30}`))
	req.Header.Set("Content-Type", "application/json")
	rec, got := serve(t, req)
	if rec.Code != http.StatusNoContent || got == nil {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if got.Name != "Ann" || got.Age != 30 {
		t.Fatalf("unexpected value: %+v", got)
	}
}

func TestHandler_FormAndQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=Bo&age=21"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if rec, got := serve(t, req); rec.Code != http.StatusNoContent || got.Age != 21 {
		t.Fatalf("form: status=%d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/?name=Cy&age=40", nil)
	if rec, got := serve(t, req); rec.Code != http.StatusNoContent || got.Name != "Cy" {
		t.Fatalf("query: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHandler_ValidationFailure(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","age":"12"}`))
	req.Header.Set("Content-Type", "application/json")
	rec, got := serve(t, req)
	if rec.Code != http.StatusUnprocessableEntity || got != nil {
		t.Fatalf("status=%d", rec.Code)
	}
	var body struct {
		Issues      []middleware.IssueView `json:"issues"`
		FieldErrors map[string][]string    `json:"fieldErrors"`
	}
	if err := j.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Issues) != 2 {
		t.Fatalf("both fields should fail: %+v", body.Issues)
	}
	if len(body.FieldErrors["name"]) != 1 || len(body.FieldErrors["age"]) != 1 {
		t.Fatalf("field errors: %v", body.FieldErrors)
	}
}

func TestHandler_BadBodies(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	if rec, _ := serve(t, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON: status=%d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`<x/>`))
	req.Header.Set("Content-Type", "application/xml")
	if rec, _ := serve(t, req); rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("xml: status=%d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","name":"b","age":20}`))
	req.Header.Set("Content-Type", "application/json")
	if rec, _ := serve(t, req); rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "duplicate") {
		t.Fatalf("duplicate keys: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestDecodeRequest_YAML(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader("name: Di\nage: 50\n"))
	req.Header.Set("Content-Type", "application/yaml")
	v, err := middleware.DecodeRequest(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m := v.(map[string]any); m["name"] != "Di" || m["age"] != int64(50) {
		t.Fatalf("unexpected: %#v", v)
	}
}
