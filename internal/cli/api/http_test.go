package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPostJSON_SendsToken_And_ParsesBody(t *testing.T) {
	// test server проверяет Authorization и JSON
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization header missing token, got: %q", got)
		}
		var m map[string]any
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Errorf("bad json: %v", err)
		}
		if m["x"] != float64(1) { // JSON number → float64
			t.Errorf("unexpected payload: %#v", m)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{\"ok\":true}\n"))
	}))
	defer ts.Close()

	resp, body, err := PostJSON(context.Background(), ts.URL+"/api", map[string]any{"x": 1}, "tok123")
	if err != nil {
		t.Fatalf("PostJSON err: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	// тело обрезано по краям
	if string(body) != `{"ok":true}` {
		t.Fatalf("body: %q", string(body))
	}
}

func TestDoJSON_NoBodyNoToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method: %s", r.Method)
		}
		if r.Header.Get("Authorization") != "" || r.Header.Get("Content-Type") != "" {
			t.Errorf("unexpected headers: %v", r.Header)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	resp, body, err := DoJSON(context.Background(), http.MethodGet, ts.URL, nil, "")
	if err != nil {
		t.Fatalf("DoJSON err: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent || len(body) != 0 {
		t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
	}
}

func TestPostJSON_JSONMarshalError(t *testing.T) {
	// chan в payload вызовет ошибку json.Marshal
	_, _, err := PostJSON(context.Background(), "http://example.invalid", map[string]any{"c": make(chan int)}, "")
	if err == nil {
		t.Fatalf("expected marshal error")
	}
}

func TestDoJSON_NetworkError(t *testing.T) {
	if _, _, err := DoJSON(context.Background(), http.MethodGet, "http://127.0.0.1:1", nil, ""); err == nil {
		t.Fatalf("expected network error")
	}
}

func TestEndpoint(t *testing.T) {
	cases := []struct {
		base, path string
		q          map[string]string
		want       string
	}{
		{"http://h:1/", "/notes", nil, "http://h:1/notes"},
		{"http://h:1", "/notes", map[string]string{"tag": "", "search": "milk"}, "http://h:1/notes?search=milk"},
		{"http://h:1", "/notes/search", map[string]string{"query": "a b"}, "http://h:1/notes/search?query=a+b"},
	}
	for _, c := range cases {
		if got := Endpoint(c.base, c.path, c.q); got != c.want {
			t.Fatalf("Endpoint(%q,%q,%v) = %q, want %q", c.base, c.path, c.q, got, c.want)
		}
	}
}
