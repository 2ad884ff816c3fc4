package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func fakeAPI(t *testing.T, content string, gotReq *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/completions":
			if gotReq != nil {
				if err := json.NewDecoder(r.Body).Decode(gotReq); err != nil {
					t.Errorf("decode request: %v", err)
				}
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion",
				"created": 1,
				"model":   "gpt-4o-mini",
				"choices": []map[string]any{{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": content},
				}},
			})
		case "/models":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestComplete(t *testing.T) {
	var req map[string]any
	srv := fakeAPI(t, "  A warm paragraph.\n", &req)

	c := New(srv.URL, "test-key", "")
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}

	got, err := c.Complete(context.Background(), "sys", "usr", 0.65, 1200)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "A warm paragraph." {
		t.Errorf("Complete() = %q, want trimmed text", got)
	}

	if req["model"] != DefaultModel {
		t.Errorf("request model = %v", req["model"])
	}
	if mt, _ := req["max_tokens"].(float64); mt != 1200 {
		t.Errorf("max_tokens = %v, want 1200", req["max_tokens"])
	}
	msgs, _ := req["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "sys" {
		t.Errorf("first message = %v", first)
	}
}

func TestCompleteEmptyAnswer(t *testing.T) {
	srv := fakeAPI(t, "   ", nil)
	c := New(srv.URL, "k", "m")
	if _, err := c.Complete(context.Background(), "s", "u", 0.7, 10); err == nil {
		t.Fatal("expected error for blank completion")
	}
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, "k", "m")
	if _, err := c.Complete(context.Background(), "s", "u", 0.7, 10); err == nil {
		t.Fatal("expected error from failing API")
	}
}

func TestPing(t *testing.T) {
	srv := fakeAPI(t, "", nil)
	if err := New(srv.URL, "k", "m").Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
