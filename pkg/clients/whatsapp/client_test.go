package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mamadbah2/campus/internal/config"
)

func TestSplitBody(t *testing.T) {
	if parts := SplitBody("short", 10); len(parts) != 1 || parts[0] != "short" {
		t.Fatalf("expected single part, got %v", parts)
	}

	body := "line one\nline two\nline three\n"
	parts := SplitBody(body, 12)
	if strings.Join(parts, "") != body {
		t.Fatalf("expected parts to rebuild the body, got %q", parts)
	}
	for _, p := range parts {
		if len(p) > 12 {
			t.Fatalf("part %q exceeds limit", p)
		}
	}

	long := strings.Repeat("é", 10)
	parts = SplitBody(long, 5)
	if strings.Join(parts, "") != long {
		t.Fatalf("expected rune-safe split, got %q", parts)
	}
}

func TestSendText(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v20.0/12345/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{
		AccessToken:   "token",
		PhoneNumberID: "12345",
		BaseURL:       srv.URL,
		APIVersion:    "v20.0",
	})

	ids, err := client.SendText(context.Background(), "919999999999", "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(ids) != 1 || ids[0] != "wamid.1" {
		t.Fatalf("expected message id wamid.1, got %v", ids)
	}
	if got["to"] != "919999999999" {
		t.Fatalf("expected recipient in payload, got %v", got["to"])
	}
}

func TestSendTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad recipient","code":131030}}`))
	}))
	defer srv.Close()

	client := NewClient(config.WhatsAppConfig{PhoneNumberID: "1", BaseURL: srv.URL, APIVersion: "v20.0"})
	_, err := client.SendText(context.Background(), "x", "hello")
	if err == nil || !strings.Contains(err.Error(), "131030") {
		t.Fatalf("expected api error code in message, got %v", err)
	}
}
