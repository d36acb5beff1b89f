package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/retry"
)

func TestAnnounce(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(Config{Token: "TOKEN", ChatID: "@vivimundo", BaseURL: srv.URL}, nil)
	a := news.Article{Title: "Flamengo & Palmeiras empatam", Category: "esportes", Subcategory: "futebol"}
	if err := n.Announce(context.Background(), a, "https://vivimundo.example/posts/post-0001.html"); err != nil {
		t.Fatalf("Announce: %v", err)
	}

	if got["chat_id"] != "@vivimundo" || got["parse_mode"] != "HTML" {
		t.Errorf("payload = %v", got)
	}
	text, _ := got["text"].(string)
	for _, want := range []string{"<b>Flamengo &amp; Palmeiras empatam</b>", "#esportes", "futebol", `href="https://vivimundo.example/posts/post-0001.html"`} {
		if !strings.Contains(text, want) {
			t.Errorf("text %q missing %q", text, want)
		}
	}
}

func TestSend_RetriesThenFails(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := New(Config{
		Token:   "T",
		ChatID:  "1",
		BaseURL: srv.URL,
		Retry:   retry.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond},
	}, nil)
	err := n.Send(context.Background(), "oi")
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("err = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestSend_NotConfigured(t *testing.T) {
	n := New(Config{Token: "T"}, nil)
	if n.Enabled() {
		t.Error("notifier without chat id should be disabled")
	}
	if err := n.Send(context.Background(), "oi"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v", err)
	}
}
