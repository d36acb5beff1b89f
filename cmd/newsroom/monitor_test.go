package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deusflow/vivimundo/internal/metrics"
	"github.com/deusflow/vivimundo/internal/ratelimit"
)

func TestHealth(t *testing.T) {
	m := &metrics.Metrics{IsHealthy: true}
	srv := httptest.NewServer(monitoringRouter(m, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	m.SetError("compose failed")
	resp, err = http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable || body["status"] != "error" || body["last_error"] != "compose failed" {
		t.Errorf("status = %d, body = %v", resp.StatusCode, body)
	}
}

func TestMetrics(t *testing.T) {
	m := &metrics.Metrics{IsHealthy: true}
	m.IncrementArticlesPublished()
	m.IncrementQuarantines()
	m.IncrementQuarantines()

	limiter := ratelimit.NewLimiter(5, nil)
	limiter.SetLimit(ratelimit.PurposeRewrite, 2)
	_ = limiter.Use(ratelimit.PurposeRewrite)

	srv := httptest.NewServer(monitoringRouter(m, limiter.GetStats))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var stats map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats["articles_published"] != float64(1) || stats["quarantines"] != float64(2) {
		t.Errorf("stats = %v", stats)
	}
	budget, ok := stats["generation_budget"].(map[string]interface{})
	if !ok {
		t.Fatalf("generation_budget missing: %v", stats)
	}
	if budget["total_used"] != float64(1) || budget["total_limit"] != float64(5) || budget["rewrite_limit"] != float64(2) {
		t.Errorf("generation_budget = %v", budget)
	}

	resp2, err := http.Post(srv.URL+"/metrics", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d", resp2.StatusCode)
	}
}
