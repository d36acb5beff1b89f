package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"GROQ_API_KEY", "GEMINI_API_KEY", "EDITOR_APPLY_FIXES", "PAUSE_MIN", "PAUSE_MAX", "DEDUP_SIMILARITY"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EditorApply {
		t.Error("apply must be off by default")
	}
	if cfg.EditorMaxEdits != 25 || cfg.EditorMaxDeletes != 10 {
		t.Errorf("limits = %d/%d", cfg.EditorMaxEdits, cfg.EditorMaxDeletes)
	}
	if cfg.DupThreshold != 0.65 || cfg.DupMinTokens != 3 {
		t.Errorf("dedup = %v/%d", cfg.DupThreshold, cfg.DupMinTokens)
	}
	if cfg.MaxGenerationRequests != 0 || cfg.MaxComposeRequests != 0 || cfg.MaxClassifyRequests != 0 || cfg.MaxRewriteRequests != 0 {
		t.Errorf("generation limits should default to unlimited: %+v", cfg)
	}
	if cfg.GroqModel != "llama-3.3-70b-versatile" {
		t.Errorf("model = %q", cfg.GroqModel)
	}
	if err := cfg.ValidatePublisher(); err == nil {
		t.Error("publisher without any generation key should fail validation")
	}
	if err := cfg.ValidateEditor(); err != nil {
		t.Errorf("editor should run without keys: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("EDITOR_APPLY_FIXES", "1")
	t.Setenv("EDITOR_MAX_DELETES_PER_RUN", "3")
	t.Setenv("GENERATION_TIMEOUT", "45")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("PAUSE_MIN", "0")
	t.Setenv("PAUSE_MAX", "0")
	t.Setenv("DEDUP_SIMILARITY", "0.8")
	t.Setenv("MAX_COMPOSE_REQUESTS", "8")
	t.Setenv("MAX_CLASSIFY_REQUESTS", "20")
	t.Setenv("MAX_REWRITE_REQUESTS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.EditorApply || cfg.EditorMaxDeletes != 3 {
		t.Errorf("editor = %v/%d", cfg.EditorApply, cfg.EditorMaxDeletes)
	}
	if cfg.GenerationTimeout != 45*time.Second || cfg.RequestTimeout != 5*time.Second {
		t.Errorf("timeouts = %s/%s", cfg.GenerationTimeout, cfg.RequestTimeout)
	}
	if cfg.PauseMax != 0 || cfg.DupThreshold != 0.8 {
		t.Errorf("pause=%s threshold=%v", cfg.PauseMax, cfg.DupThreshold)
	}
	if cfg.MaxComposeRequests != 8 || cfg.MaxClassifyRequests != 20 || cfg.MaxRewriteRequests != 5 {
		t.Errorf("purpose limits = %d/%d/%d", cfg.MaxComposeRequests, cfg.MaxClassifyRequests, cfg.MaxRewriteRequests)
	}
	if err := cfg.ValidatePublisher(); err != nil {
		t.Errorf("ValidatePublisher: %v", err)
	}
}

func TestLoad_NegativePurposeLimit(t *testing.T) {
	t.Setenv("MAX_REWRITE_REQUESTS", "-1")
	if _, err := Load(); err == nil {
		t.Error("expected an error for a negative rewrite limit")
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("DEDUP_SIMILARITY", "1.5")
	if _, err := Load(); err == nil {
		t.Error("expected an error for threshold > 1")
	}
}

func TestLoadTopics(t *testing.T) {
	dir := t.TempDir()

	topics, err := LoadTopics(filepath.Join(dir, "missing.yaml"))
	if err != nil || len(topics) != 8 {
		t.Fatalf("missing file: %d topics, err %v", len(topics), err)
	}

	path := filepath.Join(dir, "topics.yaml")
	yml := `topics:
  - name: Esportes
    category: esportes
    sites:
      - url: https://ge.globo.com/
      - url: https://example.com/rss
        feed: true
    subcategories:
      - label: futebol
        keywords: [futebol, flamengo]
      - label: vôlei
        keywords: [vôlei]
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	topics, err = LoadTopics(path)
	if err != nil {
		t.Fatalf("LoadTopics: %v", err)
	}
	if len(topics) != 1 || topics[0].Category != "esportes" {
		t.Fatalf("topics = %+v", topics)
	}
	if !topics[0].Sites[1].Feed || topics[0].Subcategories[0].Keywords[1] != "flamengo" {
		t.Errorf("topic not decoded: %+v", topics[0])
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("topics:\n  - name: Sem sites\n    category: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTopics(bad); err == nil {
		t.Error("topic without sites should be rejected")
	}
}
