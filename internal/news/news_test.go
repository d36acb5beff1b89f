package news

import "testing"

func TestMatchKeyword(t *testing.T) {
	tests := []struct {
		text     string
		keywords []string
		want     string
	}{
		{"ChatGPT ganha nova versão", []string{"chatgpt"}, "chatgpt"},
		{"Notícia sobre mídia digital", []string{"ia"}, ""},
		{"IA generativa avança no Brasil", []string{"ia"}, "ia"},
		{"Verstappen vence GP do Brasil", []string{"f1", "gp"}, "gp"},
		{"Rio de Janeiro tem novo prefeito", []string{"janeiro de", "rio de janeiro"}, "rio de janeiro"},
	}
	for _, tt := range tests {
		if got := MatchKeyword(tt.text, tt.keywords); got != tt.want {
			t.Errorf("MatchKeyword(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics()
	if len(topics) != 8 {
		t.Fatalf("expected 8 topics, got %d", len(topics))
	}
	seen := map[string]bool{}
	for _, topic := range topics {
		if seen[topic.Category] {
			t.Errorf("duplicate category %q", topic.Category)
		}
		seen[topic.Category] = true
		if len(topic.Sites) == 0 {
			t.Errorf("topic %q has no sites", topic.Name)
		}
		if len(topic.Labels()) == 0 {
			t.Errorf("topic %q has no subcategories", topic.Name)
		}
	}
}
