package news

import "testing"

func TestIsValidTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Câmara aprova MP importante", true},
		{"Flamengo vence Palmeiras no Maracanã e assume a liderança", true},
		{"Governo federal anuncia novo pacote de investimentos em infraestrutura", true},
		{"Game Rant Advance", false},
		{"Esportes a Motor", false},
		{"123456789", false},
		{"Fla", false},
	}
	for _, tt := range tests {
		if got := IsValidTitle(tt.title); got != tt.want {
			_, reason := CheckTitle(tt.title)
			t.Errorf("IsValidTitle(%q) = %v, want %v (reason %q)", tt.title, got, tt.want, reason)
		}
	}
}

func TestCheckTitle_Reasons(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		reason string
	}{
		{"phone number", "(21) 3333-4444 / 99999-8888", ReasonDigitsOnly},
		{"mostly digits", "Resultado 12345678 sorteio 9090", ReasonDigitRatio},
		{"few words", "Ir ao ** ou ao ## em 2025!!!", ReasonFewWords},
		{"generic label", "Últimas notícias do dia", ReasonGenericLabel},
		{"label like", "Casa Cor Design e Mais", ReasonLabelLike},
		{"breadcrumb", "Notícias › Brasil › Economia brasileira hoje", ReasonMenuSeparators},
		{"english chrome", "Click here for more about your account", ReasonEnglishChrome},
		{"too long", string(make([]rune, 260)), ReasonTitleLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := CheckTitle(tt.title)
			if ok {
				t.Fatalf("expected %q to be rejected", tt.title)
			}
			if reason != tt.reason {
				t.Errorf("reason = %q, want %q", reason, tt.reason)
			}
		})
	}
}

func TestIsBlockedTitle(t *testing.T) {
	if !IsBlockedTitle("Conteúdo PATROCINADO: conheça o novo carro") {
		t.Error("sponsored link should be blocked")
	}
	if !IsBlockedTitle("Melhor bet do Brasil tem bônus") {
		t.Error("short keyword should match as a whole word")
	}
	if IsBlockedTitle("Alphabet anuncia resultados trimestrais") {
		t.Error("short keyword must not match inside another word")
	}
}

func TestIsBlockedDomain(t *testing.T) {
	if !IsBlockedDomain("https://www.amazon.com.br/dp/B0C123") {
		t.Error("amazon should be blocked")
	}
	if !IsBlockedDomain("https://produto.mercadolivre.com.br/MLB-123") {
		t.Error("mercadolivre should be blocked")
	}
	if IsBlockedDomain("https://g1.globo.com/economia/amazon.ghtml") {
		t.Error("only the host is compared")
	}
}
