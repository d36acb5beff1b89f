package textnorm

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Michael JacksonVeja o trailer", "Michael Jackson Veja o trailer"},
		{"HPComo funciona", "HP Como funciona"},
		{"AÍ!Baldur's Gate", "AÍ! Baldur's Gate"},
		{"VEM AÍ!Baldur's Gate 3", "VEM AÍ! Baldur's Gate 3"},
		{"SegurançaChina revela projeto", "Segurança China revela projeto"},
		{"Copa 2026Brasil estreia", "Copa 2026 Brasil estreia"},
		{"Filme “Ainda Estou Aqui”Concorre ao Oscar", "Filme “Ainda Estou Aqui” Concorre ao Oscar"},
		{"  espaços   sobrando  ", "espaços sobrando"},
	}
	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"HPComo funciona",
		"ABCDeFGHij",
		"aBcDeFgH",
		"NOTÍCIASÚltimas:Governo anuncia.Medidas",
		"3DImpressão (beta)Começa",
	}
	for _, in := range inputs {
		once := CleanTitle(in)
		if twice := CleanTitle(once); twice != once {
			t.Errorf("CleanTitle not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}
