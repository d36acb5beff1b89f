package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestIsValidImage(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://via.placeholder.com/800x450", false},
		{"https://placehold.co/600x400", false},
		{"https://example.com/logo.png", false},
		{"https://example.com/static/favicon.ico", false},
		{"https://example.com/img/user-avatar.jpg", false},
		{"data:image/png;base64,iVBORw0KGgo=", false},
		{"", false},
		{"https://cdn.site.com/images/2024/photo.jpg", true},
		{"https://s2.glbimg.com/abc/foto-estadio.webp", true},
		{"https://example.com/anim/celebration.gif", true},
	}
	for _, tt := range tests {
		if got := IsValidImage(tt.url); got != tt.want {
			t.Errorf("IsValidImage(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExtractImage_PreferenceOrder(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og image wins",
			html: `<head><meta property="og:image" content="/img/og.jpg"><meta name="twitter:image" content="https://cdn.x.com/tw.jpg"></head>
				<body><img src="/big.jpg" width="2000" height="1000"></body>`,
			want: "https://news.example.com/img/og.jpg",
		},
		{
			name: "logo og falls back to twitter",
			html: `<head><meta property="og:image" content="https://cdn.x.com/site-logo.png"><meta name="twitter:image" content="https://cdn.x.com/tw.jpg"></head>`,
			want: "https://cdn.x.com/tw.jpg",
		},
		{
			name: "largest img without decorative keywords",
			html: `<body>
				<img src="/header-logo.png" width="3000" height="3000">
				<img src="/small.jpg" width="100" height="100">
				<img src="/icons/share.png" width="900" height="900">
				<img data-src="/lazy-large.jpg" width="1200" height="675">
				<img src="/team.jpg" alt="Badge do clube" width="1500" height="1500">
			</body>`,
			want: "https://news.example.com/lazy-large.jpg",
		},
		{
			name: "no image",
			html: `<body><p>texto</p></body>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := ExtractImage(doc, "https://news.example.com/materia/1"); got != tt.want {
				t.Errorf("ExtractImage = %q, want %q", got, tt.want)
			}
		})
	}
}
