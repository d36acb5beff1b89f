package news

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minTitleRunes = 20
	maxTitleRunes = 250
)

// Title rejection reasons reported by CheckTitle.
const (
	ReasonTitleLength     = "length"
	ReasonDigitsOnly      = "digits_only"
	ReasonDigitRatio      = "digit_ratio"
	ReasonFewWords        = "few_words"
	ReasonGenericLabel    = "generic_label"
	ReasonLabelLike       = "label_like"
	ReasonMenuSeparators  = "menu_separators"
	ReasonEnglishChrome   = "english_chrome"
	ReasonBlockedKeyword  = "blocked_keyword"
	ReasonBlockedDomain   = "blocked_domain"
	ReasonUnsupportedLink = "unsupported_link"
)

// genericLabels are navigation and section names that show up as anchor text.
var genericLabels = []string{
	"home", "início", "inicio", "página inicial", "breaking", "breaking news",
	"read more", "leia mais", "saiba mais", "veja mais", "ver mais", "mais notícias",
	"últimas notícias", "ultimas noticias", "mais lidas", "newsletter", "assine",
	"login", "entrar", "cadastre-se", "fale conosco", "política de privacidade",
	"termos de uso", "esportes", "esportes a motor", "entretenimento", "tecnologia",
	"videogames", "games", "política", "política nacional", "política internacional",
	"mundo", "economia", "futebol", "cinema", "séries", "música", "rio de janeiro",
	"são paulo", "game rant advance",
}

// actionVerbs mark a short string as a headline rather than a label.
var actionVerbs = map[string]struct{}{
	"aprova": {}, "aprovam": {}, "anuncia": {}, "anunciam": {}, "vence": {}, "vencem": {},
	"perde": {}, "perdem": {}, "empata": {}, "revela": {}, "lança": {}, "lançam": {},
	"confirma": {}, "confirmam": {}, "diz": {}, "dizem": {}, "afirma": {}, "critica": {},
	"estreia": {}, "morre": {}, "ganha": {}, "assina": {}, "prende": {}, "chega": {},
	"rebate": {}, "registra": {}, "suspende": {}, "investiga": {}, "defende": {},
	"deve": {}, "pode": {}, "vai": {}, "quer": {}, "faz": {}, "tem": {}, "abre": {},
	"cai": {}, "sobe": {}, "volta": {}, "deixa": {}, "sanciona": {}, "veta": {},
	"announces": {}, "wins": {}, "loses": {}, "launches": {}, "reveals": {}, "says": {},
	"confirms": {}, "releases": {}, "dies": {}, "beats": {}, "signs": {}, "unveils": {},
}

var englishStopWords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "on": {}, "with": {}, "your": {},
	"our": {}, "you": {}, "more": {}, "all": {}, "about": {}, "is": {}, "are": {},
	"this": {}, "that": {}, "from": {}, "by": {}, "at": {}, "it": {}, "us": {}, "my": {},
	"how": {}, "what": {}, "why": {}, "get": {},
}

var blockedTitleKeywords = []string{
	"publicidade", "patrocinado", "anúncio", "ofertas do dia", "cupom", "cupons",
	"compre já", "compre agora", "loja oficial", "link de afiliado", "afiliados",
	"assine", "login", "faça login", "cadastre", "newsletter", "cassino", "bet",
	"sponsored", "advertisement", "subscribe", "sign in", "shop now",
}

var blockedDomains = []string{
	"amazon.", "mercadolivre.", "mercadolibre.", "magazineluiza.", "magalu.",
	"americanas.", "submarino.", "shopee.", "aliexpress.", "casasbahia.",
	"pontofrio.", "kabum.", "shein.", "temu.",
}

// IsValidTitle reports whether title looks like a real headline.
func IsValidTitle(title string) bool {
	ok, _ := CheckTitle(title)
	return ok
}

// CheckTitle applies the headline heuristics in order and returns the first
// failing rule.
func CheckTitle(title string) (bool, string) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < minTitleRunes || n > maxTitleRunes {
		return false, ReasonTitleLength
	}

	if onlyDigitsAndPunct(title) {
		return false, ReasonDigitsOnly
	}

	digits := 0
	for _, r := range title {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if float64(digits) > 0.3*float64(n) {
		return false, ReasonDigitRatio
	}

	words := strings.Fields(title)
	if countRealWords(words) < 3 {
		return false, ReasonFewWords
	}

	lower := strings.ToLower(title)
	for _, label := range genericLabels {
		if lower == label {
			return false, ReasonGenericLabel
		}
		if strings.Contains(lower, label) && n-utf8.RuneCountInString(label) <= 15 {
			return false, ReasonGenericLabel
		}
	}

	if countLongAlphaWords(words) < 4 && !hasActionVerb(words) {
		return false, ReasonLabelLike
	}

	if strings.Count(title, "|")+strings.Count(title, "›")+strings.Count(title, "»") >= 2 {
		return false, ReasonMenuSeparators
	}

	if len(words) < 8 && countEnglishStopWords(words) >= 3 {
		return false, ReasonEnglishChrome
	}

	return true, ""
}

// IsBlockedTitle reports whether link text points at ads, shops or account pages.
func IsBlockedTitle(title string) bool {
	return ContainsAny(title, blockedTitleKeywords)
}

// IsBlockedDomain reports whether rawURL belongs to a commerce host.
func IsBlockedDomain(rawURL string) bool {
	host := strings.ToLower(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	}
	for _, d := range blockedDomains {
		if strings.Contains(host, d) {
			return true
		}
	}
	return false
}

func onlyDigitsAndPunct(s string) bool {
	for _, r := range s {
		if !(unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)) {
			return false
		}
	}
	return true
}

func trimWord(w string) string {
	return strings.TrimFunc(w, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func countRealWords(words []string) int {
	count := 0
	for _, w := range words {
		w = trimWord(w)
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if strings.IndexFunc(w, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
			continue
		}
		count++
	}
	return count
}

func countLongAlphaWords(words []string) int {
	count := 0
	for _, w := range words {
		w = trimWord(w)
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if strings.IndexFunc(w, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
			continue
		}
		count++
	}
	return count
}

func hasActionVerb(words []string) bool {
	for _, w := range words {
		if _, ok := actionVerbs[strings.ToLower(trimWord(w))]; ok {
			return true
		}
	}
	return false
}

func countEnglishStopWords(words []string) int {
	count := 0
	for _, w := range words {
		if _, ok := englishStopWords[strings.ToLower(trimWord(w))]; ok {
			count++
		}
	}
	return count
}
