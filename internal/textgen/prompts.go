package textgen

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	composeContentLimit = 3000
	rewriteContentLimit = 3500
	classifyTextLimit   = 300
)

// Truncate cuts s to at most max runes, preferring the last sentence end
// found in the second half of the kept text.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, ". "); idx > len(cut)/2 {
		cut = cut[:idx+1]
	}
	return cut
}

// ComposePrompt asks for a full article in Brazilian Portuguese built from
// a scraped title and body.
func ComposePrompt(title, content string) string {
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r", ""))
	return fmt.Sprintf(`Escreva uma matéria jornalística completa em português brasileiro (mínimo 450 palavras, parágrafos, tom profissional) baseada na notícia abaixo.

Regras:
- Não invente fatos, números ou declarações que não estejam no texto.
- Não cite o nome do site de origem nem escreva "fonte:".
- Não repita o título no primeiro parágrafo.
- Separe os parágrafos com uma linha em branco.
- Responda apenas com o texto da matéria, sem comentários.

TÍTULO: %s

CONTEÚDO:
%s
`, title, Truncate(content, composeContentLimit))
}

// RewritePrompt asks for a cleaned-up version of an existing article.
func RewritePrompt(title, base string) string {
	return fmt.Sprintf(`Você é editor de um portal de notícias brasileiro. Reescreva a matéria abaixo em português do Brasil seguindo as regras:

1. Mantenha todos os fatos; não invente nada.
2. Remova menções a fontes, sites de origem e chamadas como "leia também".
3. Não repita o título no início do texto.
4. Corrija espaçamento, pontuação e frases repetidas.
5. Escreva parágrafos curtos separados por uma linha em branco e responda apenas com o texto.

TÍTULO: %s

TEXTO:
%s
`, title, Truncate(strings.TrimSpace(base), rewriteContentLimit))
}

// ClassifyPrompt asks the model to pick exactly one label from labels.
func ClassifyPrompt(title, category string, labels []string) string {
	return fmt.Sprintf(`Classifique a notícia abaixo, da categoria "%s", em exatamente uma das subcategorias: %s.
Responda somente com o nome da subcategoria, sem explicações.

TÍTULO: %s
`, category, strings.Join(labels, ", "), Truncate(strings.TrimSpace(title), classifyTextLimit))
}
