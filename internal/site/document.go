package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/vivimundo/internal/news"
	"github.com/deusflow/vivimundo/internal/storage"
)

// Document is what the editor reads back from a rendered article.
type Document struct {
	Title    string
	ImageURL string
	Text     string
}

// Slug keeps the first 50 runes of a lowercased title, spaces turned
// into hyphens and anything unsafe in a file name dropped.
func Slug(title string) string {
	r := []rune(strings.ToLower(strings.TrimSpace(title)))
	if len(r) > 50 {
		r = r[:50]
	}

	var b strings.Builder
	lastHyphen := false
	for _, c := range r {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			b.WriteRune(c)
			lastHyphen = false
		case unicode.IsSpace(c) || c == '-' || c == '/' || c == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "materia"
	}
	return slug
}

// PostURL is the content URL for the n-th post.
func PostURL(n int, title string) string {
	return fmt.Sprintf("%s/post-%04d-%s.html", PostsDir, n, Slug(title))
}

// WritePost renders a new article document and returns its content URL.
// body is plain text with paragraphs separated by blank lines.
func (p *Publisher) WritePost(a news.Article, body string, n int) (string, error) {
	contentURL := PostURL(n, a.Title)
	fp, err := p.Path(contentURL)
	if err != nil {
		return "", err
	}

	data := postData{
		Nav:          navData{SiteName: p.name, Prefix: "../", Categories: p.categories},
		Title:        a.Title,
		ImageURL:     a.ImageURL,
		Category:     a.Category,
		CategoryName: p.categoryName(a.Category),
		Date:         formatDate(a.PublishedAt),
		Author:       p.author,
		Body:         template.HTML(SanitizeBody(FormatParagraphs(body, 0))),
	}

	var buf bytes.Buffer
	if err := postTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render post: %w", err)
	}
	if err := storage.WriteFileAtomic(fp, buf.Bytes(), 0o644); err != nil {
		return "", err
	}

	p.logger.Info("post saved", "url", contentURL)
	return contentURL, nil
}

// ReadDocument extracts the title, lead image and plain text of a document.
func (p *Publisher) ReadDocument(contentURL string) (Document, error) {
	doc, err := p.load(contentURL)
	if err != nil {
		return Document{}, err
	}

	var d Document
	d.Title = strings.TrimSpace(doc.Find("h1").Not(".logo").First().Text())
	if d.Title == "" {
		d.Title = strings.TrimSuffix(strings.TrimSpace(doc.Find("title").First().Text()), " - "+p.name)
	}

	img := doc.Find("img.post-imagem").First()
	if img.Length() == 0 {
		img = doc.Find("article img").First()
	}
	d.ImageURL, _ = img.Attr("src")

	content := doc.Find(".post-conteudo").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}
	d.Text = PlainText(content)
	return d, nil
}

// PlainText returns the text of sel's block children joined by blank lines.
func PlainText(sel *goquery.Selection) string {
	var parts []string
	sel.Find("p, li, h2, h3, blockquote").Each(func(_ int, s *goquery.Selection) {
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(sel.Text())
	}
	return strings.Join(parts, "\n\n")
}

// Rewrite patches a document in place. An empty title or bodyHTML leaves
// that part untouched.
func (p *Publisher) Rewrite(contentURL, title, bodyHTML string) error {
	doc, err := p.load(contentURL)
	if err != nil {
		return err
	}

	if title != "" {
		doc.Find("h1").Not(".logo").First().SetText(title)
		doc.Find("title").First().SetText(title + " - " + p.name)
		doc.Find(`meta[property="og:title"]`).SetAttr("content", title)
		doc.Find("img.post-imagem").SetAttr("alt", title)
	}
	if bodyHTML != "" {
		container := doc.Find(".post-conteudo").First()
		if container.Length() == 0 {
			return fmt.Errorf("document %s has no content container", contentURL)
		}
		container.SetHtml(SanitizeBody(bodyHTML))
	}

	out, err := doc.Html()
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", contentURL, err)
	}
	fp, err := p.Path(contentURL)
	if err != nil {
		return err
	}
	return storage.WriteFileAtomic(fp, []byte(out), 0o644)
}

func (p *Publisher) load(contentURL string) (*goquery.Document, error) {
	fp, err := p.Path(contentURL)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", contentURL, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", contentURL, err)
	}
	return doc, nil
}

// Quarantine moves a document to posts/_quarantine and returns its new
// content URL. A name collision gets a unix-seconds suffix.
func (p *Publisher) Quarantine(contentURL string) (string, error) {
	src, err := p.Path(contentURL)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(p.root, filepath.FromSlash(QuarantineDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create quarantine: %w", err)
	}

	name := filepath.Base(src)
	if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), p.now().Unix(), ext)
	}

	if err := os.Rename(src, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("failed to quarantine %s: %w", contentURL, err)
	}
	return QuarantineDir + "/" + name, nil
}

// Remove deletes a document. A missing file is not an error.
func (p *Publisher) Remove(contentURL string) error {
	fp, err := p.Path(contentURL)
	if err != nil {
		return err
	}
	if err := os.Remove(fp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", contentURL, err)
	}
	return nil
}
