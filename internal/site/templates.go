package site

import (
	"html/template"
)

type navData struct {
	SiteName   string
	Prefix     string
	Categories []Category
}

type postData struct {
	Nav          navData
	Title        string
	ImageURL     string
	Category     string
	CategoryName string
	Date         string
	Author       string
	Body         template.HTML
}

type card struct {
	Title        string
	URL          string
	ImageURL     string
	Category     string
	CategoryName string
	Date         string
}

type listData struct {
	Nav     navData
	Title   string
	Heading string
	Author  string
	Cards   []card
}

const layoutTmpl = `
{{define "header"}}<header><div class="container"><h1 class="logo">{{.SiteName}}</h1>
<nav>
<a href="{{.Prefix}}index.html">Início</a>
{{- range .Categories}}
<a href="{{$.Prefix}}categoria-{{.Slug}}.html">{{.Name}}</a>
{{- end}}
</nav>
</div></header>{{end}}
{{define "footer"}}<footer><div class="container"><p>© {{.SiteName}}</p></div></footer>{{end}}
`

const postTmpl = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} - {{.Nav.SiteName}}</title>
<meta property="og:title" content="{{.Title}}">
<meta property="og:image" content="{{.ImageURL}}">
<link rel="stylesheet" href="../style.css">
</head>
<body>
{{template "header" .Nav}}
<main class="container">
<article class="post-completo">
<div class="post-meta"><span class="categoria categoria-{{.Category}}">{{.CategoryName}}</span> <span>{{.Date}}</span></div>
<h1>{{.Title}}</h1>
<p class="autor">Por {{.Author}}</p>
<img src="{{.ImageURL}}" class="post-imagem" alt="{{.Title}}">
<div class="post-conteudo">{{.Body}}</div>
</article>
</main>
{{template "footer" .Nav}}
</body>
</html>
`

const listTmpl = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="style.css">
<link rel="alternate" type="application/rss+xml" href="feed.xml">
</head>
<body>
{{template "header" .Nav}}
<main class="container">
<h2 class="secao-titulo">{{.Heading}}</h2>
<div class="posts-grid">
{{- range .Cards}}
<article class="post-card">
<img src="{{.ImageURL}}" alt="{{.Title}}">
<div class="post-info">
<span class="categoria categoria-{{.Category}}">{{.CategoryName}}</span>
<h2><a href="{{.URL}}">{{.Title}}</a></h2>
<p class="meta">Por {{$.Author}} • {{.Date}}</p>
</div>
</article>
{{- else}}
<p>Nenhuma notícia publicada ainda.</p>
{{- end}}
</div>
</main>
{{template "footer" .Nav}}
</body>
</html>
`

var (
	postTemplate = template.Must(template.Must(template.New("layout").Parse(layoutTmpl)).New("post").Parse(postTmpl))
	listTemplate = template.Must(template.Must(template.New("layout").Parse(layoutTmpl)).New("list").Parse(listTmpl))
)

const dateLayout = "02/01/2006 às 15:04"
