package news

// DefaultTopics is the built-in rotation used when no topics file is present.
// Subcategory order matters: the first table row with a hit wins.
func DefaultTopics() []Topic {
	return []Topic{
		{
			Name:     "Esportes",
			Category: "esportes",
			Sites:    sites("https://ge.globo.com/", "https://www.espn.com.br/"),
			Subcategories: []Subcategory{
				{Label: "futebol", Keywords: []string{"futebol", "flamengo", "palmeiras", "corinthians", "fluminense", "vasco", "botafogo", "grêmio", "internacional", "santos", "cruzeiro", "atlético", "maracanã", "brasileirão", "libertadores", "copa do brasil", "seleção", "gol", "neymar", "vini jr", "champions"}},
				{Label: "automobilismo", Keywords: []string{"fórmula 1", "formula 1", "f1", "gp", "grande prêmio", "verstappen", "hamilton", "leclerc", "bortoleto", "stock car", "indy", "motogp", "nascar"}},
				{Label: "basquete", Keywords: []string{"nba", "basquete", "lebron", "curry", "nbb"}},
				{Label: "tenis", Keywords: []string{"tênis", "wimbledon", "roland garros", "us open", "atp", "wta", "djokovic", "alcaraz", "sinner", "bia haddad", "fonseca"}},
				{Label: "lutas", Keywords: []string{"ufc", "mma", "boxe", "luta", "cinturão"}},
				{Label: "volei", Keywords: []string{"vôlei", "volei", "superliga"}},
			},
		},
		{
			Name:     "Entretenimento",
			Category: "entretenimento",
			Sites:    sites("https://www.adorocinema.com/noticias/", "https://www.tecmundo.com.br/cultura"),
			Subcategories: []Subcategory{
				{Label: "cinema-series", Keywords: []string{"filme", "cinema", "série", "séries", "marvel", "dc", "netflix", "prime video", "disney+", "hbo", "max", "estreia", "trailer", "oscar", "bilheteria", "temporada"}},
				{Label: "musica", Keywords: []string{"música", "álbum", "cantor", "cantora", "show", "turnê", "spotify", "single", "clipe", "festival", "rock in rio", "lollapalooza"}},
				{Label: "televisao", Keywords: []string{"novela", "bbb", "big brother", "reality", "tv globo", "sbt", "record", "programa"}},
				{Label: "celebridades", Keywords: []string{"famosos", "celebridade", "atriz", "ator", "influenciadora", "casamento", "namoro"}},
			},
		},
		{
			Name:     "Tecnologia",
			Category: "tecnologia",
			Sites:    sites("https://www.tecmundo.com.br/", "https://olhardigital.com.br/"),
			Subcategories: []Subcategory{
				{Label: "inteligencia-artificial", Keywords: []string{"inteligência artificial", "chatgpt", "openai", "ia", "gemini", "copilot", "llm", "claude", "deepseek", "machine learning"}},
				{Label: "smartphones", Keywords: []string{"iphone", "galaxy", "smartphone", "celular", "android", "ios", "xiaomi", "motorola"}},
				{Label: "seguranca-digital", Keywords: []string{"hacker", "vazamento", "golpe", "malware", "ransomware", "senha", "phishing", "ciberataque"}},
				{Label: "internet", Keywords: []string{"whatsapp", "instagram", "tiktok", "youtube", "rede social", "redes sociais", "google", "x (antigo twitter)", "internet"}},
				{Label: "hardware", Keywords: []string{"processador", "placa de vídeo", "nvidia", "amd", "intel", "notebook", "pc"}},
			},
		},
		{
			Name:     "Videogames",
			Category: "videogames",
			Sites:    sites("https://www.theenemy.com.br/", "https://www.tecmundo.com.br/games"),
			Subcategories: []Subcategory{
				{Label: "consoles", Keywords: []string{"playstation", "ps5", "xbox", "nintendo", "switch", "console"}},
				{Label: "esports", Keywords: []string{"esports", "e-sports", "campeonato", "cblol", "valorant", "counter-strike", "cs2", "league of legends"}},
				{Label: "lancamentos", Keywords: []string{"lançamento", "lança", "trailer", "gameplay", "data de lançamento", "beta", "dlc", "remake"}},
				{Label: "pc-games", Keywords: []string{"steam", "epic games", "pc"}},
			},
		},
		{
			Name:     "Política Nacional",
			Category: "politica-nacional",
			Sites:    sites("https://g1.globo.com/politica/", "https://noticias.uol.com.br/politica/"),
			Subcategories: []Subcategory{
				{Label: "governo-federal", Keywords: []string{"lula", "planalto", "governo federal", "ministro", "ministra", "ministério", "alckmin", "haddad"}},
				{Label: "congresso", Keywords: []string{"câmara", "senado", "deputado", "deputada", "senador", "congresso", "pec", "projeto de lei", "medida provisória", "mp"}},
				{Label: "judiciario", Keywords: []string{"stf", "supremo", "moraes", "tse", "stj", "ministério público", "pgr"}},
				{Label: "eleicoes", Keywords: []string{"eleição", "eleições", "candidato", "candidata", "pesquisa eleitoral", "urna"}},
			},
		},
		{
			Name:     "Política Internacional",
			Category: "politica-internacional",
			Sites:    sites("https://g1.globo.com/mundo/", "https://www.bbc.com/portuguese/internacional"),
			Subcategories: []Subcategory{
				{Label: "eua", Keywords: []string{"eua", "estados unidos", "biden", "trump", "casa branca", "washington", "kamala"}},
				{Label: "europa", Keywords: []string{"europa", "união europeia", "macron", "alemanha", "frança", "reino unido", "itália", "espanha"}},
				{Label: "russia-ucrania", Keywords: []string{"rússia", "ucrânia", "putin", "zelensky", "kremlin", "kiev"}},
				{Label: "oriente-medio", Keywords: []string{"israel", "gaza", "hamas", "irã", "líbano", "síria", "netanyahu"}},
				{Label: "america-latina", Keywords: []string{"argentina", "milei", "venezuela", "maduro", "chile", "colômbia", "méxico"}},
				{Label: "asia", Keywords: []string{"china", "xi jinping", "japão", "coreia", "índia", "taiwan"}},
			},
		},
		{
			Name:     "Rio de Janeiro",
			Category: "rio-de-janeiro",
			Sites:    sites("https://g1.globo.com/rj/rio-de-janeiro/", "https://odia.ig.com.br/rio-de-janeiro"),
			Subcategories: []Subcategory{
				{Label: "seguranca", Keywords: []string{"crime", "polícia", "policial", "tiroteio", "operação", "assalto", "preso", "presa", "morto", "baleado", "milícia", "tráfico"}},
				{Label: "transporte", Keywords: []string{"metrô", "brt", "supervia", "trem", "ônibus", "vlt", "trânsito", "barcas"}},
				{Label: "cultura", Keywords: []string{"carnaval", "escola de samba", "show", "exposição", "festival", "réveillon"}},
				{Label: "clima", Keywords: []string{"chuva", "temporal", "calor", "alerta", "enchente", "deslizamento"}},
			},
		},
		{
			Name:     "São Paulo",
			Category: "sao-paulo",
			Sites:    sites("https://g1.globo.com/sp/sao-paulo/", "https://www.metropoles.com/sao-paulo"),
			Subcategories: []Subcategory{
				{Label: "transporte", Keywords: []string{"metrô", "cptm", "trem", "ônibus", "trânsito", "marginal", "rodízio", "linha"}},
				{Label: "seguranca", Keywords: []string{"crime", "polícia", "policial", "tiroteio", "operação", "assalto", "preso", "presa", "morto", "baleado", "pcc"}},
				{Label: "cultura", Keywords: []string{"show", "exposição", "festival", "virada cultural", "masp", "parada"}},
				{Label: "clima", Keywords: []string{"chuva", "temporal", "calor", "alerta", "enchente", "alagamento"}},
			},
		},
	}
}

func sites(urls ...string) []Site {
	out := make([]Site, 0, len(urls))
	for _, u := range urls {
		out = append(out, Site{URL: u})
	}
	return out
}
