package catalog

// FallbackProducts is the known-good catalog returned when the showcase
// request fails for good (network, parse, quota). The items are real listings
// so the storefront never renders empty.
var FallbackProducts = []Product{
	{
		ID:            "fb1",
		Name:          "Echo Dot 5ª Geração | Smart Speaker com Alexa",
		Description:   "O smart speaker com Alexa de maior sucesso. Design compacto com som ainda melhor.",
		ProductURL:    "https://www.amazon.com.br/dp/B09B8YGSP5",
		PriceEstimate: "R$ 407,00",
		ImageURL:      "https://m.media-amazon.com/images/I/71JD1K-lJHL._AC_SL1000_.jpg",
		Category:      "Eletrônicos",
		Pitch:         "Sua casa inteligente começa aqui. Controle tudo com a voz!",
		Rating:        4.8,
		ReviewCount:   15400,
	},
	{
		ID:            "fb2",
		Name:          "Kindle 11ª Geração - Mais leve e compacto",
		Description:   "Tela de alta resolução de 300 ppi para textos e imagens nítidos.",
		ProductURL:    "https://www.amazon.com.br/dp/B09SWW583J",
		PriceEstimate: "R$ 474,00",
		ImageURL:      "https://m.media-amazon.com/images/I/71B1wF4d1vL._AC_SL1500_.jpg",
		Category:      "Eletrônicos",
		Pitch:         "Leve milhares de livros na mochila sem pesar nada.",
		Rating:        4.8,
		ReviewCount:   22000,
	},
	{
		ID:            "fb3",
		Name:          "Fritadeira Sem Óleo Air Fryer Mondial 4L",
		Description:   "Fritadeira Sem Óleo Family Inox. Praticidade e rapidez na cozinha.",
		ProductURL:    "https://www.amazon.com.br/dp/B07RDMJ6P8",
		PriceEstimate: "R$ 329,00",
		ImageURL:      "https://m.media-amazon.com/images/I/71nZ+0Kj+1L._AC_SL1500_.jpg",
		Category:      "Casa",
		Pitch:         "Comida crocante e saudável em minutos. Essencial!",
		Rating:        4.7,
		ReviewCount:   8500,
	},
	{
		ID:            "fb4",
		Name:          "Robô Aspirador WAP ROBOT W100",
		Description:   "Aspira, varre e passa pano. Bateria recarregável e bivolt.",
		ProductURL:    "https://www.amazon.com.br/dp/B07X94C4F4",
		PriceEstimate: "R$ 399,90",
		ImageURL:      "https://m.media-amazon.com/images/I/517wJ+uV2LL._AC_SL1000_.jpg",
		Category:      "Casa",
		Pitch:         "Deixe ele limpar enquanto você descansa. O melhor custo-benefício.",
		Rating:        4.4,
		ReviewCount:   12000,
	},
}
