package store

import (
	"time"

	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	"github.com/detalhesstore/detalhes-backend/pkg/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Hardcoded seed data. Used when nothing was ever persisted and as the base
// of every settings merge. The Portuguese copy is storefront content and must
// stay byte-identical to what operators expect to see.

// defaultAdminPasswordHash is the SHA-256 hex digest of "admin".
const defaultAdminPasswordHash = "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"

// DefaultAdmin returns the distinguished admin record that always exists.
func DefaultAdmin() models.AdminUser {
	return models.AdminUser{
		ID:           models.DefaultAdminID,
		Username:     "admin",
		PasswordHash: defaultAdminPasswordHash,
		Role:         models.RoleSuperadmin,
		CreatedAt:    time.UnixMilli(1700000000000).UTC(),
	}
}

// DefaultSettings returns the hardcoded storefront configuration.
func DefaultSettings() types.StoreSettings {
	return types.StoreSettings{
		IsLiveOn:                false,
		LogoType:                "text",
		LogoText:                "DETALHES",
		LogoURL:                 "https://images.unsplash.com/photo-1515562141207-7a88fb7ce338?auto=format&fit=crop&w=200&h=50&q=80",
		PrimaryColor:            "#D5BDAF",
		SecondaryColor:          "#F5EBE0",
		Headline:                "Detalhes que transformam seu brilho",
		Subheadline:             "Semijoias banhadas a Ouro 18k. Elegância em cada escolha para mulheres que escrevem sua própria história.",
		HeroImageURL:            "https://images.unsplash.com/photo-1515562141207-7a88fb7ce338?auto=format&fit=crop&w=1600&q=80",
		WhatsAppNumber:          "5511999999999",
		WhatsAppTemplateLive:    "Olá Detalhes! ✨ Quero aproveitar os mimos da LIVE: {productList}. Total: {totalPrice}. Código da Live: {liveCode}",
		WhatsAppTemplateRegular: "Olá Detalhes! ✨ Me apaixonei por estas peças: {productList}. Total: {totalPrice}. Como finalizo?",
		FreeShippingThreshold:   decimal.NewFromInt(299),
		ContactEmail:            "contato@detalhesstore.com.br",
		FooterContent:           "Elevando sua essência através de detalhes minimalistas e cheios de significado.",
		Categories:              []string{"Brincos", "Colares", "Pulseiras", "Anéis", "Kits & Presentes"},
		Tags:                    []string{"Novidade", "Mais Vendido", "Sugestão de Presente", "Edição Limitada", "Oferta da Live"},
		HotbarMessages: []types.HotbarMessage{
			{ID: "1", Text: "✨ FRETE GRÁTIS ACIMA DE R$ 299", Enabled: true},
			{ID: "2", Text: "🚚 ENVIO IMEDIATO EM 24H", Enabled: true},
			{ID: "3", Text: "🎁 EMBALAGEM EXCLUSIVA INCLUSA", Enabled: true},
			{ID: "4", Text: "💎 GARANTIA ETERNA NO BANHO", Enabled: true},
		},
		TrustIcons: []types.TrustIcon{
			{Icon: "Shipping", Text: "Envio Express", Enabled: true},
			{Icon: "Gift", Text: "Mimo na Caixinha", Enabled: true},
			{Icon: "Shield", Text: "Garantia Premium", Enabled: true},
		},
		SocialLinks: types.SocialLinks{
			Instagram: "https://instagram.com/detalhesstore",
			Facebook:  "https://facebook.com/detalhesstore",
			WhatsApp:  "https://wa.me/5511999999999",
			TikTok:    "https://tiktok.com/@detalhesstore",
		},
		Institutional: types.Institutional{
			About:    "Nossa história começou com o desejo de oferecer mais que semijoias: queríamos oferecer confiança. Cada peça é selecionada com olhar curatorial para a mulher moderna.",
			Shipping: "Enviamos para todo o Brasil via Correios e Transportadoras. O prazo médio de postagem é de 24h úteis após a confirmação do pagamento.",
			Returns:  "Você tem até 7 dias após o recebimento para solicitar a troca ou devolução sem custos, desde que a peça esteja sem sinais de uso.",
			Warranty: "Nossas peças possuem garantia de 1 ano no banho de Ouro 18k e garantia vitalícia contra defeitos de fabricação.",
		},
		FAQs: []types.FAQItem{
			{ID: "1", Question: "Qual o prazo de entrega?", Answer: "Nossos pedidos são postados em até 24h úteis. O prazo de entrega varia de acordo com sua região, podendo ser calculado no checkout do WhatsApp.", Enabled: true},
			{ID: "2", Question: "As peças possuem garantia?", Answer: "Sim! Oferecemos 1 ano de garantia no banho de Ouro 18k e garantia vitalícia contra defeitos de fabricação.", Enabled: true},
		},
		Testimonials: []types.Testimonial{
			{ID: "1", Name: "Juliana Silva", Content: "As peças são impecáveis, o brilho é surreal e a embalagem é um presente à parte. Virei fã!", Rating: 5, Enabled: true},
			{ID: "2", Name: "Mariana Costa", Content: "Atendimento maravilhoso e entrega super rápida. Recomendo muito!", Rating: 5, Enabled: true},
		},
		InstagramSection: types.InstagramSection{
			Enabled: false,
			Mode:    "manual",
			Handle:  "@detalhesstore",
			Posts:   []types.InstagramPost{},
		},
	}
}

// DefaultProducts returns the seed catalog, aged relative to now so the
// derived-tag rules behave the same on a fresh install as they did on day one.
func DefaultProducts(now time.Time) []models.Product {
	return []models.Product{
		{
			ID:           "1",
			Name:         "Argola Gota - Ouro 18k",
			Price:        decimal.NewFromFloat(189.90),
			Description:  "Leveza e brilho inigualável. O detalhe que faltava.",
			Images:       pq.StringArray{"https://images.unsplash.com/photo-1535632066927-ab7c9ab60908?auto=format&fit=crop&w=800&q=80"},
			Category:     "Brincos",
			Collection:   "Essencial",
			Tags:         pq.StringArray{"Mais Vendido", "Novidade"},
			IsGift:       false,
			Stock:        8,
			ViewCount:    1250,
			CartAddCount: 145,
			CreatedAt:    now.Add(-24 * time.Hour),
		},
		{
			ID:           "2",
			Name:         "Riviera Zircônia Cristal",
			Price:        decimal.NewFromFloat(249.90),
			Description:  "Um clássico que exala sua confiança natural.",
			Images:       pq.StringArray{"https://images.unsplash.com/photo-1599643478123-242f151145f0?auto=format&fit=crop&w=800&q=80"},
			Category:     "Colares",
			Collection:   "Noite",
			Tags:         pq.StringArray{"Edição Limitada", "Novidade"},
			IsGift:       false,
			Stock:        3,
			ViewCount:    3400,
			CartAddCount: 210,
			CreatedAt:    now.Add(-48 * time.Hour),
		},
		{
			ID:           "3",
			Name:         "Pulseira Elo Português",
			Price:        decimal.NewFromFloat(149.90),
			Description:  "Feminilidade e sofisticação em cada movimento.",
			Images:       pq.StringArray{"https://images.unsplash.com/photo-1611591437281-460bfbe1220a?auto=format&fit=crop&w=800&q=80"},
			Category:     "Pulseiras",
			Collection:   "Minimal",
			Tags:         pq.StringArray{"Mais Vendido"},
			IsGift:       false,
			Stock:        12,
			ViewCount:    890,
			CartAddCount: 67,
			CreatedAt:    now.Add(-120 * time.Hour),
		},
	}
}
