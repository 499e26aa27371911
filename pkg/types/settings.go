package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// HotbarMessage is one rotating announcement shown above the storefront header.
type HotbarMessage struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Enabled bool   `json:"enabled"`
}

// TrustIcon is a badge rendered under the hero banner.
type TrustIcon struct {
	Icon    string `json:"icon"`
	Text    string `json:"text"`
	Enabled bool   `json:"enabled"`
}

// SocialLinks holds the storefront's external profiles.
type SocialLinks struct {
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	WhatsApp  string `json:"whatsapp"`
	TikTok    string `json:"tiktok"`
}

// Institutional groups the long-form text blocks of the footer pages.
type Institutional struct {
	About    string `json:"about"`
	Shipping string `json:"shipping"`
	Returns  string `json:"returns"`
	Warranty string `json:"warranty"`
}

// FAQItem is a storefront FAQ entry; also mirrored as a backend table row.
type FAQItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Enabled  bool   `json:"enabled"`
}

// Testimonial is a customer quote; also mirrored as a backend table row.
type Testimonial struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Content string  `json:"content"`
	Image   *string `json:"image,omitempty"`
	Rating  int     `json:"rating"`
	Enabled bool    `json:"enabled"`
}

// InstagramPost is a manually curated showcase entry.
type InstagramPost struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link"`
}

// InstagramSection configures the Instagram showcase: either a manual post
// list or posts fetched through the API token.
type InstagramSection struct {
	Enabled  bool            `json:"enabled"`
	Mode     string          `json:"mode"` // manual | api
	Handle   string          `json:"handle"`
	APIToken string          `json:"apiToken"`
	Posts    []InstagramPost `json:"posts"`
}

// StoreSettings is the singleton configuration blob shared by the whole
// storefront. A persisted copy may predate newer sub-objects, so readers must
// go through MergeWithDefaults before trusting any nested field.
type StoreSettings struct {
	IsLiveOn                bool             `json:"isLiveOn"`
	LogoType                string           `json:"logoType"` // text | image
	LogoText                string           `json:"logoText"`
	LogoURL                 string           `json:"logoUrl"`
	PrimaryColor            string           `json:"primaryColor"`
	SecondaryColor          string           `json:"secondaryColor"`
	Headline                string           `json:"headline"`
	Subheadline             string           `json:"subheadline"`
	HeroImageURL            string           `json:"heroImageUrl"`
	WhatsAppNumber          string           `json:"whatsappNumber"`
	WhatsAppTemplateLive    string           `json:"whatsappTemplateLive"`
	WhatsAppTemplateRegular string           `json:"whatsappTemplateRegular"`
	FreeShippingThreshold   decimal.Decimal  `json:"freeShippingThreshold"`
	ContactEmail            string           `json:"contactEmail"`
	FooterContent           string           `json:"footerContent"`
	Categories              []string         `json:"categories"`
	Tags                    []string         `json:"tags"`
	HotbarMessages          []HotbarMessage  `json:"hotbarMessages"`
	TrustIcons              []TrustIcon      `json:"trustIcons"`
	SocialLinks             SocialLinks      `json:"socialLinks"`
	Institutional           Institutional    `json:"institutional"`
	FAQs                    []FAQItem        `json:"faqs"`
	Testimonials            []Testimonial    `json:"testimonials"`
	InstagramSection        InstagramSection `json:"instagramSection"`
}

// Value serializes the settings blob to JSON for the jsonb column.
func (s StoreSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan decodes a jsonb column into the settings blob.
func (s *StoreSettings) Scan(value interface{}) error {
	if value == nil {
		*s = StoreSettings{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, s)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("types: unsupported JSON scan type %T", value)
	}
}
