package editor

import (
	"quiz-builder/internal/domain"
	"quiz-builder/internal/style"
)

type elementDefaults struct {
	content    string
	styles     map[string]string
	attributes map[string]string
}

var defaultsByType = map[domain.ElementType]elementDefaults{
	domain.ElementText: {
		content: "New text",
		styles:  map[string]string{"color": "#1f2937", "lineHeight": "1.5"},
	},
	domain.ElementButton: {
		content:    "Continue",
		styles:     map[string]string{"color": "#ffffff", "border": "none", "cursor": "pointer"},
		attributes: map[string]string{"action": "next", "target": ""},
	},
	domain.ElementLink: {
		content:    "Learn more",
		styles:     map[string]string{"textDecoration": "underline"},
		attributes: map[string]string{"href": "#", "target": "_blank"},
	},
	domain.ElementImage: {
		styles:     map[string]string{"maxWidth": "100%", "objectFit": "cover"},
		attributes: map[string]string{"src": "https://placehold.co/600x400", "alt": "Image"},
	},
	domain.ElementProduct: {
		styles:     map[string]string{"padding": "12px", "border": "1px solid #e5e7eb"},
		attributes: map[string]string{"feedUrl": "", "productId": ""},
	},
	domain.ElementGroup: {
		styles: map[string]string{"padding": "8px"},
	},
}

// newElement builds an element of type t with type defaults merged with the
// theme, so every eligible property starts theme-owned. Product cards come
// with their image, title, price and button children.
func newElement(t domain.ElementType, section domain.SectionID, theme domain.Theme, newID func() string) domain.Element {
	def := defaultsByType[t]
	el := domain.Element{
		ID:         newID(),
		Type:       t,
		Content:    def.content,
		Styles:     style.Seed(t, def.styles, theme),
		Attributes: copyStrings(def.attributes),
	}
	if t.IsContainer() {
		el.IsGroup = true
		layout := domain.DefaultLayout()
		el.Layout = &layout
	}
	if t == domain.ElementProduct {
		image := newElement(domain.ElementImage, section, theme, newID)
		image.Attributes["alt"] = "Product image"
		title := newElement(domain.ElementText, section, theme, newID)
		title.Content = "Product name"
		price := newElement(domain.ElementText, section, theme, newID)
		price.Content = "$0.00"
		buy := newElement(domain.ElementButton, section, theme, newID)
		buy.Content = "Buy now"
		buy.Attributes["action"] = "url"
		el.Children = []domain.Element{image, title, price, buy}
	}
	el.SetPlacement(section, "")
	return el
}

func copyStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
