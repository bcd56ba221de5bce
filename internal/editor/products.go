package editor

import "quiz-builder/internal/domain"

// BindProduct points a product card at a feed record: the card keeps the
// feed URL and product id, its children show the record's image, title and
// price, and its button links to the product page. Only references are
// stored, never file contents.
func (s *DocumentStore) BindProduct(elementID, feedURL string, rec domain.FeedRecord) bool {
	next := s.draft()
	loc, ok := next.Locate(elementID)
	if !ok {
		return false
	}
	card := loc.Element()
	if card.Type != domain.ElementProduct {
		return false
	}
	if card.Attributes == nil {
		card.Attributes = map[string]string{}
	}
	card.Attributes["feedUrl"] = feedURL
	card.Attributes["productId"] = rec.ProductID()

	title := rec.First("title", "name")
	texts := []string{title, rec.First("price", "sale_price")}
	for i := range card.Children {
		child := &card.Children[i]
		if child.Attributes == nil {
			child.Attributes = map[string]string{}
		}
		switch child.Type {
		case domain.ElementImage:
			if src := rec.First("image_link", "image", "image_url"); src != "" {
				child.Attributes["src"] = src
				if title != "" {
					child.Attributes["alt"] = title
				}
			}
		case domain.ElementText:
			if len(texts) > 0 {
				if texts[0] != "" {
					child.Content = texts[0]
				}
				texts = texts[1:]
			}
		case domain.ElementButton, domain.ElementLink:
			if href := rec.First("link", "url"); href != "" {
				child.Attributes["href"] = href
			}
		}
	}
	return s.commit("bindProduct", next)
}
