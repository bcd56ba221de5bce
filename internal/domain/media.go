package domain

// MediaFile is an uploaded asset the document may reference by URL.
type MediaFile struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
}

// FeedRecord is one row of a product feed, keyed by column name.
type FeedRecord map[string]string

// First returns the first non-empty value among keys.
func (r FeedRecord) First(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

// ProductID returns the record identifier.
func (r FeedRecord) ProductID() string {
	return r.First("id", "sku", "product_id")
}
