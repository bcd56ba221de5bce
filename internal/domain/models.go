package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// ElementType is the closed set of element kinds the builder knows about.
type ElementType string

const (
	ElementText    ElementType = "text"
	ElementButton  ElementType = "button"
	ElementLink    ElementType = "link"
	ElementImage   ElementType = "image"
	ElementProduct ElementType = "product"
	ElementGroup   ElementType = "group"
)

// Valid reports whether t is one of the known element types.
func (t ElementType) Valid() bool {
	switch t {
	case ElementText, ElementButton, ElementLink, ElementImage, ElementProduct, ElementGroup:
		return true
	}
	return false
}

// IsContainer reports whether elements of this type own children.
func (t ElementType) IsContainer() bool {
	return t == ElementGroup || t == ElementProduct
}

// SectionID names one of the three fixed regions of a screen.
type SectionID string

const (
	SectionHeader SectionID = "header"
	SectionBody   SectionID = "body"
	SectionFooter SectionID = "footer"
)

// SectionOrder is the traversal order used by every lookup.
var SectionOrder = []SectionID{SectionHeader, SectionBody, SectionFooter}

// Valid reports whether id is header, body or footer.
func (id SectionID) Valid() bool {
	return id == SectionHeader || id == SectionBody || id == SectionFooter
}

// Layout is the flex-like arrangement shared by sections and groups.
type Layout struct {
	Direction    string `json:"direction"`
	Wrap         string `json:"wrap"`
	Justify      string `json:"justifyContent"`
	AlignItems   string `json:"alignItems"`
	AlignContent string `json:"alignContent"`
	Gap          string `json:"gap"`
}

// IsZero reports whether no layout field is set.
func (l Layout) IsZero() bool {
	return l == Layout{}
}

// LayoutUpdate is a partial Layout; nil fields are left untouched.
type LayoutUpdate struct {
	Direction    *string `json:"direction,omitempty"`
	Wrap         *string `json:"wrap,omitempty"`
	Justify      *string `json:"justifyContent,omitempty"`
	AlignItems   *string `json:"alignItems,omitempty"`
	AlignContent *string `json:"alignContent,omitempty"`
	Gap          *string `json:"gap,omitempty"`
}

// Apply returns l with every non-nil field of u merged in.
func (u LayoutUpdate) Apply(l Layout) Layout {
	if u.Direction != nil {
		l.Direction = *u.Direction
	}
	if u.Wrap != nil {
		l.Wrap = *u.Wrap
	}
	if u.Justify != nil {
		l.Justify = *u.Justify
	}
	if u.AlignItems != nil {
		l.AlignItems = *u.AlignItems
	}
	if u.AlignContent != nil {
		l.AlignContent = *u.AlignContent
	}
	if u.Gap != nil {
		l.Gap = *u.Gap
	}
	return l
}

// StyleSource tells whether a style property follows the theme or was set by hand.
type StyleSource string

const (
	SourceManual StyleSource = "manual"
	SourceTheme  StyleSource = "theme"
)

// StyleValue is a single style declaration tagged with its origin.
type StyleValue struct {
	Value  string      `json:"value"`
	Source StyleSource `json:"source,omitempty"`
}

// UnmarshalJSON accepts both the tagged form and a bare string (manual).
func (v *StyleValue) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*v = StyleValue{Value: raw, Source: SourceManual}
		return nil
	}
	type plain StyleValue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Source == "" {
		p.Source = SourceManual
	}
	*v = StyleValue(p)
	return nil
}

// Styles maps camelCase CSS properties to tagged values.
type Styles map[string]StyleValue

// Values flattens the styles into the plain map handed to renderers.
func (s Styles) Values() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k] = v.Value
	}
	return out
}

// ThemeKeys lists the properties currently marked theme-owned, sorted.
func (s Styles) ThemeKeys() []string {
	keys := make([]string, 0)
	for k, v := range s {
		if v.Source == SourceTheme {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Element is a node of the content tree.
type Element struct {
	ID         string            `json:"id"`
	Type       ElementType       `json:"type"`
	Content    string            `json:"content,omitempty"`
	Styles     Styles            `json:"styles"`
	Attributes map[string]string `json:"attributes,omitempty"`
	StyleClass string            `json:"styleClass,omitempty"`
	SectionID  SectionID         `json:"sectionId,omitempty"`
	GroupID    string            `json:"groupId,omitempty"`
	IsGroup    bool              `json:"isGroup,omitempty"`
	Children   []Element         `json:"children,omitempty"`
	Layout     *Layout           `json:"layout,omitempty"`

	// LegacyThemeStyles is only read from documents written before styles
	// carried their source; Migrate folds it into Styles and clears it.
	LegacyThemeStyles []string `json:"themeStyles,omitempty"`
}

// Section is one of the fixed header/body/footer regions.
type Section struct {
	ID       SectionID         `json:"id"`
	Name     string            `json:"name"`
	Enabled  bool              `json:"enabled"`
	Elements []Element         `json:"elements"`
	Styles   map[string]string `json:"styles"`
	Layout   Layout            `json:"layout"`
}

// Sections holds the three regions of a screen; the set is closed.
type Sections struct {
	Header Section `json:"header"`
	Body   Section `json:"body"`
	Footer Section `json:"footer"`
}

// Get returns the section with the given id, or nil for an unknown id.
func (s *Sections) Get(id SectionID) *Section {
	switch id {
	case SectionHeader:
		return &s.Header
	case SectionBody:
		return &s.Body
	case SectionFooter:
		return &s.Footer
	}
	return nil
}

// All returns pointers to the sections in traversal order.
func (s *Sections) All() []*Section {
	return []*Section{&s.Header, &s.Body, &s.Footer}
}

// Screen is one page of the experience.
type Screen struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Sections Sections `json:"sections"`
}

// ThemeSize is the coarse size tier of a theme.
type ThemeSize string

const (
	SizeSmall  ThemeSize = "small"
	SizeMedium ThemeSize = "medium"
	SizeLarge  ThemeSize = "large"
)

// Valid reports whether s is small, medium or large.
func (s ThemeSize) Valid() bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// Theme is the document-wide default styling.
type Theme struct {
	PrimaryColor    string    `json:"primaryColor"`
	FontFamily      string    `json:"fontFamily"`
	BackgroundColor string    `json:"backgroundColor"`
	CornerRadius    string    `json:"cornerRadius"`
	Size            ThemeSize `json:"size"`
}

// ThemeUpdate is a partial Theme; nil fields are left untouched.
type ThemeUpdate struct {
	PrimaryColor    *string    `json:"primaryColor,omitempty"`
	FontFamily      *string    `json:"fontFamily,omitempty"`
	BackgroundColor *string    `json:"backgroundColor,omitempty"`
	CornerRadius    *string    `json:"cornerRadius,omitempty"`
	Size            *ThemeSize `json:"size,omitempty"`
}

// Apply returns t with the update merged in. An unknown size is ignored.
func (u ThemeUpdate) Apply(t Theme) Theme {
	if u.PrimaryColor != nil {
		t.PrimaryColor = *u.PrimaryColor
	}
	if u.FontFamily != nil {
		t.FontFamily = *u.FontFamily
	}
	if u.BackgroundColor != nil {
		t.BackgroundColor = *u.BackgroundColor
	}
	if u.CornerRadius != nil {
		t.CornerRadius = *u.CornerRadius
	}
	if u.Size != nil && u.Size.Valid() {
		t.Size = *u.Size
	}
	return t
}

// ThemePreset is a named, switchable theme.
type ThemePreset struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Settings Theme  `json:"settings"`
}

// StyleClass is a reusable style bundle scoped to a single element type.
type StyleClass struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	ElementType ElementType       `json:"elementType"`
	Styles      map[string]string `json:"styles"`
}

// Quiz is the editable document.
type Quiz struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	LastEdited         time.Time     `json:"lastEdited"`
	Screens            []Screen      `json:"screens"`
	CurrentScreenIndex int           `json:"currentScreenIndex"`
	Theme              Theme         `json:"theme"`
	Themes             []ThemePreset `json:"themes"`
	ActiveThemeID      string        `json:"activeThemeId,omitempty"`
	StyleClasses       []StyleClass  `json:"styleClasses"`
}

// CurrentScreen returns the active screen, or nil for an empty document.
func (q *Quiz) CurrentScreen() *Screen {
	if q.CurrentScreenIndex < 0 || q.CurrentScreenIndex >= len(q.Screens) {
		return nil
	}
	return &q.Screens[q.CurrentScreenIndex]
}

// ScreenIndex returns the index of the screen with id, or -1.
func (q *Quiz) ScreenIndex(id string) int {
	for i := range q.Screens {
		if q.Screens[i].ID == id {
			return i
		}
	}
	return -1
}

// StyleClass returns the class with id, or nil.
func (q *Quiz) StyleClass(id string) *StyleClass {
	for i := range q.StyleClasses {
		if q.StyleClasses[i].ID == id {
			return &q.StyleClasses[i]
		}
	}
	return nil
}

// ThemePreset returns the preset with id, or nil.
func (q *Quiz) ThemePreset(id string) *ThemePreset {
	for i := range q.Themes {
		if q.Themes[i].ID == id {
			return &q.Themes[i]
		}
	}
	return nil
}

// Summary returns the index record for the document.
func (q *Quiz) Summary() DocumentSummary {
	return DocumentSummary{ID: q.ID, Name: q.Name, LastEdited: q.LastEdited}
}

// DocumentSummary is the index entry kept next to every stored document.
type DocumentSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	LastEdited time.Time `json:"lastEdited"`
}

// DocumentEvent is broadcast to subscribers after every committed change.
type DocumentEvent struct {
	DocumentID string    `json:"documentId"`
	Version    int64     `json:"version"`
	Operation  string    `json:"operation"`
	Document   Quiz      `json:"document"`
	Selection  Selection `json:"selection"`
	CanUndo    bool      `json:"canUndo"`
	CanRedo    bool      `json:"canRedo"`
}

// Selection is the transient editor selection state.
type Selection struct {
	ElementIDs []string  `json:"elementIds"`
	SectionID  SectionID `json:"sectionId,omitempty"`
}
