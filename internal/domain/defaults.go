package domain

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh random element/screen/document id.
func NewID() string {
	return uuid.NewString()
}

// DefaultTheme is used for new documents and to backfill missing theme fields.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:    "#3b82f6",
		FontFamily:      "Inter, sans-serif",
		BackgroundColor: "#ffffff",
		CornerRadius:    "8px",
		Size:            SizeMedium,
	}
}

// DefaultThemePresets are the presets every document starts with.
func DefaultThemePresets() []ThemePreset {
	return []ThemePreset{
		{ID: "classic", Name: "Classic", Settings: DefaultTheme()},
		{ID: "midnight", Name: "Midnight", Settings: Theme{
			PrimaryColor:    "#8b5cf6",
			FontFamily:      "Inter, sans-serif",
			BackgroundColor: "#111827",
			CornerRadius:    "12px",
			Size:            SizeMedium,
		}},
		{ID: "sunset", Name: "Sunset", Settings: Theme{
			PrimaryColor:    "#f97316",
			FontFamily:      "Georgia, serif",
			BackgroundColor: "#fff7ed",
			CornerRadius:    "24px",
			Size:            SizeLarge,
		}},
	}
}

// DefaultLayout is the fallback layout for groups.
func DefaultLayout() Layout {
	return Layout{
		Direction:    "column",
		Wrap:         "nowrap",
		Justify:      "flex-start",
		AlignItems:   "stretch",
		AlignContent: "flex-start",
		Gap:          "8px",
	}
}

func rowLayout() Layout {
	l := DefaultLayout()
	l.Direction = "row"
	l.AlignItems = "center"
	l.Justify = "space-between"
	return l
}

// NewSection builds one of the three fixed sections. Body is always enabled.
func NewSection(id SectionID, theme Theme) Section {
	s := Section{
		ID:       id,
		Elements: []Element{},
		Styles: map[string]string{
			"backgroundColor": theme.BackgroundColor,
			"padding":         "16px",
		},
	}
	switch id {
	case SectionHeader:
		s.Name = "Header"
		s.Layout = rowLayout()
	case SectionFooter:
		s.Name = "Footer"
		s.Layout = rowLayout()
	default:
		s.Name = "Body"
		s.Enabled = true
		s.Layout = DefaultLayout()
	}
	return s
}

// NewScreen builds an empty screen with header and footer disabled.
func NewScreen(id, name string, theme Theme) Screen {
	return Screen{
		ID:   id,
		Name: name,
		Sections: Sections{
			Header: NewSection(SectionHeader, theme),
			Body:   NewSection(SectionBody, theme),
			Footer: NewSection(SectionFooter, theme),
		},
	}
}

// NewQuiz builds an empty document with a single screen.
func NewQuiz(id, name string, newID func() string, now time.Time) Quiz {
	if newID == nil {
		newID = NewID
	}
	if id == "" {
		id = newID()
	}
	if name == "" {
		name = "Untitled quiz"
	}
	presets := DefaultThemePresets()
	theme := presets[0].Settings
	return Quiz{
		ID:            id,
		Name:          name,
		LastEdited:    now,
		Screens:       []Screen{NewScreen(newID(), "Screen 1", theme)},
		Theme:         theme,
		Themes:        presets,
		ActiveThemeID: presets[0].ID,
		StyleClasses:  []StyleClass{},
	}
}
