package domain

import "strconv"

// Migrate repairs documents written by older builds or damaged in storage so
// that every invariant the editor relies on holds. It never rejects a document.
func Migrate(q *Quiz, newID func() string) {
	if newID == nil {
		newID = NewID
	}
	if q.ID == "" {
		q.ID = newID()
	}
	if q.Name == "" {
		q.Name = "Untitled quiz"
	}

	q.Theme = BackfillTheme(q.Theme)
	if len(q.Themes) == 0 {
		q.Themes = DefaultThemePresets()
	}
	for i := range q.Themes {
		q.Themes[i].Settings = BackfillTheme(q.Themes[i].Settings)
	}
	if q.ActiveThemeID != "" && q.ThemePreset(q.ActiveThemeID) == nil {
		q.ActiveThemeID = ""
	}
	if q.StyleClasses == nil {
		q.StyleClasses = []StyleClass{}
	}
	for i := range q.StyleClasses {
		if q.StyleClasses[i].Styles == nil {
			q.StyleClasses[i].Styles = map[string]string{}
		}
	}

	if len(q.Screens) == 0 {
		q.Screens = []Screen{NewScreen(newID(), "Screen 1", q.Theme)}
	}
	for i := range q.Screens {
		migrateScreen(&q.Screens[i], i, q.Theme, newID)
	}
	q.CurrentScreenIndex = ClampIndex(q.CurrentScreenIndex, len(q.Screens))

	EnsureUniqueIDs(q, newID)

	q.Walk(func(loc Location) bool {
		el := loc.Element()
		if el.StyleClass != "" && q.StyleClass(el.StyleClass) == nil {
			el.StyleClass = ""
		}
		return true
	})
}

// BackfillTheme fills empty theme fields from DefaultTheme.
func BackfillTheme(t Theme) Theme {
	def := DefaultTheme()
	if t.PrimaryColor == "" {
		t.PrimaryColor = def.PrimaryColor
	}
	if t.FontFamily == "" {
		t.FontFamily = def.FontFamily
	}
	if t.BackgroundColor == "" {
		t.BackgroundColor = def.BackgroundColor
	}
	if t.CornerRadius == "" {
		t.CornerRadius = def.CornerRadius
	}
	if !t.Size.Valid() {
		t.Size = def.Size
	}
	return t
}

// ClampIndex keeps i inside [0, n).
func ClampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func migrateScreen(s *Screen, index int, theme Theme, newID func() string) {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.Name == "" {
		s.Name = "Screen " + strconv.Itoa(index+1)
	}
	for _, id := range SectionOrder {
		sec := s.Sections.Get(id)
		def := NewSection(id, theme)
		sec.ID = id
		if sec.Name == "" {
			sec.Name = def.Name
		}
		if id == SectionBody {
			sec.Enabled = true
		}
		if sec.Elements == nil {
			sec.Elements = []Element{}
		}
		if sec.Styles == nil {
			sec.Styles = def.Styles
		}
		if sec.Layout.IsZero() {
			sec.Layout = def.Layout
		}
		for i := range sec.Elements {
			migrateElement(&sec.Elements[i], id, "")
		}
	}
}

func migrateElement(e *Element, section SectionID, groupID string) {
	e.SectionID = section
	e.GroupID = groupID
	if e.Styles == nil {
		e.Styles = Styles{}
	}
	for _, key := range e.LegacyThemeStyles {
		if v, ok := e.Styles[key]; ok {
			v.Source = SourceTheme
			e.Styles[key] = v
		}
	}
	e.LegacyThemeStyles = nil

	if e.Type.IsContainer() {
		e.IsGroup = true
	}
	if !e.IsGroup {
		e.Children = nil
		e.Layout = nil
		return
	}
	if e.Layout == nil || e.Layout.IsZero() {
		l := DefaultLayout()
		e.Layout = &l
	}
	for i := range e.Children {
		migrateElement(&e.Children[i], section, e.ID)
	}
}
