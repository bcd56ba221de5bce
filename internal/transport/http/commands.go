package http

import (
	"encoding/json"
	"fmt"

	"quiz-builder/internal/domain"
	"quiz-builder/internal/editor"
	"quiz-builder/internal/style"
)

// command is a bound editing operation: run applies it to the store and
// result carries anything the caller should get back (a new id, a count).
type command struct {
	run    func(s *editor.DocumentStore) bool
	result func() any
}

type commandFactory func(payload json.RawMessage) (command, error)

var commands = map[string]commandFactory{
	"addElement": func(raw json.RawMessage) (command, error) {
		var p struct {
			Type     domain.ElementType `json:"type"`
			Section  domain.SectionID   `json:"sectionId"`
			ScreenID string             `json:"screenId"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		var id string
		return command{
			run: func(s *editor.DocumentStore) (ok bool) {
				id, ok = s.AddElement(p.Type, p.Section, p.ScreenID)
				return ok
			},
			result: func() any { return id },
		}, nil
	},
	"updateElement": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID string `json:"id"`
			editor.ElementUpdate
			CSS string `json:"css"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		u := p.ElementUpdate
		if p.CSS != "" {
			parsed := style.ParseDeclarations(p.CSS)
			merged := make(map[string]string, len(parsed)+len(u.Styles))
			for k, v := range parsed {
				merged[k] = v
			}
			for k, v := range u.Styles {
				merged[k] = v
			}
			u.Styles = merged
		}
		return simple(func(s *editor.DocumentStore) bool { return s.UpdateElement(p.ID, u) }), nil
	},
	"removeElement": withID(func(s *editor.DocumentStore, id string) bool { return s.RemoveElement(id) }),
	"removeSelected": noPayload(func(s *editor.DocumentStore) bool {
		return s.RemoveSelectedElements()
	}),
	"moveElement": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID      string           `json:"id"`
			Section domain.SectionID `json:"sectionId"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.MoveElement(p.ID, p.Section) }), nil
	},
	"selectElement": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID          string `json:"id"`
			MultiSelect bool   `json:"multiSelect"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.SelectElement(p.ID, p.MultiSelect) }), nil
	},
	"selectSection": func(raw json.RawMessage) (command, error) {
		var p struct {
			Section domain.SectionID `json:"sectionId"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.SelectSection(p.Section) }), nil
	},
	"clearSelection": noPayload(func(s *editor.DocumentStore) bool {
		s.ClearSelection()
		return true
	}),
	"copy": func(json.RawMessage) (command, error) {
		var n int
		return command{
			run: func(s *editor.DocumentStore) bool {
				n = s.CopySelectedElements()
				return false
			},
			result: func() any { return n },
		}, nil
	},
	"paste": func(raw json.RawMessage) (command, error) {
		var p struct {
			Section domain.SectionID `json:"sectionId"`
			GroupID string           `json:"groupId"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		var ids []string
		return command{
			run: func(s *editor.DocumentStore) bool {
				ids = s.PasteElements(p.Section, p.GroupID)
				return len(ids) > 0
			},
			result: func() any { return ids },
		}, nil
	},
	"reorder": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID        string           `json:"id"`
			Direction editor.Direction `json:"direction"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.ReorderElement(p.ID, p.Direction) }), nil
	},
	"group": func(json.RawMessage) (command, error) {
		var id string
		return command{
			run: func(s *editor.DocumentStore) (ok bool) {
				id, ok = s.GroupSelectedElements()
				return ok
			},
			result: func() any { return id },
		}, nil
	},
	"ungroup": withID(func(s *editor.DocumentStore, id string) bool { return s.UngroupElements(id) }),
	"updateGroupStyles": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID     string            `json:"id"`
			Styles map[string]string `json:"styles"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.UpdateGroupStyles(p.ID, p.Styles) }), nil
	},
	"updateGroupLayout": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID     string              `json:"id"`
			Layout domain.LayoutUpdate `json:"layout"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.UpdateGroupLayout(p.ID, p.Layout) }), nil
	},
	"updateTheme": func(raw json.RawMessage) (command, error) {
		var u domain.ThemeUpdate
		if err := decode(raw, &u); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.UpdateTheme(u) }), nil
	},
	"applyTheme": func(raw json.RawMessage) (command, error) {
		var opts editor.ApplyThemeOptions
		if err := decode(raw, &opts); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.ApplyThemeToElements(opts) }), nil
	},
	"switchTheme":       withID(func(s *editor.DocumentStore, id string) bool { return s.SwitchTheme(id) }),
	"deleteThemePreset": withID(func(s *editor.DocumentStore, id string) bool { return s.DeleteThemePreset(id) }),
	"saveThemePreset": func(raw json.RawMessage) (command, error) {
		var p struct {
			Name string `json:"name"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		var id string
		return command{
			run: func(s *editor.DocumentStore) (ok bool) {
				id, ok = s.SaveThemePreset(p.Name)
				return ok
			},
			result: func() any { return id },
		}, nil
	},
	"createStyleClass": func(raw json.RawMessage) (command, error) {
		var p struct {
			ElementID string `json:"elementId"`
			Name      string `json:"name"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		var id string
		return command{
			run: func(s *editor.DocumentStore) (ok bool) {
				id, ok = s.CreateStyleClass(p.ElementID, p.Name)
				return ok
			},
			result: func() any { return id },
		}, nil
	},
	"updateStyleClass": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID     string            `json:"id"`
			Styles map[string]string `json:"styles"`
			CSS    string            `json:"css"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		styles := p.Styles
		if p.CSS != "" {
			styles = style.ParseDeclarations(p.CSS)
			for k, v := range p.Styles {
				styles[k] = v
			}
		}
		return simple(func(s *editor.DocumentStore) bool { return s.UpdateStyleClass(p.ID, styles) }), nil
	},
	"renameStyleClass": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.RenameStyleClass(p.ID, p.Name) }), nil
	},
	"deleteStyleClass": withID(func(s *editor.DocumentStore, id string) bool { return s.DeleteStyleClass(id) }),
	"applyStyleClass": func(raw json.RawMessage) (command, error) {
		var p struct {
			ElementID string `json:"elementId"`
			ClassID   string `json:"classId"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.ApplyStyleClass(p.ElementID, p.ClassID) }), nil
	},
	"detachStyleClass": withID(func(s *editor.DocumentStore, id string) bool { return s.DetachStyleClass(id) }),
	"addScreen": func(raw json.RawMessage) (command, error) {
		var p struct {
			Name string `json:"name"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		var id string
		return command{
			run: func(s *editor.DocumentStore) (ok bool) {
				id, ok = s.AddScreen(p.Name)
				return ok
			},
			result: func() any { return id },
		}, nil
	},
	"duplicateScreen": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID string `json:"id"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		var id string
		return command{
			run: func(s *editor.DocumentStore) (ok bool) {
				id, ok = s.DuplicateScreen(p.ID)
				return ok
			},
			result: func() any { return id },
		}, nil
	},
	"removeScreen": withID(func(s *editor.DocumentStore, id string) bool { return s.RemoveScreen(id) }),
	"renameScreen": func(raw json.RawMessage) (command, error) {
		var p struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.RenameScreen(p.ID, p.Name) }), nil
	},
	"selectScreen": func(raw json.RawMessage) (command, error) {
		var p struct {
			Index int `json:"index"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.SelectScreen(p.Index) }), nil
	},
	"setSectionEnabled": func(raw json.RawMessage) (command, error) {
		var p struct {
			Section domain.SectionID `json:"sectionId"`
			Enabled bool             `json:"enabled"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.SetSectionEnabled(p.Section, p.Enabled) }), nil
	},
	"updateSectionStyles": func(raw json.RawMessage) (command, error) {
		var p struct {
			Section domain.SectionID  `json:"sectionId"`
			Styles  map[string]string `json:"styles"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.UpdateSectionStyles(p.Section, p.Styles) }), nil
	},
	"updateSectionLayout": func(raw json.RawMessage) (command, error) {
		var p struct {
			Section domain.SectionID    `json:"sectionId"`
			Layout  domain.LayoutUpdate `json:"layout"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.UpdateSectionLayout(p.Section, p.Layout) }), nil
	},
	"renameDocument": func(raw json.RawMessage) (command, error) {
		var p struct {
			Name string `json:"name"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return s.RenameDocument(p.Name) }), nil
	},
	"undo": noPayload(func(s *editor.DocumentStore) bool { return s.Undo() }),
	"redo": noPayload(func(s *editor.DocumentStore) bool { return s.Redo() }),
}

// parseCommand resolves a client message to an operation.
func parseCommand(typ string, payload json.RawMessage) (command, error) {
	factory, ok := commands[typ]
	if !ok {
		return command{}, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, typ)
	}
	cmd, err := factory(payload)
	if err != nil {
		return command{}, fmt.Errorf("invalid %s payload: %w", typ, err)
	}
	if cmd.result == nil {
		cmd.result = func() any { return nil }
	}
	return cmd, nil
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func simple(fn func(s *editor.DocumentStore) bool) command {
	return command{run: fn}
}

func noPayload(fn func(s *editor.DocumentStore) bool) commandFactory {
	return func(json.RawMessage) (command, error) { return simple(fn), nil }
}

func withID(fn func(s *editor.DocumentStore, id string) bool) commandFactory {
	return func(raw json.RawMessage) (command, error) {
		var p struct {
			ID string `json:"id"`
		}
		if err := decode(raw, &p); err != nil {
			return command{}, err
		}
		return simple(func(s *editor.DocumentStore) bool { return fn(s, p.ID) }), nil
	}
}
