package session

import (
	"fmt"

	"cropeda/internal/errors"
)

// View is one of the dashboard's mutually exclusive activities
type View string

const (
	ViewOverview   View = "Overview"
	ViewStatistics View = "Dataset Statistics"
	ViewVisualize  View = "Visualize Features"
	ViewFilter     View = "Filter and Analyze Crop"
	ViewDownload   View = "Download Dataset"
)

// Views lists every view in menu order
var Views = []View{ViewOverview, ViewStatistics, ViewVisualize, ViewFilter, ViewDownload}

// Valid reports whether v belongs to the closed set of views
func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

// ParseView validates a view name arriving from user input
func ParseView(s string) (View, error) {
	v := View(s)
	if !v.Valid() {
		return "", errors.InvalidInput(fmt.Sprintf("unknown activity %q", s))
	}
	return v, nil
}

// State is the only durable piece of dashboard state: the active view.
type State struct {
	active View
}

// NewState returns a state showing the Overview
func NewState() *State {
	return &State{active: ViewOverview}
}

// Active returns the current view, Overview when never set
func (s *State) Active() View {
	if s.active == "" {
		return ViewOverview
	}
	return s.active
}

// SetActive switches the view. Views outside the closed set are a programming error.
func (s *State) SetActive(v View) {
	if !v.Valid() {
		panic(fmt.Sprintf("session: invalid view %q", v))
	}
	s.active = v
}

// Controls reads the transient selections of one render pass. Each read returns
// the value currently held by the control; nothing is remembered between passes.
type Controls interface {
	Checkbox(key, label string) bool
	Button(key, label string) bool
	Select(key, label string, options []string) string
}

// Selections is a fixed set of control values. Select falls back to the first
// option when nothing, or something not offered, was chosen.
type Selections struct {
	Checked  map[string]bool
	Pressed  map[string]bool
	Selected map[string]string
}

// NewSelections returns an empty set of selections
func NewSelections() *Selections {
	return &Selections{
		Checked:  make(map[string]bool),
		Pressed:  make(map[string]bool),
		Selected: make(map[string]string),
	}
}

// Checkbox reports whether key was ticked
func (s *Selections) Checkbox(key, _ string) bool {
	return s.Checked[key]
}

// Button reports whether key was pressed
func (s *Selections) Button(key, _ string) bool {
	return s.Pressed[key]
}

// Select returns the chosen option for key, or the first option
func (s *Selections) Select(key, _ string, options []string) string {
	if len(options) == 0 {
		return ""
	}
	if v, ok := s.Selected[key]; ok {
		for _, o := range options {
			if o == v {
				return v
			}
		}
	}
	return options[0]
}

// Check marks checkboxes as ticked and returns s for chaining
func (s *Selections) Check(keys ...string) *Selections {
	for _, k := range keys {
		s.Checked[k] = true
	}
	return s
}

// Press marks buttons as pressed and returns s for chaining
func (s *Selections) Press(keys ...string) *Selections {
	for _, k := range keys {
		s.Pressed[k] = true
	}
	return s
}

// Choose sets a select value and returns s for chaining
func (s *Selections) Choose(key, value string) *Selections {
	s.Selected[key] = value
	return s
}
