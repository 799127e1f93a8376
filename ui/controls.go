package ui

import (
	"net/url"
)

const (
	// activityParam carries the requested view
	activityParam = "activity"
	// triggerParam carries the key of the button that submitted the form
	triggerParam = "trigger"
)

// formControls reads one pass's selections from a submitted form. A checkbox is
// ticked when its key is present, a button is pressed when it submitted the
// form, and a select holds the submitted value if it is one of the options.
type formControls struct {
	form url.Values
}

func newFormControls(form url.Values) *formControls {
	return &formControls{form: form}
}

func (f *formControls) Checkbox(key, _ string) bool {
	_, ok := f.form[key]
	return ok
}

func (f *formControls) Button(key, _ string) bool {
	for _, v := range f.form[triggerParam] {
		if v == key {
			return true
		}
	}
	return false
}

func (f *formControls) Select(key, _ string, options []string) string {
	if len(options) == 0 {
		return ""
	}
	if v := f.form.Get(key); v != "" {
		for _, o := range options {
			if o == v {
				return v
			}
		}
	}
	return options[0]
}
