package dashboard

import (
	"cropeda/adapters/charts"
	"cropeda/domain/session"
	"cropeda/internal"
)

// pass carries everything one render pass needs. Nothing in it outlives the pass.
type pass struct {
	page     *Page
	data     *Data
	derived  *Derived
	controls session.Controls
	renderer *charts.Renderer
	preview  int
}

type viewFunc func(p *pass) error

// toggle is an optional display guarded by a checkbox
type toggle struct {
	key     string
	label   string
	produce func(p *pass) error
}

// trigger is a plot fired by a button after reading its own selects
type trigger struct {
	key     string
	label   string
	selects []selectSpec
	produce func(p *pass, chosen []string) error
}

type selectSpec struct {
	key   string
	label string
}

// Dispatcher renders the active view of a session into a page tree
type Dispatcher struct {
	renderer    *charts.Renderer
	previewRows int
	views       map[session.View]viewFunc
	logger      *internal.Logger
}

// NewDispatcher creates a dispatcher drawing charts with renderer and
// previewing previewRows rows in head and tail tables.
func NewDispatcher(renderer *charts.Renderer, previewRows int) *Dispatcher {
	if previewRows < 1 {
		previewRows = 5
	}
	d := &Dispatcher{
		renderer:    renderer,
		previewRows: previewRows,
		logger:      internal.DefaultLogger.With("Dashboard"),
	}
	d.views = map[session.View]viewFunc{
		session.ViewOverview:   renderOverview,
		session.ViewStatistics: renderStatistics,
		session.ViewVisualize:  renderVisualize,
		session.ViewFilter:     renderFilter,
		session.ViewDownload:   renderDownload,
	}
	return d
}

// Render produces the page for the active view of state. It depends only on its
// arguments: the same state, data and selections give the same page. A failure
// inside a view ends that view's output with an error block; the next pass
// starts clean.
func (d *Dispatcher) Render(state *session.State, data *Data, controls session.Controls) *Page {
	active := state.Active()
	page := newPage(active)
	page.Columns = data.Table.Names()

	p := &pass{
		page:     page,
		data:     data,
		derived:  NewDerived(data.Table),
		controls: &recorder{controls: controls, page: page},
		renderer: d.renderer,
		preview:  d.previewRows,
	}
	if err := d.views[active](p); err != nil {
		d.logger.Warn("View %s failed: %v", active, err)
		page.errorf(err)
	}
	return page
}

// runToggles evaluates each toggle in order and produces the ticked ones
func runToggles(p *pass, toggles []toggle) error {
	for _, t := range toggles {
		if !p.controls.Checkbox(t.key, t.label) {
			continue
		}
		if err := t.produce(p); err != nil {
			return err
		}
	}
	return nil
}

// runTriggers reads every trigger's selects, then its button, and produces the
// plots whose button fired. Several triggers may fire in one pass.
func runTriggers(p *pass, triggers []trigger) error {
	for _, t := range triggers {
		chosen := make([]string, len(t.selects))
		for i, s := range t.selects {
			chosen[i] = p.controls.Select(s.key, s.label, p.data.PlotFeatures)
		}
		if !p.controls.Button(t.key, t.label) {
			continue
		}
		if err := t.produce(p, chosen); err != nil {
			return err
		}
	}
	return nil
}
