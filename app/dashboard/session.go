package dashboard

import (
	"context"

	"cropeda/domain/dataset"
	"cropeda/domain/session"
	"cropeda/internal"
	"cropeda/internal/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Status is a snapshot of the session for health reporting
type Status struct {
	SessionID string       `json:"session_id"`
	Active    session.View `json:"active_view"`
	Rows      int          `json:"rows"`
	Columns   int          `json:"columns"`
	Fatal     string       `json:"fatal,omitempty"`
}

// Session owns the loaded table and the durable view state of one dashboard.
// Render passes are serialized: one runs to completion before the next starts.
type Session struct {
	id         string
	state      *session.State
	table      *dataset.Table
	data       *Data
	fatal      error
	dispatcher *Dispatcher
	sem        *semaphore.Weighted
	logger     *internal.Logger
}

// NewSession checks the label precondition once. When it fails the session is
// halted and every pass shows only the error.
func NewSession(table *dataset.Table, dispatcher *Dispatcher) *Session {
	s := &Session{
		id:         uuid.New().String(),
		state:      session.NewState(),
		table:      table,
		dispatcher: dispatcher,
		sem:        semaphore.NewWeighted(1),
		logger:     internal.DefaultLogger.With("Session"),
	}
	data, err := NewData(table)
	if err != nil {
		s.fatal = err
		s.logger.Error("Session %s halted: %v", s.id, err)
		return s
	}
	s.data = data
	s.logger.Info("Session %s ready (%d rows, %d features)", s.id, table.Rows(), len(data.Features))
	return s
}

// ID identifies the session in logs and health output
func (s *Session) ID() string {
	return s.id
}

// Fatal returns the precondition failure that halted the session, if any
func (s *Session) Fatal() error {
	return s.fatal
}

// Render runs one pass. A non-nil requested view that differs from the active
// one switches the view first, and the selections submitted with the switch
// belong to the old view, so the pass reads none of them.
func (s *Session) Render(ctx context.Context, requested *session.View, controls session.Controls) (*Page, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "render pass cancelled")
	}
	defer s.sem.Release(1)

	if s.fatal != nil {
		return FatalPage(s.fatal), nil
	}

	if requested != nil && *requested != s.state.Active() {
		s.logger.Debug("Switching view %s -> %s", s.state.Active(), *requested)
		s.state.SetActive(*requested)
		controls = session.NewSelections()
	}
	if controls == nil {
		controls = session.NewSelections()
	}

	passID := uuid.New().String()
	s.logger.Debug("Pass %s rendering %s", passID, s.state.Active())
	page := s.dispatcher.Render(s.state, s.data, controls)
	page.PassID = passID
	return page, nil
}

// Export renders the Download view with export ticked and returns the artifact
// in format. The session's active view is left as it was.
func (s *Session) Export(ctx context.Context, format string) (*Download, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "export cancelled")
	}
	defer s.sem.Release(1)

	if s.fatal != nil {
		return nil, s.fatal
	}

	scratch := session.NewState()
	scratch.SetActive(session.ViewDownload)
	page := s.dispatcher.Render(scratch, s.data, session.NewSelections().Check(KeyExport))
	if errs := page.BlocksOf(BlockError); len(errs) > 0 {
		return nil, errors.InternalError(errs[0].Text)
	}
	for _, d := range page.Downloads() {
		if d.Format == format {
			s.logger.Info("Exported %s (%d bytes)", d.FileName, len(d.Data))
			return d, nil
		}
	}
	return nil, errors.NotFound("export format " + format)
}

// Status reports the session's current state
func (s *Session) Status(ctx context.Context) (Status, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return Status{}, errors.Wrap(err, "status cancelled")
	}
	defer s.sem.Release(1)

	rows, cols := s.table.Shape()
	st := Status{SessionID: s.id, Active: s.state.Active(), Rows: rows, Columns: cols}
	if s.fatal != nil {
		st.Fatal = s.fatal.Error()
	}
	return st, nil
}
