package ui

import (
	"fmt"
	"net/http"

	"cropeda/app/dashboard"
	"cropeda/domain/session"
	"cropeda/internal/errors"

	"github.com/gin-gonic/gin"
)

// indexView is what index.html renders
type indexView struct {
	Page      *dashboard.Page
	SessionID string
	Trigger   string
	Activity  string
}

// blockView hands one block to the block template along with the page-wide names
type blockView struct {
	Root  indexView
	Block dashboard.Block
}

// handleIndex runs one render pass with the submitted form as its selections
func (s *Server) handleIndex(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		s.abort(c, errors.InvalidInput(fmt.Sprintf("malformed form: %v", err)))
		return
	}
	form := c.Request.Form

	// a halted session shows its error whatever was submitted
	var requested *session.View
	if raw := form.Get(activityParam); raw != "" && s.session.Fatal() == nil {
		v, err := session.ParseView(raw)
		if err != nil {
			s.abort(c, err)
			return
		}
		requested = &v
	}

	page, err := s.session.Render(c.Request.Context(), requested, newFormControls(form))
	if err != nil {
		s.abort(c, err)
		return
	}

	s.renderTemplate(c, "index.html", indexView{
		Page:      page,
		SessionID: s.session.ID(),
		Trigger:   triggerParam,
		Activity:  activityParam,
	})
}

// handleDownload exports the final dataset in the requested format
func (s *Server) handleDownload(c *gin.Context) {
	download, err := s.session.Export(c.Request.Context(), c.Param("format"))
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.FileName))
	c.Data(http.StatusOK, download.MIMEType, download.Data)
}

// handleHealth reports the session status. A halted session is unavailable.
func (s *Server) handleHealth(c *gin.Context) {
	status, err := s.session.Status(c.Request.Context())
	if err != nil {
		s.abort(c, err)
		return
	}
	code := http.StatusOK
	if status.Fatal != "" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
