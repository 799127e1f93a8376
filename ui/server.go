package ui

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"cropeda/app/dashboard"
	"cropeda/internal"
	"cropeda/internal/errors"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Server serves one dashboard session over HTTP
type Server struct {
	router    *gin.Engine
	session   *dashboard.Session
	templates *template.Template
	logger    *internal.Logger
}

// NewServer creates the web server for sess. ginMode is one of gin's modes;
// request logging is only installed in debug mode.
func NewServer(sess *dashboard.Session, ginMode string) (*Server, error) {
	gin.SetMode(ginMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if ginMode == gin.DebugMode {
		router.Use(gin.Logger())
	}

	s := &Server{
		router:  router,
		session: sess,
		logger:  internal.DefaultLogger.With("UI"),
	}
	if err := s.initialize(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) initialize() error {
	funcMap := template.FuncMap{
		"chart": func(uri string) template.URL { return template.URL(uri) },
		"withRoot": func(root indexView, b dashboard.Block) blockView {
			return blockView{Root: root, Block: b}
		},
	}

	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return errors.Wrap(err, "failed to open embedded templates")
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return errors.Wrap(err, "failed to parse templates")
	}
	s.templates = tmpl

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// setupMiddleware serves the embedded stylesheet
func (s *Server) setupMiddleware() {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.logger.Warn("Static files unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/", s.handleIndex)
	s.router.GET("/download/:format", s.handleDownload)
	s.router.GET("/healthz", s.handleHealth)
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting %s on http://%s", dashboard.AppTitle, addr)
	return s.router.Run(addr)
}

// statusFor maps an application error code onto an HTTP status
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeValidationError, errors.CodeUnsupportedFormat:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeMissingColumn, errors.CodeNoData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) abort(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
