// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"physiosheet/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth      *app.AuthService
	timesheet *app.TimesheetService
	summary   *app.SummaryService

	oidcConfig OIDCConfig
	webDir     string
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, ts *app.TimesheetService, sum *app.SummaryService, oidcConfig OIDCConfig, webDir string) *Server {
	return &Server{auth: auth, timesheet: ts, summary: sum, oidcConfig: oidcConfig, webDir: webDir}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/register", s.handleRegister)
	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	api.Handle("/auth/me", s.authMiddleware(http.HandlerFunc(s.handleMe)))
	api.Handle("/sessions", s.authMiddleware(http.HandlerFunc(s.handleSessions)))
	api.Handle("/therapists", s.authMiddleware(s.adminOnly(http.HandlerFunc(s.handleTherapists))))
	api.Handle("/summary", s.authMiddleware(s.adminOnly(http.HandlerFunc(s.handleSummary))))
	api.Handle("/summary/text", s.authMiddleware(s.adminOnly(http.HandlerFunc(s.handleSummaryText))))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
