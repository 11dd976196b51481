package api

import (
	"net/http"

	"github.com/seenimoa/sentitrack/internal/config"
)

// handleGetConfigKeys returns the status of the credentials the configured
// providers need. Values are masked.
func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	keys := config.CheckAPIKeys(s.cfg)
	if keys == nil {
		keys = []config.KeyStatus{}
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    keys,
	})
}
