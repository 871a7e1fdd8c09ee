package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/issuehub/issuehub/pkg/authz"
	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/server"
)

const auditPageLimit = 100

// AuditResponse pages the audit trail by sequence number. Entries come back
// in ascending sequence order; NextAfter is the cursor for the next page.
type AuditResponse struct {
	Items     []model.AuditEntry `json:"items"`
	NextAfter uint64             `json:"next_after"`
}

// RegisterAuditEndpoints registers the audit trail read. Reading the trail is
// an ordinary protected action, gated like any other maintainer-only
// operation.
func RegisterAuditEndpoints(s *server.Server, router *mux.Router) {
	router.HandleFunc("/projects/{project_id}/audit", handleReadAudit(s)).Methods("GET")
}

func handleReadAudit(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		if d := authz.Decide(role, authz.ActionReadAudit, authz.Facts{}); !d.Allowed {
			denyProjectAction(w, d)
			return
		}

		var after uint64
		if v := r.URL.Query().Get("after"); v != "" {
			parsed, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				respondValidation(w, map[string]string{"after": "must be a non-negative integer"})
				return
			}
			after = parsed
		}

		entries, err := s.AuditStore.ListEntries(project.ID, after, auditPageLimit)
		if err != nil {
			respondServerError(w)
			return
		}

		next := after
		if len(entries) > 0 {
			next = entries[len(entries)-1].Sequence
		}
		respondWithJSON(w, http.StatusOK, AuditResponse{Items: entries, NextAfter: next})
	}
}
