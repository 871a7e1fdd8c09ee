package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/issuehub/issuehub/pkg/authz"
	"github.com/issuehub/issuehub/pkg/guardrail"
	"github.com/issuehub/issuehub/pkg/identity"
	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/queryplan"
	"github.com/issuehub/issuehub/pkg/server"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// RegisterGlobalIssuesEndpoint registers the cross-project issue listing and
// the /issues/{id} variants that resolve the project from the issue itself.
// The visibility scope is the set of projects the caller belongs to, so a
// caller with no memberships gets an empty page, not an error.
func RegisterGlobalIssuesEndpoint(s *server.Server, router *mux.Router) {
	router.HandleFunc("/issues", handleListAllIssues(s)).Methods("GET")
	router.HandleFunc("/issues/{issue_id}", handleGetGlobalIssue(s)).Methods("GET")
	router.HandleFunc("/issues/{issue_id}", handleUpdateGlobalIssue(s)).Methods("PATCH")
	router.HandleFunc("/issues/{issue_id}", handleDeleteGlobalIssue(s)).Methods("DELETE")
	router.HandleFunc("/issues/{issue_id}/comments", handleListGlobalComments(s)).Methods("GET")
	router.HandleFunc("/issues/{issue_id}/comments", handleAddGlobalComment(s)).Methods("POST")
}

// loadGlobalIssue resolves an issue by id, then its project and the caller's
// role. A missing issue and an issue in a project the caller cannot see get
// the same 404.
func loadGlobalIssue(w http.ResponseWriter, s *server.Server, r *http.Request, id *identity.Identity) (*model.Project, authz.RoleOrNone, *model.Issue, bool) {
	issueID, ok := pathID(r, "issue_id")
	if !ok {
		respondNotFound(w, "issue")
		return nil, authz.NoMembership(), nil, false
	}
	issue, err := s.IssuesStore.GetIssueByID(issueID)
	if err != nil {
		if errors.Is(err, store.ErrIssueNotFound) {
			respondNotFound(w, "issue")
			return nil, authz.NoMembership(), nil, false
		}
		respondServerError(w)
		return nil, authz.NoMembership(), nil, false
	}

	project, role, ok := loadProjectByID(w, s, issue.ProjectID, id)
	if !ok {
		return nil, authz.NoMembership(), nil, false
	}
	return project, role, issue, true
}

func handleGetGlobalIssue(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		_, role, issue, ok := loadGlobalIssue(w, s, r, id)
		if !ok {
			return
		}
		if d := authz.Decide(role, authz.ActionReadIssue, authz.Facts{}); !d.Allowed {
			respondNotFound(w, "issue")
			return
		}
		respondWithJSON(w, http.StatusOK, issue)
	}
}

func handleUpdateGlobalIssue(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		var req UpdateIssueRequest
		if err := decodeJSON(r, &req); err != nil {
			respondValidation(w, map[string]string{"body": "malformed JSON"})
			return
		}

		project, role, issue, ok := loadGlobalIssue(w, s, r, id)
		if !ok {
			return
		}
		updateIssue(s, w, req, id, project, role, issue)
	}
}

func handleDeleteGlobalIssue(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		project, role, issue, ok := loadGlobalIssue(w, s, r, id)
		if !ok {
			return
		}
		deleteIssue(s, w, id, project, role, issue)
	}
}

func handleListGlobalComments(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		_, role, issue, ok := loadGlobalIssue(w, s, r, id)
		if !ok {
			return
		}
		listComments(s, w, role, issue)
	}
}

func handleAddGlobalComment(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		project, role, issue, ok := loadGlobalIssue(w, s, r, id)
		if !ok {
			return
		}
		addComment(s, w, r, id, project, role, issue)
	}
}

func handleListAllIssues(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)

		plan, err := queryplan.Parse(r.URL.Query(), s.Config.ListLimitMax)
		if err != nil {
			var verr *queryplan.ValidationError
			if errors.As(err, &verr) {
				respondValidation(w, verr.Fields)
				return
			}
			respondServerError(w)
			return
		}

		scope, err := s.MembershipsStore.ListProjectIDsForUser(id.ID())
		if err != nil {
			respondServerError(w)
			return
		}

		items, total, err := s.IssuesStore.ListIssues(scope, plan)
		if err != nil {
			respondServerError(w)
			return
		}
		respondWithJSON(w, http.StatusOK, ListResponse{
			Items:  items,
			Total:  total,
			Limit:  plan.Limit,
			Offset: plan.Offset,
		})
	}
}
