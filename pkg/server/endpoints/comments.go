package endpoints

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/issuehub/issuehub/pkg/audit"
	"github.com/issuehub/issuehub/pkg/authz"
	"github.com/issuehub/issuehub/pkg/guardrail"
	"github.com/issuehub/issuehub/pkg/identity"
	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/server"
)

// CommentRequest is the payload for adding a comment.
type CommentRequest struct {
	Body string `json:"body"`
}

// RegisterCommentsEndpoints registers the comment routes. Comments are
// append-only: there is no update or delete route on purpose.
func RegisterCommentsEndpoints(s *server.Server, router *mux.Router) {
	router.HandleFunc("/projects/{project_id}/issues/{issue_id}/comments", handleListComments(s)).Methods("GET")
	router.HandleFunc("/projects/{project_id}/issues/{issue_id}/comments", handleAddComment(s)).Methods("POST")
}

func handleListComments(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		issue, ok := loadIssue(w, s, r, project.ID)
		if !ok {
			return
		}
		listComments(s, w, role, issue)
	}
}

func handleAddComment(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		issue, ok := loadIssue(w, s, r, project.ID)
		if !ok {
			return
		}
		addComment(s, w, r, id, project, role, issue)
	}
}

func listComments(s *server.Server, w http.ResponseWriter, role authz.RoleOrNone, issue *model.Issue) {
	if d := authz.Decide(role, authz.ActionReadComments, authz.Facts{}); !d.Allowed {
		respondNotFound(w, "issue")
		return
	}

	comments, err := s.CommentsStore.ListComments(issue.ID)
	if err != nil {
		respondServerError(w)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": comments})
}

func addComment(s *server.Server, w http.ResponseWriter, r *http.Request, id *identity.Identity, project *model.Project, role authz.RoleOrNone, issue *model.Issue) {
	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, map[string]string{"body": "malformed JSON"})
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		respondValidation(w, map[string]string{"body": "must not be empty"})
		return
	}

	if !scanContent(w, map[string]string{"body": req.Body}) {
		return
	}

	if d := authz.Decide(role, authz.ActionAddComment, authz.Facts{}); !d.Allowed {
		denyProjectAction(w, d)
		return
	}

	comment := &model.Comment{IssueID: issue.ID, AuthorID: id.ID(), Body: req.Body}
	if err := s.CommentsStore.CreateComment(comment); err != nil {
		respondServerError(w)
		return
	}

	s.Recorder.Record(audit.CommentAddedEvent{
		ActorID:   id.ID(),
		ProjectID: project.ID,
		IssueID:   issue.ID,
		CommentID: comment.ID,
		ClientIP:  id.RemoteIP,
	})
	respondWithJSON(w, http.StatusCreated, comment)
}
