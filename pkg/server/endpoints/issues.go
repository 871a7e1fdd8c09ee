package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/issuehub/issuehub/pkg/audit"
	"github.com/issuehub/issuehub/pkg/authz"
	"github.com/issuehub/issuehub/pkg/guardrail"
	"github.com/issuehub/issuehub/pkg/identity"
	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/queryplan"
	"github.com/issuehub/issuehub/pkg/server"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// CreateIssueRequest is the payload for POST /api/projects/{id}/issues
type CreateIssueRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    *string `json:"priority,omitempty"`
	AssigneeID  *int64  `json:"assignee_id,omitempty"`
}

// OptionalInt64 distinguishes an absent field from an explicit null, so a
// PATCH can clear the assignee.
type OptionalInt64 struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// UpdateIssueRequest is the payload for PATCH on an issue. Nil fields are
// left unchanged. Status and assignee are restricted to maintainers; the
// remaining fields are open to the reporter and assignee as well.
type UpdateIssueRequest struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Priority    *string       `json:"priority,omitempty"`
	Status      *string       `json:"status,omitempty"`
	AssigneeID  OptionalInt64 `json:"assignee_id"`
}

// ListResponse is the envelope for issue listings.
type ListResponse struct {
	Items  []model.Issue `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// RegisterIssuesEndpoints registers project-scoped issue routes.
func RegisterIssuesEndpoints(s *server.Server, router *mux.Router) {
	router.HandleFunc("/projects/{project_id}/issues", handleListIssues(s)).Methods("GET")
	router.HandleFunc("/projects/{project_id}/issues", handleCreateIssue(s)).Methods("POST")
	router.HandleFunc("/projects/{project_id}/issues/{issue_id}", handleGetIssue(s)).Methods("GET")
	router.HandleFunc("/projects/{project_id}/issues/{issue_id}", handleUpdateIssue(s)).Methods("PATCH")
	router.HandleFunc("/projects/{project_id}/issues/{issue_id}", handleDeleteIssue(s)).Methods("DELETE")
	router.HandleFunc("/projects/{project_id}/issues/{issue_id}/status", handleTriageStatus(s)).Methods("PATCH")
}

func handleListIssues(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		if d := authz.Decide(role, authz.ActionListIssues, authz.Facts{}); !d.Allowed {
			respondNotFound(w, "project")
			return
		}

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

		items, total, err := s.IssuesStore.ListIssues([]int64{project.ID}, plan)
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

func handleCreateIssue(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		var req CreateIssueRequest
		if err := decodeJSON(r, &req); err != nil {
			respondValidation(w, map[string]string{"body": "malformed JSON"})
			return
		}

		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			respondValidation(w, map[string]string{"title": "must not be empty"})
			return
		}
		priority := model.IssuePriorityMedium
		if req.Priority != nil {
			var err error
			priority, err = model.IssuePriorityString(*req.Priority)
			if err != nil {
				respondValidation(w, map[string]string{"priority": "must be one of " + strings.Join(model.IssuePriorityStrings(), ", ")})
				return
			}
		}

		if !scanContent(w, map[string]string{"title": req.Title, "description": req.Description}) {
			return
		}

		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		if d := authz.Decide(role, authz.ActionCreateIssue, authz.Facts{}); !d.Allowed {
			denyProjectAction(w, d)
			return
		}

		if req.AssigneeID != nil {
			if ok := requireMemberAssignee(w, s, project.ID, *req.AssigneeID); !ok {
				return
			}
		}

		issue := &model.Issue{
			ProjectID:   project.ID,
			Title:       req.Title,
			Description: req.Description,
			Status:      model.IssueStatusOpen,
			Priority:    priority,
			ReporterID:  id.ID(),
			AssigneeID:  req.AssigneeID,
		}
		if err := s.IssuesStore.CreateIssue(issue); err != nil {
			respondServerError(w)
			return
		}

		s.Recorder.Record(audit.IssueCreatedEvent{
			ActorID:   id.ID(),
			ProjectID: project.ID,
			IssueID:   issue.ID,
			Title:     issue.Title,
			ClientIP:  id.RemoteIP,
		})
		respondWithJSON(w, http.StatusCreated, issue)
	}
}

func handleGetIssue(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		if d := authz.Decide(role, authz.ActionReadIssue, authz.Facts{}); !d.Allowed {
			respondNotFound(w, "issue")
			return
		}
		issue, ok := loadIssue(w, s, r, project.ID)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, issue)
	}
}

func handleUpdateIssue(s *server.Server) http.HandlerFunc {
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

		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		issue, ok := loadIssue(w, s, r, project.ID)
		if !ok {
			return
		}
		updateIssue(s, w, req, id, project, role, issue)
	}
}

// TriageStatusRequest is the payload for the maintainer status route.
type TriageStatusRequest struct {
	Status *string `json:"status"`
}

func handleTriageStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		var req TriageStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			respondValidation(w, map[string]string{"body": "malformed JSON"})
			return
		}
		if req.Status == nil {
			respondValidation(w, map[string]string{"status": "is required"})
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
		updateIssue(s, w, UpdateIssueRequest{Status: req.Status}, id, project, role, issue)
	}
}

// updateIssue applies a PATCH to an already loaded issue. Status and
// assignee changes go through the triage gate, the remaining fields through
// the owner gate; a body mixing the two is denied as a whole when the
// caller lacks triage rights.
func updateIssue(s *server.Server, w http.ResponseWriter, req UpdateIssueRequest, id *identity.Identity, project *model.Project, role authz.RoleOrNone, issue *model.Issue) {
	fields := map[string]string{}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		fields["title"] = "must not be empty"
	}
	var priority model.IssuePriority
	if req.Priority != nil {
		var err error
		priority, err = model.IssuePriorityString(*req.Priority)
		if err != nil {
			fields["priority"] = "must be one of " + strings.Join(model.IssuePriorityStrings(), ", ")
		}
	}
	var status model.IssueStatus
	if req.Status != nil {
		var err error
		status, err = model.IssueStatusString(*req.Status)
		if err != nil {
			fields["status"] = "must be one of " + strings.Join(model.IssueStatusStrings(), ", ")
		}
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	scanFields := map[string]string{}
	if req.Title != nil {
		scanFields["title"] = *req.Title
	}
	if req.Description != nil {
		scanFields["description"] = *req.Description
	}
	if !scanContent(w, scanFields) {
		return
	}

	facts := authz.Facts{
		IsReporter: issue.ReporterID == id.ID(),
		IsAssignee: issue.AssigneeID != nil && *issue.AssigneeID == id.ID(),
	}

	triage := req.Status != nil || req.AssigneeID.Set
	if triage {
		if d := authz.Decide(role, authz.ActionEditIssueTriage, facts); !d.Allowed {
			auditTriageDenial(s, id, project.ID, issue, req, d)
			denyProjectAction(w, d)
			return
		}
	}

	open := req.Title != nil || req.Description != nil || req.Priority != nil
	if open {
		if d := authz.Decide(role, authz.ActionEditIssue, facts); !d.Allowed {
			s.Recorder.Record(audit.IssueUpdatedEvent{
				ActorID:   id.ID(),
				ProjectID: project.ID,
				IssueID:   issue.ID,
				Fields:    openFieldNames(req),
				ClientIP:  id.RemoteIP,
				Allowed:   false,
				Reason:    string(d.Reason),
			})
			denyProjectAction(w, d)
			return
		}
	}

	if req.AssigneeID.Set && req.AssigneeID.Value != nil {
		if ok := requireMemberAssignee(w, s, project.ID, *req.AssigneeID.Value); !ok {
			return
		}
	}

	// All checks passed; apply and persist.
	var events []audit.Event
	if req.Status != nil && *req.Status != issue.Status.String() {
		events = append(events, audit.IssueTriagedEvent{
			ActorID:   id.ID(),
			ProjectID: project.ID,
			IssueID:   issue.ID,
			Field:     "status",
			From:      issue.Status.String(),
			To:        status.String(),
			ClientIP:  id.RemoteIP,
			Allowed:   true,
		})
		issue.Status = status
	}
	if req.AssigneeID.Set {
		events = append(events, audit.IssueTriagedEvent{
			ActorID:   id.ID(),
			ProjectID: project.ID,
			IssueID:   issue.ID,
			Field:     "assignee",
			From:      assigneeString(issue.AssigneeID),
			To:        assigneeString(req.AssigneeID.Value),
			ClientIP:  id.RemoteIP,
			Allowed:   true,
		})
		issue.AssigneeID = req.AssigneeID.Value
	}
	if req.Title != nil {
		issue.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		issue.Description = *req.Description
	}
	if req.Priority != nil {
		issue.Priority = priority
	}
	if open {
		events = append(events, audit.IssueUpdatedEvent{
			ActorID:   id.ID(),
			ProjectID: project.ID,
			IssueID:   issue.ID,
			Fields:    openFieldNames(req),
			ClientIP:  id.RemoteIP,
			Allowed:   true,
		})
	}

	if err := s.IssuesStore.UpdateIssue(issue); err != nil {
		respondServerError(w)
		return
	}
	for _, event := range events {
		s.Recorder.Record(event)
	}
	respondWithJSON(w, http.StatusOK, issue)
}

func handleDeleteIssue(s *server.Server) http.HandlerFunc {
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
		deleteIssue(s, w, id, project, role, issue)
	}
}

func deleteIssue(s *server.Server, w http.ResponseWriter, id *identity.Identity, project *model.Project, role authz.RoleOrNone, issue *model.Issue) {
	facts := authz.Facts{
		IsReporter: issue.ReporterID == id.ID(),
		IsAssignee: issue.AssigneeID != nil && *issue.AssigneeID == id.ID(),
	}
	if d := authz.Decide(role, authz.ActionDeleteIssue, facts); !d.Allowed {
		s.Recorder.Record(audit.IssueDeletedEvent{
			ActorID:   id.ID(),
			ProjectID: project.ID,
			IssueID:   issue.ID,
			ClientIP:  id.RemoteIP,
			Allowed:   false,
			Reason:    string(d.Reason),
		})
		denyProjectAction(w, d)
		return
	}

	if err := s.IssuesStore.DeleteIssue(project.ID, issue.ID); err != nil {
		if errors.Is(err, store.ErrIssueNotFound) {
			respondNotFound(w, "issue")
			return
		}
		respondServerError(w)
		return
	}

	s.Recorder.Record(audit.IssueDeletedEvent{
		ActorID:   id.ID(),
		ProjectID: project.ID,
		IssueID:   issue.ID,
		ClientIP:  id.RemoteIP,
		Allowed:   true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func loadIssue(w http.ResponseWriter, s *server.Server, r *http.Request, projectID int64) (*model.Issue, bool) {
	issueID, ok := pathID(r, "issue_id")
	if !ok {
		respondNotFound(w, "issue")
		return nil, false
	}
	issue, err := s.IssuesStore.GetIssue(projectID, issueID)
	if err != nil {
		if errors.Is(err, store.ErrIssueNotFound) {
			respondNotFound(w, "issue")
			return nil, false
		}
		respondServerError(w)
		return nil, false
	}
	return issue, true
}

// requireMemberAssignee enforces that an assignee holds a membership in the
// issue's project at the time of assignment.
func requireMemberAssignee(w http.ResponseWriter, s *server.Server, projectID, assigneeID int64) bool {
	member, err := s.MembershipsStore.GetMembership(projectID, assigneeID)
	if err != nil {
		respondServerError(w)
		return false
	}
	if member == nil {
		respondValidation(w, map[string]string{"assignee_id": "assignee must be a member of the project"})
		return false
	}
	return true
}

func openFieldNames(req UpdateIssueRequest) []string {
	var names []string
	if req.Title != nil {
		names = append(names, "title")
	}
	if req.Description != nil {
		names = append(names, "description")
	}
	if req.Priority != nil {
		names = append(names, "priority")
	}
	return names
}

func assigneeString(id *int64) string {
	if id == nil {
		return "unassigned"
	}
	return strconv.FormatInt(*id, 10)
}

func auditTriageDenial(s *server.Server, id *identity.Identity, projectID int64, issue *model.Issue, req UpdateIssueRequest, d authz.Decision) {
	if req.Status != nil {
		s.Recorder.Record(audit.IssueTriagedEvent{
			ActorID:   id.ID(),
			ProjectID: projectID,
			IssueID:   issue.ID,
			Field:     "status",
			From:      issue.Status.String(),
			To:        *req.Status,
			ClientIP:  id.RemoteIP,
			Allowed:   false,
			Reason:    string(d.Reason),
		})
	}
	if req.AssigneeID.Set {
		s.Recorder.Record(audit.IssueTriagedEvent{
			ActorID:   id.ID(),
			ProjectID: projectID,
			IssueID:   issue.ID,
			Field:     "assignee",
			From:      assigneeString(issue.AssigneeID),
			To:        assigneeString(req.AssigneeID.Value),
			ClientIP:  id.RemoteIP,
			Allowed:   false,
			Reason:    string(d.Reason),
		})
	}
}
