package endpoints

import (
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
	"github.com/issuehub/issuehub/pkg/server"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// CreateProjectRequest is the payload for POST /api/projects
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// MemberRequest is the payload for adding a member. Exactly one of UserID and
// Email identifies the target.
type MemberRequest struct {
	UserID *int64  `json:"user_id,omitempty"`
	Email  *string `json:"email,omitempty"`
	Role   string  `json:"role"`
}

// RoleRequest is the payload for changing a member's role.
type RoleRequest struct {
	Role string `json:"role"`
}

// RegisterProjectsEndpoints registers project and membership routes.
func RegisterProjectsEndpoints(s *server.Server, router *mux.Router) {
	router.HandleFunc("/projects", handleCreateProject(s)).Methods("POST")
	router.HandleFunc("/projects", handleListProjects(s)).Methods("GET")
	router.HandleFunc("/projects/{project_id}", handleGetProject(s)).Methods("GET")
	router.HandleFunc("/projects/{project_id}/membership", handleGetMembership(s)).Methods("GET")

	router.HandleFunc("/projects/{project_id}/members", handleListMembers(s)).Methods("GET")
	router.HandleFunc("/projects/{project_id}/members", handleAddMember(s)).Methods("POST")
	router.HandleFunc("/projects/{project_id}/members/{user_id}", handleChangeRole(s)).Methods("PATCH")
	router.HandleFunc("/projects/{project_id}/members/{user_id}", handleRemoveMember(s)).Methods("DELETE")
}

func handleCreateProject(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		var req CreateProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			respondValidation(w, map[string]string{"body": "malformed JSON"})
			return
		}

		fields := map[string]string{}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			fields["name"] = "must not be empty"
		}
		if !model.ValidProjectKey(req.Key) {
			fields["key"] = "must be 2-20 uppercase letters or digits, starting with a letter"
		}
		if len(fields) > 0 {
			respondValidation(w, fields)
			return
		}

		if _, err := s.ProjectsStore.GetProjectByKey(req.Key); err == nil {
			respondConflict(w, "project key already in use")
			return
		} else if !errors.Is(err, store.ErrProjectNotFound) {
			respondServerError(w)
			return
		}

		project := &model.Project{Name: req.Name, Key: req.Key, Description: req.Description}
		if err := s.ProjectsStore.CreateProject(project); err != nil {
			respondServerError(w)
			return
		}

		// The creator administers the project they created.
		member := &model.ProjectMember{ProjectID: project.ID, UserID: id.ID(), Role: model.RoleMaintainer}
		if err := s.MembershipsStore.AddMember(member); err != nil {
			respondServerError(w)
			return
		}

		respondWithJSON(w, http.StatusCreated, project)
	}
}

func handleListProjects(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		projects, err := s.ProjectsStore.ListProjectsForUser(id.ID())
		if err != nil {
			respondServerError(w)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": projects})
	}
}

func handleGetProject(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		if d := authz.Decide(role, authz.ActionViewProject, authz.Facts{}); !d.Allowed {
			respondNotFound(w, "project")
			return
		}
		respondWithJSON(w, http.StatusOK, project)
	}
}

// handleGetMembership returns the caller's own membership in the project.
// Non-members get the existence-hiding 404.
func handleGetMembership(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		if d := authz.Decide(role, authz.ActionViewProject, authz.Facts{}); !d.Allowed {
			respondNotFound(w, "project")
			return
		}

		member, err := s.MembershipsStore.GetMembership(project.ID, id.ID())
		if err != nil {
			respondServerError(w)
			return
		}
		if member == nil {
			respondNotFound(w, "project")
			return
		}
		respondWithJSON(w, http.StatusOK, member)
	}
}

func handleListMembers(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		if d := authz.Decide(role, authz.ActionViewProject, authz.Facts{}); !d.Allowed {
			respondNotFound(w, "project")
			return
		}

		members, err := s.MembershipsStore.ListMembers(project.ID)
		if err != nil {
			respondServerError(w)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": members})
	}
}

func handleAddMember(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}

		var req MemberRequest
		if err := decodeJSON(r, &req); err != nil {
			respondValidation(w, map[string]string{"body": "malformed JSON"})
			return
		}

		newRole, err := model.RoleString(req.Role)
		if err != nil {
			respondValidation(w, map[string]string{"role": "must be one of member, maintainer"})
			return
		}
		if (req.UserID == nil) == (req.Email == nil) {
			respondValidation(w, map[string]string{"user": "exactly one of user_id and email is required"})
			return
		}

		target, ok := resolveTargetUser(w, s, req)
		if !ok {
			return
		}

		if d := authz.Decide(role, authz.ActionManageMembers, authz.Facts{TargetIsSelf: target.ID == id.ID()}); !d.Allowed {
			auditMemberAdd(s, id, project.ID, target.ID, req.Role, d)
			denyProjectAction(w, d)
			return
		}

		existing, err := s.MembershipsStore.GetMembership(project.ID, target.ID)
		if err != nil {
			respondServerError(w)
			return
		}
		if existing != nil {
			respondConflict(w, "user is already a member")
			return
		}

		member := &model.ProjectMember{ProjectID: project.ID, UserID: target.ID, Role: newRole}
		if err := s.MembershipsStore.AddMember(member); err != nil {
			respondServerError(w)
			return
		}

		s.Recorder.Record(audit.MemberAddedEvent{
			ActorID:   id.ID(),
			ProjectID: project.ID,
			TargetID:  target.ID,
			Role:      newRole.String(),
			ClientIP:  id.RemoteIP,
			Allowed:   true,
		})
		respondWithJSON(w, http.StatusCreated, member)
	}
}

func handleChangeRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		targetID, ok := pathID(r, "user_id")
		if !ok {
			respondNotFound(w, "membership")
			return
		}

		var req RoleRequest
		if err := decodeJSON(r, &req); err != nil {
			respondValidation(w, map[string]string{"body": "malformed JSON"})
			return
		}
		newRole, err := model.RoleString(req.Role)
		if err != nil {
			respondValidation(w, map[string]string{"role": "must be one of member, maintainer"})
			return
		}

		d := authz.Decide(role, authz.ActionChangeMemberRole, authz.Facts{TargetIsSelf: targetID == id.ID()})
		if !d.Allowed {
			s.Recorder.Record(audit.MemberRoleChangedEvent{
				ActorID:   id.ID(),
				ProjectID: project.ID,
				TargetID:  targetID,
				To:        newRole.String(),
				ClientIP:  id.RemoteIP,
				Allowed:   false,
				Reason:    string(d.Reason),
			})
			denyProjectAction(w, d)
			return
		}

		target, err := s.MembershipsStore.GetMembership(project.ID, targetID)
		if err != nil {
			respondServerError(w)
			return
		}
		if target == nil {
			respondNotFound(w, "membership")
			return
		}
		if target.Role == newRole {
			respondWithJSON(w, http.StatusOK, target)
			return
		}

		// Demoting the last maintainer would leave the project without an
		// administrator.
		if target.Role == model.RoleMaintainer {
			if ok := guardLastMaintainer(w, s, project.ID); !ok {
				return
			}
		}

		if err := s.MembershipsStore.UpdateRole(project.ID, targetID, newRole); err != nil {
			respondServerError(w)
			return
		}

		s.Recorder.Record(audit.MemberRoleChangedEvent{
			ActorID:   id.ID(),
			ProjectID: project.ID,
			TargetID:  targetID,
			From:      target.Role.String(),
			To:        newRole.String(),
			ClientIP:  id.RemoteIP,
			Allowed:   true,
		})
		target.Role = newRole
		respondWithJSON(w, http.StatusOK, target)
	}
}

func handleRemoveMember(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := caller(r)
		if !rateLimit(w, s.Limiter, strconv.FormatInt(id.ID(), 10), guardrail.ClassWrite) {
			return
		}

		project, role, ok := loadProject(w, s, r, id)
		if !ok {
			return
		}
		targetID, ok := pathID(r, "user_id")
		if !ok {
			respondNotFound(w, "membership")
			return
		}

		d := authz.Decide(role, authz.ActionManageMembers, authz.Facts{TargetIsSelf: targetID == id.ID()})
		if !d.Allowed {
			s.Recorder.Record(audit.MemberRemovedEvent{
				ActorID:   id.ID(),
				ProjectID: project.ID,
				TargetID:  targetID,
				ClientIP:  id.RemoteIP,
				Allowed:   false,
				Reason:    string(d.Reason),
			})
			denyProjectAction(w, d)
			return
		}

		target, err := s.MembershipsStore.GetMembership(project.ID, targetID)
		if err != nil {
			respondServerError(w)
			return
		}
		if target == nil {
			respondNotFound(w, "membership")
			return
		}

		// Removing the last maintainer, including oneself, would leave the
		// project un-administerable.
		if target.Role == model.RoleMaintainer {
			if ok := guardLastMaintainer(w, s, project.ID); !ok {
				return
			}
		}

		if err := s.MembershipsStore.RemoveMember(project.ID, targetID); err != nil {
			if errors.Is(err, store.ErrMembershipNotFound) {
				respondNotFound(w, "membership")
				return
			}
			respondServerError(w)
			return
		}

		s.Recorder.Record(audit.MemberRemovedEvent{
			ActorID:   id.ID(),
			ProjectID: project.ID,
			TargetID:  targetID,
			ClientIP:  id.RemoteIP,
			Allowed:   true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// loadProject fetches the project from the path and resolves the caller's
// role in it. A missing project 404s; resolution of "no membership" is left
// to the caller's gate check.
func loadProject(w http.ResponseWriter, s *server.Server, r *http.Request, id *identity.Identity) (*model.Project, authz.RoleOrNone, bool) {
	projectID, ok := pathID(r, "project_id")
	if !ok {
		respondNotFound(w, "project")
		return nil, authz.NoMembership(), false
	}
	return loadProjectByID(w, s, projectID, id)
}

// loadProjectByID is loadProject for routes that learn the project id from
// somewhere other than the path, such as the global issue routes.
func loadProjectByID(w http.ResponseWriter, s *server.Server, projectID int64, id *identity.Identity) (*model.Project, authz.RoleOrNone, bool) {
	project, err := s.ProjectsStore.GetProject(projectID)
	if err != nil {
		if errors.Is(err, store.ErrProjectNotFound) {
			respondNotFound(w, "project")
			return nil, authz.NoMembership(), false
		}
		respondServerError(w)
		return nil, authz.NoMembership(), false
	}

	role, err := s.Resolver.Resolve(id.ID(), project.ID)
	if err != nil {
		respondServerError(w)
		return nil, authz.NoMembership(), false
	}
	return project, role, true
}

// denyProjectAction maps a gate denial to a response. Callers without any
// membership get the same 404 as for an absent project, so probing cannot
// confirm a project exists.
func denyProjectAction(w http.ResponseWriter, d authz.Decision) {
	if d.Reason == authz.ReasonNoMembership {
		respondNotFound(w, "project")
		return
	}
	respondDenied(w, d.Reason)
}

func guardLastMaintainer(w http.ResponseWriter, s *server.Server, projectID int64) bool {
	count, err := s.MembershipsStore.CountMaintainers(projectID)
	if err != nil {
		respondServerError(w)
		return false
	}
	if count <= 1 {
		respondValidation(w, map[string]string{"membership": "last_maintainer"})
		return false
	}
	return true
}

func resolveTargetUser(w http.ResponseWriter, s *server.Server, req MemberRequest) (*model.User, bool) {
	var (
		target *model.User
		err    error
	)
	if req.UserID != nil {
		target, err = s.UsersStore.GetUserByID(*req.UserID)
	} else {
		target, err = s.UsersStore.GetUserByEmail(*req.Email)
	}
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondValidation(w, map[string]string{"user": "no such user"})
			return nil, false
		}
		respondServerError(w)
		return nil, false
	}
	return target, true
}

func auditMemberAdd(s *server.Server, id *identity.Identity, projectID, targetID int64, role string, d authz.Decision) {
	s.Recorder.Record(audit.MemberAddedEvent{
		ActorID:   id.ID(),
		ProjectID: projectID,
		TargetID:  targetID,
		Role:      role,
		ClientIP:  id.RemoteIP,
		Allowed:   false,
		Reason:    string(d.Reason),
	})
}
