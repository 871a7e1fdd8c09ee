package endpoints

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/issuehub/issuehub/pkg/model"
	"github.com/issuehub/issuehub/pkg/queryplan"
	"github.com/issuehub/issuehub/pkg/server/store"
)

// fixture is a shared in-memory backing store for all the fake stores used
// in endpoint tests.
type fixture struct {
	mu       sync.Mutex
	users    []model.User
	projects []model.Project
	members  []model.ProjectMember
	issues   []model.Issue
	comments []model.Comment
	entries  []model.AuditEntry
	nextID   int64
	clock    time.Time
}

func newFixture() *fixture {
	return &fixture{
		nextID: 1,
		clock:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

// tick returns a strictly increasing timestamp so creation order is
// reflected in created_at.
func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

type fakeUsers struct{ f *fixture }

func (s fakeUsers) CreateUser(user *model.User) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	user.ID = s.f.id()
	user.CreatedAt = s.f.tick()
	s.f.users = append(s.f.users, *user)
	return nil
}

func (s fakeUsers) GetUserByID(id int64) (*model.User, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.users {
		if s.f.users[i].ID == id {
			user := s.f.users[i]
			return &user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s fakeUsers) GetUserByEmail(email string) (*model.User, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.users {
		if s.f.users[i].Email == email {
			user := s.f.users[i]
			return &user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s fakeUsers) SearchUsers(query string, limit int) ([]model.User, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	q := strings.ToLower(query)
	var out []model.User
	for _, user := range s.f.users {
		if strings.Contains(strings.ToLower(user.Name), q) ||
			strings.Contains(strings.ToLower(user.Email), q) {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeProjects struct{ f *fixture }

func (s fakeProjects) CreateProject(project *model.Project) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	project.ID = s.f.id()
	project.CreatedAt = s.f.tick()
	s.f.projects = append(s.f.projects, *project)
	return nil
}

func (s fakeProjects) GetProject(id int64) (*model.Project, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.projects {
		if s.f.projects[i].ID == id {
			project := s.f.projects[i]
			return &project, nil
		}
	}
	return nil, store.ErrProjectNotFound
}

func (s fakeProjects) GetProjectByKey(key string) (*model.Project, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.projects {
		if s.f.projects[i].Key == key {
			project := s.f.projects[i]
			return &project, nil
		}
	}
	return nil, store.ErrProjectNotFound
}

func (s fakeProjects) ListProjectsForUser(userID int64) ([]model.Project, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var out []model.Project
	for _, project := range s.f.projects {
		for _, member := range s.f.members {
			if member.ProjectID == project.ID && member.UserID == userID {
				out = append(out, project)
			}
		}
	}
	return out, nil
}

type fakeMemberships struct{ f *fixture }

func (s fakeMemberships) GetMembership(projectID, userID int64) (*model.ProjectMember, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.members {
		if s.f.members[i].ProjectID == projectID && s.f.members[i].UserID == userID {
			member := s.f.members[i]
			return &member, nil
		}
	}
	return nil, nil
}

func (s fakeMemberships) ListMembers(projectID int64) ([]store.Member, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var out []store.Member
	for _, member := range s.f.members {
		if member.ProjectID != projectID {
			continue
		}
		for _, user := range s.f.users {
			if user.ID == member.UserID {
				out = append(out, store.Member{
					UserID: user.ID,
					Name:   user.Name,
					Email:  user.Email,
					Role:   member.Role,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s fakeMemberships) AddMember(member *model.ProjectMember) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.members = append(s.f.members, *member)
	return nil
}

func (s fakeMemberships) UpdateRole(projectID, userID int64, role model.Role) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.members {
		if s.f.members[i].ProjectID == projectID && s.f.members[i].UserID == userID {
			s.f.members[i].Role = role
			return nil
		}
	}
	return store.ErrMembershipNotFound
}

func (s fakeMemberships) RemoveMember(projectID, userID int64) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.members {
		if s.f.members[i].ProjectID == projectID && s.f.members[i].UserID == userID {
			s.f.members = append(s.f.members[:i], s.f.members[i+1:]...)
			return nil
		}
	}
	return store.ErrMembershipNotFound
}

func (s fakeMemberships) CountMaintainers(projectID int64) (int64, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var count int64
	for _, member := range s.f.members {
		if member.ProjectID == projectID && member.Role == model.RoleMaintainer {
			count++
		}
	}
	return count, nil
}

func (s fakeMemberships) ListProjectIDsForUser(userID int64) ([]int64, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var ids []int64
	for _, member := range s.f.members {
		if member.UserID == userID {
			ids = append(ids, member.ProjectID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type fakeIssues struct{ f *fixture }

func (s fakeIssues) CreateIssue(issue *model.Issue) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	issue.ID = s.f.id()
	issue.CreatedAt = s.f.tick()
	issue.UpdatedAt = issue.CreatedAt
	s.f.issues = append(s.f.issues, *issue)
	return nil
}

func (s fakeIssues) GetIssue(projectID, issueID int64) (*model.Issue, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.issues {
		if s.f.issues[i].ProjectID == projectID && s.f.issues[i].ID == issueID {
			issue := s.f.issues[i]
			return &issue, nil
		}
	}
	return nil, store.ErrIssueNotFound
}

func (s fakeIssues) GetIssueByID(issueID int64) (*model.Issue, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.issues {
		if s.f.issues[i].ID == issueID {
			issue := s.f.issues[i]
			return &issue, nil
		}
	}
	return nil, store.ErrIssueNotFound
}

func (s fakeIssues) ListIssues(projectIDs []int64, plan queryplan.Plan) ([]model.Issue, int64, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	scope := make(map[int64]bool, len(projectIDs))
	for _, id := range projectIDs {
		scope[id] = true
	}
	var visible []model.Issue
	for _, issue := range s.f.issues {
		if scope[issue.ProjectID] {
			visible = append(visible, issue)
		}
	}
	items, total := plan.Apply(visible)
	return items, int64(total), nil
}

func (s fakeIssues) UpdateIssue(issue *model.Issue) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.issues {
		if s.f.issues[i].ID == issue.ID {
			issue.UpdatedAt = s.f.tick()
			s.f.issues[i] = *issue
			return nil
		}
	}
	return store.ErrIssueNotFound
}

func (s fakeIssues) DeleteIssue(projectID, issueID int64) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for i := range s.f.issues {
		if s.f.issues[i].ProjectID == projectID && s.f.issues[i].ID == issueID {
			s.f.issues = append(s.f.issues[:i], s.f.issues[i+1:]...)
			return nil
		}
	}
	return store.ErrIssueNotFound
}

type fakeComments struct{ f *fixture }

func (s fakeComments) CreateComment(comment *model.Comment) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	comment.ID = s.f.id()
	comment.CreatedAt = s.f.tick()
	s.f.comments = append(s.f.comments, *comment)
	return nil
}

func (s fakeComments) ListComments(issueID int64) ([]model.Comment, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var out []model.Comment
	for _, comment := range s.f.comments {
		if comment.IssueID == issueID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type fakeAudit struct{ f *fixture }

func (s fakeAudit) MaxSequence() (uint64, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var max uint64
	for _, entry := range s.f.entries {
		if entry.Sequence > max {
			max = entry.Sequence
		}
	}
	return max, nil
}

func (s fakeAudit) SaveEntry(entry *model.AuditEntry) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.entries = append(s.f.entries, *entry)
	return nil
}

func (s fakeAudit) ListEntries(projectID int64, after uint64, limit int) ([]model.AuditEntry, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var out []model.AuditEntry
	for _, entry := range s.f.entries {
		if entry.ProjectID == projectID && entry.Sequence > after {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
