package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/cucumber/godog"
)

// scenarioSeq makes user emails and project keys unique per scenario, since
// all scenarios share one database.
var scenarioSeq atomic.Int64

// StepsContext holds state shared between step definitions within a scenario.
type StepsContext struct {
	tc  *TestContext
	seq int64

	response     *http.Response
	responseBody []byte

	tokens   map[string]string // user name -> bearer token
	userIDs  map[string]int64  // user name -> id
	projects map[string]int64  // project key (as written in the feature) -> id
	issues   map[string]int64  // issue title -> id
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:       tc,
		seq:      scenarioSeq.Add(1),
		tokens:   map[string]string{},
		userIDs:  map[string]int64{},
		projects: map[string]int64{},
		issues:   map[string]int64{},
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a user "([^"]*)" is signed up$`, s.aUserIsSignedUp)
	sc.Step(`^"([^"]*)" creates a project "([^"]*)"$`, s.createsAProject)
	sc.Step(`^"([^"]*)" adds "([^"]*)" to project "([^"]*)" as "([^"]*)"$`, s.addsToProjectAs)
	sc.Step(`^"([^"]*)" creates an issue "([^"]*)" in project "([^"]*)"$`, s.createsAnIssue)
	sc.Step(`^"([^"]*)" creates an issue in project "([^"]*)" with description "([^"]*)"$`, s.createsAnIssueWithDescription)
	sc.Step(`^"([^"]*)" sets the status of "([^"]*)" in project "([^"]*)" to "([^"]*)"$`, s.setsTheStatusOf)
	sc.Step(`^"([^"]*)" comments "([^"]*)" on "([^"]*)" in project "([^"]*)"$`, s.commentsOn)
	sc.Step(`^"([^"]*)" lists issues in project "([^"]*)" matching "([^"]*)"$`, s.listsIssuesMatching)
	sc.Step(`^"([^"]*)" fetches project "([^"]*)"$`, s.fetchesProject)
	sc.Step(`^"([^"]*)" reads the audit trail of project "([^"]*)"$`, s.readsTheAuditTrail)

	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the error code should be "([^"]*)"$`, s.theErrorCodeShouldBe)
	sc.Step(`^the listing should have total (\d+)$`, s.theListingShouldHaveTotal)
	sc.Step(`^the audit trail should contain action "([^"]*)"$`, s.theAuditTrailShouldContainAction)
	sc.Step(`^the audit trail sequences should be strictly increasing$`, s.theAuditTrailSequencesShouldBeIncreasing)
}

func (s *StepsContext) email(name string) string {
	return fmt.Sprintf("%s-%d@example.test", strings.ToLower(name), s.seq)
}

// projectKey namespaces the feature-file key per scenario.
func (s *StepsContext) projectKey(key string) string {
	return fmt.Sprintf("%s%d", key, s.seq)
}

func (s *StepsContext) request(method, path, token string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, body)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) token(name string) (string, error) {
	token, ok := s.tokens[name]
	if !ok {
		return "", fmt.Errorf("no signed-up user named %q in this scenario", name)
	}
	return token, nil
}

func (s *StepsContext) project(key string) (int64, error) {
	id, ok := s.projects[key]
	if !ok {
		return 0, fmt.Errorf("no project with key %q in this scenario", key)
	}
	return id, nil
}

func (s *StepsContext) aUserIsSignedUp(name string) error {
	err := s.request("POST", "/api/auth/signup", "", map[string]string{
		"name":     name,
		"email":    s.email(name),
		"password": "integration-pass",
	})
	if err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("signup failed with status %d: %s", s.response.StatusCode, s.responseBody)
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return err
	}
	s.tokens[name] = resp.Token
	s.userIDs[name] = resp.User.ID
	return nil
}

func (s *StepsContext) createsAProject(name, key string) error {
	token, err := s.token(name)
	if err != nil {
		return err
	}
	if err := s.request("POST", "/api/projects", token, map[string]string{
		"name": key + " project",
		"key":  s.projectKey(key),
	}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return nil // let a later status assertion catch it
	}

	var project struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(s.responseBody, &project); err != nil {
		return err
	}
	s.projects[key] = project.ID
	return nil
}

func (s *StepsContext) addsToProjectAs(actor, target, key, role string) error {
	token, err := s.token(actor)
	if err != nil {
		return err
	}
	projectID, err := s.project(key)
	if err != nil {
		return err
	}
	return s.request("POST", fmt.Sprintf("/api/projects/%d/members", projectID), token, map[string]interface{}{
		"email": s.email(target),
		"role":  role,
	})
}

func (s *StepsContext) createsAnIssue(name, title, key string) error {
	token, err := s.token(name)
	if err != nil {
		return err
	}
	projectID, err := s.project(key)
	if err != nil {
		return err
	}
	if err := s.request("POST", fmt.Sprintf("/api/projects/%d/issues", projectID), token, map[string]string{
		"title": title,
	}); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return nil
	}

	var issue struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(s.responseBody, &issue); err != nil {
		return err
	}
	s.issues[title] = issue.ID
	return nil
}

func (s *StepsContext) createsAnIssueWithDescription(name, key, description string) error {
	token, err := s.token(name)
	if err != nil {
		return err
	}
	projectID, err := s.project(key)
	if err != nil {
		return err
	}
	return s.request("POST", fmt.Sprintf("/api/projects/%d/issues", projectID), token, map[string]string{
		"title":       "scanned issue",
		"description": description,
	})
}

func (s *StepsContext) setsTheStatusOf(name, title, key, status string) error {
	token, err := s.token(name)
	if err != nil {
		return err
	}
	projectID, err := s.project(key)
	if err != nil {
		return err
	}
	issueID, ok := s.issues[title]
	if !ok {
		return fmt.Errorf("no issue titled %q in this scenario", title)
	}
	return s.request("PATCH", fmt.Sprintf("/api/projects/%d/issues/%d", projectID, issueID), token, map[string]string{
		"status": status,
	})
}

func (s *StepsContext) commentsOn(name, body, title, key string) error {
	token, err := s.token(name)
	if err != nil {
		return err
	}
	projectID, err := s.project(key)
	if err != nil {
		return err
	}
	issueID, ok := s.issues[title]
	if !ok {
		return fmt.Errorf("no issue titled %q in this scenario", title)
	}
	return s.request("POST", fmt.Sprintf("/api/projects/%d/issues/%d/comments", projectID, issueID), token, map[string]string{
		"body": body,
	})
}

func (s *StepsContext) listsIssuesMatching(name, key, query string) error {
	token, err := s.token(name)
	if err != nil {
		return err
	}
	projectID, err := s.project(key)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/api/projects/%d/issues", projectID)
	if query != "" {
		path += "?" + query
	}
	return s.request("GET", path, token, nil)
}

func (s *StepsContext) fetchesProject(name, key string) error {
	token, err := s.token(name)
	if err != nil {
		return err
	}
	projectID, err := s.project(key)
	if err != nil {
		return err
	}
	return s.request("GET", fmt.Sprintf("/api/projects/%d", projectID), token, nil)
}

func (s *StepsContext) readsTheAuditTrail(name, key string) error {
	token, err := s.token(name)
	if err != nil {
		return err
	}
	projectID, err := s.project(key)
	if err != nil {
		return err
	}
	return s.request("GET", fmt.Sprintf("/api/projects/%d/audit", projectID), token, nil)
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theErrorCodeShouldBe(code string) error {
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("response is not an error envelope: %s", s.responseBody)
	}
	if body.Error.Code != code {
		return fmt.Errorf("expected error code %q, got %q: %s", code, body.Error.Code, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theListingShouldHaveTotal(total int) error {
	var body struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return err
	}
	if body.Total != total {
		return fmt.Errorf("expected total %d, got %d: %s", total, body.Total, s.responseBody)
	}
	return nil
}

type auditPage struct {
	Items []struct {
		Sequence uint64 `json:"sequence"`
		Action   string `json:"action"`
	} `json:"items"`
}

func (s *StepsContext) theAuditTrailShouldContainAction(action string) error {
	var page auditPage
	if err := json.Unmarshal(s.responseBody, &page); err != nil {
		return err
	}
	for _, item := range page.Items {
		if item.Action == action {
			return nil
		}
	}
	return fmt.Errorf("no %q entry in audit page: %s", action, s.responseBody)
}

func (s *StepsContext) theAuditTrailSequencesShouldBeIncreasing() error {
	var page auditPage
	if err := json.Unmarshal(s.responseBody, &page); err != nil {
		return err
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i].Sequence <= page.Items[i-1].Sequence {
			return fmt.Errorf("sequence not increasing at index %d: %s", i, s.responseBody)
		}
	}
	return nil
}
