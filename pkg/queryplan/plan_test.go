package queryplan

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issuehub/issuehub/pkg/model"
)

const limitMax = 100

func TestParseDefaults(t *testing.T) {
	plan, err := Parse(url.Values{}, limitMax)
	require.NoError(t, err)

	assert.Equal(t, SortCreatedAt, plan.Sort)
	assert.Equal(t, DefaultLimit, plan.Limit)
	assert.Equal(t, 0, plan.Offset)
	assert.Empty(t, plan.TitleQuery)
	assert.Nil(t, plan.Status)
	assert.Nil(t, plan.Priority)
	assert.Nil(t, plan.AssigneeID)
}

func TestParseFullQuery(t *testing.T) {
	values := url.Values{}
	values.Set("q", "login")
	values.Set("status", "in_progress")
	values.Set("priority", "high")
	values.Set("assignee", "7")
	values.Set("sort", "priority")
	values.Set("limit", "25")
	values.Set("offset", "50")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	assert.Equal(t, "login", plan.TitleQuery)
	require.NotNil(t, plan.Status)
	assert.Equal(t, model.IssueStatusInProgress, *plan.Status)
	require.NotNil(t, plan.Priority)
	assert.Equal(t, model.IssuePriorityHigh, *plan.Priority)
	require.NotNil(t, plan.AssigneeID)
	assert.Equal(t, int64(7), *plan.AssigneeID)
	assert.Equal(t, SortPriority, plan.Sort)
	assert.Equal(t, 25, plan.Limit)
	assert.Equal(t, 50, plan.Offset)
}

func TestParseEmptyValuesMeanNoFilter(t *testing.T) {
	values := url.Values{}
	values.Set("status", "")
	values.Set("priority", "")
	values.Set("assignee", "")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)
	assert.Nil(t, plan.Status)
	assert.Nil(t, plan.Priority)
	assert.Nil(t, plan.AssigneeID)
}

func TestParseIgnoresUnrecognizedParameters(t *testing.T) {
	values := url.Values{}
	values.Set("color", "purple")
	values.Set("page", "3")

	_, err := Parse(values, limitMax)
	assert.NoError(t, err)
}

func TestParseMalformedValues(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"status", "done"},
		{"priority", "urgent"},
		{"assignee", "bob"},
		{"assignee", "0"},
		{"assignee", "-1"},
		{"sort", "updated_at"},
		{"limit", "0"},
		{"limit", "-5"},
		{"limit", "ten"},
		{"limit", "101"},
		{"offset", "-1"},
		{"offset", "x"},
	}
	for _, tc := range cases {
		values := url.Values{}
		values.Set(tc.name, tc.value)

		_, err := Parse(values, limitMax)
		require.Error(t, err, "%s=%s", tc.name, tc.value)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, tc.name)
	}
}

func TestParseCollectsAllInvalidFields(t *testing.T) {
	values := url.Values{}
	values.Set("status", "nope")
	values.Set("limit", "-1")

	_, err := Parse(values, limitMax)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func ptrI64(v int64) *int64 { return &v }

func fixtureIssues() []model.Issue {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []model.Issue{
		{ID: 1, Title: "Login page crashes", Status: model.IssueStatusOpen, Priority: model.IssuePriorityHigh, AssigneeID: ptrI64(7), CreatedAt: t0},
		{ID: 2, Title: "Slow dashboard", Status: model.IssueStatusOpen, Priority: model.IssuePriorityHigh, CreatedAt: t0.Add(time.Hour)},
		{ID: 3, Title: "Typo in footer", Status: model.IssueStatusClosed, Priority: model.IssuePriorityLow, AssigneeID: ptrI64(7), CreatedAt: t0.Add(2 * time.Hour)},
		{ID: 4, Title: "LOGIN emails bounce", Status: model.IssueStatusOpen, Priority: model.IssuePriorityCritical, CreatedAt: t0.Add(3 * time.Hour)},
		{ID: 5, Title: "Export hangs", Status: model.IssueStatusInProgress, Priority: model.IssuePriorityMedium, AssigneeID: ptrI64(8), CreatedAt: t0.Add(4 * time.Hour)},
	}
}

func TestApplyDefaultSortIsNewestFirst(t *testing.T) {
	plan, err := Parse(url.Values{}, limitMax)
	require.NoError(t, err)

	items, total := plan.Apply(fixtureIssues())
	assert.Equal(t, 5, total)

	ids := make([]int64, 0, len(items))
	for _, issue := range items {
		ids = append(ids, issue.ID)
	}
	assert.Equal(t, []int64{5, 4, 3, 2, 1}, ids)
}

func TestApplyFiltersAreConjunctive(t *testing.T) {
	values := url.Values{}
	values.Set("q", "login")
	values.Set("status", "open")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	items, total := plan.Apply(fixtureIssues())
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(4), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)
}

func TestApplyTitleMatchIsCaseInsensitive(t *testing.T) {
	values := url.Values{}
	values.Set("q", "LOGIN")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	_, total := plan.Apply(fixtureIssues())
	assert.Equal(t, 2, total)
}

func TestApplyAssigneeFilter(t *testing.T) {
	values := url.Values{}
	values.Set("assignee", "7")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	items, total := plan.Apply(fixtureIssues())
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)
}

func TestApplyPrioritySortTieBreaksByID(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "priority")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	items, _ := plan.Apply(fixtureIssues())
	ids := make([]int64, 0, len(items))
	for _, issue := range items {
		ids = append(ids, issue.ID)
	}
	// critical, then the two highs by id, then medium, then low.
	assert.Equal(t, []int64{4, 1, 2, 5, 3}, ids)
}

func TestApplyStatusSortIsOpenFirst(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "status")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	items, _ := plan.Apply(fixtureIssues())
	ids := make([]int64, 0, len(items))
	for _, issue := range items {
		ids = append(ids, issue.ID)
	}
	assert.Equal(t, []int64{1, 2, 4, 5, 3}, ids)
}

func TestApplyTotalIndependentOfPagination(t *testing.T) {
	values := url.Values{}
	values.Set("status", "open")
	values.Set("limit", "1")
	values.Set("offset", "2")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	items, total := plan.Apply(fixtureIssues())
	assert.Equal(t, 3, total)
	assert.Len(t, items, 1)
}

func TestApplyOffsetBeyondTotal(t *testing.T) {
	values := url.Values{}
	values.Set("offset", "1000")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	items, total := plan.Apply(fixtureIssues())
	assert.Equal(t, 5, total)
	assert.Empty(t, items)
}

func TestApplyIsIdempotent(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "priority")
	values.Set("limit", "2")
	values.Set("offset", "1")

	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	issues := fixtureIssues()
	first, firstTotal := plan.Apply(issues)
	second, secondTotal := plan.Apply(issues)
	assert.Equal(t, first, second)
	assert.Equal(t, firstTotal, secondTotal)
}

func TestApplyEqualPrioritiesOrderByIDAscending(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issues := []model.Issue{
		{ID: 9, Priority: model.IssuePriorityMedium, CreatedAt: t0},
		{ID: 2, Priority: model.IssuePriorityMedium, CreatedAt: t0},
		{ID: 5, Priority: model.IssuePriorityMedium, CreatedAt: t0},
	}

	values := url.Values{}
	values.Set("sort", "priority")
	plan, err := Parse(values, limitMax)
	require.NoError(t, err)

	items, _ := plan.Apply(issues)
	ids := make([]int64, 0, len(items))
	for _, issue := range items {
		ids = append(ids, issue.ID)
	}
	assert.Equal(t, []int64{2, 5, 9}, ids)
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC, id ASC", Plan{Sort: SortCreatedAt}.OrderClause())
	assert.Equal(t, "priority DESC, id ASC", Plan{Sort: SortPriority}.OrderClause())
	assert.Equal(t, "status ASC, id ASC", Plan{Sort: SortStatus}.OrderClause())
}
