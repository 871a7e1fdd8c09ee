package queryplan

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/issuehub/issuehub/pkg/model"
)

// SortKey is the primary ordering of a listing.
type SortKey string

const (
	// SortCreatedAt orders newest first.
	SortCreatedAt SortKey = "created_at"
	// SortPriority orders most urgent first.
	SortPriority SortKey = "priority"
	// SortStatus orders by workflow stage, open first.
	SortStatus SortKey = "status"
)

// DefaultLimit is the page size used when the caller does not supply one.
const DefaultLimit = 10

// Plan is a validated, bounded issue query. Nil filter fields mean "no
// filter". The secondary sort key is always id ascending so pagination is
// stable when primary keys tie.
type Plan struct {
	TitleQuery string
	Status     *model.IssueStatus
	Priority   *model.IssuePriority
	AssigneeID *int64
	Sort       SortKey
	Limit      int
	Offset     int
}

// ValidationError reports the recognized-but-malformed parameters of one
// request, keyed by parameter name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid query parameters: %s", strings.Join(names, ", "))
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// Parse builds a Plan from raw query parameters. Unrecognized parameters are
// ignored. Recognized parameters with malformed values produce a
// *ValidationError naming every offending field. limitMax caps the page
// size; limits above it are rejected, not clamped.
func Parse(values url.Values, limitMax int) (Plan, error) {
	plan := Plan{
		Sort:  SortCreatedAt,
		Limit: DefaultLimit,
	}
	verr := &ValidationError{}

	plan.TitleQuery = values.Get("q")

	if s := values.Get("status"); s != "" {
		status, err := model.IssueStatusString(s)
		if err != nil {
			verr.add("status", fmt.Sprintf("must be one of %s", strings.Join(model.IssueStatusStrings(), ", ")))
		} else {
			plan.Status = &status
		}
	}

	if s := values.Get("priority"); s != "" {
		priority, err := model.IssuePriorityString(s)
		if err != nil {
			verr.add("priority", fmt.Sprintf("must be one of %s", strings.Join(model.IssuePriorityStrings(), ", ")))
		} else {
			plan.Priority = &priority
		}
	}

	// An empty assignee is "no filter"; there is no way to select strictly
	// unassigned issues through this parameter.
	if s := values.Get("assignee"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id < 1 {
			verr.add("assignee", "must be a positive integer user id")
		} else {
			plan.AssigneeID = &id
		}
	}

	if s := values.Get("sort"); s != "" {
		switch SortKey(s) {
		case SortCreatedAt, SortPriority, SortStatus:
			plan.Sort = SortKey(s)
		default:
			verr.add("sort", "must be one of created_at, priority, status")
		}
	}

	if s := values.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		switch {
		case err != nil || limit < 1:
			verr.add("limit", "must be a positive integer")
		case limit > limitMax:
			verr.add("limit", fmt.Sprintf("must not exceed %d", limitMax))
		default:
			plan.Limit = limit
		}
	}

	if s := values.Get("offset"); s != "" {
		offset, err := strconv.Atoi(s)
		if err != nil || offset < 0 {
			verr.add("offset", "must be a non-negative integer")
		} else {
			plan.Offset = offset
		}
	}

	if len(verr.Fields) > 0 {
		return Plan{}, verr
	}
	return plan, nil
}

// OrderClause is the SQL rendering of the plan's ordering, including the id
// tie-break.
func (p Plan) OrderClause() string {
	switch p.Sort {
	case SortPriority:
		return "priority DESC, id ASC"
	case SortStatus:
		return "status ASC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}
