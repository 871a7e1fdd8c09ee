package queryplan

import (
	"sort"
	"strings"

	"github.com/issuehub/issuehub/pkg/model"
)

func (p Plan) matches(issue model.Issue) bool {
	if p.TitleQuery != "" &&
		!strings.Contains(strings.ToLower(issue.Title), strings.ToLower(p.TitleQuery)) {
		return false
	}
	if p.Status != nil && issue.Status != *p.Status {
		return false
	}
	if p.Priority != nil && issue.Priority != *p.Priority {
		return false
	}
	if p.AssigneeID != nil &&
		(issue.AssigneeID == nil || *issue.AssigneeID != *p.AssigneeID) {
		return false
	}
	return true
}

func (p Plan) less(a, b model.Issue) bool {
	switch p.Sort {
	case SortPriority:
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
	case SortStatus:
		if a.Status != b.Status {
			return a.Status < b.Status
		}
	default:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	return a.ID < b.ID
}

// Apply filters, orders and paginates issues in memory. The returned total is
// the filtered pre-pagination count; an offset beyond it yields an empty page
// with the correct total. The input slice is not modified.
func (p Plan) Apply(issues []model.Issue) ([]model.Issue, int) {
	filtered := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if p.matches(issue) {
			filtered = append(filtered, issue)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return p.less(filtered[i], filtered[j])
	})

	total := len(filtered)
	if p.Offset >= total {
		return []model.Issue{}, total
	}
	end := p.Offset + p.Limit
	if end > total {
		end = total
	}
	return filtered[p.Offset:end], total
}
