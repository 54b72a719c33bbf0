package sqlstore

import (
	"strings"

	"github.com/jiralite/tracker/internal/core/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// issueWhere compiles search criteria into a WHERE clause with `?`
// placeholders. Empty criteria yield an empty clause. Titles are matched
// against title_lower, folded in Go on write, since LOWER in SQLite and in
// C-collated PostgreSQL only folds ASCII.
func issueWhere(c domain.IssueCriteria) (string, []any) {
	if c.IsEmpty() {
		return "", nil
	}

	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}

	if c.ID != nil {
		add("id = ?", *c.ID)
	}
	if c.Title != nil {
		add(`title_lower LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(domain.FoldTitle(*c.Title))+"%")
	}
	if c.Status != nil {
		add("status = ?", string(*c.Status))
	}
	if c.Priority != nil {
		add("priority = ?", string(*c.Priority))
	}
	if c.Severity != nil {
		add("severity = ?", string(*c.Severity))
	}
	if c.Type != nil {
		add("type = ?", string(*c.Type))
	}
	if c.AssigneeID != nil {
		add("assignee_id = ?", *c.AssigneeID)
	}
	if c.ReporterID != nil {
		add("reporter_id = ?", *c.ReporterID)
	}
	if c.CreatedFrom != nil {
		add("created_at >= ?", toMillis(*c.CreatedFrom))
	}
	if c.CreatedTo != nil {
		add("created_at <= ?", toMillis(*c.CreatedTo))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
