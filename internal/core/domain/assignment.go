package domain

// ResolveAssignee decides who an assign command targets. The reporter may not
// take the issue; an absent target means the actor is claiming it.
func ResolveAssignee(issue *Issue, requested *int64, actor Actor) (int64, error) {
	if issue.ReporterID == actor.ID {
		return 0, Denied("cannot claim a reported issue")
	}
	if requested != nil {
		return *requested, nil
	}
	return actor.ID, nil
}

// CheckAssignable enforces a single assignee: once set, only the same user
// may be assigned again.
func CheckAssignable(issue *Issue, target int64) error {
	if issue.AssigneeID != nil && *issue.AssigneeID != target {
		return &ConflictError{Reason: "issue is already assigned to another user"}
	}
	return nil
}
