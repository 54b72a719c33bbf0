package domain

// reporterTransitions lists the only moves a reporter who is not the assignee may make.
var reporterTransitions = map[IssueStatus][]IssueStatus{
	StatusClosed: {StatusOpen},
}

// CanTransition reports whether an actor with relationship rel may move an
// issue from one status to another. The assignee may make any move, the
// reporter may only reopen a closed issue, and nobody else may change status.
// Admin rights grant nothing here.
func CanTransition(rel Relationship, from, to IssueStatus) bool {
	if rel.IsAssignee {
		return true
	}
	if rel.IsReporter {
		for _, allowed := range reporterTransitions[from] {
			if allowed == to {
				return true
			}
		}
	}
	return false
}
