package domain

// Relationship describes how an actor relates to a particular issue.
type Relationship struct {
	IsReporter bool
	IsAssignee bool
	IsAdmin    bool
}

// RelationshipOf derives the actor's relationship to issue.
func RelationshipOf(actor Actor, issue *Issue) Relationship {
	return Relationship{
		IsReporter: issue.ReporterID == actor.ID,
		IsAssignee: issue.AssigneeID != nil && *issue.AssigneeID == actor.ID,
		IsAdmin:    actor.IsAdmin(),
	}
}

// Action is a guarded mutation on an issue.
type Action int

const (
	// ActionEditFields covers title, description and priority.
	ActionEditFields Action = iota
	ActionChangeSeverity
	ActionChangeType
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionEditFields:
		return "edit_fields"
	case ActionChangeSeverity:
		return "change_severity"
	case ActionChangeType:
		return "change_type"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Can reports whether an actor with relationship rel may perform action.
func Can(rel Relationship, action Action) bool {
	switch action {
	case ActionEditFields:
		return rel.IsReporter || rel.IsAssignee || rel.IsAdmin
	case ActionChangeSeverity, ActionChangeType:
		return rel.IsReporter || rel.IsAdmin
	case ActionDelete:
		return rel.IsAdmin
	default:
		return false
	}
}

func CanMutateFields(rel Relationship) bool   { return Can(rel, ActionEditFields) }
func CanChangeSeverity(rel Relationship) bool { return Can(rel, ActionChangeSeverity) }
func CanChangeType(rel Relationship) bool     { return Can(rel, ActionChangeType) }
func CanDelete(rel Relationship) bool         { return Can(rel, ActionDelete) }
