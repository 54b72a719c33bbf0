package domain

import "testing"

func int64Ptr(v int64) *int64 { return &v }

func TestRelationshipOf(t *testing.T) {
	issue := &Issue{ID: 1, ReporterID: 10, AssigneeID: int64Ptr(20)}

	cases := []struct {
		name  string
		actor Actor
		want  Relationship
	}{
		{"reporter", Actor{ID: 10, Roles: NewRoleSet(RoleUser)}, Relationship{IsReporter: true}},
		{"assignee", Actor{ID: 20, Roles: NewRoleSet(RoleUser)}, Relationship{IsAssignee: true}},
		{"admin stranger", Actor{ID: 30, Roles: NewRoleSet(RoleAdmin)}, Relationship{IsAdmin: true}},
		{"stranger", Actor{ID: 40, Roles: NewRoleSet(RoleUser)}, Relationship{}},
		{"no roles", Actor{ID: 40}, Relationship{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RelationshipOf(tc.actor, issue); got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestRelationshipOf_UnassignedIssue(t *testing.T) {
	issue := &Issue{ID: 1, ReporterID: 10}
	rel := RelationshipOf(Actor{ID: 0}, issue)
	if rel.IsAssignee {
		t.Error("nobody is the assignee of an unassigned issue")
	}
}

func TestCan(t *testing.T) {
	reporter := Relationship{IsReporter: true}
	assignee := Relationship{IsAssignee: true}
	admin := Relationship{IsAdmin: true}
	stranger := Relationship{}

	cases := []struct {
		action Action
		rel    Relationship
		want   bool
	}{
		{ActionEditFields, reporter, true},
		{ActionEditFields, assignee, true},
		{ActionEditFields, admin, true},
		{ActionEditFields, stranger, false},

		{ActionChangeSeverity, reporter, true},
		{ActionChangeSeverity, assignee, false},
		{ActionChangeSeverity, admin, true},
		{ActionChangeSeverity, stranger, false},

		{ActionChangeType, reporter, true},
		{ActionChangeType, assignee, false},
		{ActionChangeType, admin, true},
		{ActionChangeType, stranger, false},

		{ActionDelete, reporter, false},
		{ActionDelete, assignee, false},
		{ActionDelete, admin, true},
		{ActionDelete, stranger, false},
	}

	for _, tc := range cases {
		if got := Can(tc.rel, tc.action); got != tc.want {
			t.Errorf("Can(%+v, %s): expected %v, got %v", tc.rel, tc.action, tc.want, got)
		}
	}
}

func TestCan_UnknownActionDenied(t *testing.T) {
	if Can(Relationship{IsAdmin: true, IsReporter: true, IsAssignee: true}, Action(99)) {
		t.Error("unknown action must be denied")
	}
}

func TestCanHelpers(t *testing.T) {
	rel := Relationship{IsAssignee: true}
	if !CanMutateFields(rel) {
		t.Error("assignee can mutate fields")
	}
	if CanChangeSeverity(rel) || CanChangeType(rel) || CanDelete(rel) {
		t.Error("assignee alone cannot change severity, type or delete")
	}
}
