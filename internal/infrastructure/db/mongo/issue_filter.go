package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jiralite/tracker/internal/core/domain"
)

// issueFilter compiles search criteria into a bson filter. Absent criteria
// add nothing, so empty criteria match every document.
func issueFilter(c domain.IssueCriteria) bson.M {
	filter := bson.M{}

	if c.ID != nil {
		filter["_id"] = *c.ID
	}
	if c.Title != nil {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(*c.Title), Options: "i"}
	}
	if c.Status != nil {
		filter["status"] = string(*c.Status)
	}
	if c.Priority != nil {
		filter["priority"] = string(*c.Priority)
	}
	if c.Severity != nil {
		filter["severity"] = string(*c.Severity)
	}
	if c.Type != nil {
		filter["type"] = string(*c.Type)
	}
	if c.AssigneeID != nil {
		filter["assignee_id"] = *c.AssigneeID
	}
	if c.ReporterID != nil {
		filter["reporter_id"] = *c.ReporterID
	}
	if c.CreatedFrom != nil || c.CreatedTo != nil {
		created := bson.M{}
		if c.CreatedFrom != nil {
			created["$gte"] = c.CreatedFrom.UTC()
		}
		if c.CreatedTo != nil {
			created["$lte"] = c.CreatedTo.UTC()
		}
		filter["created_at"] = created
	}

	return filter
}
