package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

const collectionIssues = "issues"

type IssueRepository struct {
	col      *mongo.Collection
	comments *mongo.Collection
	ids      sequence
}

func NewIssueRepository(db *mongo.Database) *IssueRepository {
	return &IssueRepository{
		col:      db.Collection(collectionIssues),
		comments: db.Collection(collectionComments),
		ids:      newSequence(db, collectionIssues),
	}
}

type issueDoc struct {
	ID          int64     `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Status      string    `bson:"status"`
	Priority    string    `bson:"priority"`
	Severity    string    `bson:"severity,omitempty"`
	Type        string    `bson:"type"`
	ReporterID  int64     `bson:"reporter_id"`
	AssigneeID  *int64    `bson:"assignee_id,omitempty"`
	WatcherIDs  []int64   `bson:"watcher_ids"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toIssueDoc(i *domain.Issue) issueDoc {
	watchers := i.WatcherIDs
	if watchers == nil {
		watchers = []int64{}
	}
	return issueDoc{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		Status:      string(i.Status),
		Priority:    string(i.Priority),
		Severity:    string(i.Severity),
		Type:        string(i.Type),
		ReporterID:  i.ReporterID,
		AssigneeID:  i.AssigneeID,
		WatcherIDs:  watchers,
		CreatedAt:   i.CreatedAt.UTC(),
		UpdatedAt:   i.UpdatedAt.UTC(),
	}
}

func (d issueDoc) toDomain() *domain.Issue {
	return &domain.Issue{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.IssueStatus(d.Status),
		Priority:    domain.Priority(d.Priority),
		Severity:    domain.Severity(d.Severity),
		Type:        domain.IssueType(d.Type),
		ReporterID:  d.ReporterID,
		AssigneeID:  d.AssigneeID,
		WatcherIDs:  d.WatcherIDs,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Create assigns the next issue id and inserts the document.
func (r *IssueRepository) Create(ctx context.Context, i *domain.Issue) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	i.ID = id

	if _, err := r.col.InsertOne(ctx, toIssueDoc(i)); err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id int64) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc issueDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.IssueNotFound(id)
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the mutable fields. Reporter and creation time are never written.
func (r *IssueRepository) Update(ctx context.Context, i *domain.Issue) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toIssueDoc(i)
	set := bson.M{
		"title":       doc.Title,
		"description": doc.Description,
		"status":      doc.Status,
		"priority":    doc.Priority,
		"severity":    doc.Severity,
		"type":        doc.Type,
		"watcher_ids": doc.WatcherIDs,
		"updated_at":  doc.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if doc.AssigneeID != nil {
		set["assignee_id"] = *doc.AssigneeID
	} else {
		update["$unset"] = bson.M{"assignee_id": ""}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": i.ID}, update)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.IssueNotFound(i.ID)
	}
	return nil
}

// Delete removes the issue and then its comments.
func (r *IssueRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.IssueNotFound(id)
	}
	if _, err := r.comments.DeleteMany(ctx, bson.M{"issue_id": id}); err != nil {
		return fmt.Errorf("delete issue comments: %w", err)
	}
	return nil
}

// Search returns a page of issues matching criteria, newest first.
func (r *IssueRepository) Search(ctx context.Context, c domain.IssueCriteria, page ports.PageRequest) ([]*domain.Issue, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := issueFilter(c)

	total, err := r.count(ctx, c, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find issues: %w", err)
	}
	defer cur.Close(ctx)

	var docs []issueDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode issues: %w", err)
	}

	out := make([]*domain.Issue, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

// count uses the collection metadata when nothing is filtered.
func (r *IssueRepository) count(ctx context.Context, c domain.IssueCriteria, filter bson.M) (int64, error) {
	if c.IsEmpty() {
		return r.col.EstimatedDocumentCount(ctx)
	}
	return r.col.CountDocuments(ctx, filter)
}

// EnsureIndexes creates necessary indexes on the issues collection.
func (r *IssueRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "reporter_id", Value: 1}}},
		{Keys: bson.D{{Key: "assignee_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
