// Package mongostore implements domain.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/runoshun/focusday/internal/domain"
)

// Collection names.
const (
	collUsers   = "users"
	collTasks   = "tasks"
	collHistory = "history"
	collDays    = "days"
)

// Store implements domain.Store over one MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// IsURI reports whether uri is a MongoDB connection string.
func IsURI(uri string) bool {
	return strings.HasPrefix(uri, "mongodb://") || strings.HasPrefix(uri, "mongodb+srv://")
}

// Open connects to uri, pings the primary within timeout and ensures indexes.
func Open(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	if !IsURI(uri) {
		return nil, fmt.Errorf("unsupported mongo uri %q", uri)
	}
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := s.db.Collection(collUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
	}); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	if _, err := s.db.Collection(collTasks).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "position", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create task index: %w", err)
	}
	history := s.db.Collection(collHistory)
	if _, err := history.Indexes().DropOne(ctx, legacyHistoryIndex); err != nil && !isMissingIndex(err) {
		return fmt.Errorf("drop legacy history index: %w", err)
	}
	if _, err := history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "taskId", Value: 1}, {Key: "kind", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("create history index: %w", err)
	}
	return nil
}

// legacyHistoryIndex allowed one history entry per task regardless of kind.
const legacyHistoryIndex = "userId_1_taskId_1"

// isMissingIndex reports whether err says the index or collection does not exist.
func isMissingIndex(err error) bool {
	var ce mongo.CommandError
	return errors.As(err, &ce) && (ce.Code == 26 || ce.Code == 27)
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// ListTasks returns the user's tasks ordered by position.
func (s *Store) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	cur, err := s.db.Collection(collTasks).Find(ctx,
		bson.D{{Key: "userId", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	out := make([]domain.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// CreateTask stores a new task.
func (s *Store) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	if _, err := s.db.Collection(collTasks).InsertOne(ctx, newTaskDoc(t)); err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// UpdateTask applies patch with $set; completedAt is only written while unset.
func (s *Store) UpdateTask(ctx context.Context, userID, id string, patch domain.TaskPatch) (domain.Task, error) {
	coll := s.db.Collection(collTasks)
	filter := bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}}

	var (
		doc taskDoc
		res *mongo.SingleResult
	)
	if set := patchSet(patch); len(set) > 0 {
		res = coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}},
			options.FindOneAndUpdate().SetReturnDocument(options.After))
	} else {
		res = coll.FindOne(ctx, filter)
	}
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}

	if patch.CompletedAt != nil && doc.CompletedAt == nil {
		at := *patch.CompletedAt
		unset := append(filter, bson.E{Key: "completedAt", Value: nil})
		if _, err := coll.UpdateOne(ctx, unset, bson.D{{Key: "$set", Value: bson.D{{Key: "completedAt", Value: at}}}}); err != nil {
			return domain.Task{}, fmt.Errorf("set completedAt: %w", err)
		}
		doc.CompletedAt = &at
	}
	return doc.toDomain(), nil
}

func patchSet(p domain.TaskPatch) bson.D {
	var set bson.D
	add := func(key string, v any) { set = append(set, bson.E{Key: key, Value: v}) }
	if p.Text != nil {
		add("text", *p.Text)
	}
	if p.Date != nil {
		add("date", *p.Date)
	}
	if p.Duration != nil {
		add("duration", *p.Duration)
	}
	if p.Remaining != nil {
		add("remaining", *p.Remaining)
	}
	if p.Position != nil {
		add("position", *p.Position)
	}
	if p.Running != nil {
		add("running", *p.Running)
	}
	if p.Stopped != nil {
		add("stopped", *p.Stopped)
	}
	if p.Completed != nil {
		add("completed", *p.Completed)
	}
	return set
}

// DeleteTask removes one task of the user.
func (s *Store) DeleteTask(ctx context.Context, userID, id string) error {
	if _, err := s.db.Collection(collTasks).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}}); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteAllTasks removes every task of the user.
func (s *Store) DeleteAllTasks(ctx context.Context, userID string) error {
	if _, err := s.db.Collection(collTasks).DeleteMany(ctx, bson.D{{Key: "userId", Value: userID}}); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}

// FindUser looks a user up by ID, email or username.
func (s *Store) FindUser(ctx context.Context, lookup domain.UserLookup) (*domain.User, error) {
	var filter bson.D
	switch {
	case lookup.ID != "":
		filter = bson.D{{Key: "_id", Value: lookup.ID}}
	case lookup.Email != "":
		filter = bson.D{{Key: "email", Value: domain.NormalizeEmail(lookup.Email)}}
	case lookup.Username != "":
		filter = bson.D{{Key: "username", Value: lookup.Username}}
	default:
		return nil, domain.ErrUserNotFound
	}

	var doc userDoc
	if err := s.db.Collection(collUsers).FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// CreateUser stores a new user; the unique indexes reject a taken email or username.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	u.Email = domain.NormalizeEmail(u.Email)
	if _, err := s.db.Collection(collUsers).InsertOne(ctx, newUserDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// AppendHistory upserts each entry keyed by (userId, taskId, kind) so a task is
// archived once per kind.
func (s *Store) AppendHistory(ctx context.Context, userID string, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		e.UserID = userID
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(historyFilter(userID, e)).
			SetUpdate(bson.D{{Key: "$setOnInsert", Value: newHistoryDoc(e)}}).
			SetUpsert(true))
	}
	if _, err := s.db.Collection(collHistory).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// historyFilter matches the stored copy of e. Completion entries written
// before kinds were stored have no kind field.
func historyFilter(userID string, e domain.HistoryEntry) bson.D {
	kind := e.ArchivedAs()
	var match any = string(kind)
	if kind == domain.ArchiveCompletion {
		match = bson.D{{Key: "$in", Value: bson.A{string(kind), nil}}}
	}
	return bson.D{{Key: "userId", Value: userID}, {Key: "taskId", Value: e.TaskID}, {Key: "kind", Value: match}}
}

// ListHistory returns the user's entries, newest completion first.
func (s *Store) ListHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	cur, err := s.db.Collection(collHistory).Find(ctx,
		bson.D{{Key: "userId", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	var docs []historyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	out := make([]domain.HistoryEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// GetDayState returns the user's day window and locked days.
func (s *Store) GetDayState(ctx context.Context, userID string) (domain.DayState, error) {
	var doc dayDoc
	err := s.db.Collection(collDays).FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.DayState{UserID: userID}, nil
	}
	if err != nil {
		return domain.DayState{UserID: userID}, fmt.Errorf("get day state: %w", err)
	}
	return doc.toDomain(), nil
}

// SaveDayState sets the window start and adds locked days with $addToSet.
func (s *Store) SaveDayState(ctx context.Context, state domain.DayState) error {
	days := state.LockedDays
	if days == nil {
		days = []string{}
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "windowStart", Value: state.WindowStart}}},
		{Key: "$addToSet", Value: bson.D{{Key: "lockedDays", Value: bson.D{{Key: "$each", Value: days}}}}},
	}
	_, err := s.db.Collection(collDays).UpdateOne(ctx, bson.D{{Key: "_id", Value: state.UserID}}, update,
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save day state: %w", err)
	}
	return nil
}

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)
