package mongo_adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contracts"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// RecordRepository keeps one collection per entity kind.
type RecordRepository struct {
	db  *mongo.Database
	now func() time.Time
}

func NewRecordRepository(db *mongo.Database) (*RecordRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("mongo.Database cannot be nil")
	}
	return &RecordRepository{db: db, now: time.Now}, nil
}

func collectionName(kind domain.EntityKind) string {
	return strings.ReplaceAll(kind.Segment(), "-", "_")
}

func (r *RecordRepository) collection(kind domain.EntityKind) *mongo.Collection {
	return r.db.Collection(collectionName(kind))
}

// EnsureIndexes creates the listing indexes of every collection.
func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	for _, kind := range domain.AllKinds() {
		_, err := r.collection(kind).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: contracts.KeyCreatedAt, Value: -1}}},
			{Keys: bson.D{{Key: "featured", Value: 1}, {Key: contracts.KeyCreatedAt, Value: -1}}},
		})
		if err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", kind, err)
		}
	}
	return nil
}

func (r *RecordRepository) Insert(ctx context.Context, kind domain.EntityKind, data map[string]any) (*domain.Record, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RecordRepository",
		"method":    "Insert",
		"kind":      kind,
	})

	now := r.now().UTC()
	doc := toDocument(data)
	stored := normalizeMap(doc)
	doc[contracts.KeyCreatedAt] = now
	doc[contracts.KeyUpdatedAt] = now

	res, err := r.collection(kind).InsertOne(ctx, doc)
	if err != nil {
		repoLogger.Error("Failed to insert record", err, nil)
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	repoLogger.Debug("Record inserted", port.Fields{"record_id": oid.Hex()})
	return &domain.Record{
		ID:        oid.Hex(),
		Kind:      kind,
		Data:      stored,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update applies data with $set, so fields absent from data keep their value.
func (r *RecordRepository) Update(ctx context.Context, kind domain.EntityKind, id string, data map[string]any) (*domain.Record, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RecordRepository",
		"method":    "Update",
		"kind":      kind,
		"record_id": id,
	})

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := toDocument(data)
	set[contracts.KeyUpdatedAt] = r.now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bson.M
	err = r.collection(kind).FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
		}
		repoLogger.Error("Failed to update record", err, nil)
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	return recordFromDocument(kind, doc), nil
}

func (r *RecordRepository) Delete(ctx context.Context, kind domain.EntityKind, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.collection(kind).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to delete record", err, port.Fields{
			"component": "RecordRepository",
			"method":    "Delete",
			"record_id": id,
		})
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return nil
}

func (r *RecordRepository) FindByID(ctx context.Context, kind domain.EntityKind, id string) (*domain.Record, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := r.collection(kind).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
		}
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	return recordFromDocument(kind, doc), nil
}

// List returns newest records first.
func (r *RecordRepository) List(ctx context.Context, kind domain.EntityKind, query domain.ListQuery) (*domain.RecordPage, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RecordRepository",
		"method":    "List",
		"kind":      kind,
	})
	query = query.Normalize()

	filter := listFilter(query)
	coll := r.collection(kind)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		repoLogger.Error("Failed to count records", err, nil)
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: contracts.KeyCreatedAt, Value: -1}}).
		SetSkip(query.Offset()).
		SetLimit(int64(query.Limit))
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		repoLogger.Error("Failed to query records", err, nil)
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	page := &domain.RecordPage{
		Items: make([]domain.Record, 0, len(docs)),
		Total: total,
		Page:  query.Page,
		Limit: query.Limit,
	}
	for _, doc := range docs {
		page.Items = append(page.Items, *recordFromDocument(kind, doc))
	}
	return page, nil
}

func listFilter(query domain.ListQuery) bson.M {
	filter := bson.M{}
	if query.FeaturedOnly {
		filter["featured"] = true
	}
	return filter
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return oid, nil
}
