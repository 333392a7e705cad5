package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type DocumentRepo interface {
	// Upsert replaces the live document for doc.SecurityCode, or inserts it.
	// created_at is only written on insert; updated_at on every call. The
	// whole write is a single atomic Mongo update, so concurrent upserts for
	// one key apply as last-committed-wins on the full record.
	Upsert(ctx context.Context, doc *types.Document) (*types.Document, error)
	GetBySecurityCode(ctx context.Context, securityCode string) (*types.Document, error)
	GetByID(ctx context.Context, id string) (*types.Document, error)
	List(ctx context.Context, filter types.DocumentFilter, skip, limit int) ([]*types.Document, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteByID(ctx context.Context, id string) error
	DeleteBySecurityCode(ctx context.Context, securityCode string) error
	// CleanupDuplicates removes all but the most recently updated record per
	// security code. Repair path for corrupted or migrated data, not a
	// normal-path operation.
	CleanupDuplicates(ctx context.Context) (int64, error)
}

type documentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(db *mongo.Database, collectionName string) DocumentRepo {
	collection := db.Collection(collectionName)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "security_code", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		log.Printf("Error creating document indexes: %v", err)
	}

	return &documentRepo{
		collection: collection,
	}
}

func (r *documentRepo) Upsert(ctx context.Context, doc *types.Document) (*types.Document, error) {
	now := time.Now().UnixMilli()
	filter := bson.M{"security_code": doc.SecurityCode}
	update := bson.M{
		"$set": bson.M{
			"security_code":    doc.SecurityCode,
			"source_url":       doc.SourceURL,
			"filename":         doc.Filename,
			"file_size":        doc.FileSize,
			"content":          doc.Content,
			"total_pages":      doc.TotalPages,
			"successful_pages": doc.SuccessfulPages,
			"failed_pages":     doc.FailedPages,
			"status":           doc.Status,
			"success_yn":       doc.SuccessYn,
			"prompt_profile":   doc.PromptProfile,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	if _, err := r.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true)); err != nil {
		return nil, &utils.StorageError{Op: "upsert", Err: err}
	}
	return r.GetBySecurityCode(ctx, doc.SecurityCode)
}

func (r *documentRepo) GetBySecurityCode(ctx context.Context, securityCode string) (*types.Document, error) {
	var doc types.Document
	// Most recent first so a corrupted store with duplicates still serves
	// the newest record until cleanup runs.
	err := r.collection.FindOne(ctx,
		bson.M{"security_code": securityCode},
		options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrDocumentNotFound
		}
		return nil, &utils.StorageError{Op: "get by security code", Err: err}
	}
	return &doc, nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*types.Document, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.ErrDocumentNotFound
	}
	var doc types.Document
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrDocumentNotFound
		}
		return nil, &utils.StorageError{Op: "get by id", Err: err}
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, filter types.DocumentFilter, skip, limit int) ([]*types.Document, int64, error) {
	query := bson.M{}
	if filter.SecurityCode != "" {
		query["security_code"] = filter.SecurityCode
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, &utils.StorageError{Op: "count", Err: err}
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, &utils.StorageError{Op: "list", Err: err}
	}
	defer cursor.Close(ctx)

	var docs []*types.Document
	for cursor.Next(ctx) {
		var doc types.Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, &utils.StorageError{Op: "list decode", Err: err}
		}
		docs = append(docs, &doc)
	}
	return docs, total, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return utils.ErrDocumentNotFound
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UnixMilli(),
		},
	})
	if err != nil {
		return &utils.StorageError{Op: "update status", Err: err}
	}
	if res.MatchedCount == 0 {
		return utils.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) DeleteByID(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return utils.ErrDocumentNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return &utils.StorageError{Op: "delete by id", Err: err}
	}
	if res.DeletedCount == 0 {
		return utils.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) DeleteBySecurityCode(ctx context.Context, securityCode string) error {
	// DeleteMany so corrupt duplicates go with the live record.
	res, err := r.collection.DeleteMany(ctx, bson.M{"security_code": securityCode})
	if err != nil {
		return &utils.StorageError{Op: "delete by security code", Err: err}
	}
	if res.DeletedCount == 0 {
		return utils.ErrDocumentNotFound
	}
	return nil
}

// duplicateGroup is one security code holding more than one record.
type duplicateGroup struct {
	SecurityCode string         `bson:"_id"`
	Docs         []duplicateDoc `bson:"docs"`
}

type duplicateDoc struct {
	ID        string `bson:"id"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (r *documentRepo) CleanupDuplicates(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": "$security_code",
			"docs": bson.M{"$push": bson.M{
				"id":         "$_id",
				"updated_at": "$updated_at",
			}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$match", Value: bson.M{"count": bson.M{"$gt": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, &utils.StorageError{Op: "duplicate scan", Err: err}
	}
	defer cursor.Close(ctx)

	var removed int64
	for cursor.Next(ctx) {
		var group duplicateGroup
		if err := cursor.Decode(&group); err != nil {
			return removed, &utils.StorageError{Op: "duplicate scan decode", Err: err}
		}

		staleIDs := staleDuplicateIDs(group.Docs)
		if len(staleIDs) == 0 {
			continue
		}
		oids := make([]bson.ObjectID, 0, len(staleIDs))
		for _, id := range staleIDs {
			oid, err := bson.ObjectIDFromHex(id)
			if err != nil {
				continue
			}
			oids = append(oids, oid)
		}

		res, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
		if err != nil {
			return removed, &utils.StorageError{Op: "duplicate delete", Err: err}
		}
		removed += res.DeletedCount
		log.Printf("Removed %d stale documents for security code %s", res.DeletedCount, group.SecurityCode)
	}
	return removed, nil
}

// staleDuplicateIDs returns every record id except the one with the greatest
// updated_at. On a tie the earliest-listed record survives.
func staleDuplicateIDs(docs []duplicateDoc) []string {
	if len(docs) <= 1 {
		return nil
	}
	keep := 0
	for i := 1; i < len(docs); i++ {
		if docs[i].UpdatedAt > docs[keep].UpdatedAt {
			keep = i
		}
	}
	stale := make([]string, 0, len(docs)-1)
	for i, doc := range docs {
		if i != keep {
			stale = append(stale, doc.ID)
		}
	}
	return stale
}
