package mongo

import (
	"context"

	"github.com/studyhub/studyhub/internal/domain/assignment"
	"github.com/studyhub/studyhub/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssignmentsRepo struct {
	col  *mongo.Collection
	prom *observability.Prom
}

func NewAssignmentsRepo(database *mongo.Database, prom *observability.Prom) *AssignmentsRepo {
	return &AssignmentsRepo{
		col:  database.Collection("assignments"),
		prom: prom,
	}
}

func (r *AssignmentsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

// List is a full, unpaginated collection scan.
func (r *AssignmentsRepo) List(ctx context.Context) ([]bson.M, error) {
	out := make([]bson.M, 0)

	err := r.observe("assignments.list", func() error {
		cursor, err := r.col.Find(ctx, bson.M{})

		if err != nil {
			return err
		}

		return cursor.All(ctx, &out)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *AssignmentsRepo) GetByID(ctx context.Context, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return nil, assignment.ErrInvalidID
	}

	var doc bson.M

	err = r.observe("assignments.get_by_id", func() error {
		return r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	})

	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, assignment.ErrNotFound
		}

		return nil, err
	}

	return doc, nil
}

// Insert persists the document exactly as given; the generated id comes
// back in the result.
func (r *AssignmentsRepo) Insert(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	var res *mongo.InsertOneResult

	err := r.observe("assignments.insert", func() error {
		var err error
		res, err = r.col.InsertOne(ctx, doc)
		return err
	})

	if err != nil {
		return nil, err
	}

	return res, nil
}

// UpdateByID merges the given fields into the document. Fields not named
// are left untouched; there is no way to unset a field.
func (r *AssignmentsRepo) UpdateByID(ctx context.Context, id string, fields bson.M) (*mongo.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return nil, assignment.ErrInvalidID
	}

	var res *mongo.UpdateResult

	err = r.observe("assignments.update_by_id", func() error {
		var err error
		res, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
		return err
	})

	if err != nil {
		return nil, err
	}

	return res, nil
}

// DeleteOwned folds the ownership check into the delete filter, so check
// and act are a single operation. A zero deleted count means not-owner or
// not-found; the two are not distinguished.
func (r *AssignmentsRepo) DeleteOwned(ctx context.Context, id, ownerEmail string) (*mongo.DeleteResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return nil, assignment.ErrInvalidID
	}

	var res *mongo.DeleteResult

	err = r.observe("assignments.delete_owned", func() error {
		var err error
		res, err = r.col.DeleteOne(ctx, bson.M{
			"_id":                 oid,
			assignment.OwnerField: ownerEmail,
		})
		return err
	})

	if err != nil {
		return nil, err
	}

	return res, nil
}
