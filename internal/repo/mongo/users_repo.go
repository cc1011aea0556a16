package mongo

import (
	"context"

	"github.com/studyhub/studyhub/internal/domain/user"
	"github.com/studyhub/studyhub/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UsersRepo struct {
	col  *mongo.Collection
	prom *observability.Prom
}

func NewUsersRepo(database *mongo.Database, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		col:  database.Collection("users"),
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

// ExistsByEmailOrUID backs the pre-insert duplicate check. No unique
// index enforces this at the store level, so concurrent creations with
// the same email or uid can still both land; a known race.
func (r *UsersRepo) ExistsByEmailOrUID(ctx context.Context, email, uid string) (bool, error) {
	var count int64

	err := r.observe("users.exists", func() error {
		var err error
		count, err = r.col.CountDocuments(ctx, bson.M{
			"$or": []bson.M{
				{"email": email},
				{"uid": uid},
			},
		})
		return err
	})

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *UsersRepo) Insert(ctx context.Context, doc bson.M) (*mongo.InsertOneResult, error) {
	var res *mongo.InsertOneResult

	err := r.observe("users.insert", func() error {
		var err error
		res, err = r.col.InsertOne(ctx, doc)
		return err
	})

	if err != nil {
		return nil, err
	}

	return res, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]bson.M, error) {
	out := make([]bson.M, 0)

	err := r.observe("users.list", func() error {
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

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (bson.M, error) {
	var doc bson.M

	err := r.observe("users.get_by_email", func() error {
		return r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	})

	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, user.ErrNotFound
		}

		return nil, err
	}

	return doc, nil
}
