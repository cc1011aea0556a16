package mongo

import (
	"github.com/studyhub/studyhub/internal/observability"
	"go.mongodb.org/mongo-driver/mongo"
)

// SubmissionsRepo holds the submissions collection handle. No endpoint
// routes to it yet; the collection is provisioned ahead of the
// submission feature, which will add operations here.
type SubmissionsRepo struct {
	col  *mongo.Collection
	prom *observability.Prom
}

func NewSubmissionsRepo(database *mongo.Database, prom *observability.Prom) *SubmissionsRepo {
	return &SubmissionsRepo{
		col:  database.Collection("submissions"),
		prom: prom,
	}
}
