package appointments

import (
	"context"

	"github.com/eashaop2023/admineashaop/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repository interface {
	Find(ctx context.Context, match bson.M) ([]View, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Find(ctx context.Context, match bson.M) ([]View, error) {
	cursor, err := r.col.Aggregate(ctx, joinPipeline(match))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]View, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func joinPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}}},
		lookupOne(db.UsersCollection, "userId", bson.D{
			{Key: "full_name", Value: 1},
			{Key: "email", Value: 1},
			{Key: "phone_number", Value: 1},
		}),
		unwind("userId"),
		lookupOne(db.DoctorsCollection, "doctorId", bson.D{
			{Key: "name", Value: 1},
			{Key: "speciality", Value: 1},
			{Key: "email", Value: 1},
			{Key: "mobile", Value: 1},
		}),
		unwind("doctorId"),
	}
}

// lookupOne replaces field with the projected document it references.
func lookupOne(from, field string, projection bson.D) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "let", Value: bson.D{{Key: "ref", Value: "$" + field}}},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$ref"}}}}}}},
			bson.D{{Key: "$project", Value: projection}},
		}},
		{Key: "as", Value: field},
	}}}
}

func unwind(field string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + field},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

func byID(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id}
}
