package users

import (
	"context"

	"github.com/eashaop2023/admineashaop/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]models.User, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// secretFields never leave the database.
var secretFields = bson.M{"password": 0, "otp": 0, "otpExpires": 0}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	opts := options.Find().
		SetProjection(secretFields).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.col.Find(ctx, filterToBSON(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.User, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, filterToBSON(filter))
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	opts := options.FindOne().SetProjection(secretFields)
	if err := r.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Phone != "" {
		query["phone_number"] = filter.Phone
	}
	return query
}
