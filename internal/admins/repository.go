package admins

import (
	"context"

	"github.com/eashaop2023/admineashaop/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, admin models.Admin) error
	FindByEmail(ctx context.Context, email string) (models.Admin, error)
	AddRating(ctx context.Context, id primitive.ObjectID, rating models.Rating) (models.Admin, error)
	UpsertByEmail(ctx context.Context, admin models.Admin) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, admin models.Admin) error {
	_, err := r.col.InsertOne(ctx, admin)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (models.Admin, error) {
	var admin models.Admin
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (r *MongoRepository) AddRating(ctx context.Context, id primitive.ObjectID, rating models.Rating) (models.Admin, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$push": bson.M{"givenRatings": rating}}

	var admin models.Admin
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&admin); err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

// UpsertByEmail sets the profile and password of the admin with that email,
// creating it when missing. It reports whether a new document was inserted.
func (r *MongoRepository) UpsertByEmail(ctx context.Context, admin models.Admin) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"username": admin.Username,
			"mobileNo": admin.MobileNo,
			"password": admin.Password,
		},
		"$setOnInsert": bson.M{
			"_id":          admin.ID,
			"givenRatings": bson.A{},
		},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"email": admin.Email}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}
