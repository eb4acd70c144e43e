package doctors

import (
	"context"
	"time"

	"github.com/eashaop2023/admineashaop/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]models.Doctor, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Doctor, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Approve(ctx context.Context, id primitive.ObjectID, approval Approval) (models.Doctor, error)
	FindBySetupToken(ctx context.Context, token string, now time.Time) (models.Doctor, error)
	ConsumeSetupToken(ctx context.Context, token string, now time.Time, passwordHash string) (models.Doctor, error)
	AddReview(ctx context.Context, id primitive.ObjectID, review models.Review) (models.Doctor, error)
	UpsertVerified(ctx context.Context, mirror models.VerifiedDoctor) error
	ListVerified(ctx context.Context) ([]models.VerifiedDoctor, error)
}

type MongoRepository struct {
	doctors  *mongo.Collection
	verified *mongo.Collection
}

func NewRepository(doctors, verified *mongo.Collection) *MongoRepository {
	return &MongoRepository{doctors: doctors, verified: verified}
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]models.Doctor, error) {
	cursor, err := r.doctors.Find(ctx, filterToBSON(filter), options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Doctor, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.doctors.CountDocuments(ctx, filterToBSON(filter))
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Doctor, error) {
	var doctor models.Doctor
	if err := r.doctors.FindOne(ctx, bson.M{"_id": id}).Decode(&doctor); err != nil {
		return models.Doctor{}, err
	}
	return doctor, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.doctors.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// Approve only matches doctors that are not approved yet, so concurrent calls
// cannot issue two setup tokens.
func (r *MongoRepository) Approve(ctx context.Context, id primitive.ObjectID, approval Approval) (models.Doctor, error) {
	set := bson.M{
		"isApproved": true,
		"isVerified": true,
		"username":   approval.Username,
	}
	if approval.SetupToken != "" {
		set["setupToken"] = approval.SetupToken
		set["setupTokenExpires"] = approval.SetupTokenExpires
	}
	if approval.PasswordHash != "" {
		set["password"] = approval.PasswordHash
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "isApproved": bson.M{"$ne": true}}

	var updated models.Doctor
	if err := r.doctors.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return models.Doctor{}, err
	}
	return updated, nil
}

func (r *MongoRepository) FindBySetupToken(ctx context.Context, token string, now time.Time) (models.Doctor, error) {
	var doctor models.Doctor
	if err := r.doctors.FindOne(ctx, setupTokenFilter(token, now)).Decode(&doctor); err != nil {
		return models.Doctor{}, err
	}
	return doctor, nil
}

func (r *MongoRepository) ConsumeSetupToken(ctx context.Context, token string, now time.Time, passwordHash string) (models.Doctor, error) {
	update := bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"setupToken": "", "setupTokenExpires": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Doctor
	if err := r.doctors.FindOneAndUpdate(ctx, setupTokenFilter(token, now), update, opts).Decode(&updated); err != nil {
		return models.Doctor{}, err
	}
	return updated, nil
}

// AddReview appends the review and recomputes averageRating in the same update.
func (r *MongoRepository) AddReview(ctx context.Context, id primitive.ObjectID, review models.Review) (models.Doctor, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "reviews", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
			bson.D{{Key: "$ifNull", Value: bson.A{"$reviews", bson.A{}}}},
			bson.A{bson.D{{Key: "$literal", Value: review}}},
		}}}}}}},
		{{Key: "$set", Value: bson.D{{Key: "averageRating", Value: bson.D{{Key: "$avg", Value: "$reviews.rating"}}}}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Doctor
	if err := r.doctors.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return models.Doctor{}, err
	}
	return updated, nil
}

// UpsertVerified refreshes the mirror's password, creating the mirror on first use.
func (r *MongoRepository) UpsertVerified(ctx context.Context, mirror models.VerifiedDoctor) error {
	filter := bson.M{"doctorId": mirror.DoctorID}
	update := bson.M{
		"$set": bson.M{"password": mirror.Password},
		"$setOnInsert": bson.M{
			"_id":        mirror.ID,
			"name":       mirror.Name,
			"email":      mirror.Email,
			"mobile":     mirror.Mobile,
			"username":   mirror.Username,
			"verifiedAt": mirror.VerifiedAt,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.verified.UpdateOne(ctx, filter, update, opts)
	if retryUpsert(ctx, err) {
		_, err = r.verified.UpdateOne(ctx, filter, update, opts)
	}
	return err
}

// retryUpsert reports whether a concurrent upsert created the mirror first, so
// a second attempt matches it. Inside a transaction the duplicate key has
// already aborted it and only the caller can retry.
func retryUpsert(ctx context.Context, err error) bool {
	return mongo.IsDuplicateKeyError(err) && mongo.SessionFromContext(ctx) == nil
}

func (r *MongoRepository) ListVerified(ctx context.Context) ([]models.VerifiedDoctor, error) {
	cursor, err := r.verified.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "verifiedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.VerifiedDoctor, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func setupTokenFilter(token string, now time.Time) bson.M {
	return bson.M{
		"setupToken":        token,
		"setupTokenExpires": bson.M{"$gt": now},
	}
}

func filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	switch filter.Status {
	case StatusPending:
		query["isApproved"] = bson.M{"$ne": true}
	case StatusVerified:
		query["isApproved"] = true
	}
	return query
}
