package reports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Counter interface {
	Totals(ctx context.Context) (Totals, error)
}

type MongoCounter struct {
	users   *mongo.Collection
	doctors *mongo.Collection
}

func NewCounter(users, doctors *mongo.Collection) *MongoCounter {
	return &MongoCounter{users: users, doctors: doctors}
}

func (c *MongoCounter) Totals(ctx context.Context) (Totals, error) {
	patients, err := c.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return Totals{}, err
	}
	doctors, err := c.doctors.CountDocuments(ctx, bson.M{})
	if err != nil {
		return Totals{}, err
	}
	pending, err := c.doctors.CountDocuments(ctx, bson.M{"isApproved": bson.M{"$ne": true}})
	if err != nil {
		return Totals{}, err
	}
	return Totals{Patients: patients, Doctors: doctors, PendingDoctors: pending}, nil
}
