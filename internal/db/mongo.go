package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names follow the ones the patient and doctor apps already write to.
const (
	AdminsCollection          = "admins"
	DoctorsCollection         = "doctors"
	VerifiedDoctorsCollection = "verifieddoctors"
	UsersCollection           = "users"
	AppointmentsCollection    = "appointments"
)

type Collections struct {
	Admins          *mongo.Collection
	Doctors         *mongo.Collection
	VerifiedDoctors *mongo.Collection
	Users           *mongo.Collection
	Appointments    *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Admins:          db.Collection(AdminsCollection),
		Doctors:         db.Collection(DoctorsCollection),
		VerifiedDoctors: db.Collection(VerifiedDoctorsCollection),
		Users:           db.Collection(UsersCollection),
		Appointments:    db.Collection(AppointmentsCollection),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Admins.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Doctors.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "setupToken", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "isApproved", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.VerifiedDoctors.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Appointments.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "doctorId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "date", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	return nil
}
