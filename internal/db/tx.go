package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner runs fn inside a transaction when the deployment supports it.
// With Enabled false fn runs directly and each write commits on its own.
type TxRunner struct {
	Client  *mongo.Client
	Enabled bool
}

func (t TxRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.Enabled || t.Client == nil {
		return fn(ctx)
	}
	session, err := t.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
