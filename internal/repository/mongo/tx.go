package mongo

import (
	"alcyxob/coachplan/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTxRunner implements repository.TxRunner on top of MongoDB
// sessions. The session context it hands to fn carries the transaction,
// so repository calls made through it join the same transaction without
// knowing about it.
type mongoTxRunner struct {
	client *mongo.Client
}

// NewMongoTxRunner creates a TxRunner backed by client sessions.
// Requires a replica set or mongos deployment, as all multi-document
// transactions in MongoDB do.
func NewMongoTxRunner(client *mongo.Client) repository.TxRunner {
	return &mongoTxRunner{client: client}
}

func (r *mongoTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
