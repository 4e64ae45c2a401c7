package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "fleetbook/pkg/errors"
)

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client     *mongo.Client
	maxRetries int
}

func NewTransactionManager(client *mongo.Client, maxRetries int) TransactionManager {
	return &mongoTransactionManager{
		client:     client,
		maxRetries: maxRetries,
	}
}

// ExecuteTransaction runs fn inside a single multi-document transaction.
// Write conflicts between concurrently committing transactions surface as
// transient, labeled errors; those are retried up to maxRetries times and
// then reported as a TRANSIENT_STORE_ERROR. Application errors returned by
// fn abort the transaction and pass through unchanged.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	var lastErr error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		_, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
			return nil, fn(sessCtx)
		})
		if err == nil {
			return nil
		}
		if apperrors.IsAppError(err) {
			return err
		}
		if !isTransient(err) {
			return fmt.Errorf("transaction failed: %w", err)
		}
		lastErr = err
	}

	return apperrors.Transient("transaction retry budget exhausted", lastErr)
}

func isTransient(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorLabel("TransientTransactionError") ||
			serverErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
