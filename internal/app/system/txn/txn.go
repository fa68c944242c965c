// internal/app/system/txn/txn.go

// Package txn wraps multi-collection writes in a MongoDB transaction,
// falling back to plain sequential execution when the deployment does not
// support transactions (standalone servers without a replica set).
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. When the server
// rejects transactions as unsupported, fn is retried once outside a
// transaction; partial writes are then possible, which is acceptable only
// for dev setups on standalone Mongo.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("transactions unsupported, running without atomicity", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("transactions unsupported, running without atomicity", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Mongo error codes returned when the deployment cannot run transactions.
const (
	codeTransactionNumbers = 20  // "Transaction numbers are only allowed on..."
	codeIllegalOperation   = 51
	codeOperationNotSupportedInTransaction = 263
)

// IsNotSupported reports whether err indicates the server cannot run
// transactions at all (as opposed to a transient or application error).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	if ce, ok := err.(mongo.CommandError); ok {
		switch ce.Code {
		case codeTransactionNumbers, codeIllegalOperation, codeOperationNotSupportedInTransaction:
			return true
		}
		return false
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "transaction") &&
		(strings.Contains(s, "replica set") || strings.Contains(s, "session") || strings.Contains(s, "illegal operation")) {
		return true
	}
	if strings.Contains(s, "session") && strings.Contains(s, "not supported") {
		return true
	}
	return false
}
