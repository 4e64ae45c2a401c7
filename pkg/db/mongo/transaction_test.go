package mongo

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsTransient(t *testing.T) {
	transient := mongo.CommandError{
		Code:   112,
		Name:   "WriteConflict",
		Labels: []string{"TransientTransactionError"},
	}
	if !isTransient(transient) {
		t.Error("expected labeled write conflict to be transient")
	}

	unknownCommit := mongo.CommandError{
		Labels: []string{"UnknownTransactionCommitResult"},
	}
	if !isTransient(unknownCommit) {
		t.Error("expected unknown commit result to be transient")
	}

	if isTransient(mongo.CommandError{Code: 11000, Name: "DuplicateKey"}) {
		t.Error("expected unlabeled server error to be permanent")
	}
	if isTransient(errors.New("connection refused")) {
		t.Error("expected plain error to be permanent")
	}

	wrapped := fmt.Errorf("commit: %w", transient)
	if !isTransient(wrapped) {
		t.Error("expected isTransient to see through wrapping")
	}
}
