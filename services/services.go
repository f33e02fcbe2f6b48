// Package services holds the workflows that carry invariants across more than
// one document: account registration, the donation ledger and the mentorship
// lifecycle. Handlers call into it with an already resolved Identity.
package services

import (
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/phillip/edubridge-go/apperrors"
	store "github.com/phillip/edubridge-go/store"
)

// storeErr translates store sentinels. notFound is the client message used
// when the document is missing.
func storeErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperrors.New(apperrors.NotFound, notFound)
	case errors.Is(err, store.ErrDuplicate):
		return apperrors.Wrap(apperrors.Conflict, "already exists", err)
	}
	return apperrors.Wrap(apperrors.Internal, "storage failure", err)
}

func parseID(raw, what string) (primitive.ObjectID, error) {
	if raw == "" {
		return primitive.NilObjectID, apperrors.Newf(apperrors.InvalidArgument, "%s is required", what)
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperrors.Newf(apperrors.InvalidArgument, "invalid %s", what)
	}
	return id, nil
}

func nowUTC(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}

func logf(format string, args ...any) {
	log.Printf(format, args...)
}
