package activity

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/brightlake/brightlake/pkg/models"
	"github.com/brightlake/brightlake/pkg/storage"
)

// storeErr wraps an object store failure. Permanent failures surface as
// non-retryable application errors of type PermanentError; plain wrapping
// would hide the classification behind fmt's wrapError and the workflow
// retry policy would keep retrying them.
func storeErr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if storage.IsPermanent(err) {
		return temporal.NewNonRetryableApplicationError(msg+": "+err.Error(), "PermanentError", err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// putOCF marshals rows to an Avro OCF snapshot and writes it to a layer.
func putOCF[T any](ctx context.Context, store storage.ObjectStore, bucket, object string, codec models.Codec[T], rows []T) error {
	data, err := models.MarshalOCF(codec, rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", object, err)
	}
	if _, err := store.Put(ctx, bucket, object, data); err != nil {
		return storeErr(err, "write %s", object)
	}
	return nil
}

// getOCF reads an Avro OCF snapshot from a layer and unmarshals it.
func getOCF[T any](ctx context.Context, store storage.ObjectStore, bucket, object string, codec models.Codec[T]) ([]T, error) {
	data, err := store.Get(ctx, bucket, object)
	if err != nil {
		return nil, storeErr(err, "fetch %s", object)
	}
	rows, err := models.UnmarshalOCF(codec, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", object, err)
	}
	return rows, nil
}
