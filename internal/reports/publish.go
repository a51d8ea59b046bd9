package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/mealsim/internal/blob"
)

// Publish renders s and uploads it under <namespace>/exports/. It returns
// the object key.
func Publish(ctx context.Context, store blob.Store, namespace, format string, s Summary, now time.Time) (string, error) {
	data, err := Render(format, s)
	if err != nil {
		return "", err
	}

	objectKey := blob.Key(namespace, "exports",
		fmt.Sprintf("%s_%s.%s", now.UTC().Format("20060102-150405"), uuid.New().String(), format))

	if _, err := store.PutObject(ctx, objectKey, data, ContentType(format)); err != nil {
		return "", fmt.Errorf("failed to upload summary: %w", err)
	}
	return objectKey, nil
}
