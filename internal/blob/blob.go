package blob

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by GetObject when the key does not exist.
var ErrNotFound = errors.New("blob not found")

// Store is a key-value blob store. Values are opaque bytes; the content type
// is kept where the backend supports it.
type Store interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
	Close() error
}

// Key joins a namespace and path segments with "/".
func Key(namespace string, parts ...string) string {
	segs := make([]string, 0, len(parts)+1)
	if ns := strings.Trim(namespace, "/"); ns != "" {
		segs = append(segs, ns)
	}
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			segs = append(segs, p)
		}
	}
	return strings.Join(segs, "/")
}
