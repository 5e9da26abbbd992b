// Package archive keeps raw uploaded statement files in a GCS bucket so an
// import can always be traced back to the exact file that produced it.
package archive

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

const uploadTimeout = 2 * time.Minute

// Archive stores statement files under uploads/YYYY/MM/DD/<id>-<filename>.
// It assumes Application Default Credentials are configured.
type Archive struct {
	client *storage.Client
	bucket string
	log    zerolog.Logger
}

// New creates an Archive over the given bucket.
func New(ctx context.Context, bucket string, log zerolog.Logger) (*Archive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Archive{client: client, bucket: bucket, log: log}, nil
}

// Store uploads one statement file and returns its object name.
func (a *Archive) Store(ctx context.Context, filename string, content []byte) (string, error) {
	objectName := fmt.Sprintf("uploads/%s/%s-%s",
		time.Now().UTC().Format("2006/01/02"), uuid.NewString(), filename)

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write to GCS object %q: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload %q: %w", objectName, err)
	}

	a.log.Info().Str("object", objectName).Int("bytes", len(content)).Msg("Archived statement")
	return objectName, nil
}

// List returns the object names of all archived statements.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	it := a.client.Bucket(a.bucket).Objects(ctx, &storage.Query{Prefix: "uploads/"})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing archived statements: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// Close releases the underlying client.
func (a *Archive) Close() error {
	return a.client.Close()
}
