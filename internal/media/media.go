// Package media defines the external media provider contract and its
// S3-backed implementation. Uploads return the public URL plus derived
// metadata (duration for videos); deletes are idempotent.
package media

import "context"

// Resource types accepted by Delete.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

// Asset is the provider's description of a stored object.
type Asset struct {
	URL      string
	Duration float64
}

// Service is the delegated media storage contract.
type Service interface {
	// Upload stores the local file under the given folder and returns its
	// public URL; video uploads also carry the probed duration in seconds.
	Upload(ctx context.Context, localPath, folder string) (Asset, error)
	// Delete removes the object behind the URL. Deleting a non-existent
	// object is not an error.
	Delete(ctx context.Context, url, resourceType string) error
}
