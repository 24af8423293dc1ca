package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cliptube/backend/internal/logging"
)

// maxUploadBytes bounds the in-memory portion of multipart parsing; larger
// parts spill to disk via the stdlib multipart reader.
const maxUploadBytes = 32 << 20

// savedUpload is a multipart file staged on local disk for the media provider.
type savedUpload struct {
	Path string
}

// Remove deletes the staged file. Safe to call on the zero value.
func (s savedUpload) Remove() {
	if s.Path != "" {
		os.Remove(s.Path)
	}
}

// saveFormFile copies the named multipart part to a temp file and returns its
// path. The second return is false when the part is absent, which is only an
// error for required uploads.
func saveFormFile(r *http.Request, field string) (savedUpload, bool, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return savedUpload{}, false, nil
		}
		return savedUpload{}, false, fmt.Errorf("read %s part: %w", field, err)
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return savedUpload{}, false, fmt.Errorf("stage %s upload: %w", field, err)
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return savedUpload{}, false, fmt.Errorf("stage %s upload: %w", field, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return savedUpload{}, false, fmt.Errorf("stage %s upload: %w", field, err)
	}

	return savedUpload{Path: tmp.Name()}, true, nil
}

// deleteAsset removes a stored object, logging failures instead of failing the
// request. Replaced or orphaned media must never block the caller's write.
func deleteAsset(r *http.Request, svc MediaService, url, resourceType string) {
	if svc == nil || url == "" {
		return
	}
	ctx := r.Context()
	if err := svc.Delete(ctx, url, resourceType); err != nil {
		logging.FromContext(ctx).Warn("delete stored media", "url", url, "error", err)
	}
}
