package media

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/config"
	"github.com/cliptube/backend/internal/logging"
)

// S3Service implements Service backed by an S3-compatible object store, with
// ffprobe supplying video durations at upload time.
type S3Service struct {
	uploader *manager.Uploader
	client   *s3.Client
	probe    *FFProbe
	bucket   string
	baseURL  string
}

// NewS3Service configures an uploader and deleter targeting the provided
// object store.
func NewS3Service(ctx context.Context, cfg config.ObjectStoreConfig, probe *FFProbe) (*S3Service, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 media: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Service{
		uploader: uploader,
		client:   client,
		probe:    probe,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the local file under folder/<uuid><ext> and returns its
// public URL. Files in the videos folder are probed for duration first.
func (s *S3Service) Upload(ctx context.Context, localPath, folder string) (asset Asset, err error) {
	if strings.TrimSpace(localPath) == "" {
		return Asset{}, fmt.Errorf("s3 media: empty local path")
	}

	ctx, span := logging.StartSpan(ctx, "media.upload")
	defer func() { span.End(err) }()

	var duration float64
	if folder == "videos" && s.probe != nil {
		d, err := s.probe.Duration(ctx, localPath)
		if err != nil {
			return Asset{}, fmt.Errorf("probe duration: %w", err)
		}
		duration = d
	}

	file, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+path.Ext(localPath))

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file,
		ACL:    s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return Asset{}, fmt.Errorf("s3 media upload %s: %w", key, err)
	}

	location := key
	if s.baseURL != "" {
		location = fmt.Sprintf("%s/%s", s.baseURL, key)
	}

	return Asset{URL: location, Duration: duration}, nil
}

// Delete removes the object behind the URL. S3 deletes are idempotent, so a
// missing object is not an error; an empty URL is a no-op.
func (s *S3Service) Delete(ctx context.Context, rawURL, resourceType string) error {
	_ = resourceType

	key := s.keyFromURL(rawURL)
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 media delete %s: %w", key, err)
	}

	return nil
}

func (s *S3Service) keyFromURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	if s.baseURL != "" && strings.HasPrefix(rawURL, s.baseURL+"/") {
		return strings.TrimPrefix(rawURL, s.baseURL+"/")
	}

	if parsed, err := url.Parse(rawURL); err == nil && parsed.Scheme != "" {
		return strings.TrimLeft(parsed.Path, "/")
	}

	return strings.TrimLeft(rawURL, "/")
}

var _ Service = (*S3Service)(nil)
