package dataset

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ObjectConfig configures the S3-compatible dataset backend.
type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	// Prefix is prepended to every object key. Default: "data".
	Prefix string
}

// ObjectStore keeps dataset blobs in an S3-compatible bucket.
type ObjectStore struct {
	client *minio.Client
	cfg    ObjectConfig
	log    *zap.Logger
}

// NewObjectStore creates an object-store backend.
func NewObjectStore(cfg ObjectConfig) (*ObjectStore, error) {
	// The client expects a bare host, not a URL.
	endpoint := strings.TrimPrefix(cfg.Endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	if cfg.Prefix == "" {
		cfg.Prefix = "data"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: create object store client")
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
		log:    zap.L().With(zap.String("component", "dataset.object")),
	}, nil
}

func (s *ObjectStore) key(name string) string {
	return s.cfg.Prefix + "/" + blobKey(name)
}

func (s *ObjectStore) Save(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, s.key(name),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	if err != nil {
		return eris.Wrapf(err, "dataset: put %s", name)
	}
	s.log.Info("saved dataset",
		zap.String("name", name),
		zap.String("bucket", s.cfg.Bucket),
		zap.Int("bytes", len(data)),
	)
	return nil
}

func (s *ObjectStore) Load(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: get %s", name)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "dataset: read %s", name)
	}
	return data, nil
}

func (s *ObjectStore) Stat(ctx context.Context, name string) (int64, error) {
	info, err := s.client.StatObject(ctx, s.cfg.Bucket, s.key(name), minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return 0, ErrNotFound
		}
		return 0, eris.Wrapf(err, "dataset: stat %s", name)
	}
	return info.Size, nil
}

// isNoSuchKey reports whether err is the object-missing response.
func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
