package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

type BucketCategory string

const (
	BucketCategoryNote          BucketCategory = "note"
	BucketCategoryQuestionPaper BucketCategory = "question_paper"
)

var ErrObjectNotFound = errors.New("object not found")

type BucketService interface {
	UploadFile(dbc dbctx.Context, category BucketCategory, key, contentType string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error
	GetPublicURL(category BucketCategory, key string) string
	Close() error
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	cfg           Config
	buckets       map[BucketCategory]string
}

func NewBucketService(ctx context.Context, log *logger.Logger, cfg Config) (BucketService, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	serviceLog := log.With("service", "BucketService")

	stClient, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info("Object storage initialized",
		"mode", cfg.Mode,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
		"notes_bucket", cfg.NotesBucket,
		"papers_bucket", cfg.PapersBucket,
	)
	return newBucketService(serviceLog, stClient, cfg), nil
}

func newBucketService(log *logger.Logger, client *storage.Client, cfg Config) *bucketService {
	return &bucketService{
		log:           log,
		storageClient: client,
		cfg:           cfg,
		buckets: map[BucketCategory]string{
			BucketCategoryNote:          strings.TrimSpace(cfg.NotesBucket),
			BucketCategoryQuestionPaper: strings.TrimSpace(cfg.PapersBucket),
		},
	}
}

func newStorageClient(ctx context.Context, cfg Config) (*storage.Client, error) {
	if cfg.IsEmulatorMode() {
		opts := []option.ClientOption{
			option.WithoutAuthentication(),
			option.WithEndpoint(cfg.EmulatorHost + "/storage/v1/"),
		}
		return storage.NewClient(ctx, opts...)
	}
	opts := clientOptions(cfg)
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func clientOptions(cfg Config) []option.ClientOption {
	if creds := strings.TrimSpace(cfg.CredentialsJSON); creds != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	creds := strings.TrimSpace(cfg.CredentialsFile)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (bs *bucketService) bucketName(category BucketCategory) (string, error) {
	name, ok := bs.buckets[category]
	if !ok || name == "" {
		return "", fmt.Errorf("unknown bucket category: %s", category)
	}
	return name, nil
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key, contentType string, file io.Reader) error {
	name, err := bs.bucketName(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(name).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	name, err := bs.bucketName(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(name).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, name, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(category BucketCategory, key string) string {
	name, err := bs.bucketName(category)
	if err != nil {
		return key
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if bs.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cfg.CDNDomain, key)
	}
	if bs.cfg.IsEmulatorMode() {
		base := bs.cfg.PublicBaseURL
		if base == "" {
			base = bs.cfg.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(name), url.PathEscape(key))
	}
	if bs.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", bs.cfg.PublicBaseURL, name, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", name, key)
}

func (bs *bucketService) Close() error {
	if bs.storageClient == nil {
		return nil
	}
	return bs.storageClient.Close()
}
