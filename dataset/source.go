package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/infrastructured-map/config"
	"github.com/theoremus-urban-solutions/infrastructured-map/internal"
)

// ErrNotFound is returned when a location does not exist.
var ErrNotFound = errors.New("not found")

// Fetcher reads dataset and markdown documents from a local path, an
// http(s) URL or s3://bucket/key. Locations ending in .gz are gunzipped.
type Fetcher struct {
	httpClient *http.Client
	storage    config.StorageConfig
	logger     *zap.SugaredLogger

	s3Once sync.Once
	s3     *minio.Client
	s3Err  error
}

// NewFetcher creates a fetcher; the object storage client is only built on
// the first s3:// location.
func NewFetcher(storage config.StorageConfig, logger *zap.SugaredLogger) *Fetcher {
	client := &http.Client{}
	if storage.TimeoutMS > 0 {
		client.Timeout = time.Duration(storage.TimeoutMS) * time.Millisecond
	}
	return &Fetcher{
		httpClient: client,
		storage:    storage,
		logger:     internal.OrNop(logger),
	}
}

// Fetch reads one document. It returns nil if location is empty.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, nil
	}

	var data []byte
	var err error
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		data, err = f.fetchHTTP(ctx, location)
	case strings.HasPrefix(location, "s3://"):
		data, err = f.fetchS3(ctx, location)
	default:
		data, err = os.ReadFile(location)
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrNotFound, location)
		}
	}
	if err != nil {
		return nil, err
	}
	f.logger.Debugw("fetched", "location", location, "bytes", len(data))

	if strings.HasSuffix(location, ".gz") {
		return gunzip(data, location)
	}
	return data, nil
}

// FetchAll fetches the given locations concurrently. Results keep the order
// of locations; an empty location yields nil.
func (f *Fetcher) FetchAll(ctx context.Context, locations ...string) ([][]byte, error) {
	out := make([][]byte, len(locations))
	g, ctx := errgroup.WithContext(ctx)
	for i, loc := range locations {
		g.Go(func() error {
			data, err := f.Fetch(ctx, loc)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Fetch reads one location with a fetcher built from storage.
func Fetch(ctx context.Context, location string, storage config.StorageConfig) ([]byte, error) {
	return NewFetcher(storage, nil).Fetch(ctx, location)
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: HTTP %d from %s", ErrNotFound, resp.StatusCode, url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

func (f *Fetcher) fetchS3(ctx context.Context, location string) ([]byte, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid object location %q: want s3://bucket/key", location)
	}
	client, err := f.s3Client()
	if err != nil {
		return nil, err
	}

	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	return data, nil
}

func (f *Fetcher) s3Client() (*minio.Client, error) {
	f.s3Once.Do(func() {
		if f.storage.Endpoint == "" {
			f.s3Err = errors.New("s3 location requires storage.endpoint in config")
			return
		}
		f.s3, f.s3Err = minio.New(f.storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(f.storage.AccessKeyID, f.storage.SecretAccessKey, ""),
			Secure: f.storage.UseSSL,
			Region: f.storage.Region,
		})
	})
	return f.s3, f.s3Err
}

func gunzip(data []byte, location string) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", location, err)
	}
	defer func() { _ = zr.Close() }()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", location, err)
	}
	return out, nil
}
