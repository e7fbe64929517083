// File: internal/service/inspect.go
package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"bucketwarden/pkg/storage"

	"golang.org/x/sync/errgroup"
)

// InspectorProvider yields read-only inspector clients. Satisfied by factory.Factory.
type InspectorProvider interface {
	GetInspector(ctx context.Context, providerName string) (storage.Inspector, error)
	GetConfiguredProviders() []string
}

// InspectService serves the read-only bucket reporting commands.
type InspectService struct {
	providers InspectorProvider
	logger    *slog.Logger
}

func NewInspectService(providers InspectorProvider, logger *slog.Logger) *InspectService {
	return &InspectService{
		providers: providers,
		logger:    logger.With("service", "InspectService"),
	}
}

// ListAllBuckets fans out across the named providers concurrently. A provider
// that fails is logged and skipped; the listing succeeds with what remains.
func (s *InspectService) ListAllBuckets(ctx context.Context, providerNames []string) ([]storage.Bucket, error) {
	if len(providerNames) == 0 {
		providerNames = s.providers.GetConfiguredProviders()
	}
	if len(providerNames) == 0 {
		return nil, nil
	}

	s.logger.Debug("Starting ListAllBuckets operation", "providers", providerNames)

	var (
		mu         sync.Mutex
		allBuckets []storage.Bucket
	)
	g, gctx := errgroup.WithContext(ctx)

	for _, pName := range providerNames {
		g.Go(func() error {
			client, err := s.providers.GetInspector(gctx, pName)
			if err != nil {
				s.logger.Error("Failed to initialize provider client", "provider", pName, "error", err)
				return nil
			}
			defer client.Close()

			buckets, err := client.ListBuckets(gctx)
			if err != nil {
				s.logger.Error("Failed to list buckets from provider", "provider", pName, "error", err)
				return nil
			}

			mu.Lock()
			allBuckets = append(allBuckets, buckets...)
			mu.Unlock()

			s.logger.Debug("Successfully fetched buckets", "provider", pName, "count", len(buckets))
			return nil
		})
	}

	// Per-provider failures are swallowed above, so Wait only propagates
	// context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(allBuckets, func(i, j int) bool {
		if allBuckets[i].Provider != allBuckets[j].Provider {
			return allBuckets[i].Provider < allBuckets[j].Provider
		}
		return allBuckets[i].Name < allBuckets[j].Name
	})
	return allBuckets, nil
}

func (s *InspectService) DescribeBucket(ctx context.Context, bucketName, providerName string) (storage.Bucket, error) {
	s.logger.Debug("Starting DescribeBucket operation", "bucket", bucketName, "provider", providerName)

	client, err := s.providers.GetInspector(ctx, providerName)
	if err != nil {
		return storage.Bucket{}, err
	}
	defer client.Close()

	bucket, err := client.DescribeBucket(ctx, bucketName)
	if err != nil {
		s.logger.Error("Failed to describe bucket", "bucket", bucketName, "provider", providerName, "error", err)
		return storage.Bucket{}, err
	}
	return bucket, nil
}

func (s *InspectService) ListObjects(ctx context.Context, bucketName, providerName, prefix string) (storage.ObjectList, error) {
	s.logger.Debug("Starting ListObjects operation", "bucket", bucketName, "provider", providerName, "prefix", prefix)

	client, err := s.providers.GetInspector(ctx, providerName)
	if err != nil {
		return storage.ObjectList{}, err
	}
	defer client.Close()

	list, err := client.ListObjects(ctx, bucketName, prefix)
	if err != nil {
		s.logger.Error("Failed to list objects", "bucket", bucketName, "provider", providerName, "error", err)
		return storage.ObjectList{}, err
	}
	return list, nil
}

func (s *InspectService) DescribeObject(ctx context.Context, bucketName, providerName, objectKey string) (storage.Object, error) {
	s.logger.Debug("Starting DescribeObject operation", "bucket", bucketName, "provider", providerName, "object", objectKey)

	client, err := s.providers.GetInspector(ctx, providerName)
	if err != nil {
		return storage.Object{}, err
	}
	defer client.Close()

	obj, err := client.DescribeObject(ctx, bucketName, objectKey)
	if err != nil {
		s.logger.Error("Failed to describe object", "bucket", bucketName, "provider", providerName, "object", objectKey, "error", err)
		return storage.Object{}, err
	}
	return obj, nil
}
