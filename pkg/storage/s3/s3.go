// File: pkg/storage/s3/s3.go
package s3

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"bucketwarden/internal/config"
	"bucketwarden/internal/provider/registry"
	"bucketwarden/pkg/common"
	"bucketwarden/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultRegion = "us-east-1"

func init() {
	registry.RegisterProvider("s3", registry.ProviderRegistration{
		ConfigCheck:     isConfigured,
		MissingSettings: missingSettings,
		Inspector:       initInspector,
		Store:           initStore,
	})
}

func isConfigured(cfg *config.Config) bool {
	return len(missingSettings(cfg)) == 0
}

// Required settings are reported by the environment variable that supplies
// them, so the operator knows exactly what to export.
func missingSettings(cfg *config.Config) []string {
	s := cfg.S3
	if s == nil {
		s = &config.S3Settings{}
	}

	var missing []string
	if s.AccessKeyID == "" {
		missing = append(missing, "AWS_ACCESS_KEY_ID")
	}
	if s.SecretAccessKey == "" {
		missing = append(missing, "AWS_SECRET_ACCESS_KEY")
	}
	if s.Endpoint == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	return missing
}

func initInspector(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Inspector, error) {
	return NewS3Storage(ctx, cfg.S3, logger)
}

func initStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.LifecycleStore, error) {
	return NewS3Storage(ctx, cfg.S3, logger)
}

// S3Storage talks to any S3-compatible control plane (AWS, MinIO, MCG, Ceph
// RGW) through a fixed endpoint with static credentials.
type S3Storage struct {
	client   *awss3.Client
	endpoint string
	logger   *slog.Logger
}

var (
	_ storage.LifecycleStore = (*S3Storage)(nil)
	_ storage.Inspector      = (*S3Storage)(nil)
)

func NewS3Storage(ctx context.Context, settings *config.S3Settings, logger *slog.Logger) (*S3Storage, error) {
	if settings == nil {
		return nil, fmt.Errorf("S3 configuration missing or incomplete")
	}

	httpClient, err := newHTTPClient(settings, logger)
	if err != nil {
		return nil, err
	}

	region := settings.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			settings.AccessKeyID,
			settings.SecretAccessKey,
			"",
		)),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client configuration: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.BaseEndpoint = aws.String(settings.Endpoint)
		// Custom endpoints (MinIO, MCG, RGW) expect path-style addressing
		o.UsePathStyle = true
	})

	logger.Debug("S3 client initialized",
		"endpoint", settings.Endpoint,
		"region", region,
		"accessKey", credentialHint(settings.AccessKeyID))

	return &S3Storage{
		client:   client,
		endpoint: settings.Endpoint,
		logger:   logger,
	}, nil
}

func newHTTPClient(settings *config.S3Settings, logger *slog.Logger) (*http.Client, error) {
	tlsConfig := &tls.Config{}

	if !settings.VerifySSL {
		tlsConfig.InsecureSkipVerify = true
		if settings.CABundle != "" {
			logger.Warn("TLS verification is disabled, the configured CA bundle will be ignored", "caBundle", settings.CABundle)
		}
	} else if settings.CABundle != "" {
		pem, err := os.ReadFile(settings.CABundle)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle %s: %w", settings.CABundle, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("CA bundle %s contains no usable certificates", settings.CABundle)
		}
		tlsConfig.RootCAs = pool
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: tlsConfig,
		},
	}, nil
}

// credentialHint returns a short non-reversible prefix of an access key for
// diagnostics. Secrets are never logged in full.
func credentialHint(accessKeyID string) string {
	if len(accessKeyID) <= 8 {
		return "***"
	}
	return accessKeyID[:8] + "***"
}

func (s *S3Storage) ProviderName() common.Provider {
	return common.S3
}

func (s *S3Storage) Close() error {
	// The SDK client holds no resources that need explicit release
	return nil
}
