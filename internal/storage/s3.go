package storage

import (
	"context"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/config"
)

// objectPresigner is the subset of *s3.PresignClient the resolver needs.
type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// s3ImageResolver serves exercise images mirrored into an S3-compatible
// bucket through short-lived presigned GET URLs. A file name that cannot be
// presigned falls back to the naming-convention URL.
type s3ImageResolver struct {
	presigner  objectPresigner
	bucketName string
	keyPrefix  string
	expires    time.Duration
	fallback   ImageResolver
	logger     *zap.Logger
}

// NewS3ImageResolver creates an S3-backed image resolver.
func NewS3ImageResolver(ctx context.Context, cfg config.S3Config, fallback ImageResolver, logger *zap.Logger) (ImageResolver, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution if no custom endpoint is set
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		logger.Error("Failed to load AWS SDK config for S3", zap.Error(err))
		return nil, err
	}

	// Path-style addressing is required by most S3-compatible services
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	logger.Info("S3 image resolver initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.BucketName))

	return newS3ImageResolver(s3.NewPresignClient(s3Client), cfg, fallback, logger), nil
}

func newS3ImageResolver(p objectPresigner, cfg config.S3Config, fallback ImageResolver, logger *zap.Logger) *s3ImageResolver {
	expires := cfg.PresignExpiry
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}
	return &s3ImageResolver{
		presigner:  p,
		bucketName: cfg.BucketName,
		keyPrefix:  cfg.KeyPrefix,
		expires:    expires,
		fallback:   fallback,
		logger:     logger,
	}
}

// ResolveImageURLs presigns a GET URL per image file name.
func (s *s3ImageResolver) ResolveImageURLs(ctx context.Context, images []string) []string {
	if len(images) == 0 {
		return nil
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img == "" {
			continue
		}
		objectKey := path.Join(s.keyPrefix, img)
		req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucketName),
			Key:    aws.String(objectKey),
		}, s3.WithPresignExpires(s.expires))
		if err != nil {
			s.logger.Warn("Failed to presign image URL", zap.String("key", objectKey), zap.Error(err))
			urls = append(urls, s.fallback.ResolveImageURLs(ctx, []string{img})...)
			continue
		}
		urls = append(urls, req.URL)
	}
	return urls
}
