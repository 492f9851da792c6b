package s3media_adapter

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// objectAPI is the part of the S3 client the gateway needs.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Gateway stores images as public objects of one bucket.
type Gateway struct {
	client objectAPI
	bucket string
	region string
}

func NewGateway(ctx context.Context, bucket, region string) (*Gateway, error) {
	if bucket == "" || region == "" {
		return nil, fmt.Errorf("S3 bucket and region are required")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return &Gateway{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

func objectKey(folder, name, contentType string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	key := uuid.NewString() + ext
	if folder = strings.Trim(folder, "/"); folder != "" {
		key = folder + "/" + key
	}
	return key
}

func (g *Gateway) objectURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", g.bucket, g.region, strings.Join(segments, "/"))
}

func (g *Gateway) Upload(ctx context.Context, folder string, file port.MediaFile) (domain.Image, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "S3MediaGateway",
		"method":    "Upload",
		"bucket":    g.bucket,
	})

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := objectKey(folder, file.Name, contentType)

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("PutObject failed", err, port.Fields{"key": key})
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	logger.Debug("Object stored", port.Fields{"key": key})
	return domain.Image{URL: g.objectURL(key), PublicID: key}, nil
}

func (g *Gateway) Delete(ctx context.Context, publicID string) error {
	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return nil
}
