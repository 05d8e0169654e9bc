// AngelaMos | 2026
// s3.go

package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/carterperez-dev/talentgrid/internal/config"
)

const defaultPresignExpiry = 15 * time.Minute

// S3Host issues presigned PUT URLs against an S3 compatible bucket.
type S3Host struct {
	presign    *s3.PresignClient
	bucket     string
	publicBase string
	expiry     time.Duration
	folders    []string
	client     HTTPDoer
	now        func() time.Time
}

func NewS3Host(
	ctx context.Context,
	cfg config.S3Config,
	folders []string,
	client HTTPDoer,
) (*S3Host, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 image host: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return newS3Host(s3Client, cfg, folders, client), nil
}

func newS3Host(
	s3Client *s3.Client,
	cfg config.S3Config,
	folders []string,
	client HTTPDoer,
) *S3Host {
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &S3Host{
		presign:    s3.NewPresignClient(s3Client),
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		expiry:     expiry,
		folders:    folders,
		client:     client,
		now:        time.Now,
	}
}

func (s *S3Host) SignUpload(
	ctx context.Context,
	folder string,
) (*ImageTicket, error) {
	if err := checkFolder(s.folders, folder); err != nil {
		return nil, fmt.Errorf("sign upload: %w", err)
	}

	key := folder + "/" + uuid.NewString()

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return nil, fmt.Errorf("presign put %s: %w", key, err)
	}

	headers := make(map[string]string, len(req.SignedHeader))
	for name, values := range req.SignedHeader {
		if strings.EqualFold(name, "Host") || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}

	now := s.now()
	publicURL := key
	if s.publicBase != "" {
		publicURL = s.publicBase + "/" + key
	}

	return &ImageTicket{
		Provider:  ProviderS3,
		Folder:    folder,
		Timestamp: now.Unix(),
		UploadURL: req.URL,
		Method:    req.Method,
		Headers:   headers,
		PublicURL: publicURL,
		ExpiresAt: now.Add(s.expiry),
	}, nil
}

func (s *S3Host) Upload(
	ctx context.Context,
	ticket *ImageTicket,
	file File,
) (string, error) {
	req, err := http.NewRequestWithContext(ctx, ticket.Method, ticket.UploadURL, file.Body)
	if err != nil {
		return "", fmt.Errorf("s3 upload: build request: %w", err)
	}
	for name, value := range ticket.Headers {
		req.Header.Set(name, value)
	}
	if file.ContentType != "" {
		req.Header.Set("Content-Type", file.ContentType)
	}
	if file.Size > 0 {
		req.ContentLength = file.Size
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w: %w", ErrUploadFailed, err)
	}
	defer drainClose(resp)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf(
			"s3 upload: %w: %w",
			ErrUploadFailed,
			statusError("s3", resp),
		)
	}

	return ticket.PublicURL, nil
}
