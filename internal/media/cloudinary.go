// AngelaMos | 2026
// cloudinary.go

package media

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/carterperez-dev/talentgrid/internal/config"
)

const (
	defaultCloudinaryUploadPrefix = "https://api.cloudinary.com"
	cloudinaryAPIVersion          = "v1_1"
	cloudinarySignatureTTL        = time.Hour
)

// Cloudinary signs direct uploads and performs them for server side
// commits.
type Cloudinary struct {
	cld          *cloudinary.Cloudinary
	uploadPrefix string
	folders      []string
	now          func() time.Time
}

func NewCloudinary(
	cfg config.CloudinaryConfig,
	folders []string,
) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}

	prefix := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if prefix == "" {
		prefix = defaultCloudinaryUploadPrefix
	}
	cld.Upload.Config.API.UploadPrefix = prefix

	return &Cloudinary{
		cld:          cld,
		uploadPrefix: prefix,
		folders:      folders,
		now:          time.Now,
	}, nil
}

// Sign computes the request signature over params with the account secret.
func (c *Cloudinary) Sign(params url.Values) (string, error) {
	sig, err := api.SignParameters(params, c.cld.Config.Cloud.APISecret)
	if err != nil {
		return "", fmt.Errorf("cloudinary sign: %w", err)
	}
	return sig, nil
}

func (c *Cloudinary) SignUpload(
	_ context.Context,
	folder string,
) (*ImageTicket, error) {
	if err := checkFolder(c.folders, folder); err != nil {
		return nil, fmt.Errorf("sign upload: %w", err)
	}

	now := c.now()
	ts := now.Unix()

	sig, err := c.Sign(url.Values{
		"folder":    {folder},
		"timestamp": {strconv.FormatInt(ts, 10)},
	})
	if err != nil {
		return nil, err
	}

	cloud := c.cld.Config.Cloud.CloudName
	return &ImageTicket{
		Provider:  ProviderCloudinary,
		Folder:    folder,
		Timestamp: ts,
		Signature: sig,
		APIKey:    c.cld.Config.Cloud.APIKey,
		CloudName: cloud,
		UploadURL: fmt.Sprintf("%s/%s/%s/image/upload", c.uploadPrefix, cloudinaryAPIVersion, cloud),
		Method:    http.MethodPost,
		ExpiresAt: now.Add(cloudinarySignatureTTL),
	}, nil
}

// Upload sends file into the ticket's folder and returns its secure URL.
func (c *Cloudinary) Upload(
	ctx context.Context,
	ticket *ImageTicket,
	file File,
) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, file.Body, uploader.UploadParams{
		Folder:       ticket.Folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w: %w", ErrUploadFailed, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %w: %s", ErrUploadFailed, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: missing secure_url: %w", ErrUploadFailed)
	}

	return res.SecureURL, nil
}
