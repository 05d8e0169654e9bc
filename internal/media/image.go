// AngelaMos | 2026
// image.go

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/config"
)

const (
	FolderProfiles = "talent_profiles"
	FolderPosts    = "talent_posts"

	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

var (
	ErrFolderNotAllowed = errors.New("upload folder not allowed")
	ErrUploadFailed     = errors.New("upload failed")
)

// File is a client supplied blob on its way to a media host.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (f File) Ext() string {
	return strings.ToLower(path.Ext(f.Name))
}

// ImageTicket authorizes exactly one direct upload into Folder. A browser
// can use it as is; the server side commit uses it through Upload.
type ImageTicket struct {
	Provider  string            `json:"provider"`
	Folder    string            `json:"folder"`
	Timestamp int64             `json:"timestamp"`
	Signature string            `json:"signature,omitempty"`
	APIKey    string            `json:"api_key,omitempty"`
	CloudName string            `json:"cloud_name,omitempty"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	PublicURL string            `json:"public_url,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type ImageHost interface {
	SignUpload(ctx context.Context, folder string) (*ImageTicket, error)
	Upload(ctx context.Context, ticket *ImageTicket, file File) (string, error)
}

// NewImageHost builds the host selected by cfg.Provider.
func NewImageHost(
	ctx context.Context,
	cfg config.ImageConfig,
	client HTTPDoer,
) (ImageHost, error) {
	switch cfg.Provider {
	case ProviderCloudinary, "":
		return NewCloudinary(cfg.Cloudinary, cfg.Folders)
	case ProviderS3:
		return NewS3Host(ctx, cfg.S3, cfg.Folders, client)
	default:
		return nil, fmt.Errorf("unknown image provider %q", cfg.Provider)
	}
}

func checkFolder(allowed []string, folder string) error {
	if !slices.Contains(allowed, folder) {
		return fmt.Errorf("%q: %w", folder, ErrFolderNotAllowed)
	}
	return nil
}
