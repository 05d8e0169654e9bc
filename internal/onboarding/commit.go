// AngelaMos | 2026
// commit.go

package onboarding

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/media"
	"github.com/carterperez-dev/talentgrid/internal/metrics"
)

type AccountGateway interface {
	CanSubmit(ctx context.Context, id string) (*account.Account, error)
	Submit(ctx context.Context, id string, sub account.Submission) (*account.Account, error)
}

type MediaGateway interface {
	UploadImage(ctx context.Context, folder string, file media.File) (string, error)
	UploadVideo(ctx context.Context, ownerType, ownerID string, file media.File) (*media.VideoTicket, error)
	OwnedJob(ctx context.Context, uploadID, ownerType, ownerID string) (*media.Job, error)
}

// Uploads are the files sent with the commit request. VideoUploadID refers
// to a reel the client already pushed through a ticket from /uploads/video.
type Uploads struct {
	Avatar        *media.File
	Video         *media.File
	VideoUploadID string
}

type Limits struct {
	ImageMaxBytes int64
	VideoMaxBytes int64
}

// Committer runs the onboarding commit: avatar, then video, then a single
// account write. Any failure before the write leaves the account as it was.
type Committer struct {
	accounts AccountGateway
	media    MediaGateway
	limits   Limits
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewCommitter(
	accounts AccountGateway,
	mediaSvc MediaGateway,
	limits Limits,
	m *metrics.Metrics,
) *Committer {
	return &Committer{
		accounts: accounts,
		media:    mediaSvc,
		limits:   limits,
		metrics:  m,
		now:      time.Now,
	}
}

func (c *Committer) Commit(
	ctx context.Context,
	accountID string,
	w *Wizard,
	up Uploads,
) (a *account.Account, err error) {
	ctx, span := core.StartSpan(ctx, "onboarding.commit",
		attribute.String("account.id", accountID),
		attribute.Bool("onboarding.avatar", up.Avatar != nil),
		attribute.Bool("onboarding.video", up.Video != nil || up.VideoUploadID != ""),
	)
	defer span.End()
	defer func() {
		c.metrics.OnboardingCommit(err)
		if err != nil {
			core.SetSpanError(ctx, err)
		}
	}()

	if !w.Ready() {
		return nil, fmt.Errorf("commit onboarding: %w", ErrNotReady)
	}

	now := c.now()
	if err := w.ValidateAll(now); err != nil {
		return nil, err
	}
	if err := c.checkUploads(w, up); err != nil {
		return nil, err
	}

	if _, err := c.accounts.CanSubmit(ctx, accountID); err != nil {
		return nil, fmt.Errorf("commit onboarding: %w", err)
	}

	sub := buildSubmission(w.Form, now)

	if up.Avatar != nil {
		url, err := c.media.UploadImage(ctx, media.FolderProfiles, *up.Avatar)
		if err != nil {
			return nil, fmt.Errorf("commit onboarding: avatar: %w", err)
		}
		sub.ProfileImage = url
		core.AddSpanEvent(ctx, "onboarding.avatar_uploaded")
	}

	switch {
	case up.Video != nil:
		ticket, err := c.media.UploadVideo(ctx, media.OwnerAccount, accountID, *up.Video)
		if err != nil {
			return nil, fmt.Errorf("commit onboarding: video: %w", err)
		}
		sub.VideoUploadID = ticket.UploadID
	case up.VideoUploadID != "":
		job, err := c.media.OwnedJob(ctx, up.VideoUploadID, media.OwnerAccount, accountID)
		if err != nil {
			return nil, fmt.Errorf("commit onboarding: video: %w", err)
		}
		sub.VideoUploadID = job.UploadID
	}

	a, err = c.accounts.Submit(ctx, accountID, sub)
	if err != nil {
		return nil, fmt.Errorf("commit onboarding: %w", err)
	}

	core.AddSpanEvent(ctx, "onboarding.committed")
	return a, nil
}

func (c *Committer) checkUploads(w *Wizard, up Uploads) error {
	var errs map[string]string

	if w.Form.Identity.AvatarPending && up.Avatar == nil {
		errs = withError(errs, "avatar", "is required")
	}
	if up.Avatar != nil && c.limits.ImageMaxBytes > 0 && up.Avatar.Size > c.limits.ImageMaxBytes {
		errs = withError(errs, "avatar", fmt.Sprintf("must be at most %d bytes", c.limits.ImageMaxBytes))
	}
	if up.Video != nil && c.limits.VideoMaxBytes > 0 && up.Video.Size > c.limits.VideoMaxBytes {
		errs = withError(errs, "video", fmt.Sprintf("must be at most %d bytes", c.limits.VideoMaxBytes))
	}

	if len(errs) > 0 {
		w.Errors = errs
		return fmt.Errorf("commit onboarding: %w", ErrInvalidStep)
	}
	return nil
}

func buildSubmission(f Form, now time.Time) account.Submission {
	dob, _ := time.Parse(dateLayout, f.Identity.DateOfBirth)

	return account.Submission{
		Username:        f.Identity.Username,
		Headline:        f.Narrative.Headline,
		Bio:             f.Narrative.Bio,
		Role:            RoleTag(f.Specialty.Role),
		Category:        f.Specialty.Role,
		Skills:          f.Specialty.Tags,
		Experience:      f.Location.Experience,
		LocationCity:    f.Location.City,
		LocationState:   f.Location.State,
		LocationCountry: f.Location.Country,
		LocationLat:     f.Location.Lat,
		LocationLng:     f.Location.Lng,
		DateOfBirth:     dob,
		Age:             AgeOn(dob, now),
		Gender:          f.Identity.Gender,
	}
}
