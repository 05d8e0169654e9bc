// AngelaMos | 2026
// commit_test.go

package onboarding

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/carterperez-dev/talentgrid/internal/account"
	"github.com/carterperez-dev/talentgrid/internal/core"
	"github.com/carterperez-dev/talentgrid/internal/media"
)

type fakeAccounts struct {
	stored      account.Account
	canSubmit   error
	taken       map[string]bool
	submissions []account.Submission
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		stored: account.Account{
			ID:     "acc-1",
			Email:  "ada@example.com",
			Role:   account.RoleUnknown,
			Status: account.StatusPending,
			Skills: account.StringList{},
		},
		taken: map[string]bool{},
	}
}

func (f *fakeAccounts) Get(_ context.Context, id string) (*account.Account, error) {
	if id != f.stored.ID {
		return nil, core.ErrNotFound
	}
	cp := f.stored
	return &cp, nil
}

func (f *fakeAccounts) UsernameAvailable(_ context.Context, username, _ string) (bool, error) {
	return !f.taken[username], nil
}

func (f *fakeAccounts) CanSubmit(ctx context.Context, id string) (*account.Account, error) {
	if f.canSubmit != nil {
		return nil, f.canSubmit
	}
	return f.Get(ctx, id)
}

func (f *fakeAccounts) Submit(_ context.Context, _ string, sub account.Submission) (*account.Account, error) {
	f.submissions = append(f.submissions, sub)
	username := sub.Username
	f.stored.Username = &username
	f.stored.OnboardingCompleted = true
	f.stored.Status = account.StatusPending
	if sub.VideoUploadID != "" {
		up := sub.VideoUploadID
		f.stored.MuxUploadID = &up
	}
	cp := f.stored
	return &cp, nil
}

type fakeMedia struct {
	imageErr error
	videoErr error
	jobErr   error
	images   []string
	videos   []string
}

func (f *fakeMedia) UploadImage(_ context.Context, folder string, file media.File) (string, error) {
	f.images = append(f.images, folder)
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return "https://cdn.example.com/" + folder + "/" + file.Name, nil
}

func (f *fakeMedia) UploadVideo(_ context.Context, ownerType, ownerID string, _ media.File) (*media.VideoTicket, error) {
	f.videos = append(f.videos, ownerType+":"+ownerID)
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	return &media.VideoTicket{UploadURL: "https://storage.example.com/up", UploadID: "up-new"}, nil
}

func (f *fakeMedia) OwnedJob(_ context.Context, uploadID, ownerType, ownerID string) (*media.Job, error) {
	if f.jobErr != nil {
		return nil, f.jobErr
	}
	return &media.Job{UploadID: uploadID, OwnerType: ownerType, OwnerID: ownerID}, nil
}

func newTestCommitter(accounts *fakeAccounts, m *fakeMedia) *Committer {
	c := NewCommitter(accounts, m, Limits{ImageMaxBytes: 1 << 20, VideoMaxBytes: 10 << 20}, nil)
	c.now = func() time.Time { return testNow }
	return c
}

func avatarFile() *media.File {
	return &media.File{Name: "me.jpg", ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("jpg")}
}

func reelFile() *media.File {
	return &media.File{Name: "reel.mp4", ContentType: "video/mp4", Size: 3, Body: strings.NewReader("mp4")}
}

func TestCommitImageFailureLeavesAccountUnchanged(t *testing.T) {
	accounts := newFakeAccounts()
	before := accounts.stored
	m := &fakeMedia{imageErr: fmt.Errorf("cloudinary: %w", media.ErrUploadFailed)}
	c := newTestCommitter(accounts, m)

	w := readyWizard(t)
	w.Form.Identity.AvatarPending = true

	_, err := c.Commit(context.Background(), "acc-1", w, Uploads{Avatar: avatarFile(), Video: reelFile()})
	if !errors.Is(err, media.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(accounts.submissions) != 0 {
		t.Fatal("account was written after a failed image upload")
	}
	if len(m.videos) != 0 {
		t.Fatal("video uploaded after the image failed")
	}
	if !reflect.DeepEqual(before, accounts.stored) {
		t.Fatalf("stored account changed: %+v", accounts.stored)
	}
}

func TestCommitVideoFailureLeavesAccountUnchanged(t *testing.T) {
	accounts := newFakeAccounts()
	before := accounts.stored
	m := &fakeMedia{videoErr: fmt.Errorf("mux: %w", media.ErrUploadFailed)}
	c := newTestCommitter(accounts, m)

	_, err := c.Commit(context.Background(), "acc-1", readyWizard(t), Uploads{Avatar: avatarFile(), Video: reelFile()})
	if !errors.Is(err, media.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(m.images) != 1 {
		t.Fatalf("image uploads = %d", len(m.images))
	}
	if len(accounts.submissions) != 0 || !reflect.DeepEqual(before, accounts.stored) {
		t.Fatal("account was written after a failed video transfer")
	}
}

func TestCommitRequiresReadyWizard(t *testing.T) {
	accounts := newFakeAccounts()
	m := &fakeMedia{}
	c := newTestCommitter(accounts, m)

	w := readyWizard(t)
	w.Back()

	_, err := c.Commit(context.Background(), "acc-1", w, Uploads{Avatar: avatarFile()})
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if len(m.images) != 0 || len(accounts.submissions) != 0 {
		t.Fatal("commit had side effects")
	}
}

func TestCommitRefusesBannedBeforeUpload(t *testing.T) {
	accounts := newFakeAccounts()
	accounts.canSubmit = fmt.Errorf("account is banned: %w", account.ErrInvalidTransition)
	m := &fakeMedia{}
	c := newTestCommitter(accounts, m)

	_, err := c.Commit(context.Background(), "acc-1", readyWizard(t), Uploads{Avatar: avatarFile(), Video: reelFile()})
	if !errors.Is(err, account.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(m.images) != 0 || len(m.videos) != 0 {
		t.Fatal("media uploaded for a banned account")
	}
}

func TestCommitWritesSubmission(t *testing.T) {
	accounts := newFakeAccounts()
	m := &fakeMedia{}
	c := newTestCommitter(accounts, m)

	a, err := c.Commit(context.Background(), "acc-1", readyWizard(t), Uploads{Avatar: avatarFile(), Video: reelFile()})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !a.OnboardingCompleted || a.Status != account.StatusPending {
		t.Fatalf("account = %+v", a)
	}

	if len(m.images) != 1 || m.images[0] != media.FolderProfiles {
		t.Fatalf("image folders = %v", m.images)
	}
	if len(m.videos) != 1 || m.videos[0] != "account:acc-1" {
		t.Fatalf("video owners = %v", m.videos)
	}

	sub := accounts.submissions[0]
	if sub.Username != "ada.lane" || sub.Role != "voice_artist" || sub.Category != "Voice Artist" {
		t.Fatalf("submission = %+v", sub)
	}
	if sub.Age != 36 {
		t.Fatalf("age = %d", sub.Age)
	}
	if sub.ProfileImage != "https://cdn.example.com/talent_profiles/me.jpg" {
		t.Fatalf("profile image = %s", sub.ProfileImage)
	}
	if sub.VideoUploadID != "up-new" {
		t.Fatalf("video upload id = %s", sub.VideoUploadID)
	}
}

func TestCommitUsesExistingUploadTicket(t *testing.T) {
	accounts := newFakeAccounts()
	m := &fakeMedia{}
	c := newTestCommitter(accounts, m)

	if _, err := c.Commit(context.Background(), "acc-1", readyWizard(t), Uploads{VideoUploadID: "up-direct"}); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if accounts.submissions[0].VideoUploadID != "up-direct" {
		t.Fatalf("submission = %+v", accounts.submissions[0])
	}
	if len(m.videos) != 0 {
		t.Fatal("reel transferred twice")
	}

	m.jobErr = fmt.Errorf("video job: %w", core.ErrForbidden)
	_, err := c.Commit(context.Background(), "acc-1", readyWizard(t), Uploads{VideoUploadID: "up-foreign"})
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(accounts.submissions) != 1 {
		t.Fatal("foreign upload id was written")
	}
}

func TestCommitEnforcesLimits(t *testing.T) {
	accounts := newFakeAccounts()
	m := &fakeMedia{}
	c := newTestCommitter(accounts, m)

	big := reelFile()
	big.Size = 11 << 20

	w := readyWizard(t)
	_, err := c.Commit(context.Background(), "acc-1", w, Uploads{Video: big})
	if !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep, got %v", err)
	}
	if _, ok := w.Errors["video"]; !ok {
		t.Fatalf("errors = %v", w.Errors)
	}
	if len(m.videos) != 0 {
		t.Fatal("oversized reel was uploaded")
	}
}
