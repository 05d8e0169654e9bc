// AngelaMos | 2026
// repository_test.go

package account

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/talentgrid/internal/core"
)

var accountColumnNames = []string{
	"id", "email", "password_hash", "first_name", "last_name", "username", "role",
	"role_category", "status", "onboarding_completed", "headline", "bio", "category",
	"skills", "experience", "location_city", "location_state", "location_country",
	"location_lat", "location_lng", "date_of_birth", "age", "gender", "profile_image",
	"mux_upload_id", "mux_asset_id", "mux_playback_id", "created_at", "updated_at",
}

func accountRow(id string, status Status, onboarded bool) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, "a@example.com", "hash", "Ada", "Lane", nil, "actor",
		"talent", string(status), onboarded, nil, nil, nil,
		[]byte(`["Film"]`), []byte(`[]`), nil, nil, nil,
		nil, nil, nil, nil, nil, nil,
		nil, nil, nil, now, now,
	}
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "sqlmock")), mock
}

func TestTransitionGuardedBySourceStatuses(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE users\s+SET status = \$2`).
		WithArgs("acc-1", "approved", "{pending}").
		WillReturnRows(sqlmock.NewRows(accountColumnNames).
			AddRow(accountRow("acc-1", StatusApproved, true)...))

	a, err := repo.Transition(context.Background(), "acc-1", StatusApproved, Sources(EventApprove))
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if a.Status != StatusApproved {
		t.Fatalf("status = %s", a.Status)
	}
	if len(a.Skills) != 1 || a.Skills[0] != "Film" {
		t.Fatalf("skills not decoded: %v", a.Skills)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionMissReportsInvalidTransition(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE users\s+SET status`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT status FROM users`).
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("banned"))

	_, err := repo.Transition(context.Background(), "acc-1", StatusApproved, Sources(EventApprove))
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionMissingAccount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE users\s+SET status`).
		WillReturnRows(sqlmock.NewRows(accountColumnNames))
	mock.ExpectQuery(`SELECT status FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	_, err := repo.Transition(context.Background(), "acc-x", StatusBanned, Sources(EventBan))
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitNeverClearsOnboardingFlag(t *testing.T) {
	repo, mock := newMockRepo(t)

	args := make([]driver.Value, 0, 20)
	for range 18 {
		args = append(args, sqlmock.AnyArg())
	}
	args = append(args, "{pending,approved,rejected}", "pending")

	mock.ExpectQuery(`onboarding_completed = TRUE,\s+status = \$20`).
		WithArgs(args...).
		WillReturnRows(sqlmock.NewRows(accountColumnNames).
			AddRow(accountRow("acc-1", StatusPending, true)...))

	a, err := repo.Submit(context.Background(), "acc-1", Submission{
		Username:    "ada",
		Headline:    "Actor",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Age:         34,
	}, Sources(EventResubmit))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !a.OnboardingCompleted || a.Status != StatusPending {
		t.Fatalf("unexpected account %+v", a)
	}
}

func TestSubmitPropagatesStoreError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE users SET`).
		WillReturnError(errors.New("unrelated driver failure"))

	_, err := repo.Submit(context.Background(), "acc-1", Submission{Username: "ada"}, Sources(EventResubmit))
	if err == nil || errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected a plain store error, got %v", err)
	}
}

func TestAttachPlaybackNoopWhenSuperseded(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users\s+SET mux_asset_id`).
		WithArgs("acc-1", "up-old", "as-1", "pb-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.AttachPlayback(context.Background(), "acc-1", "up-old", "as-1", "pb-1")
	if err != nil {
		t.Fatalf("AttachPlayback: %v", err)
	}
	if ok {
		t.Fatal("expected no write for a superseded upload")
	}
}

func TestListEscapesSearch(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE TRUE AND \(email ILIKE \$1`).
		WithArgs(`%50\%%`, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY created_at DESC`).
		WithArgs(`%50\%%`, "pending", 20, 0).
		WillReturnRows(sqlmock.NewRows(accountColumnNames).
			AddRow(accountRow("acc-1", StatusPending, false)...))

	accounts, total, err := repo.List(context.Background(), ListParams{
		Search: "50%",
		Status: "pending",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(accounts) != 1 {
		t.Fatalf("total=%d len=%d", total, len(accounts))
	}
}
