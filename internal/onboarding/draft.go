// AngelaMos | 2026
// draft.go

package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/talentgrid/internal/core"
)

const defaultDraftTTL = 7 * 24 * time.Hour

type DraftStore interface {
	Load(ctx context.Context, accountID string) (*Wizard, error)
	Save(ctx context.Context, accountID string, w *Wizard) error
	Delete(ctx context.Context, accountID string) error
	SequenceStore
}

type redisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDraftStore(client *redis.Client, ttl time.Duration) DraftStore {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &redisDraftStore{client: client, ttl: ttl}
}

func draftKey(accountID string) string {
	return core.RedisKey("onboarding", "draft", accountID)
}

func checkSeqKey(accountID string) string {
	return core.RedisKey("onboarding", "username_seq", accountID)
}

var claimCheckScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
if tonumber(ARGV[1]) <= cur then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

// Load returns core.ErrNotFound when the account has no draft.
func (s *redisDraftStore) Load(ctx context.Context, accountID string) (*Wizard, error) {
	raw, err := s.client.Get(ctx, draftKey(accountID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load draft: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var w Wizard
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &w, nil
}

func (s *redisDraftStore) Save(ctx context.Context, accountID string, w *Wizard) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(accountID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *redisDraftStore) Delete(ctx context.Context, accountID string) error {
	if err := s.client.Del(ctx, draftKey(accountID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// ClaimCheck records seq as the newest username check for the account. It
// reports false when seq is not above the newest one already recorded.
func (s *redisDraftStore) ClaimCheck(ctx context.Context, accountID string, seq uint64) (bool, error) {
	n, err := claimCheckScript.Run(
		ctx,
		s.client,
		[]string{checkSeqKey(accountID)},
		seq,
		s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("claim username check: %w", err)
	}
	return n == 1, nil
}

func (s *redisDraftStore) LatestCheck(ctx context.Context, accountID string) (uint64, error) {
	seq, err := s.client.Get(ctx, checkSeqKey(accountID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("latest username check: %w", err)
	}
	return seq, nil
}

func (s *redisDraftStore) ResetChecks(ctx context.Context, accountID string) error {
	if err := s.client.Del(ctx, checkSeqKey(accountID)).Err(); err != nil {
		return fmt.Errorf("reset username checks: %w", err)
	}
	return nil
}
