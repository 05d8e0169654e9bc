// AngelaMos | 2026
// uniqueness.go

package onboarding

import (
	"context"
	"strings"
)

type UsernameChecker interface {
	UsernameAvailable(ctx context.Context, username, accountID string) (bool, error)
}

// SequenceStore remembers the newest username check per account so every
// replica orders blurs the same way.
type SequenceStore interface {
	ClaimCheck(ctx context.Context, accountID string, seq uint64) (bool, error)
	LatestCheck(ctx context.Context, accountID string) (uint64, error)
	ResetChecks(ctx context.Context, accountID string) error
}

// CheckResult is the answer to one blur event. Stale results were
// overtaken by a later check for the same account and must be dropped.
type CheckResult struct {
	Seq       uint64 `json:"seq"`
	Username  string `json:"username"`
	Available bool   `json:"available"`
	Stale     bool   `json:"stale"`
	Message   string `json:"message,omitempty"`
}

// UniquenessGate orders username checks per account so only the result of
// the most recent blur is applied, whatever order the store answers in.
// Sequences start at 1 and must strictly increase.
type UniquenessGate struct {
	checker UsernameChecker
	seqs    SequenceStore
}

func NewUniquenessGate(checker UsernameChecker, seqs SequenceStore) *UniquenessGate {
	return &UniquenessGate{checker: checker, seqs: seqs}
}

// Check runs one blur. Empty values and the caller's own username are
// accepted without asking the store.
func (g *UniquenessGate) Check(
	ctx context.Context,
	accountID, currentUsername, username string,
	seq uint64,
) (CheckResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	res := CheckResult{Seq: seq, Username: username}

	claimed, err := g.seqs.ClaimCheck(ctx, accountID, seq)
	if err != nil {
		return res, err
	}
	if !claimed {
		res.Stale = true
		return res, nil
	}

	if username == "" || username == currentUsername {
		res.Available = true
		return res, nil
	}

	available, err := g.checker.UsernameAvailable(ctx, username, accountID)
	if err != nil {
		return res, err
	}

	latest, err := g.seqs.LatestCheck(ctx, accountID)
	if err != nil {
		return res, err
	}
	if latest != seq {
		res.Stale = true
		return res, nil
	}

	res.Available = available
	if !available {
		res.Message = "username is already taken"
	}
	return res, nil
}

// Forget drops the sequence state for an account once it has committed.
func (g *UniquenessGate) Forget(ctx context.Context, accountID string) error {
	return g.seqs.ResetChecks(ctx, accountID)
}
