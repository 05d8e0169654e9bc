// AngelaMos | 2026
// ids.go

package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(
		//nolint:gosec // G404: ids need ordering, not unpredictability
		mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		0,
	)
)

// New returns a lexicographically sortable identifier for posts and leads.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func Valid(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
