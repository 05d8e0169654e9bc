// AngelaMos | 2026
// http.go

package media

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPDoer is the client the provider adapters send requests through.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const maxErrorBody = 1 << 10

func drainClose(resp *http.Response) {
	//nolint:errcheck // body is being discarded
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	//nolint:errcheck // nothing useful to do with a close error here
	_ = resp.Body.Close()
}

func statusError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s returned %d", provider, resp.StatusCode)
	}
	return fmt.Errorf("%s returned %d: %s", provider, resp.StatusCode, msg)
}
