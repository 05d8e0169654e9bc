// AngelaMos | 2026
// mux.go

package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/carterperez-dev/talentgrid/internal/config"
)

const defaultMuxBaseURL = "https://api.mux.com"

// Mux talks to the Mux Video direct upload API.
type Mux struct {
	tokenID     string
	tokenSecret string
	baseURL     string
	corsOrigin  string
	client      HTTPDoer
}

func NewMux(cfg config.VideoConfig, client HTTPDoer) *Mux {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultMuxBaseURL
	}
	corsOrigin := cfg.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &Mux{
		tokenID:     cfg.TokenID,
		tokenSecret: cfg.TokenSecret,
		baseURL:     baseURL,
		corsOrigin:  corsOrigin,
		client:      client,
	}
}

type muxCreateUploadRequest struct {
	CORSOrigin       string           `json:"cors_origin"`
	NewAssetSettings muxAssetSettings `json:"new_asset_settings"`
}

type muxAssetSettings struct {
	PlaybackPolicy []string `json:"playback_policy"`
}

type muxUpload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	AssetID string `json:"asset_id"`
}

type muxPlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

type muxAsset struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	PlaybackIDs []muxPlaybackID `json:"playback_ids"`
}

type muxEnvelope[T any] struct {
	Data T `json:"data"`
}

func (m *Mux) CreateUpload(ctx context.Context) (*VideoTicket, error) {
	payload, err := json.Marshal(muxCreateUploadRequest{
		CORSOrigin: m.corsOrigin,
		NewAssetSettings: muxAssetSettings{
			PlaybackPolicy: []string{"public"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mux create upload: encode: %w", err)
	}

	var out muxEnvelope[muxUpload]
	if err := m.call(ctx, http.MethodPost, "/video/v1/uploads", payload, &out); err != nil {
		return nil, fmt.Errorf("mux create upload: %w", err)
	}
	if out.Data.ID == "" || out.Data.URL == "" {
		return nil, fmt.Errorf("mux create upload: incomplete response: %w", ErrUploadFailed)
	}

	return &VideoTicket{UploadURL: out.Data.URL, UploadID: out.Data.ID}, nil
}

// Transfer PUTs the file to the signed upload URL. That URL carries its own
// authorization so no credentials are sent.
func (m *Mux) Transfer(
	ctx context.Context,
	ticket *VideoTicket,
	file File,
) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, ticket.UploadURL, file.Body)
	if err != nil {
		return fmt.Errorf("mux transfer: build request: %w", err)
	}
	if file.ContentType != "" {
		req.Header.Set("Content-Type", file.ContentType)
	}
	if file.Size > 0 {
		req.ContentLength = file.Size
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mux transfer: %w: %w", ErrUploadFailed, err)
	}
	defer drainClose(resp)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("mux transfer: %w: %w", ErrUploadFailed, statusError("mux", resp))
	}

	return nil
}

func (m *Mux) JobState(ctx context.Context, uploadID string) (*JobState, error) {
	var upload muxEnvelope[muxUpload]
	if err := m.call(ctx, http.MethodGet, "/video/v1/uploads/"+url.PathEscape(uploadID), nil, &upload); err != nil {
		return nil, fmt.Errorf("mux get upload %s: %w", uploadID, err)
	}

	switch upload.Data.Status {
	case "waiting":
		return &JobState{Phase: PhaseAwaitingFile}, nil
	case "errored", "cancelled", "timed_out":
		return &JobState{Phase: PhaseErrored}, nil
	case "asset_created":
	default:
		return &JobState{Phase: PhaseProcessing}, nil
	}

	if upload.Data.AssetID == "" {
		return &JobState{Phase: PhaseProcessing}, nil
	}

	var asset muxEnvelope[muxAsset]
	assetPath := "/video/v1/assets/" + url.PathEscape(upload.Data.AssetID)
	if err := m.call(ctx, http.MethodGet, assetPath, nil, &asset); err != nil {
		return nil, fmt.Errorf("mux get asset %s: %w", upload.Data.AssetID, err)
	}

	state := &JobState{Phase: PhaseProcessing, AssetID: asset.Data.ID}
	if state.AssetID == "" {
		state.AssetID = upload.Data.AssetID
	}

	switch {
	case asset.Data.Status == "errored":
		state.Phase = PhaseErrored
	case len(asset.Data.PlaybackIDs) > 0 && asset.Data.PlaybackIDs[0].ID != "":
		state.Phase = PhaseReady
		state.PlaybackID = asset.Data.PlaybackIDs[0].ID
	}

	return state, nil
}

func (m *Mux) call(
	ctx context.Context,
	method, path string,
	payload []byte,
	out any,
) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(m.tokenID, m.tokenSecret)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer drainClose(resp)

	if resp.StatusCode == http.StatusNotFound {
		return ErrJobNotFound
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %w", ErrUploadFailed, statusError("mux", resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
