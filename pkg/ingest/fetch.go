package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Fetcher retrieves the base64 sealed-box ciphertext for one party's share
// of a request from wherever the caller's enqueue/dequeue transport
// publishes it (object storage, a presigned URL, a test fixture). Only
// this interface and the HTTP-backed default are implemented; the
// object-storage producer side is out of scope.
type Fetcher interface {
	GetIrisDataByPartyID(ctx context.Context, presignedURL string, partyIndex int) (string, error)
}

// partySharePayload is the JSON object an HTTP fetch returns: one base64
// ciphertext per party index.
type partySharePayload struct {
	Share0 string `json:"iris_share_0"`
	Share1 string `json:"iris_share_1"`
	Share2 string `json:"iris_share_2"`
}

func (p partySharePayload) at(index int) (string, error) {
	switch index {
	case 0:
		return p.Share0, nil
	case 1:
		return p.Share1, nil
	case 2:
		return p.Share2, nil
	default:
		return "", fmt.Errorf("ingest: invalid party index %d", index)
	}
}

// HTTPFetcher is the default Fetcher: a plain GET against a presigned URL,
// parsing the JSON object keyed by iris_share_0/1/2.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher builds a fetcher using http.DefaultClient unless client is
// supplied.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client}
}

// GetIrisDataByPartyID performs the HTTP GET and extracts the requested
// party's share string.
func (f *HTTPFetcher) GetIrisDataByPartyID(ctx context.Context, presignedURL string, partyIndex int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, presignedURL, nil)
	if err != nil {
		return "", wrap(KindNetworkFetch, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", wrap(KindNetworkFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", wrap(KindNetworkFetch, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wrap(KindNetworkFetch, err)
	}

	var payload partySharePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", wrap(KindJSON, err)
	}
	return payload.at(partyIndex)
}
