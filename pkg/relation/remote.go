package relation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/getmockd/castlepact/pkg/stateful"
)

// rulersByCastleQuery asks the ruler GraphQL service for one castle's rulers.
const rulersByCastleQuery = `query RulersByCastle($castleId: ID!) {
  getRulersByCastle(castleId: $castleId) {
    id name title reignStart reignEnd house castleIds description achievements
  }
}`

// MaxResponseBodySize caps how much of a ruler service response is read (1MB).
const MaxResponseBodySize = 1 << 20

// RemoteRulers looks rulers up in a ruler GraphQL service over HTTP.
type RemoteRulers struct {
	url    string
	client *http.Client
}

// NewRemoteRulers creates a lookup against the GraphQL endpoint at url.
// A zero timeout leaves the request bound only by the caller's context.
func NewRemoteRulers(url string, timeout time.Duration) *RemoteRulers {
	return &RemoteRulers{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type rulersByCastleResponse struct {
	Data struct {
		GetRulersByCastle []stateful.Ruler `json:"getRulersByCastle"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// RulersByCastle implements RulerLookup.
func (r *RemoteRulers) RulersByCastle(ctx context.Context, castleID string) ([]stateful.Ruler, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:     rulersByCastleQuery,
		Variables: map[string]any{"castleId": castleID},
	})
	if err != nil {
		return nil, fmt.Errorf("encode ruler query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build ruler request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query ruler service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ruler service returned status %d", resp.StatusCode)
	}

	var decoded rulersByCastleResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, MaxResponseBodySize)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode ruler response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, errors.New(decoded.Errors[0].Message)
	}
	return decoded.Data.GetRulersByCastle, nil
}
