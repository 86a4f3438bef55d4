package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// postJSON sends in as a JSON body and decodes the response into out. The
// raw body is returned so callers can inspect provider error payloads
// before checking the status code.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, in, out any) (int, []byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil && resp.StatusCode == http.StatusOK {
			return resp.StatusCode, raw, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return resp.StatusCode, raw, nil
}

func statusError(provider string, status int, raw []byte) error {
	const maxBody = 512
	if len(raw) > maxBody {
		raw = raw[:maxBody]
	}
	return fmt.Errorf("%s returned status %d: %s", provider, status, raw)
}
