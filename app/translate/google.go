package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Google calls the keyless translate endpoint used by browser extensions.
type Google struct {
	httpClient *http.Client
	baseURL    string
}

func NewGoogle(httpClient *http.Client, baseURL string) *Google {
	return &Google{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Translate(ctx context.Context, text, target string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", baseLanguage(target))
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse joins the translated segments of a response shaped
// like [[["translated","source",...],...],...].
func parseGoogleResponse(body []byte) (string, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(raw) == 0 {
		return "", ErrNoTranslation
	}

	segments, ok := raw[0].([]any)
	if !ok {
		return "", ErrNoTranslation
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}

	if sb.Len() == 0 {
		return "", ErrNoTranslation
	}
	return sb.String(), nil
}
