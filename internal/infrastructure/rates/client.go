package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/ports"
)

// maxResponseBytes bounds provider payloads.
const maxResponseBytes = 4 << 20

// fetch issues a GET and returns the body. Transport failures and HTTP
// status >= 400 wrap domain.ErrNetwork.
func fetch(ctx context.Context, client *http.Client, logger ports.Logger, source, rawURL string, setHeaders func(*http.Request)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if setHeaders != nil {
		setHeaders(req)
	}

	logger.Debug("requesting rates", map[string]interface{}{"source": source, "host": hostOf(rawURL)})

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNetwork, source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrNetwork, source, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNetwork, source, err)
	}
	return body, nil
}

// hostOf keeps API keys in query strings out of logs.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
