package ledger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxFaucetBody = 512

// Faucet funds fresh test network accounts through Friendbot.
type Faucet struct {
	url  string
	http *http.Client
}

func NewFaucet(friendbotURL string, client *http.Client) *Faucet {
	if client == nil {
		client = http.DefaultClient
	}

	return &Faucet{
		url:  friendbotURL,
		http: client,
	}
}

func (that *Faucet) Fund(ctx context.Context, address string) error {
	endpoint, err := url.Parse(that.url)
	if err != nil {
		return fmt.Errorf("failed to parse faucet url: %w", err)
	}

	if (endpoint.Scheme != "http" && endpoint.Scheme != "https") || endpoint.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidFaucetURL, that.url)
	}

	query := endpoint.Query()
	query.Set("addr", address)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create faucet request: %w", err)
	}

	resp, err := that.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call faucet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxFaucetBody))

		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
