package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Admin is one entry of the admin list.
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// UnmarshalJSON tolerates numeric ids.
func (a *Admin) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Email string          `json:"email"`
		Name  string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Email = raw.Email
	a.Name = raw.Name
	a.ID = ""
	if len(raw.ID) > 0 {
		var s string
		if err := json.Unmarshal(raw.ID, &s); err == nil {
			a.ID = s
		} else {
			var n json.Number
			if err := json.Unmarshal(raw.ID, &n); err == nil {
				a.ID = n.String()
			}
		}
	}
	return nil
}

// readBody drains a successful response, mapping non-2xx to the right error.
func (c *Client) readBody(resp *http.Response, path string) ([]byte, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteUnavailableError{Endpoint: path, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteUnavailableError{Endpoint: path, Err: err}
	}
	return data, nil
}

// postChecked issues a mutation and maps refusal to RemoteRejectedError.
func (c *Client) postChecked(ctx context.Context, path string, body any) error {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteRejectedError{Endpoint: path, Status: resp.StatusCode}
	}
	return nil
}

// Admins fetches the admin list.
func (c *Client) Admins(ctx context.Context) ([]Admin, error) {
	const path = "/api/admin/list"
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &RemoteUnavailableError{Endpoint: path, Err: err}
	}
	data, err := c.readBody(resp, path)
	if err != nil {
		return nil, err
	}

	var admins []Admin
	if err := json.Unmarshal(data, &admins); err == nil {
		return admins, nil
	}
	var envelope struct {
		Admins []Admin `json:"admins"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		return envelope.Admins, nil
	}
	return nil, fmt.Errorf("failed to decode admin list")
}

// AddAdmin grants admin rights to the given email.
func (c *Client) AddAdmin(ctx context.Context, email string) error {
	return c.postChecked(ctx, "/api/admin/addAdmin", map[string]string{"email": email})
}

// RemoveAdmin revokes admin rights. The server accepts either an id or an
// email in the same field.
func (c *Client) RemoveAdmin(ctx context.Context, idOrEmail string) error {
	return c.postChecked(ctx, "/api/admin/removeAdmin", map[string]string{"id": idOrEmail})
}

// Blacklist fetches the blocked-word list. The server has emitted both a
// bare string array and an array of {word} objects; both decode.
func (c *Client) Blacklist(ctx context.Context) ([]string, error) {
	const path = "/api/admin/blacklist"
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &RemoteUnavailableError{Endpoint: path, Err: err}
	}
	data, err := c.readBody(resp, path)
	if err != nil {
		return nil, err
	}

	var words []string
	if err := json.Unmarshal(data, &words); err == nil {
		return words, nil
	}
	var objects []struct {
		Word string `json:"word"`
	}
	if err := json.Unmarshal(data, &objects); err == nil {
		words = make([]string, len(objects))
		for i, o := range objects {
			words[i] = o.Word
		}
		return words, nil
	}
	var envelope struct {
		Words []string `json:"words"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		return envelope.Words, nil
	}
	return nil, fmt.Errorf("failed to decode blacklist")
}

// AddBlacklistWord adds a word to the blacklist.
func (c *Client) AddBlacklistWord(ctx context.Context, word string) error {
	return c.postChecked(ctx, "/api/admin/blacklist", map[string]string{"word": word})
}

// RemoveBlacklistWord removes a word from the blacklist.
func (c *Client) RemoveBlacklistWord(ctx context.Context, word string) error {
	return c.postChecked(ctx, "/api/admin/blacklist/remove", map[string]string{"word": word})
}

// retention endpoints: the primary config endpoint plus the older generic one.
const (
	retentionPath         = "/api/admin/configSongfessDays"
	retentionFallbackPath = "/api/admin/configs"
)

// RetentionDays fetches the songfess retention window in days.
func (c *Client) RetentionDays(ctx context.Context) (int, error) {
	var lastErr error
	for _, path := range []string{retentionPath, retentionFallbackPath} {
		resp, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			lastErr = &RemoteUnavailableError{Endpoint: path, Err: err}
			continue
		}
		data, err := c.readBody(resp, path)
		if err != nil {
			lastErr = err
			continue
		}
		days, ok := decodeDays(data)
		if !ok {
			lastErr = fmt.Errorf("failed to decode retention config from %s", path)
			continue
		}
		return days, nil
	}
	return 0, lastErr
}

// SetRetentionDays updates the songfess retention window.
func (c *Client) SetRetentionDays(ctx context.Context, days int) error {
	// The server reads days as a string field.
	body := map[string]string{"days": strconv.Itoa(days)}
	err := c.postChecked(ctx, retentionPath, body)
	if err == nil {
		return nil
	}
	var rejected *RemoteRejectedError
	if !errors.As(err, &rejected) {
		return err
	}
	return c.postChecked(ctx, retentionFallbackPath, body)
}

// decodeDays accepts {"days": 30}, {"days": "30"}, or a bare value.
func decodeDays(data []byte) (int, bool) {
	var envelope struct {
		Days json.RawMessage `json:"days"`
	}
	raw := json.RawMessage(data)
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Days) > 0 {
		raw = envelope.Days
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}
	return 0, false
}
