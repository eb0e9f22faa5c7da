// Package client wraps the HTTP calls shared by the CLI commands.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/crucial707/fileserve/cmd/cli/config"
)

// apiError mirrors the server's error body.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Do sends an authenticated request and decodes a JSON response into out
// (skipped when out is nil). Non-2xx responses become errors carrying the
// server's message.
func Do(method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := config.LoadToken()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// DoJSON marshals payload and sends it with Do.
func DoJSON(method, path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return Do(method, path, bytes.NewReader(data), "application/json", out)
}

// Get fetches path and streams the raw body to w. Used for downloads.
func Get(path string, w io.Writer) error {
	req, err := http.NewRequest("GET", config.APIURL()+path, nil)
	if err != nil {
		return err
	}
	token, err := config.LoadToken()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var apiErr apiError
	if json.Unmarshal(b, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("API error %d: %s", apiErr.Error.Code, apiErr.Error.Message)
	}
	return fmt.Errorf("API error: status %d", resp.StatusCode)
}
