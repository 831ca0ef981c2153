// Package client provides an HTTP client for the civicmap REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/civicmap/civicmap/internal/comment"
)

// Client is an HTTP client for the civicmap API.
type Client struct {
	baseURL    string
	deviceID   string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetDeviceID attaches a stable anonymous device identity to every request
// via the X-Device-ID header.
func (c *Client) SetDeviceID(id string) {
	c.deviceID = id
}

// ListComments returns the full comments snapshot.
func (c *Client) ListComments() ([]*comment.Comment, error) {
	var comments []*comment.Comment
	if err := c.get("/api/comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment inserts a comment and returns the stored row with the
// server-assigned id and created_at.
func (c *Client) CreateComment(n comment.NewComment) (*comment.Comment, error) {
	var stored comment.Comment
	if err := c.post("/api/comments", n, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Classify asks the server to assign a theme to comment text.
func (c *Client) Classify(text string) (comment.Theme, error) {
	body := map[string]string{"comment_text": text}
	var resp struct {
		Theme comment.Theme `json:"theme"`
	}
	if err := c.post("/api/classify", body, &resp); err != nil {
		return comment.ThemeOther, err
	}
	return resp.Theme, nil
}

// SetUpvotes sets a comment's upvote counter to the given value.
func (c *Client) SetUpvotes(id, upvotes int64) error {
	body := map[string]int64{"upvotes": upvotes}
	return c.post(fmt.Sprintf("/api/comments/%d/upvotes", id), body, nil)
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request and handles error responses.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.deviceID != "" {
		req.Header.Set("X-Device-ID", c.deviceID)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
