package aiparse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LineGuess is one structured line-item guess parsed from free text.
// The workflow treats guesses as best-effort and unvalidated.
type LineGuess struct {
	Team        string   `json:"team"`
	LayoutGroup int      `json:"layout_group"`
	Product     string   `json:"product"`
	Fabric      string   `json:"fabric"`
	Grade       string   `json:"grade"`
	Size        string   `json:"size"`
	Quantity    int      `json:"quantity"`
	Names       []string `json:"names"`
}

type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

type parseRequest struct {
	Text     string   `json:"text"`
	Products []string `json:"products"`
}

type parseResponse struct {
	Items []LineGuess `json:"items"`
}

// Parse sends the chat text plus the known product names and returns
// the parser's line-item guesses.
func (c *Client) Parse(ctx context.Context, text string, productNames []string) ([]LineGuess, error) {
	body, _ := json.Marshal(parseRequest{Text: text, Products: productNames})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/parse-order", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("aiparse: status %d", resp.StatusCode)
	}

	var out parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
