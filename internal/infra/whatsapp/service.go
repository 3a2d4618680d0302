package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service talks to a WhatsApp HTTP gateway keyed by instance id and
// API key. The caller treats dispatch as boolean success/failure and
// falls back to the deep link on any error.
type Service struct {
	baseURL  string
	instance string
	apiKey   string
	hc       *http.Client
}

func NewService(baseURL, instance, apiKey string) *Service {
	return &Service{
		baseURL:  strings.TrimRight(baseURL, "/"),
		instance: instance,
		apiKey:   apiKey,
		hc:       &http.Client{Timeout: 10 * time.Second},
	}
}

type sendRequest struct {
	Phone string `json:"phone"`
	Text  string `json:"message"`
}

func (s *Service) SendText(ctx context.Context, phone, text string) error {
	body, _ := json.Marshal(sendRequest{Phone: digits(phone), Text: text})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/instances/%s/messages/text", s.baseURL, s.instance),
		bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whatsapp gateway: status %d", resp.StatusCode)
	}
	return nil
}

// DeepLink builds a pre-filled wa.me link for manual sending.
func (s *Service) DeepLink(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits(phone), url.QueryEscape(text))
}

func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
