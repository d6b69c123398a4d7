package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NtfySender delivers alerts to an ntfy topic.
type NtfySender struct {
	server   string
	topic    string
	username string
	password string
	client   *http.Client
}

// NtfyOption configures the sender.
type NtfyOption func(*NtfySender)

// WithNtfyAuth sets basic-auth credentials.
func WithNtfyAuth(username, password string) NtfyOption {
	return func(s *NtfySender) {
		s.username = username
		s.password = password
	}
}

// WithNtfyHTTPClient overrides the default HTTP client.
func WithNtfyHTTPClient(client *http.Client) NtfyOption {
	return func(s *NtfySender) {
		if client != nil {
			s.client = client
		}
	}
}

// NewNtfySender constructs a sender for server/topic.
func NewNtfySender(server, topic string, opts ...NtfyOption) (*NtfySender, error) {
	if server == "" {
		return nil, errors.New("ntfy sender: empty server")
	}
	if topic == "" {
		return nil, errors.New("ntfy sender: empty topic")
	}
	s := &NtfySender{
		server: strings.TrimRight(server, "/"),
		topic:  topic,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Send posts the alert body to the topic. HTTP and application errors are
// returned, never panicked on.
func (s *NtfySender) Send(ctx context.Context, title, body string) error {
	if s == nil {
		return errors.New("ntfy sender: nil sender")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.server+"/"+s.topic, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Title", title)
	req.Header.Set("Priority", "urgent")
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ntfy sender: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy sender: unexpected status %s", resp.Status)
	}
	return nil
}
