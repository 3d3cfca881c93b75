// Package push delivers notifications to device push tokens.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ArowuTest/surespace-functions/internal/models"
	"go.uber.org/zap"
)

// DefaultExpoURL is the Expo push API endpoint
const DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

// ErrEmptyToken is returned when a profile has no push token
var ErrEmptyToken = errors.New("push token is empty")

// Gateway represents a push messaging gateway
type Gateway interface {
	Send(ctx context.Context, token string, payload *models.PushPayload) (*Receipt, error)
}

// Receipt is the gateway's answer for one delivered message
type Receipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ExpoGateway sends through the Expo push service
type ExpoGateway struct {
	URL         string
	AccessToken string
	httpClient  *http.Client
}

// NewExpoGateway creates a new ExpoGateway
func NewExpoGateway(url, accessToken string, timeout time.Duration) *ExpoGateway {
	if url == "" {
		url = DefaultExpoURL
	}
	return &ExpoGateway{
		URL:         url,
		AccessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// expoMessage is the request body accepted by Expo
type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound,omitempty"`
	Badge int               `json:"badge,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

type expoResponse struct {
	Data struct {
		Status  string `json:"status"`
		ID      string `json:"id"`
		Message string `json:"message"`
	} `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Send sends one push message
func (g *ExpoGateway) Send(ctx context.Context, token string, payload *models.PushPayload) (*Receipt, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	// Expo wants a numeric badge; the route travels in data
	badge, _ := strconv.Atoi(payload.Notification.Badge)
	msg := expoMessage{
		To:    token,
		Title: payload.Notification.Title,
		Body:  payload.Notification.Body,
		Sound: payload.Notification.Sound,
		Badge: badge,
		Data: map[string]string{
			"id":         payload.Notification.ID,
			"profilePic": payload.Data.ProfilePic,
		},
	}

	jsonBody, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.AccessToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("push request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response expoResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("push rejected: %s: %s", response.Errors[0].Code, response.Errors[0].Message)
	}
	if response.Data.Status != "ok" {
		return nil, fmt.Errorf("push ticket status %q: %s", response.Data.Status, response.Data.Message)
	}

	return &Receipt{ID: response.Data.ID, Status: response.Data.Status}, nil
}

// Delivery is one message accepted by MockGateway
type Delivery struct {
	Token   string
	Payload models.PushPayload
}

// MockGateway records deliveries instead of sending them
type MockGateway struct {
	Name   string
	logger *zap.Logger
	// FailTokens makes Send fail for the listed tokens
	FailTokens map[string]error

	mu         sync.Mutex
	deliveries []Delivery
}

// NewMockGateway creates a new mock push gateway
func NewMockGateway(name string, logger *zap.Logger) *MockGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockGateway{Name: name, logger: logger}
}

// Send records the delivery
func (g *MockGateway) Send(_ context.Context, token string, payload *models.PushPayload) (*Receipt, error) {
	if err, ok := g.FailTokens[token]; ok {
		return nil, err
	}

	g.mu.Lock()
	g.deliveries = append(g.deliveries, Delivery{Token: token, Payload: *payload})
	n := len(g.deliveries)
	g.mu.Unlock()

	id := fmt.Sprintf("%s-MOCK-PUSH-%d", g.Name, n)
	g.logger.Debug("mock push delivered",
		zap.String("gateway", g.Name),
		zap.String("token", token),
		zap.String("title", payload.Notification.Title),
		zap.String("receipt", id))
	return &Receipt{ID: id, Status: "ok"}, nil
}

// Deliveries returns a copy of everything sent so far
func (g *MockGateway) Deliveries() []Delivery {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Delivery, len(g.deliveries))
	copy(out, g.deliveries)
	return out
}
