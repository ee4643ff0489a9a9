// internal/dify/client.go
package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/chatstream/internal/types"
)

var ErrRequestFailed = errors.New("API request failed")

// Config holds the connection settings for one backend application.
type Config struct {
	BaseURL      string
	APIKey       string
	User         string
	ResponseMode string
	Timeout      time.Duration
}

// Client talks to a Dify-compatible chat backend.
type Client struct {
	config *Config

	// streamClient has no timeout: chat streams stay open for the whole
	// answer. fetchClient bounds the one-shot endpoints.
	streamClient *http.Client
	fetchClient  *http.Client
}

// New creates a client with the given configuration.
func New(config *Config) *Client {
	cfg := *config
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.ResponseMode == "" {
		cfg.ResponseMode = "streaming"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		config:       &cfg,
		streamClient: &http.Client{},
		fetchClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// OpenChat sends one user turn to the chat endpoint and returns the event
// stream of the answer. The conversation id is left off the request while
// it is still temporary, which instructs the backend to create a new
// conversation and report its id inside the stream.
func (c *Client) OpenChat(ctx context.Context, prompt types.ChatPrompt) (types.ChatStream, error) {
	inputs := prompt.Inputs
	if inputs == nil {
		inputs = map[string]string{}
	}
	reqBody := chatRequest{
		Inputs:       inputs,
		Query:        prompt.Query,
		User:         c.config.User,
		ResponseMode: c.config.ResponseMode,
		Files:        []any{},
	}
	if prompt.ConversationID != "" && !prompt.ConversationID.IsTemp() {
		reqBody.ConversationID = string(prompt.ConversationID)
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat-messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	slog.Debug("HTTP POST /chat-messages",
		"base_url", c.config.BaseURL,
		"conversation_id", reqBody.ConversationID,
		"query_len", len(prompt.Query),
	)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d - %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	return newStream(ctx, resp.Body), nil
}

// Conversations fetches the backend's conversation list for the client user.
func (c *Client) Conversations(ctx context.Context) ([]types.ConversationInfo, error) {
	var parsed conversationsResponse
	if err := c.getJSON(ctx, "/conversations", url.Values{"user": {c.config.User}}, &parsed); err != nil {
		return nil, err
	}
	infos := make([]types.ConversationInfo, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		infos = append(infos, types.ConversationInfo{
			ID:   types.ConversationID(item.ID),
			Name: item.Name,
		})
	}
	return infos, nil
}

// History fetches the persisted exchange records of a conversation, oldest
// first.
func (c *Client) History(ctx context.Context, id types.ConversationID) ([]types.ExchangeRecord, error) {
	query := url.Values{
		"user":            {c.config.User},
		"conversation_id": {string(id)},
	}
	var parsed messagesResponse
	if err := c.getJSON(ctx, "/messages", query, &parsed); err != nil {
		return nil, err
	}
	records := make([]types.ExchangeRecord, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		records = append(records, types.ExchangeRecord{
			ID:     item.ID,
			Query:  item.Query,
			Answer: item.Answer,
			Inputs: item.Inputs,
		})
	}
	return records, nil
}

// Parameters fetches the application parameters. Only text-input form
// controls are understood; other control types are skipped.
func (c *Client) Parameters(ctx context.Context) (*types.AppParameters, error) {
	var parsed parametersResponse
	if err := c.getJSON(ctx, "/parameters", url.Values{"user": {c.config.User}}, &parsed); err != nil {
		return nil, err
	}
	params := &types.AppParameters{}
	for _, entry := range parsed.UserInputForm {
		control, ok := entry["text-input"]
		if !ok {
			slog.Debug("skipping unsupported input control", "entry", entry)
			continue
		}
		params.UserInputForm = append(params.UserInputForm, types.InputField{
			Label:    control.Label,
			Variable: control.Variable,
			Required: control.Required,
		})
	}
	return params, nil
}

// getJSON performs a GET against path with the given query parameters and
// decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	slog.Debug("HTTP GET "+path, "base_url", c.config.BaseURL)

	resp, err := c.fetchClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %d - %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
