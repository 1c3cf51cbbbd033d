// Package assistant proxies session-grounded questions to an
// OpenAI-compatible chat-completion endpoint. The assistant is advisory
// only: it receives a read-only context snapshot and its replies never
// feed back into scoring.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/biomatch-omni-server/internal/domain"
)

// Message is one turn of the conversation history.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

const systemInstruction = `You are BIO-MATCH OMNI's AI clinical assistant — an expert in orthopedic biomaterials and implant science.

CURRENT ANALYSIS CONTEXT:
%s

STRICT RULES:
1. ALWAYS start every reply with: ⚠️ Educational purposes only. Always consult a qualified orthopedic surgeon or physician before making any medical decisions.
2. Only answer questions related to biomaterials, implants, orthopedics, bones, or this specific analysis.
3. Use clear, compassionate language — explain medical terms when used.
4. Never diagnose, prescribe, or replace professional medical advice.
5. Keep responses concise (3–5 sentences) unless detail is truly needed.`

// Client calls the upstream chat-completion API with a circuit breaker.
type Client struct {
	logger     *logrus.Logger
	cfg        domain.AssistantConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates an assistant client from configuration.
func NewClient(logger *logrus.Logger, cfg domain.AssistantConfig) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "Assistant",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("Circuit breaker state changed")
		},
	})

	return &Client{
		logger:     logger,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends the conversation history, prefixed with a system instruction
// carrying the live analysis context, and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, history []Message, contextText string) (string, error) {
	payload := chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	payload.Messages = append(payload.Messages, Message{
		Role:    "system",
		Content: fmt.Sprintf(systemInstruction, contextText),
	})
	payload.Messages = append(payload.Messages, history...)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.complete(ctx, payload)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", fmt.Errorf("%s: assistant unavailable (circuit breaker open)", domain.ErrAssistantUpstream)
		}
		return "", fmt.Errorf("%s: %w", domain.ErrAssistantUpstream, err)
	}

	reply := result.(string)
	if reply == "" {
		reply = "No response generated."
	}
	return reply, nil
}

func (c *Client) complete(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decoding chat response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("chat endpoint returned %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}
