// Package gemini wraps the remote AI capability: text generation for
// translation and enhancement, and speech synthesis.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	textModel = "gemini-2.5-flash"
	ttsModel  = "gemini-2.5-flash-preview-tts"

	ttsEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"
)

type Client struct {
	client *genai.Client
	apiKey string
	http   *http.Client
}

func NewClient(apiKey string) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// GenerateText runs one text prompt and returns the first candidate.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(textModel)
	return c.generate(ctx, model, prompt)
}

// GenerateJSON runs a prompt with a JSON response mime type, for prompts
// whose answer must be machine-parsed.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(textModel)
	model.ResponseMIMEType = "application/json"
	return c.generate(ctx, model, prompt)
}

func (c *Client) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// The SDK does not expose audio response modalities, so synthesis talks to
// the REST endpoint directly.

type ttsRequest struct {
	Contents         []ttsContent        `json:"contents"`
	GenerationConfig ttsGenerationConfig `json:"generationConfig"`
}

type ttsContent struct {
	Parts []ttsPart `json:"parts"`
}

type ttsPart struct {
	Text string `json:"text"`
}

type ttsGenerationConfig struct {
	ResponseModalities []string        `json:"responseModalities"`
	SpeechConfig       ttsSpeechConfig `json:"speechConfig"`
}

type ttsSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type ttsResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData struct {
					Data string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateSpeech synthesizes text with a prebuilt voice and returns the raw
// PCM audio (24kHz mono 16-bit) base64-encoded, exactly as it crossed the
// transport.
func (c *Client) GenerateSpeech(ctx context.Context, text, voice string) (string, error) {
	reqBody := ttsRequest{
		Contents: []ttsContent{{Parts: []ttsPart{{Text: text}}}},
	}
	reqBody.GenerationConfig.ResponseModalities = []string{"AUDIO"}
	reqBody.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = voice

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode TTS request: %w", err)
	}

	url := fmt.Sprintf(ttsEndpoint, ttsModel, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("TTS status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed ttsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode TTS response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no audio in TTS response")
	}
	data := parsed.Candidates[0].Content.Parts[0].InlineData.Data
	if data == "" {
		return "", fmt.Errorf("empty audio in TTS response")
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
