package live

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
)

// Defaults for the live coaching channel.
const (
	DefaultHost  = "generativelanguage.googleapis.com"
	DefaultModel = "models/gemini-2.0-flash-exp"
	DefaultVoice = "Aoede"

	bidiPath = "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
)

// Config parameterizes a coaching session.
type Config struct {
	APIKey string `json:"-"`
	Host   string `json:"host"`
	Model  string `json:"model"`
	Voice  string `json:"voice"`
}

// DefaultConfig returns the session configuration with production defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey: apiKey,
		Host:   DefaultHost,
		Model:  DefaultModel,
		Voice:  DefaultVoice,
	}
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
	return c
}

func (c Config) endpoint() string {
	u := url.URL{
		Scheme:   "wss",
		Host:     c.Host,
		Path:     bidiPath,
		RawQuery: url.Values{"key": []string{c.APIKey}}.Encode(),
	}
	return u.String()
}

func dialWebSocket(ctx context.Context, endpoint string) (Conn, error) {
	dialer := websocket.DefaultDialer
	if dialer == nil {
		dialer = &websocket.Dialer{}
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, err
	}
	return conn, nil
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
