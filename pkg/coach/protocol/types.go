// Package protocol defines the wire format of the bidirectional coaching
// channel: client setup, realtime media input, text turns, and tool
// responses outbound; setup acknowledgment, inline audio, and tool
// invocations inbound. All frames are JSON text messages.
package protocol

import (
	"strconv"
	"strings"
)

// Blob carries base64-encoded binary media tagged with its media type.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// SampleRate extracts the rate parameter from an audio/pcm media type.
// Returns 0 when the blob is not PCM audio or carries no rate.
func (b Blob) SampleRate() int {
	mime := strings.ToLower(strings.TrimSpace(b.MIMEType))
	if !strings.HasPrefix(mime, "audio/pcm") {
		return 0
	}
	for _, param := range strings.Split(mime, ";") {
		param = strings.TrimSpace(param)
		if rate, ok := strings.CutPrefix(param, "rate="); ok {
			n, err := strconv.Atoi(rate)
			if err != nil {
				return 0
			}
			return n
		}
	}
	return 0
}

// Content is a single conversational turn.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one element of a turn: text or inline media.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Schema describes a tool parameter in the declaration.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// FunctionDeclaration declares a callable tool to the remote coach.
type FunctionDeclaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Tool groups function declarations.
type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations"`
}

// SpeechConfig designates the synthesized voice identity.
type SpeechConfig struct {
	VoiceName string `json:"voiceName"`
}

// GenerationConfig configures the remote session's output.
type GenerationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	Speech             *SpeechConfig `json:"speechConfig,omitempty"`
}

// Setup is the first client frame; it fixes the session configuration for
// the lifetime of the channel.
type Setup struct {
	Model             string            `json:"model"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
	Generation        *GenerationConfig `json:"generationConfig,omitempty"`
}

// ClientSetup wraps Setup in its envelope.
type ClientSetup struct {
	Setup Setup `json:"setup"`
}

// RealtimeInput streams captured media: PCM audio chunks and JPEG frames.
type RealtimeInput struct {
	MediaChunks []Blob `json:"mediaChunks"`
}

// ClientRealtimeInput wraps RealtimeInput in its envelope.
type ClientRealtimeInput struct {
	RealtimeInput RealtimeInput `json:"realtimeInput"`
}

// ClientContent sends discrete text turns (greeting, exercise announcements).
type ClientContent struct {
	Turns        []Content `json:"turns"`
	TurnComplete bool      `json:"turnComplete"`
}

// ClientContentMessage wraps ClientContent in its envelope.
type ClientContentMessage struct {
	ClientContent ClientContent `json:"clientContent"`
}

// FunctionResponse acknowledges one tool invocation by id.
type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// ToolResponse carries invocation acknowledgments back to the coach.
type ToolResponse struct {
	FunctionResponses []FunctionResponse `json:"functionResponses"`
}

// ClientToolResponse wraps ToolResponse in its envelope.
type ClientToolResponse struct {
	ToolResponse ToolResponse `json:"toolResponse"`
}

// FunctionCall is a remote-initiated tool invocation.
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolCall groups tool invocations arriving in one frame.
type ToolCall struct {
	FunctionCalls []FunctionCall `json:"functionCalls"`
}

// ServerContent carries model output: inline audio parts and turn markers.
type ServerContent struct {
	ModelTurn    *Content `json:"modelTurn,omitempty"`
	TurnComplete bool     `json:"turnComplete,omitempty"`
	Interrupted  bool     `json:"interrupted,omitempty"`
}

// GoAway signals an impending server-side close.
type GoAway struct {
	TimeLeft string `json:"timeLeft,omitempty"`
}

// ServerMessage is the inbound frame envelope. Exactly one field is set.
type ServerMessage struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ServerContent *ServerContent `json:"serverContent,omitempty"`
	ToolCall      *ToolCall      `json:"toolCall,omitempty"`
	GoAway        *GoAway        `json:"goAway,omitempty"`
}

// AudioBlobs returns the PCM audio parts of a server content frame in
// arrival order.
func (c *ServerContent) AudioBlobs() []Blob {
	if c == nil || c.ModelTurn == nil {
		return nil
	}
	var blobs []Blob
	for _, part := range c.ModelTurn.Parts {
		if part.InlineData != nil && part.InlineData.SampleRate() > 0 {
			blobs = append(blobs, *part.InlineData)
		}
	}
	return blobs
}
