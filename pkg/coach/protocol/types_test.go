package protocol

import (
	"encoding/json"
	"testing"
)

func TestBlobSampleRate(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		expected int
	}{
		{name: "capture rate", mime: "audio/pcm;rate=16000", expected: 16000},
		{name: "playback rate", mime: "audio/pcm;rate=24000", expected: 24000},
		{name: "spaced param", mime: "audio/pcm; rate=24000", expected: 24000},
		{name: "jpeg frame", mime: "image/jpeg", expected: 0},
		{name: "no rate", mime: "audio/pcm", expected: 0},
		{name: "bad rate", mime: "audio/pcm;rate=fast", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Blob{MIMEType: tt.mime}).SampleRate(); got != tt.expected {
				t.Errorf("SampleRate(%q) = %d, expected %d", tt.mime, got, tt.expected)
			}
		})
	}
}

func TestDecodeServerMessage(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		check func(t *testing.T, msg *ServerMessage)
	}{
		{
			name:  "setup complete",
			frame: `{"setupComplete":{}}`,
			check: func(t *testing.T, msg *ServerMessage) {
				if msg.SetupComplete == nil {
					t.Error("expected setupComplete")
				}
			},
		},
		{
			name:  "inline audio",
			frame: `{"serverContent":{"modelTurn":{"role":"model","parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"AAAA"}}]}}}`,
			check: func(t *testing.T, msg *ServerMessage) {
				blobs := msg.ServerContent.AudioBlobs()
				if len(blobs) != 1 {
					t.Fatalf("expected 1 audio blob, got %d", len(blobs))
				}
				if blobs[0].SampleRate() != 24000 {
					t.Errorf("expected 24kHz blob, got %d", blobs[0].SampleRate())
				}
			},
		},
		{
			name:  "tool call",
			frame: `{"toolCall":{"functionCalls":[{"id":"call-1","name":"updateFormFeedback","args":{"status":"warning","feedbackText":"straighten back","focusArea":"torso"}}]}}`,
			check: func(t *testing.T, msg *ServerMessage) {
				if msg.ToolCall == nil || len(msg.ToolCall.FunctionCalls) != 1 {
					t.Fatal("expected one function call")
				}
				call := msg.ToolCall.FunctionCalls[0]
				if call.ID != "call-1" || call.Name != ToolUpdateFormFeedback {
					t.Errorf("unexpected call %+v", call)
				}
			},
		},
		{
			name:  "unknown envelope",
			frame: `{"somethingNew":{"x":1}}`,
			check: func(t *testing.T, msg *ServerMessage) {
				if msg.SetupComplete != nil || msg.ServerContent != nil || msg.ToolCall != nil {
					t.Error("unknown envelope should decode to empty message")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeServerMessage([]byte(tt.frame))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			tt.check(t, msg)
		})
	}

	if _, err := DecodeServerMessage([]byte("not json")); err == nil {
		t.Error("expected error for malformed frame")
	}
}

func TestUpdateFormFeedbackDecl(t *testing.T) {
	decl := UpdateFormFeedbackDecl([]string{"scanning", "correct"}, []string{"head", "general"})
	data, err := json.Marshal(decl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round FunctionDeclaration
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if round.Name != ToolUpdateFormFeedback {
		t.Errorf("unexpected name %q", round.Name)
	}
	if len(round.Parameters.Required) != 3 {
		t.Errorf("expected 3 required args, got %d", len(round.Parameters.Required))
	}
	if got := round.Parameters.Properties[ArgStatus].Enum; len(got) != 2 {
		t.Errorf("status enum lost in round trip: %v", got)
	}
}
