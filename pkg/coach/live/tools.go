package live

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/formsense/formsense/pkg/coach"
	"github.com/formsense/formsense/pkg/coach/protocol"
)

// handleToolCall dispatches remote-initiated invocations in arrival order.
// Every invocation gets exactly one acknowledgment, success or error, tagged
// with the invocation's id so the coach can correlate it.
func (s *Session) handleToolCall(tc *protocol.ToolCall) {
	for _, call := range tc.FunctionCalls {
		switch call.Name {
		case protocol.ToolAdvanceExercise:
			s.emit(AdvanceEvent{CallID: call.ID})
			s.ack(call, map[string]any{"ok": true})
		case protocol.ToolUpdateFormFeedback:
			if err := s.applyFormFeedback(call.Args); err != nil {
				slog.Warn("rejecting form feedback", "id", call.ID, "error", err)
				s.ack(call, map[string]any{"error": err.Error()})
				continue
			}
			s.ack(call, map[string]any{"ok": true})
		default:
			s.ack(call, map[string]any{"error": fmt.Sprintf("unknown tool %q", call.Name)})
		}
	}
}

// applyFormFeedback validates the invocation arguments against the declared
// enums and, only if all of them pass, swaps the overlay state in one step.
// A rejected invocation leaves the overlay untouched.
func (s *Session) applyFormFeedback(args map[string]any) error {
	status := stringArg(args, protocol.ArgStatus)
	feedback := stringArg(args, protocol.ArgFeedback)
	area := stringArg(args, protocol.ArgFocusArea)

	if !coach.ValidFormStatus(status) {
		return coach.NewValidationError(fmt.Sprintf("unknown form status %q", status))
	}
	if !coach.ValidFocusArea(area) {
		return coach.NewValidationError(fmt.Sprintf("unknown focus area %q", area))
	}
	if feedback == "" {
		return coach.NewValidationError("feedback text must not be empty")
	}

	s.store.Update(coach.FormStatus(status), feedback, coach.FocusArea(area))
	return nil
}

func (s *Session) ack(call protocol.FunctionCall, response map[string]any) {
	msg := protocol.ClientToolResponse{ToolResponse: protocol.ToolResponse{
		FunctionResponses: []protocol.FunctionResponse{{
			ID:       call.ID,
			Name:     call.Name,
			Response: response,
		}},
	}}
	if err := s.sendJSON(msg); err != nil {
		slog.Warn("tool acknowledgment send failed", "id", call.ID, "error", err)
	}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}
