package protocol

// Tool names declared to the remote coach.
const (
	ToolAdvanceExercise    = "advanceExercise"
	ToolUpdateFormFeedback = "updateFormFeedback"
)

// Argument keys of the updateFormFeedback invocation.
const (
	ArgStatus    = "status"
	ArgFeedback  = "feedbackText"
	ArgFocusArea = "focusArea"
)

// AdvanceExerciseDecl declares the parameterless tool the coach calls to
// move the workout to the next exercise.
func AdvanceExerciseDecl() FunctionDeclaration {
	return FunctionDeclaration{
		Name:        ToolAdvanceExercise,
		Description: "Move the workout to the next exercise once the user has completed the current one.",
	}
}

// UpdateFormFeedbackDecl declares the form-feedback tool. The enumerated
// value sets declared here are the same sets the client validates against on
// arrival.
func UpdateFormFeedbackDecl(statuses, focusAreas []string) FunctionDeclaration {
	return FunctionDeclaration{
		Name:        ToolUpdateFormFeedback,
		Description: "Update the on-screen form assessment overlay.",
		Parameters: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				ArgStatus: {
					Type:        "string",
					Enum:        statuses,
					Description: "Current form assessment.",
				},
				ArgFeedback: {
					Type:        "string",
					Description: "Short feedback phrase, a few words at most.",
				},
				ArgFocusArea: {
					Type:        "string",
					Enum:        focusAreas,
					Description: "Body region the feedback concerns.",
				},
			},
			Required: []string{ArgStatus, ArgFeedback, ArgFocusArea},
		},
	}
}
