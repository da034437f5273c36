package live

import (
	"fmt"
	"strings"

	"github.com/formsense/formsense/pkg/coach/protocol"
	"github.com/formsense/formsense/pkg/plan"
)

// systemInstruction builds the coach persona for one exercise. The session
// configuration is fixed at setup time, so each exercise gets its own
// connection scoped to exactly that exercise.
func systemInstruction(p *plan.WorkoutPlan, index int) string {
	ex := p.Exercises[index]

	var b strings.Builder
	b.WriteString("You are an encouraging, concise personal fitness coach guiding a live workout over voice. ")
	b.WriteString("You see the user's camera and hear their microphone.\n\n")

	fmt.Fprintf(&b, "Workout: %s (%s, %s).\n", p.Title, p.Duration, p.Difficulty)
	fmt.Fprintf(&b, "Current exercise (%d of %d): %s — %s.\n", index+1, len(p.Exercises), ex.Name, ex.DurationOrReps)
	fmt.Fprintf(&b, "Description: %s\n", ex.Description)
	fmt.Fprintf(&b, "Form tips: %s\n\n", ex.Tips)

	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "- Watch the user's form continuously and call %s whenever your assessment changes.\n", protocol.ToolUpdateFormFeedback)
	fmt.Fprintf(&b, "- Keep %s to a short phrase a user can read at a glance.\n", protocol.ArgFeedback)
	fmt.Fprintf(&b, "- When the user has completed the exercise, call %s. Never call it early.\n", protocol.ToolAdvanceExercise)
	b.WriteString("- Speak in short sentences. Count reps out loud when it helps.\n")
	b.WriteString("- Coach only the exercise named above. The client will tell you when the workout moves on.\n")
	return b.String()
}

// greeting is the kickoff turn sent once setup completes. It prompts the
// coach to open the session by naming the exercise about to start.
func greeting(ex plan.Exercise) string {
	return fmt.Sprintf("I'm set up and ready. Greet me briefly and talk me through %q (%s) before I start.",
		ex.Name, ex.DurationOrReps)
}
