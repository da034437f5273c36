package main

import (
	"bufio"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/formsense/formsense/pkg/audio"
	"github.com/formsense/formsense/pkg/coach"
	"github.com/formsense/formsense/pkg/coach/live"
	"github.com/formsense/formsense/pkg/config"
	"github.com/formsense/formsense/pkg/media"
	"github.com/formsense/formsense/pkg/overlay"
	"github.com/formsense/formsense/pkg/plan"
	"github.com/formsense/formsense/pkg/pose"
	"github.com/formsense/formsense/pkg/session"
	"github.com/formsense/formsense/pkg/store"
)

func newStartCmd() *cobra.Command {
	var (
		goal       string
		experience string
		minutes    int
		overlayOut string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Generate a workout plan and run a live coaching session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStart(cmd.Context(), startOptions{
				goal:       goal,
				experience: experience,
				minutes:    minutes,
				overlayOut: overlayOut,
			})
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "general fitness", "what you want out of the workout")
	cmd.Flags().StringVar(&experience, "experience", "beginner", "training experience: beginner, intermediate, advanced")
	cmd.Flags().IntVar(&minutes, "minutes", 15, "workout length in minutes")
	cmd.Flags().StringVar(&overlayOut, "overlay-out", "", "write the live overlay layer to this PNG path")
	return cmd
}

type startOptions struct {
	goal       string
	experience string
	minutes    int
	overlayOut string
}

func runStart(parent context.Context, opts startOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Plan generation happens before any device is touched.
	genClient, err := plan.NewGenAIClient(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	generator := plan.NewGenerator(genClient, cfg.PlanModel)
	workout, err := generator.Generate(ctx, plan.Request{
		Goal:            opts.goal,
		Experience:      plan.ExperienceLevel(strings.ToLower(opts.experience)),
		DurationMinutes: opts.minutes,
	})
	if err != nil {
		return err
	}
	printPlan(workout)

	devices, err := media.OpenDevices()
	if err != nil {
		return err
	}
	camera, err := media.OpenCamera(cfg.CameraWidth, cfg.CameraHeight, 30)
	if err != nil {
		devices.Close()
		return err
	}

	sched := audio.NewScheduler(audio.PlaybackConfig(), nil, devices.Speaker())
	formState := coach.NewStateStore()
	sess := live.NewSession(cfg.Live(), formState, sched)

	tracker := pose.NewTracker(pose.NewMotionEstimator(), camera, pose.DefaultTickInterval, slog.Default())
	tracker.Start(ctx)

	orch := session.New(workout, sess)
	orch.AddCleanup("camera", camera.Close)
	orch.AddCleanup("audio devices", devices.Close)
	orch.AddCleanup("pose tracker", tracker.Stop)

	startedAt := time.Now()
	if err := orch.Start(ctx); err != nil {
		orch.Exit()
		return err
	}

	go pumpMic(devices.Mic(), sess)
	sess.StartVideo(func() ([]byte, bool) {
		frame := camera.Frame()
		if frame == nil {
			return nil, false
		}
		jpeg, err := media.EncodeFrameJPEG(frame)
		if err != nil {
			slog.Debug("frame encode failed", "error", err)
			return nil, false
		}
		return jpeg, true
	})

	go watchFormState(ctx, formState)
	if opts.overlayOut != "" {
		width, height := camera.Size()
		go writeOverlay(ctx, opts.overlayOut, overlay.NewRenderer(formState), tracker, width, height)
	}
	go readKeys(orch)

	fmt.Println("Session running. Commands: [n]ext exercise, [m]ute toggle, [q]uit.")

	select {
	case <-ctx.Done():
		orch.Exit()
		<-orch.Done()
	case <-orch.Done():
	}

	if err := saveHistory(cfg.HistoryPath, opts.goal, workout, orch, startedAt); err != nil {
		slog.Warn("history save failed", "error", err)
	}
	return orch.Err()
}

func printPlan(p *plan.WorkoutPlan) {
	fmt.Printf("\n%s — %s, %s\n", p.Title, p.Duration, p.Difficulty)
	for i, ex := range p.Exercises {
		fmt.Printf("  %d. %s (%s)\n", i+1, ex.Name, ex.DurationOrReps)
	}
	fmt.Println()
}

// pumpMic streams captured chunks into the session until capture closes,
// refreshing the mic level indicator once a second from the chunks' peak RMS
// energy. Muted chunks are dropped inside the session, so capture (and the
// level indicator) never pauses.
func pumpMic(mic *media.Mic, sess *live.Session) {
	var peak float64
	lastPrint := time.Now()
	for {
		chunk := mic.ReadChunk()
		if chunk == nil {
			return
		}
		if rms := audio.RMSEnergy(chunk); rms > peak {
			peak = rms
		}
		if time.Since(lastPrint) >= time.Second {
			fmt.Printf("\r[mic %s]", micLevelBar(peak, 8))
			peak = 0
			lastPrint = time.Now()
		}
		if err := sess.SendAudioChunk(chunk); err != nil {
			slog.Debug("audio chunk send failed", "error", err)
		}
	}
}

// micLevelBar renders an RMS level as a fixed-width bar. Speech RMS rarely
// exceeds 0.25, so the scale saturates there rather than at full amplitude.
func micLevelBar(rms float64, cells int) string {
	filled := int(rms * 4 * float64(cells))
	if filled > cells {
		filled = cells
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}

// watchFormState prints feedback transitions to the terminal.
func watchFormState(ctx context.Context, formState *coach.StateStore) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	var last coach.OverlayState
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := formState.Load()
			if s == last || s.Status == coach.StatusScanning {
				continue
			}
			last = s
			fmt.Printf("[form:%s] %s (%s)\n", s.Status, s.Feedback, s.FocusArea)
		}
	}
}

// writeOverlay repaints the overlay layer and writes it atomically so an
// external compositor can pick it up.
func writeOverlay(ctx context.Context, path string, r *overlay.Renderer, tracker *pose.Tracker, width, height int) {
	ticker := time.NewTicker(pose.DefaultTickInterval)
	defer ticker.Stop()
	tmp := path + ".tmp"
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			layer := r.Render(tracker.Latest(), width, height)
			f, err := os.Create(tmp)
			if err != nil {
				slog.Debug("overlay write failed", "error", err)
				continue
			}
			if err := png.Encode(f, layer); err != nil {
				_ = f.Close()
				continue
			}
			_ = f.Close()
			_ = os.Rename(tmp, path)
		}
	}
}

// readKeys handles interactive commands from stdin.
func readKeys(orch *session.Orchestrator) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "next":
			orch.Advance()
		case "m", "mute":
			if orch.ToggleMic() {
				fmt.Println("mic on")
			} else {
				fmt.Println("mic muted")
			}
		case "q", "quit", "exit":
			orch.Exit()
			return
		}
	}
}

func saveHistory(path, goal string, workout *plan.WorkoutPlan, orch *session.Orchestrator, startedAt time.Time) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	completed := orch.CurrentIndex()
	if completed > len(workout.Exercises) {
		completed = len(workout.Exercises)
	}
	_, err = st.InsertSession(context.Background(), store.Record{
		StartedAt:          startedAt,
		EndedAt:            time.Now(),
		Goal:               goal,
		Plan:               *workout,
		ExercisesCompleted: completed,
	})
	return err
}
