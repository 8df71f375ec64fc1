package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/meltforce/repbook/internal/client"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/timer"
	"github.com/meltforce/repbook/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// consoleNotifier renders editor notifications to the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Notify(message string, kind workout.NoteKind) {
	switch kind {
	case workout.NoteError:
		fmt.Printf("  [!] %s\n", message)
	case workout.NoteSuccess:
		fmt.Printf("  [ok] %s\n", message)
	default:
		fmt.Printf("  [i] %s\n", message)
	}
}

func main() {
	serverURL := flag.String("server", "", "RepBook server URL (e.g. https://repbook.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("REPBOOK_API_KEY"), "API key for write requests (or REPBOOK_API_KEY)")
	stateDir := flag.String("state-dir", "", "session state directory (default ~/.repbook-log)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repbook-log", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: repbook-log -server <URL> [-api-key KEY] [-state-dir DIR]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".repbook-log")
	}

	ctx := context.Background()
	api := client.New(*serverURL, *apiKey)

	me, err := api.Me(ctx)
	if err != nil {
		log.Error("failed to reach server", "url", *serverURL, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Connected to %s as %s\n", *serverURL, me.Login)

	session, err := client.OpenSessionDB(*stateDir)
	if err != nil {
		log.Error("failed to open session database", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	editor := workout.New(1, api, consoleNotifier{}, log)
	tm := timer.New()

	// Resume a previous session, if one was left behind.
	if draft, elapsed, ok, err := session.LoadSession(); err != nil {
		log.Warn("session restore failed", "error", err)
	} else if ok {
		editor.RestoreDraft(draft)
		tm.Restore(elapsed)
		fmt.Printf("Resumed previous session (%s elapsed)\n", timer.FormatElapsed(elapsed))
	}

	repl(ctx, editor, tm, api, session)
}

func repl(ctx context.Context, editor *workout.Editor, tm *timer.Timer, api *client.Client, session *client.SessionDB) {
	fmt.Println(`Type "help" for commands.`)
	scanner := bufio.NewScanner(os.Stdin)

	var exercises []models.Exercise

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			persist(editor, tm, session)
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()

		case "status":
			printStatus(editor.State(), tm)

		case "start":
			editor.StartWorkout()
			tm.Start()
			fmt.Println("  workout started")

		case "name":
			editor.SetName(strings.Join(args, " "))

		case "date":
			if len(args) != 1 {
				fmt.Println("  usage: date YYYY-MM-DD")
				continue
			}
			editor.SetDate(args[0])

		case "bw":
			if len(args) != 1 {
				fmt.Println("  usage: bw <weight>")
				continue
			}
			editor.SetBodyWeight(args[0])

		case "exercises":
			var err error
			exercises, err = api.ListExercises(ctx, 1)
			if err != nil {
				fmt.Printf("  [!] %v\n", err)
				continue
			}
			for i, ex := range exercises {
				fmt.Printf("  %2d. %s (%s, used %d times)\n", i+1, ex.Name, ex.Category, ex.UsageCount)
			}

		case "add":
			if len(args) != 1 {
				fmt.Println("  usage: add <exercise number from 'exercises'>")
				continue
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 || n > len(exercises) {
				fmt.Println("  run 'exercises' first and pick a listed number")
				continue
			}
			ex := exercises[n-1]
			editor.AddExercise(workout.ExerciseRef{ID: ex.ID, Name: ex.Name, Category: string(ex.Category)})

		case "addset":
			ex, ok := pickExercise(editor, args, 0)
			if !ok {
				continue
			}
			editor.AddSet(ex.ExerciseID)

		case "set":
			// set <exNo> <setNo> <weight> <reps> [remarks...]
			if len(args) < 4 {
				fmt.Println("  usage: set <exNo> <setNo> <weight> <reps> [remarks]")
				continue
			}
			ex, ok := pickExercise(editor, args, 0)
			if !ok {
				continue
			}
			setNo, err := strconv.Atoi(args[1])
			if err != nil || setNo < 1 || setNo > len(ex.Sets) {
				fmt.Println("  no such set")
				continue
			}
			weight, reps := args[2], args[3]
			remarks := strings.Join(args[4:], " ")
			setID := ex.Sets[setNo-1].ID
			editor.UpdateSet(ex.ExerciseID, setID, workout.SetPatch{Weight: &weight, Reps: &reps, Remarks: &remarks})
			editor.SaveSet(ex.ExerciseID, setID)

		case "delset":
			if len(args) != 2 {
				fmt.Println("  usage: delset <exNo> <setNo>")
				continue
			}
			ex, ok := pickExercise(editor, args, 0)
			if !ok {
				continue
			}
			setNo, err := strconv.Atoi(args[1])
			if err != nil || setNo < 1 || setNo > len(ex.Sets) {
				fmt.Println("  no such set")
				continue
			}
			editor.DeleteSet(ex.ExerciseID, ex.Sets[setNo-1].ID)

		case "rmex":
			ex, ok := pickExercise(editor, args, 0)
			if !ok {
				continue
			}
			editor.RemoveExercise(ex.ExerciseID)

		case "timer":
			tm.Toggle()
			state := "paused"
			if tm.Running() {
				state = "running"
			}
			fmt.Printf("  %s (%s)\n", timer.FormatElapsed(tm.Elapsed()), state)

		case "entries":
			entries, err := editor.ListSavedEntries(ctx)
			if err != nil {
				fmt.Printf("  [!] %v\n", err)
				continue
			}
			if len(entries) == 0 {
				fmt.Println("  no saved entries")
				continue
			}
			for i, entry := range entries {
				fmt.Printf("  %2d. %s %s (%d exercises)\n", i+1, entry.Date, entry.Name, len(entry.Exercises))
			}

		case "resume":
			if len(args) != 1 {
				fmt.Println("  usage: resume <entry number from 'entries'>")
				continue
			}
			entries, err := editor.ListSavedEntries(ctx)
			if err != nil {
				fmt.Printf("  [!] %v\n", err)
				continue
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 || n > len(entries) {
				fmt.Println("  no such entry")
				continue
			}
			editor.LoadSavedEntry(entries[n-1])
			fmt.Println("  entry loaded")

		case "history":
			workouts, err := api.ListWorkoutHistory(ctx, 1)
			if err != nil {
				fmt.Printf("  [!] %v\n", err)
				continue
			}
			for _, w := range workouts {
				fmt.Printf("  %s  %-20s %d exercises\n", w.Date, w.Name, len(w.Exercises))
			}

		case "save":
			if err := editor.SaveCurrentEntry(ctx); err != nil {
				fmt.Printf("  [!] save failed: %v\n", err)
			}

		case "end":
			if editor.EndWorkout(ctx) {
				tm.Reset()
				if err := session.ClearSession(); err != nil {
					fmt.Printf("  [!] clearing session: %v\n", err)
				}
			}

		case "quit", "exit":
			persist(editor, tm, session)
			return

		default:
			fmt.Printf("  unknown command %q — try 'help'\n", cmd)
		}
	}
}

// pickExercise resolves args[idx] as a 1-based exercise index into the draft.
func pickExercise(editor *workout.Editor, args []string, idx int) (workout.DraftExercise, bool) {
	d := editor.State()
	if len(args) <= idx {
		fmt.Println("  missing exercise number")
		return workout.DraftExercise{}, false
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil || n < 1 || n > len(d.Exercises) {
		fmt.Println("  no such exercise in the draft")
		return workout.DraftExercise{}, false
	}
	return d.Exercises[n-1], true
}

func persist(editor *workout.Editor, tm *timer.Timer, session *client.SessionDB) {
	d := editor.State()
	if err := session.SaveSession(d, tm.Elapsed()); err != nil {
		fmt.Fprintf(os.Stderr, "saving session: %v\n", err)
	}
	fmt.Println("session saved, bye")
}

func printStatus(d workout.Draft, tm *timer.Timer) {
	active := "inactive"
	if d.Active {
		active = "active"
	}
	fmt.Printf("  %s %q on %s  [%s]  timer %s\n", active, d.Name, d.Date, bodyWeightLabel(d.BodyWeight), timer.FormatElapsed(tm.Elapsed()))
	for i, ex := range d.Exercises {
		fmt.Printf("  %2d. %s (%s)\n", i+1, ex.Name, ex.Category)
		for j, set := range ex.Sets {
			mark := " "
			if set.Saved {
				mark = "*"
			}
			fmt.Printf("      %s set %d: %s x %s  %s\n", mark, j+1, orDash(set.Weight), orDash(set.Reps), set.Remarks)
		}
	}
}

func bodyWeightLabel(bw string) string {
	if bw == "" {
		return "no bw"
	}
	return "bw " + bw
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func printHelp() {
	fmt.Print(`  status                      show the current draft and timer
  start                       mark the workout active and start the timer
  name <text>                 set the workout label
  date <YYYY-MM-DD>           set the workout date
  bw <weight>                 set body weight
  exercises                   list exercise definitions from the server
  add <n>                     add exercise n from the last 'exercises' listing
  addset <exNo>               add an empty set to a draft exercise
  set <exNo> <setNo> <w> <r> [remarks]   fill in and commit a set
  delset <exNo> <setNo>       delete a set
  rmex <exNo>                 remove an exercise from the draft
  timer                       toggle the workout timer
  entries                     list in-progress saved entries
  resume <n>                  load saved entry n for editing
  history                     list recent finalized workouts
  save                        save the draft as an entry immediately
  end                         finalize the workout
  quit                        persist the session locally and exit
`)
}
