package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/davri/kardo/internal/app"
	"github.com/davri/kardo/internal/config"
	"github.com/davri/kardo/internal/core"
	"github.com/davri/kardo/internal/model"
	"github.com/davri/kardo/internal/server"
)

var (
	version = "0.1.0"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			handleAdd(os.Args[2:])
			return
		case "list":
			handleList(os.Args[2:])
			return
		case "stats":
			handleStats()
			return
		case "serve":
			handleServe(os.Args[2:])
			return
		case "version":
			fmt.Printf("kardo v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	printHelp()
}

func printHelp() {
	help := `kardo - a points-driven kanban board

Usage:
  kardo serve               Run the HTTP API (and the auto-archive timer)
  kardo add <task>          Quick add a task to the current board
  kardo list                List the current board's tasks
  kardo stats               Show points, level and streak
  kardo version             Show version
  kardo help                Show this help

Quick Add Syntax:
  kardo add "Buy groceries"
  kardo add "Review PR @work !high +blue due:tomorrow"

  Tags:      @tag           (e.g., @home, @work, @errands)
  Labels:    +color         (green yellow red blue purple orange gray pink)
  Priority:  !low !medium !high !critical
  Due date:  due:tomorrow due:friday due:2026-01-15  (default: today)
  Board:     board:Work     (default: current board)

List Options:
  --status / --priority / --tag / --label / --due   Filter
  --sort <field> --asc                              Order

Serve Options:
  --addr <host:port>   HTTP listen address (default :8080)

For more info: https://github.com/davri/kardo`

	fmt.Println(help)
}

func loadConfig() config.Config {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		return config.Default()
	}
	return cfg
}

func openApp() *app.App {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	application, err := app.New(loadConfig(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return application
}

func handleAdd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: kardo add <task>")
		fmt.Fprintln(os.Stderr, "Example: kardo add \"Buy groceries @errands !high due:tomorrow\"")
		os.Exit(1)
	}

	input, boardName := parseQuickAdd(strings.Join(args, " "))

	application := openApp()
	defer application.Close()

	board := application.Boards.CurrentBoard()
	if boardName != "" {
		if found := findBoardByName(application.Boards.Boards(), boardName); found != nil {
			board = *found
		} else {
			fmt.Fprintf(os.Stderr, "Warning: no board named %q, using %q\n", boardName, board.Name)
		}
	}

	input.BoardID = board.ID
	task := application.Tasks.AddTask(input)

	fmt.Printf("Created: %s\n", task.Title)
	fmt.Printf("Due: %s\n", formatDueDate(task.DueDate))
	if task.Priority != model.PriorityNone {
		fmt.Printf("Priority: %s (%d pts)\n", task.Priority, task.Points)
	}
	if len(task.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(task.Tags, ", "))
	}
	if len(task.Labels) > 0 {
		fmt.Printf("Labels: %s\n", strings.Join(task.Labels, ", "))
	}
}

func handleList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	statusFlag := fs.String("status", "", "Filter by status (todo, doing, done)")
	priorityFlag := fs.String("priority", "", "Filter by priority")
	tagFlag := fs.String("tag", "", "Filter by tag")
	labelFlag := fs.String("label", "", "Filter by label color")
	dueFlag := fs.String("due", "", "Filter by due bucket (today, tomorrow, week, overdue)")
	searchFlag := fs.String("search", "", "Search title and description")
	sortFlag := fs.String("sort", "", "Sort field (title, priority, dueDate, points, status, createdAt)")
	ascFlag := fs.Bool("asc", false, "Sort ascending")
	fs.Parse(args)

	application := openApp()
	defer application.Close()

	board := application.Boards.CurrentBoard()
	filter := core.Filter{
		Search:   *searchFlag,
		Status:   *statusFlag,
		Priority: *priorityFlag,
		Tag:      *tagFlag,
		Label:    *labelFlag,
		Due:      *dueFlag,
	}
	sortSpec := core.DefaultSort()
	if *sortFlag != "" {
		sortSpec = core.Sort{Field: core.SortField(*sortFlag), Descending: !*ascFlag}
	}

	tasks := core.ApplyView(application.Tasks.GetTasksByBoard(board.ID), filter, sortSpec, time.Now())
	renderTaskList(board, tasks)
}

func handleStats() {
	application := openApp()
	defer application.Close()

	renderStats(application.Tasks.Stats())
}

func handleServe(args []string) {
	cfg := loadConfig()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addrFlag := fs.String("addr", cfg.HTTPAddr, "HTTP listen address")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer application.Close()

	srv := server.New(application, logger)
	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	// The archiver does not schedule itself; this ticker is the external
	// scheduler collaborator, firing once per minute so each archive-time
	// window is checked at most once.
	stopTicker := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				if count := application.Archiver.CheckAutoArchiveTime(now); count > 0 {
					logger.Info("auto-archive swept tasks", slog.Int("count", count))
					if err := application.Notifier.SendAutoArchive(count); err != nil {
						logger.Warn("notification failed", slog.String("error", err.Error()))
					}
				}
			case <-stopTicker:
				return
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(stopTicker)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

func parseQuickAdd(text string) (core.TaskInput, string) {
	input := core.TaskInput{
		Status:     model.StatusTodo,
		Recurrence: model.RecurrenceNone,
	}

	words := strings.Fields(text)
	var titleParts []string
	var dueDate *time.Time
	var boardName string

	for _, word := range words {
		switch {
		// Tags (@home, @work, etc.)
		case strings.HasPrefix(word, "@") && len(word) > 1:
			input.Tags = append(input.Tags, strings.TrimPrefix(word, "@"))

		// Labels (+blue, +red, etc.)
		case strings.HasPrefix(word, "+") && model.ValidLabel(strings.TrimPrefix(word, "+")):
			input.Labels = append(input.Labels, strings.TrimPrefix(word, "+"))

		// Priority (!low, !high, etc.)
		case strings.HasPrefix(word, "!"):
			priority := strings.ToLower(strings.TrimPrefix(word, "!"))
			switch priority {
			case "low", "l":
				input.Priority = model.PriorityLow
			case "medium", "med", "m":
				input.Priority = model.PriorityMedium
			case "high", "hi", "h":
				input.Priority = model.PriorityHigh
			case "critical", "crit", "c":
				input.Priority = model.PriorityCritical
			default:
				titleParts = append(titleParts, word)
			}

		// Target board (board:Work)
		case strings.HasPrefix(strings.ToLower(word), "board:") && len(word) > len("board:"):
			boardName = word[len("board:"):]

		// Due date (due:tomorrow, due:friday, due:2026-01-15)
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := parseNaturalDate(dateStr); parsed != nil {
				dueDate = parsed
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	input.Title = strings.Join(titleParts, " ")
	if dueDate == nil {
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		dueDate = &today
	}
	input.DueDate = *dueDate
	return input, boardName
}

func findBoardByName(boards []model.Board, name string) *model.Board {
	for i := range boards {
		if strings.EqualFold(boards[i].Name, name) {
			return &boards[i]
		}
	}
	return nil
}

func parseNaturalDate(s string) *time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(s) {
	case "today":
		return &today
	case "tomorrow", "tom":
		t := today.AddDate(0, 0, 1)
		return &t
	case "monday", "mon":
		return nextWeekday(time.Monday)
	case "tuesday", "tue":
		return nextWeekday(time.Tuesday)
	case "wednesday", "wed":
		return nextWeekday(time.Wednesday)
	case "thursday", "thu":
		return nextWeekday(time.Thursday)
	case "friday", "fri":
		return nextWeekday(time.Friday)
	case "saturday", "sat":
		return nextWeekday(time.Saturday)
	case "sunday", "sun":
		return nextWeekday(time.Sunday)
	case "nextweek":
		t := today.AddDate(0, 0, 7)
		return &t
	}

	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"01-02-2006",
		"Jan 2",
		"Jan 2, 2006",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, now.Location()); err == nil {
			// If no year, use current year
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
			}
			return &t
		}
	}

	return nil
}

func nextWeekday(day time.Weekday) *time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	daysUntil := int(day - now.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	t := today.AddDate(0, 0, daysUntil)
	return &t
}

func formatDueDate(t time.Time) string {
	now := time.Now()

	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return "today"
	}

	tomorrow := now.AddDate(0, 0, 1)
	if t.Year() == tomorrow.Year() && t.YearDay() == tomorrow.YearDay() {
		return "tomorrow"
	}

	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}

	return t.Format("Jan 2, 2006")
}
