package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/davri/kardo/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	statStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

func priorityMarker(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("!!")
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Render("! ")
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("- ")
	case model.PriorityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Render(". ")
	default:
		return "  "
	}
}

func renderTaskList(board model.Board, tasks []model.Task) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d tasks)", board.Name, len(tasks))))

	if len(tasks) == 0 {
		fmt.Println("  nothing here")
		return
	}

	now := time.Now()
	for _, t := range tasks {
		line := fmt.Sprintf("%s [%s] %s", priorityMarker(t.Priority), t.Status, t.Title)
		if t.Status == model.StatusDone {
			line = doneStyle.Render(line)
		}

		due := formatDueDate(t.DueDate)
		if t.IsOverdue(now) {
			due = lateStyle.Render("overdue " + due)
		} else {
			due = dueStyle.Render(due)
		}

		extras := []string{due}
		if len(t.Tags) > 0 {
			extras = append(extras, tagStyle.Render("@"+strings.Join(t.Tags, " @")))
		}
		if t.IsRecurring() {
			extras = append(extras, string(t.Recurrence))
		}

		fmt.Printf("  %s  (%s)\n", line, strings.Join(extras, ", "))
	}
}

func renderStats(stats model.UserStats) {
	fmt.Println(headerStyle.Render("Your progress"))
	fmt.Printf("  Level:     %s\n", statStyle.Render(fmt.Sprintf("%d", stats.Level)))
	fmt.Printf("  Points:    %d (%d to next level)\n",
		stats.TotalPoints,
		model.PointsPerLevel-stats.TotalPoints%model.PointsPerLevel)
	fmt.Printf("  Completed: %d tasks\n", stats.CompletedTasks)
	if stats.CurrentStreak > 0 {
		fmt.Printf("  Streak:    %s\n", statStyle.Render(fmt.Sprintf("%d day(s)", stats.CurrentStreak)))
	} else {
		fmt.Println("  Streak:    none yet")
	}
}
