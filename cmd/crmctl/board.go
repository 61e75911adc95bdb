package main

import (
	"fmt"
	"strings"

	"project-crm-api/internal/board"
	"project-crm-api/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const columnWidth = 28

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(columnWidth)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	priorityColors = map[models.Priority]lipgloss.Color{
		models.PriorityLow:    lipgloss.Color("70"),
		models.PriorityMedium: lipgloss.Color("39"),
		models.PriorityHigh:   lipgloss.Color("214"),
		models.PriorityUrgent: lipgloss.Color("196"),
	}
)

var columnTitles = map[models.TaskStatus]string{
	models.StatusBacklog:    "Backlog",
	models.StatusInProgress: "In Progress",
	models.StatusBlocked:    "Blocked",
	models.StatusDone:       "Done",
}

// renderBoard lays the kanban columns out side by side
func renderBoard(cols map[models.TaskStatus][]models.Task) string {
	rendered := make([]string, 0, len(models.KanbanColumns))
	for _, status := range models.KanbanColumns {
		tasks := cols[status]
		lines := []string{headerStyle.Render(fmt.Sprintf("%s (%d)", columnTitles[status], len(tasks)))}
		if len(tasks) == 0 {
			lines = append(lines, mutedStyle.Render("empty"))
		}
		for _, t := range tasks {
			lines = append(lines, renderCard(t))
		}
		rendered = append(rendered, columnStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderCard(t models.Task) string {
	prio := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render(string(t.Priority))
	card := fmt.Sprintf("%d. %s\n   %s %s", t.Position, t.Title, prio, mutedStyle.Render(shortID(t.ID)))
	if t.Project != nil {
		card += "\n   " + mutedStyle.Render(t.Project.Name)
	}
	return card
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the kanban board",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		b := board.New(client, projectID, nil)
		if err := b.Refresh(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderBoard(b.Columns()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
