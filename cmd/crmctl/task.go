package main

import (
	"fmt"
	"strings"

	"project-crm-api/internal/apiclient"
	"project-crm-api/internal/board"
	"project-crm-api/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create and move tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task at the end of its column",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		due, _ := cmd.Flags().GetString("due")

		in := apiclient.TaskInput{
			Title:    strings.Join(args, " "),
			Status:   models.TaskStatus(status),
			Priority: models.Priority(priority),
		}
		if projectID != "" {
			in.ProjectID = &projectID
		}
		if due != "" {
			in.DueDate = &due
		}

		task, err := client.CreateTask(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s in %s at position %d\n", task.ID, task.Status, task.Position)
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id> <status>",
	Short: "Drag a task to another column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseStatus(args[1])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		b := board.New(client, projectID, zap.NewNop())
		if err := b.Refresh(cmd.Context()); err != nil {
			return err
		}
		session, err := b.StartDrag(args[0])
		if err != nil {
			return err
		}
		defer b.EndDrag()

		if session.SourceStatus == target {
			fmt.Fprintf(cmd.OutOrStdout(), "Task already in %s\n", target)
			return nil
		}
		if err := <-b.Drop(cmd.Context(), target); err != nil {
			return fmt.Errorf("move rejected, board reloaded: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderBoard(b.Columns()))
		return nil
	},
}

func parseStatus(s string) (models.TaskStatus, error) {
	for _, status := range models.KanbanColumns {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (want one of backlog, in_progress, blocked, done)", s)
}

func init() {
	taskAddCmd.Flags().String("status", string(models.StatusBacklog), "column to create the task in")
	taskAddCmd.Flags().String("priority", string(models.PriorityMedium), "low, medium, high or urgent")
	taskAddCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")

	taskCmd.AddCommand(taskAddCmd, taskMoveCmd)
	rootCmd.AddCommand(taskCmd)
}
