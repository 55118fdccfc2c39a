package cmd

import (
	"fmt"
	"strconv"
	"time"

	"quizreel/internal/ledger"
	"quizreel/pkg/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var queueHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the upload and comment ledger",
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled answer comments",
	RunE:  runQueueList,
}

var queueStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List recorded uploads",
	RunE:  runQueueStatus,
}

func init() {
	queueCmd.AddCommand(queueListCmd)
	queueCmd.AddCommand(queueStatusCmd)
	rootCmd.AddCommand(queueCmd)
}

func openStore() (*ledger.Store, error) {
	cfg := config.Load()
	return ledger.Open(cfg.LedgerPath())
}

func runQueueList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	comments, err := store.ListComments(cmd.Context())
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		fmt.Println("No scheduled comments")
		return nil
	}

	fmt.Println(queueHeaderStyle.Render("Scheduled comments"))
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Platform", "Video", "Run at", "Attempts", "Last error", "Posted"})
	for _, c := range comments {
		posted := ""
		if c.Posted() {
			posted = c.PostedAt.Local().Format(time.RFC3339)
		}
		tw.AppendRow(table.Row{
			c.Platform,
			c.VideoID,
			c.RunAt.Local().Format(time.RFC3339),
			strconv.Itoa(c.Attempts),
			c.LastError,
			posted,
		})
	}
	fmt.Println(tw.Render())
	return nil
}

func runQueueStatus(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	uploads, err := store.ListUploads(cmd.Context(), 50)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		fmt.Println("No uploads recorded")
		return nil
	}

	fmt.Println(queueHeaderStyle.Render("Recent uploads"))
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Platform", "Video", "Title", "Uploaded at", "Commented"})
	for _, u := range uploads {
		commented := "no"
		if u.Commented {
			commented = "yes"
		}
		tw.AppendRow(table.Row{
			u.Platform,
			u.VideoID,
			u.Title,
			u.UploadedAt.Local().Format(time.RFC3339),
			commented,
		})
	}
	fmt.Println(tw.Render())
	return nil
}
