package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/client/models"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func pendingMark(pending bool) string {
	if pending {
		return " (saving...)"
	}
	return ""
}

func printTaskLine(w io.Writer, t *models.Task, pending bool) {
	fmt.Fprintf(w, "%s  %-11s  %s%s\n", shortID(t.ID), t.Status.Label(), t.Title, pendingMark(pending))
}

func printTaskDetails(w io.Writer, t *models.Task, pending bool) {
	fmt.Fprintf(w, "ID:          %s%s\n", t.ID, pendingMark(pending))
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	fmt.Fprintf(w, "Status:      %s\n", t.Status.Label())
	if d := t.DescriptionText(); d != "" {
		fmt.Fprintf(w, "Description: %s\n", strings.ReplaceAll(d, "\n", "\n             "))
	}
	fmt.Fprintf(w, "Created:     %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Updated:     %s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

func printBoard(w io.Writer, b *models.Board) {
	for _, col := range b.Columns {
		fmt.Fprintf(w, "== %s (%d) ==\n", col.Title, len(col.Tasks))
		for _, t := range col.Tasks {
			fmt.Fprintf(w, "  %s  %s\n", shortID(t.ID), t.Title)
		}
	}
	if b.Total == 0 {
		fmt.Fprintln(w, "No matching tasks")
	}
}
