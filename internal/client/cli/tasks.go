package cli

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/dmitrijs2005/taskboard/internal/filex"
	"github.com/dmitrijs2005/taskboard/internal/netx"
)

// downloadFn is a test seam for fetching export snapshots.
var downloadFn = netx.DownloadPresignedURL

func (a *App) Refresh(ctx context.Context) error {
	tasks, err := a.taskService.Refresh(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d task(s) loaded\n", len(tasks))
	return nil
}

// List prints cached tasks, newest first.
func (a *App) List(ctx context.Context) error {
	entries, err := a.taskService.Tasks(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No tasks yet")
		return nil
	}
	for _, e := range entries {
		printTaskLine(a.out, e.Task, e.Pending)
	}
	return nil
}

// Board prints the three status columns, narrowed by query and status.
func (a *App) Board(ctx context.Context, query, status string) error {
	var st models.Status
	if status != "" {
		parsed, err := models.ParseStatus(status)
		if err != nil {
			fmt.Fprintln(a.out, "Error: Invalid status value")
			return err
		}
		st = parsed
	}

	b, err := a.taskService.Board(ctx, query, st)
	if err != nil {
		return err
	}
	printBoard(a.out, b)
	return nil
}

// Add prompts for a new task.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	desc, err := getMultiline(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "Status [todo|in_progress|done] (default todo)", a.out)
	if err != nil {
		return err
	}

	in := models.NewTask{Title: title}
	if desc != "" {
		in.Description = &desc
	}
	if status != "" {
		st, err := models.ParseStatus(status)
		if err != nil {
			fmt.Fprintln(a.out, "Error: Invalid status value")
			return err
		}
		in.Status = st
	}

	t, err := a.taskService.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", shortID(t.ID))
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	full, err := a.taskService.Resolve(ctx, id)
	if err != nil {
		return err
	}
	e, err := a.taskService.Task(ctx, full)
	if err != nil {
		return err
	}
	printTaskDetails(a.out, e.Task, e.Pending)
	return nil
}

func (a *App) Move(ctx context.Context, id, status string) error {
	full, err := a.taskService.Resolve(ctx, id)
	if err != nil {
		return err
	}
	t, err := a.taskService.ChangeStatus(ctx, full, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s moved to %s\n", shortID(t.ID), t.Status.Label())
	return nil
}

// Edit prompts for each field; an empty answer keeps the current value and
// "-" clears the description.
func (a *App) Edit(ctx context.Context, id string) error {
	full, err := a.taskService.Resolve(ctx, id)
	if err != nil {
		return err
	}
	e, err := a.taskService.Task(ctx, full)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", e.Task.Title), a.out)
	if err != nil {
		return err
	}
	desc, err := getMultiline(a.reader, "Description (empty keeps, '-' clears)", a.out)
	if err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, fmt.Sprintf("Status [%s]", e.Task.Status), a.out)
	if err != nil {
		return err
	}

	var u models.TaskUpdate
	if title != "" {
		u.Title = &title
	}
	switch desc {
	case "":
	case "-":
		u.ClearDescription = true
	default:
		u.Description = &desc
	}
	if status != "" {
		st, err := models.ParseStatus(status)
		if err != nil {
			fmt.Fprintln(a.out, "Error: Invalid status value")
			return err
		}
		u.Status = &st
	}
	if u.Empty() {
		fmt.Fprintln(a.out, "Nothing changed")
		return nil
	}

	t, err := a.taskService.Update(ctx, full, u)
	if err != nil {
		return err
	}
	printTaskDetails(a.out, t, false)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	full, err := a.taskService.Resolve(ctx, id)
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %s? [y/N]", shortID(full)), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	return a.taskService.Delete(ctx, full)
}

// Export asks the server for a snapshot link. With a non-empty dir the
// snapshot is also downloaded there.
func (a *App) Export(ctx context.Context, dir string) error {
	e, err := a.taskService.Export(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d task(s). Download until %s:\n%s\n",
		e.Count, e.ExpiresAt.Local().Format("2006-01-02 15:04"), e.URL)

	if dir == "" {
		return nil
	}

	name := path.Base(e.Key)
	if name == "." || name == "/" {
		name = "tasks.json"
	}
	saved, err := filex.SaveFile(dir, name, func(w io.Writer) error {
		_, err := downloadFn(ctx, e.URL, w)
		return err
	})
	if err != nil {
		fmt.Fprintln(a.out, "Error: Failed to download export")
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", saved)
	return nil
}
