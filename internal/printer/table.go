package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/model"
)

// TablePrinter prints task information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintList prints tasks in a table format.
func (t *TablePrinter) PrintList(view list.Response) error {
	if len(view.Items) == 0 {
		fmt.Fprintln(t.writer, "No tasks yet!")
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header.
	fmt.Fprintln(tw, "ID\tSTATUS\tDUE\tWHEN\tTASK")

	// Print rows.
	for _, it := range view.Items {
		due := it.DueDate
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Status, due, DueIn(it.Task, view.Today), it.Description)
	}

	return nil
}

// PrintTask prints a single task.
func (t *TablePrinter) PrintTask(task model.Task) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", task.ID)
	fmt.Fprintf(t.writer, "Task:       %s\n", task.Description)
	if task.DueDate != "" {
		fmt.Fprintf(t.writer, "Due:        %s\n", task.DueDate)
	}
	fmt.Fprintf(t.writer, "Completed:  %t\n", task.Completed)
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
