package printer

import (
	"encoding/json"
	"io"

	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/model"
)

// JSONPrinter prints task information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// taskOutput represents a task in the output, status is only set on lists.
type taskOutput struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Status    string `json:"status,omitempty"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintList prints tasks in JSON format.
func (j *JSONPrinter) PrintList(view list.Response) error {
	items := make([]taskOutput, len(view.Items))
	for i, it := range view.Items {
		items[i] = taskOutput{
			ID:        it.ID,
			Task:      it.Description,
			Date:      it.DueDate,
			Completed: it.Completed,
			Status:    string(it.Status),
		}
	}

	return j.encode(items)
}

// PrintTask prints a single task in JSON format.
func (j *JSONPrinter) PrintTask(task model.Task) error {
	return j.encode(taskOutput{
		ID:        task.ID,
		Task:      task.Description,
		Date:      task.DueDate,
		Completed: task.Completed,
	})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
