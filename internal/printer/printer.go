package printer

import (
	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/model"
)

// Printer knows how to print task information in different formats.
type Printer interface {
	PrintList(view list.Response) error
	PrintTask(task model.Task) error
	PrintMessage(msg string) error
}
