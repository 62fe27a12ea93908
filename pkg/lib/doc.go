// Package lib provides a Go SDK for managing a task list programmatically.
//
// This package allows applications to read and change the same durable task
// list the web application and the CLI use, without shelling out to the
// tasklist binary.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{TasksFile: "tasks.json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	task, _ := client.AddTask(ctx, lib.AddTaskOpts{Description: "Buy milk", DueDate: "2026-10-19"})
//	tasks, _ := client.ListTasks(ctx, nil)
//	client.ToggleTask(ctx, task.ID)
//	client.RemoveTask(ctx, task.ID)
//
// # Storage
//
// Two storage backends are supported:
//
//   - [StorageFile]: A pretty printed JSON array file (default).
//   - [StorageSQLite]: A SQLite database with the same semantics.
//
// # Reminders
//
// [Client.DueToday] returns the reminders for the tasks due today, the same
// ones the web application shows after a change.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: No task with the given ID exists.
//   - [ErrNotValid]: Invalid input (e.g. an empty description or a malformed date).
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines, operations
// of the same client are serialized. Different processes sharing the same
// storage are not coordinated and the last write wins.
package lib
