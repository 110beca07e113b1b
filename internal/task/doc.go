// Package task implements the task lifecycle engine: the domain entity,
// the persistence contract and the validation and filtering rules.
//
// # Basic Usage
//
// Create a service backed by any Store implementation:
//
//	st := store.NewMemory()
//	svc := task.NewService(st)
//
//	created, err := svc.Create(ctx, task.CreateInput{
//	    Title:   "Buy milk",
//	    DueDate: &tomorrow,
//	})
//
// # Business rules
//
//   - Title is required and may not be blank; this is checked before
//     anything touches the store.
//   - A due date, when supplied on create or update, must be strictly
//     later than the current date. The comparison is at date
//     granularity: a task due later today is rejected. A stored due
//     date is never re-invalidated as time advances past it.
//   - Status is one of Pending, InProgress, Completed and defaults to
//     Pending. The engine enforces no transition rules between them.
//
// # Not-found semantics
//
// Get, Update and Delete report absence through their boolean return,
// not through an error. Callers handle "found" and "not found" as two
// normal outcomes; errors are reserved for validation and store
// failures.
//
// # Partial updates
//
// UpdateInput uses a pointer per field so "not supplied" and "supplied
// as zero" stay distinguishable. A supplied field always overwrites and
// is validated; a nil field leaves the stored value untouched.
package task
