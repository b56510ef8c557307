package directory

import "fmt"

// NotFoundError indicates the project does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.ID)
}

// DuplicateIDError indicates the project ID is already taken.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("project id already exists: %s", e.ID)
}

// ForbiddenError indicates the user is not a member of the project.
type ForbiddenError struct {
	ID     string
	UserID string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("user %s is not a member of project %s", e.UserID, e.ID)
}

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps a persistence failure.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
