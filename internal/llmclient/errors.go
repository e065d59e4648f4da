// File: internal/llmclient/errors.go
package llmclient

import "fmt"

// ModelCallError reports a language-model call that failed at transport level
// or returned output the client could not use.
type ModelCallError struct {
	Provider string
	Err      error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("%s model call failed: %v", e.Provider, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }
