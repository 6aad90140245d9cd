// Package service implements the application logic between the HTTP layer
// and the store.
package service

import "github.com/junkjournalapp/junkjournal-server/internal/validation"

// validate is shared by all services; the validator is safe for concurrent use.
var validate = validation.New()
