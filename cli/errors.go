package cli

import (
	"errors"

	"cmdvault/db"
	"cmdvault/model"
)

// userMessage adds a hint for the errors a user can act on.
func userMessage(err error) string {
	switch {
	case errors.Is(err, db.ErrStorageUnavailable):
		return err.Error() + "\n\nCheck [database] path in the config file, or pass --db."
	case errors.Is(err, db.ErrNotFound):
		return err.Error() + "\n\nRun 'cmdvault query' to list ids."
	case errors.Is(err, model.ErrValidation):
		return err.Error() + "\n\nCategory, subcategory, title and command must not be empty."
	case errors.Is(err, errMissingValue):
		return err.Error() + "\n\nPass name=value arguments, or run in a terminal to be prompted."
	}
	return err.Error()
}
