package stores

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid store construction arguments.
type ValidationError struct {
	Reason string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("store construction failed: %s", ve.Reason)
}

var (
	// ErrScanAborted is returned through KeysByPart sequences when a
	// backend scan cannot continue.
	ErrScanAborted = errors.New("key scan aborted")
)
