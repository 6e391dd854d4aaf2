package tools

import (
	"errors"
	"fmt"
	"strings"
)

// blockedMarkers are the historical message fragments emitted by gating
// wrappers when they refuse a call before the tool body runs. They are a
// fallback for gates outside this module; gates in this module return a
// typed *BlockedError.
var blockedMarkers = []string{
	"Tool call blocked",
	"blocked by plugin hook",
}

// BlockedError is returned when a before-call gate refuses a tool
// invocation. The underlying tool never ran.
type BlockedError struct {
	Tool   string
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("Tool call blocked by plugin hook: %s", e.Tool)
	}
	return fmt.Sprintf("Tool call blocked by plugin hook: %s", e.Reason)
}

// BlockedPredicate classifies an execution failure as a gate refusal.
type BlockedPredicate func(error) bool

// IsBlocked is the default BlockedPredicate: a typed *BlockedError
// anywhere in the chain, or a message containing one of the historical
// markers.
func IsBlocked(err error) bool {
	if err == nil {
		return false
	}
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return true
	}
	msg := err.Error()
	for _, marker := range blockedMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
