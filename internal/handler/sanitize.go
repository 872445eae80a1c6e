package handler

import "github.com/microcosm-cc/bluemonday"

// textPolicy strips every HTML element from user supplied free text before it
// is echoed back to clients.
var textPolicy = bluemonday.StrictPolicy()

func sanitizeText(s string) string {
	return textPolicy.Sanitize(s)
}
