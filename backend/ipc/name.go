package ipc

import "regexp"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func sanitizeName(name string) string {
	return unsafeChars.ReplaceAllString(name, "")
}
