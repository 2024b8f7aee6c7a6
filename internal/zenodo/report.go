// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zenodo

import "strings"

// Report is the line-oriented "Key: value" text zenodo-cli prints for a
// deposit. Fields are extracted by locating the first line beginning
// with "<Key>:" and taking the remainder of that line.
type Report string

// Field returns the trimmed value of the first line starting with
// "key:", or "" when no such line exists. Values may themselves contain
// colons (URLs); only the first colon splits.
func (r Report) Field(key string) string {
	prefix := key + ":"
	for _, line := range strings.Split(string(r), "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	return ""
}
