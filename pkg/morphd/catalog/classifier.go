package catalog

import "strings"

// DeriveExtension returns the text after the last '.' in filename,
// lower-cased. A name without a dot yields the whole name lower-cased;
// classification of such a value then fails as unrecognized rather than
// crashing the caller.
func DeriveExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return strings.ToLower(filename)
	}

	return strings.ToLower(filename[idx+1:])
}

// AvailableTargets lists every extension in the category except current, in
// catalog declaration order. A file is never offered its own format as a
// conversion target.
func AvailableTargets(c *Category, current string) []string {
	current = strings.ToLower(current)

	var targets []string
	for _, ext := range c.Extensions {
		if ext != current {
			targets = append(targets, ext)
		}
	}

	return targets
}
