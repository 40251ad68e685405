package scrape

import "strings"

// Slugify lowercases a title and collapses every run of non-alphanumeric
// characters into a single hyphen, producing a name safe for Drive folders
// and filenames. Titles with no usable characters become "untitled".
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}
	slug := b.String()
	if slug == "" {
		return "untitled"
	}
	return slug
}
