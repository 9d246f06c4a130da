package scheme

import "strings"

// TagSet is the parsed set of category labels from a comma-separated field.
// Tags are trimmed, non-empty and unique; first-seen order is kept for display.
type TagSet struct {
	tags []string
}

// ParseTagSet splits raw on commas into a TagSet.
func ParseTagSet(raw string) TagSet {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return TagSet{tags: tags}
}

// NewTagSet builds a TagSet from already separated tags.
func NewTagSet(tags ...string) TagSet {
	return ParseTagSet(strings.Join(tags, ","))
}

// Contains reports whether tag is in the set (exact, case-sensitive).
func (s TagSet) Contains(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns a copy of the tags in first-seen order.
func (s TagSet) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Len returns the number of tags.
func (s TagSet) Len() int { return len(s.tags) }

// IsEmpty reports whether the set has no tags.
func (s TagSet) IsEmpty() bool { return len(s.tags) == 0 }

// String joins the tags with ", ".
func (s TagSet) String() string { return strings.Join(s.tags, ", ") }
