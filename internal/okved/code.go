// Package okved builds the three-level OKVED hierarchy (main section, section,
// subsection) from code/name rows and answers read-only queries over it,
// including the 21 letter-grouped top sections.
package okved

import "strings"

// Level is the depth of a code in the hierarchy.
type Level int

const (
	// LevelInvalid marks an empty code or one with more than three segments.
	LevelInvalid Level = iota
	// LevelMain is a one-segment code, e.g. "01".
	LevelMain
	// LevelSection is a two-segment code, e.g. "01.1".
	LevelSection
	// LevelSubsection is a three-segment code, e.g. "01.11.1".
	LevelSubsection
)

// String returns the level name used in logs and API payloads.
func (l Level) String() string {
	switch l {
	case LevelMain:
		return "main"
	case LevelSection:
		return "section"
	case LevelSubsection:
		return "subsection"
	default:
		return "invalid"
	}
}

// Code is a parsed classification code with its parent keys.
type Code struct {
	Raw     string
	Level   Level
	Main    string // first segment; set for every valid level
	Section string // first two segments; set for subsections only
}

// ParseCode classifies a code by its dot-separated segment count. Segments
// are not checked to be numeric.
func ParseCode(code string) Code {
	c := Code{Raw: code}
	if code == "" {
		return c
	}

	parts := strings.Split(code, ".")
	switch len(parts) {
	case 1:
		c.Level = LevelMain
		c.Main = code
	case 2:
		c.Level = LevelSection
		c.Main = parts[0]
	case 3:
		c.Level = LevelSubsection
		c.Main = parts[0]
		c.Section = parts[0] + "." + parts[1]
	}
	return c
}

// Parent returns the code one level up, or "" for main and invalid codes.
func (c Code) Parent() string {
	switch c.Level {
	case LevelSection:
		return c.Main
	case LevelSubsection:
		return c.Section
	default:
		return ""
	}
}
