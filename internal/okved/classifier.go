package okved

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// ErrTopSectionNotFound is returned for an unknown top section identifier.
var ErrTopSectionNotFound = eris.New("top section not found")

// NotFoundMessage renders the user-facing message for an unknown top section.
func NotFoundMessage(id string) string {
	return fmt.Sprintf("Раздел %s не найден.", id)
}

// Entry is a code/name pair in query results. Top section entries carry the
// letter identifier in Code.
type Entry struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Node describes a single code found in the hierarchy.
type Node struct {
	Code       string `json:"code" yaml:"code"`
	Name       string `json:"name" yaml:"name"`
	Level      string `json:"level" yaml:"level"`
	Parent     string `json:"parent,omitempty" yaml:"parent,omitempty"`
	TopSection string `json:"top_section,omitempty" yaml:"top_section,omitempty"`
}

// Option configures a Classifier.
type Option func(*options)

type options struct {
	orderIndependent bool
	topSections      []TopSection
}

// WithOrderIndependent sorts rows by depth before building so that children
// listed before their parents are kept.
func WithOrderIndependent(enabled bool) Option {
	return func(o *options) { o.orderIndependent = enabled }
}

// WithTopSections replaces the built-in letter table.
func WithTopSections(table []TopSection) Option {
	return func(o *options) { o.topSections = cloneTopSections(table) }
}

// Classifier answers queries over a hierarchy built once at construction.
// All methods are read-only and safe for concurrent use.
type Classifier struct {
	h   *Hierarchy
	top []TopSection
}

// New builds the hierarchy from rows and attaches the top section table.
func New(rows []Row, opts ...Option) *Classifier {
	o := options{topSections: topSections}
	for _, opt := range opts {
		opt(&o)
	}

	if o.orderIndependent {
		rows = SortByDepth(rows)
	}
	h := Build(rows)

	s := h.Stats()
	zap.L().Debug("okved: hierarchy built",
		zap.Int("rows", s.Rows),
		zap.Int("mains", s.Mains),
		zap.Int("sections", s.Sections),
		zap.Int("subsections", s.Subsections),
		zap.Int("overwrites", s.Overwrites),
		zap.Int("orphans", s.Orphans),
		zap.Int("malformed", s.Malformed),
		zap.Bool("order_independent", o.orderIndependent),
	)

	return &Classifier{h: h, top: o.topSections}
}

// Stats reports the build counters.
func (c *Classifier) Stats() BuildStats {
	return c.h.Stats()
}

// Len returns the number of main sections in the hierarchy.
func (c *Classifier) Len() int {
	return c.h.Len()
}

// NameByCode returns the name of a code at any level.
func (c *Classifier) NameByCode(code string) (string, bool) {
	p := ParseCode(code)
	switch p.Level {
	case LevelMain:
		m, ok := c.h.main(code)
		if !ok {
			return "", false
		}
		return m.Name, true
	case LevelSection:
		s, ok := c.h.section(p.Main, code)
		if !ok {
			return "", false
		}
		return s.Name, true
	case LevelSubsection:
		sub, ok := c.h.subsection(p.Main, p.Section, code)
		if !ok {
			return "", false
		}
		return sub.Name, true
	}
	return "", false
}

// Lookup returns the node for code with its level, parent and top section.
func (c *Classifier) Lookup(code string) (Node, bool) {
	name, ok := c.NameByCode(code)
	if !ok {
		return Node{}, false
	}
	p := ParseCode(code)
	top, _ := topSectionOf(c.top, code)
	return Node{
		Code:       code,
		Name:       name,
		Level:      p.Level.String(),
		Parent:     p.Parent(),
		TopSection: top,
	}, true
}

// ChildrenByCode lists the descendants of a main section or section.
// For a main section every section is followed by its subsections. Unknown
// codes and subsections yield an empty slice.
func (c *Classifier) ChildrenByCode(code string) []Entry {
	children := []Entry{}
	c.walkChildren(code, func(e Entry) {
		children = append(children, e)
	})
	return children
}

// ChildrenCodesByCode is ChildrenByCode without names.
func (c *Classifier) ChildrenCodesByCode(code string) []string {
	codes := []string{}
	c.walkChildren(code, func(e Entry) {
		codes = append(codes, e.Code)
	})
	return codes
}

func (c *Classifier) walkChildren(code string, visit func(Entry)) {
	p := ParseCode(code)
	switch p.Level {
	case LevelMain:
		m, ok := c.h.main(code)
		if !ok {
			return
		}
		for _, s := range m.Sections {
			visit(Entry{Code: s.Code, Name: s.Name})
			for _, sub := range s.Subsections {
				visit(Entry{Code: sub.Code, Name: sub.Name})
			}
		}
	case LevelSection:
		s, ok := c.h.section(p.Main, code)
		if !ok {
			return
		}
		for _, sub := range s.Subsections {
			visit(Entry{Code: sub.Code, Name: sub.Name})
		}
	}
}

// AllSections lists every main section in insertion order.
func (c *Classifier) AllSections() []Entry {
	out := make([]Entry, 0, len(c.h.mains))
	for _, m := range c.h.mains {
		out = append(out, Entry{Code: m.Code, Name: m.Name})
	}
	return out
}

// AllTopSections lists every top section identifier and name in table order.
func (c *Classifier) AllTopSections() []Entry {
	out := make([]Entry, 0, len(c.top))
	for _, ts := range c.top {
		out = append(out, Entry{Code: ts.ID, Name: ts.Name})
	}
	return out
}

// TopSections returns a copy of the table this classifier was built with.
func (c *Classifier) TopSections() []TopSection {
	return cloneTopSections(c.top)
}

// ChildrenByTopSection lists each main section owned by the top section
// followed by its full ChildrenByCode expansion. A main code absent from
// the hierarchy is still listed, with an empty name.
func (c *Classifier) ChildrenByTopSection(id string) ([]Entry, error) {
	ts, ok := findTopSection(c.top, id)
	if !ok {
		return nil, eris.Wrap(ErrTopSectionNotFound, NotFoundMessage(id))
	}

	return c.expand(ts, []Entry{}), nil
}

func (c *Classifier) expand(ts TopSection, out []Entry) []Entry {
	for _, code := range ts.Codes {
		name, _ := c.NameByCode(code)
		out = append(out, Entry{Code: code, Name: name})
		out = append(out, c.ChildrenByCode(code)...)
	}
	return out
}

// ChildrenCodesByTopSection is ChildrenByTopSection without names.
func (c *Classifier) ChildrenCodesByTopSection(id string) ([]string, error) {
	ts, ok := findTopSection(c.top, id)
	if !ok {
		return nil, eris.Wrap(ErrTopSectionNotFound, NotFoundMessage(id))
	}

	out := []string{}
	for _, code := range ts.Codes {
		out = append(out, code)
		out = append(out, c.ChildrenCodesByCode(code)...)
	}
	return out, nil
}

// FullList flattens the whole classifier: each top section entry followed by
// ChildrenByTopSection for it, in table order.
func (c *Classifier) FullList() []Entry {
	out := []Entry{}
	for _, ts := range c.top {
		out = append(out, Entry{Code: ts.ID, Name: ts.Name})
		out = c.expand(ts, out)
	}
	return out
}

// Search returns hierarchy entries whose code or name contains query,
// ignoring case. Results follow hierarchy order.
func (c *Classifier) Search(query string) []Entry {
	fold := cases.Fold()
	q := strings.TrimSpace(fold.String(query))
	out := []Entry{}
	if q == "" {
		return out
	}

	match := func(code, name string) {
		if strings.Contains(code, q) || strings.Contains(fold.String(name), q) {
			out = append(out, Entry{Code: code, Name: name})
		}
	}
	for _, m := range c.h.mains {
		match(m.Code, m.Name)
		for _, s := range m.Sections {
			match(s.Code, s.Name)
			for _, sub := range s.Subsections {
				match(sub.Code, sub.Name)
			}
		}
	}
	return out
}
