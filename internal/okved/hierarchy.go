package okved

import "slices"

// Row is a single code/name pair from the source table.
type Row struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Subsection is a depth-3 node.
type Subsection struct {
	Code string
	Name string
}

// Section is a depth-2 node with its subsections in insertion order.
type Section struct {
	Code        string
	Name        string
	Subsections []Subsection
	index       map[string]int
}

// MainSection is a depth-1 node with its sections in insertion order.
type MainSection struct {
	Code     string
	Name     string
	Sections []*Section
	index    map[string]int
}

// BuildStats counts what happened to the input rows during Build. Mains,
// Sections and Subsections are the node counts of the finished tree, so
// repeated codes and children discarded by an overwrite are not included.
type BuildStats struct {
	Rows        int `json:"rows"`
	Mains       int `json:"mains"`
	Sections    int `json:"sections"`
	Subsections int `json:"subsections"`
	Overwrites  int `json:"overwrites"`
	Orphans     int `json:"orphans"`
	Malformed   int `json:"malformed"`
}

// Hierarchy is the owned tree produced by Build. It is never mutated after
// Build returns.
type Hierarchy struct {
	mains []*MainSection
	index map[string]int
	stats BuildStats
}

// Build constructs the hierarchy from rows in a single ordered pass.
//
// A section or subsection whose parent has not been seen yet is dropped, so
// parents must precede their children. A repeated code replaces the earlier
// node in place and discards its children. Codes with no segments or more
// than three segments are ignored.
func Build(rows []Row) *Hierarchy {
	h := &Hierarchy{index: make(map[string]int)}
	h.stats.Rows = len(rows)

	for _, row := range rows {
		c := ParseCode(row.Code)
		switch c.Level {
		case LevelMain:
			h.putMain(row)
		case LevelSection:
			m, ok := h.main(c.Main)
			if !ok {
				h.stats.Orphans++
				continue
			}
			h.putSection(m, row)
		case LevelSubsection:
			s, ok := h.section(c.Main, c.Section)
			if !ok {
				h.stats.Orphans++
				continue
			}
			h.putSubsection(s, row)
		default:
			h.stats.Malformed++
		}
	}

	h.stats.Mains = len(h.mains)
	for _, m := range h.mains {
		h.stats.Sections += len(m.Sections)
		for _, sec := range m.Sections {
			h.stats.Subsections += len(sec.Subsections)
		}
	}
	return h
}

// SortByDepth returns a copy of rows ordered main sections first, then
// sections, then subsections, keeping input order within each level.
// Building from the result never drops a row whose parent exists anywhere
// in the input.
func SortByDepth(rows []Row) []Row {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int {
		return depthRank(a.Code) - depthRank(b.Code)
	})
	return sorted
}

// invalid codes sort last
func depthRank(code string) int {
	l := ParseCode(code).Level
	if l == LevelInvalid {
		return int(LevelSubsection) + 1
	}
	return int(l)
}

// Stats reports the counters collected during Build.
func (h *Hierarchy) Stats() BuildStats {
	return h.stats
}

// Len returns the number of main sections.
func (h *Hierarchy) Len() int {
	return len(h.mains)
}

func (h *Hierarchy) putMain(row Row) {
	m := &MainSection{Code: row.Code, Name: row.Name, index: make(map[string]int)}
	if i, ok := h.index[row.Code]; ok {
		h.stats.Overwrites++
		h.mains[i] = m
		return
	}
	h.index[row.Code] = len(h.mains)
	h.mains = append(h.mains, m)
}

func (h *Hierarchy) putSection(m *MainSection, row Row) {
	s := &Section{Code: row.Code, Name: row.Name, index: make(map[string]int)}
	if i, ok := m.index[row.Code]; ok {
		h.stats.Overwrites++
		m.Sections[i] = s
		return
	}
	m.index[row.Code] = len(m.Sections)
	m.Sections = append(m.Sections, s)
}

func (h *Hierarchy) putSubsection(s *Section, row Row) {
	if i, ok := s.index[row.Code]; ok {
		h.stats.Overwrites++
		s.Subsections[i].Name = row.Name
		return
	}
	s.index[row.Code] = len(s.Subsections)
	s.Subsections = append(s.Subsections, Subsection{Code: row.Code, Name: row.Name})
}

func (h *Hierarchy) main(code string) (*MainSection, bool) {
	i, ok := h.index[code]
	if !ok {
		return nil, false
	}
	return h.mains[i], true
}

func (h *Hierarchy) section(mainCode, code string) (*Section, bool) {
	m, ok := h.main(mainCode)
	if !ok {
		return nil, false
	}
	i, ok := m.index[code]
	if !ok {
		return nil, false
	}
	return m.Sections[i], true
}

func (h *Hierarchy) subsection(mainCode, sectionCode, code string) (Subsection, bool) {
	s, ok := h.section(mainCode, sectionCode)
	if !ok {
		return Subsection{}, false
	}
	i, ok := s.index[code]
	if !ok {
		return Subsection{}, false
	}
	return s.Subsections[i], true
}
