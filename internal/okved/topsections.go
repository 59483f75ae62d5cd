package okved

import "slices"

// TopSection is a letter-identified grouping of main section codes.
type TopSection struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Codes []string `json:"codes" yaml:"codes"`
}

// topSections is the OKVED 2 letter table, A through U.
// Source: ОК 029-2014 (КДЕС Ред. 2)
var topSections = []TopSection{
	{ID: "A", Codes: []string{"01", "02", "03"}, Name: "Сельское, лесное хозяйство, охота, рыболовство и рыбоводство"},
	{ID: "B", Codes: []string{"05", "06", "07", "08", "09"}, Name: "Добыча полезных ископаемых"},
	{ID: "C", Codes: []string{"10", "11", "12", "13", "14", "15", "16", "17", "18", "19"}, Name: "Обрабатывающие производства"},
	{ID: "D", Codes: []string{"35"}, Name: "Обеспечение электрической энергией, газом и паром; кондиционирование воздуха"},
	{ID: "E", Codes: []string{"36", "37", "38", "39"}, Name: "Водоснабжение; водоотведение, организация сбора и утилизации отходов, деятельность по ликвидации загрязнений"},
	{ID: "F", Codes: []string{"41", "42", "43"}, Name: "Строительство"},
	{ID: "G", Codes: []string{"45", "46", "47"}, Name: "Оптовая и розничная торговля; ремонт автотранспортных средств и мотоциклов"},
	{ID: "H", Codes: []string{"49", "50", "51", "52", "53"}, Name: "Транспортировка и хранение"},
	{ID: "I", Codes: []string{"55", "56"}, Name: "Деятельность гостиниц и предприятий общественного питания"},
	{ID: "J", Codes: []string{"58", "59", "60", "61", "62", "63"}, Name: "Деятельность в области информации и связи"},
	{ID: "K", Codes: []string{"64", "65", "66"}, Name: "Финансовая и страховая деятельность"},
	{ID: "L", Codes: []string{"68"}, Name: "Деятельность по операциям с недвижимым имуществом"},
	{ID: "M", Codes: []string{"69", "70", "71", "72", "73", "74", "75"}, Name: "Профессиональная, научная и техническая деятельность"},
	{ID: "N", Codes: []string{"77", "78", "79", "80", "81", "82"}, Name: "Деятельность административная и сопутствующие дополнительные услуги"},
	{ID: "O", Codes: []string{"84"}, Name: "Государственное управление и обеспечение военной безопасности; социальное обеспечение"},
	{ID: "P", Codes: []string{"85"}, Name: "Образование"},
	{ID: "Q", Codes: []string{"86", "87", "88"}, Name: "Деятельность в области здравоохранения и социальных услуг"},
	{ID: "R", Codes: []string{"90", "91", "92", "93"}, Name: "Деятельность в области культуры, спорта, организации досуга и развлечений"},
	{ID: "S", Codes: []string{"94", "95", "96"}, Name: "Предоставление прочих видов услуг"},
	{ID: "T", Codes: []string{"97", "98"}, Name: "Деятельность домашних хозяйств"},
	{ID: "U", Codes: []string{"99"}, Name: "Деятельность экстерриториальных организаций и органов"},
}

// TopSections returns a copy of the letter table in declared order.
func TopSections() []TopSection {
	return cloneTopSections(topSections)
}

// LookupTopSection returns the top section with the given identifier.
func LookupTopSection(id string) (TopSection, bool) {
	return findTopSection(topSections, id)
}

// TopSectionOf returns the identifier of the top section owning the main
// section of code. Deeper codes resolve through their first segment.
func TopSectionOf(code string) (string, bool) {
	return topSectionOf(topSections, code)
}

func findTopSection(table []TopSection, id string) (TopSection, bool) {
	for _, ts := range table {
		if ts.ID == id {
			ts.Codes = slices.Clone(ts.Codes)
			return ts, true
		}
	}
	return TopSection{}, false
}

func topSectionOf(table []TopSection, code string) (string, bool) {
	c := ParseCode(code)
	if c.Level == LevelInvalid {
		return "", false
	}
	for _, ts := range table {
		if slices.Contains(ts.Codes, c.Main) {
			return ts.ID, true
		}
	}
	return "", false
}

func cloneTopSections(table []TopSection) []TopSection {
	out := make([]TopSection, len(table))
	for i, ts := range table {
		ts.Codes = slices.Clone(ts.Codes)
		out[i] = ts
	}
	return out
}
