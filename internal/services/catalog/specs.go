package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ironbid/internal/domain"
)

const defaultGroup = "General"

type LabeledSpec struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   any    `json:"value"`
	Unit    string `json:"unit,omitempty"`
	Display string `json:"display"`
}

type SpecGroup struct {
	Name  string        `json:"name"`
	Specs []LabeledSpec `json:"specs"`
}

// Humanize turns a raw specification key into a label:
// "engineHours" and "engine_hours" both become "Engine Hours".
func Humanize(key string) string {
	var b strings.Builder
	prev := rune(0)
	for _, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case unicode.IsUpper(r) && prev != 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return cases.Title(language.English).String(strings.Join(strings.Fields(b.String()), " "))
}

// LabelSpecifications groups specs by their schema group, keeping document
// order inside each group and first-appearance order between groups. Keys
// missing from schema land in the General group with a humanized label.
// Empty values are skipped.
func LabelSpecifications(specs domain.Specifications, schema []domain.FieldSchema) []SpecGroup {
	byName := make(map[string]domain.FieldSchema, len(schema))
	for _, f := range schema {
		byName[f.Name] = f
	}

	groups := []SpecGroup{}
	index := map[string]int{}
	for _, e := range specs {
		if isEmpty(e.Value) {
			continue
		}
		ls := LabeledSpec{Key: e.Key, Label: Humanize(e.Key), Value: e.Value}
		group := defaultGroup
		if f, ok := byName[e.Key]; ok {
			if f.Label != "" {
				ls.Label = f.Label
			}
			ls.Unit = f.Unit
			if f.Group != "" {
				group = f.Group
			}
		}
		ls.Display = display(e.Value, ls.Unit)

		i, ok := index[group]
		if !ok {
			i = len(groups)
			index[group] = i
			groups = append(groups, SpecGroup{Name: group})
		}
		groups[i].Specs = append(groups[i].Specs, ls)
	}
	return groups
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func display(v any, unit string) string {
	var s string
	switch t := v.(type) {
	case bool:
		if t {
			s = "Yes"
		} else {
			s = "No"
		}
	case json.Number:
		s = t.String()
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		s = strings.Join(parts, ", ")
	default:
		s = fmt.Sprint(t)
	}
	if unit != "" {
		s += " " + unit
	}
	return s
}
