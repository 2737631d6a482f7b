package theme

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Icons resolves icon names to the glyphs drawn in the terminal.
type Icons struct {
	Name   string
	glyphs map[string]string
	names  []string
}

var builtinIcons = map[string]string{
	"battery":       "",
	"calendar":      "",
	"clock":         "",
	"cpu":           "",
	"memory":        "",
	"network":       "",
	"power":         "",
	"volume-high":   "",
	"volume-muted":  "",
	"wifi":          "",
	"notifications": "",
}

// NewIcons builds an icon theme from the built-in glyphs overlaid with
// overrides.
func NewIcons(name string, overrides map[string]string) *Icons {
	glyphs := make(map[string]string, len(builtinIcons)+len(overrides))
	for k, v := range builtinIcons {
		glyphs[k] = v
	}
	for k, v := range overrides {
		glyphs[strings.ToLower(strings.TrimSpace(k))] = v
	}
	names := make([]string, 0, len(glyphs))
	for k := range glyphs {
		names = append(names, k)
	}
	sort.Strings(names)
	return &Icons{Name: name, glyphs: glyphs, names: names}
}

// Lookup returns the glyph for name. Exact matches win; otherwise the
// closest fuzzy match is used.
func (i *Icons) Lookup(name string) (string, bool) {
	if i == nil {
		return "", false
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	if glyph, ok := i.glyphs[key]; ok {
		return glyph, true
	}
	ranks := fuzzy.RankFind(key, i.names)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	return i.glyphs[ranks[0].Target], true
}
