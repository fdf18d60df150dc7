package option

import (
	"fmt"
	"sort"
	"strings"

	"github.com/detentsh/driver/internal/trie"
)

// Table is the built schema: the flat entry list plus, for each
// DriverMode, a prefix trie over the spellings applicable to that
// mode, so longest-prefix lookup is linear in the token length.
type Table struct {
	entries []StoredOption
	byID    map[ID][]int // all entries (including aliases) sharing an ID
	tries   map[DriverMode]*trie.Trie[int]
}

// NewTable builds the Table from the static schema.
func NewTable() *Table {
	t := &Table{
		entries: schemaEntries,
		byID:    make(map[ID][]int),
		tries:   make(map[DriverMode]*trie.Trie[int]),
	}
	for i, e := range t.entries {
		t.byID[e.ID] = append(t.byID[e.ID], i)
	}
	for _, mode := range allModes {
		tr := trie.New[int]()
		for i, e := range t.entries {
			if e.appliesTo(mode) {
				tr.Insert(e.Spelling, i)
			}
		}
		t.tries[mode] = tr
	}
	return t
}

// Canonical returns the non-alias StoredOption for id (resolving
// through AliasOf if id's first registered entry is itself an alias).
func (t *Table) Canonical(id ID) (StoredOption, bool) {
	idxs, ok := t.byID[id]
	if !ok {
		return StoredOption{}, false
	}
	for _, i := range idxs {
		if !t.entries[i].IsAlias {
			return t.entries[i], true
		}
	}
	// every registered entry for this ID is an alias: follow the first
	// one's AliasOf pointer.
	return t.Canonical(t.entries[idxs[0]].AliasOf)
}

// LongestMatch finds the longest schema spelling, applicable to mode,
// that is a prefix of token. It returns the matched StoredOption, the
// number of bytes of token the spelling consumed, and whether a match
// was found at all.
func (t *Table) LongestMatch(mode DriverMode, token string) (StoredOption, int, bool) {
	tr, ok := t.tries[mode]
	if !ok {
		return StoredOption{}, 0, false
	}
	idx, n, found := tr.LongestPrefix(token)
	if !found {
		return StoredOption{}, 0, false
	}
	return t.entries[idx], n, true
}

// resolvedID follows an alias entry to its canonical ID; non-aliases
// return their own ID unchanged.
func (t *Table) resolvedID(e StoredOption) ID {
	if e.IsAlias {
		return e.AliasOf
	}
	return e.ID
}

const helpColumnWidth = 23

// RenderHelp renders the -help (or -help-hidden) listing for mode:
// one line per non-alias, non-input option that carries help text,
// sorted alphabetically by spelling, with the help text column
// starting at helpColumnWidth. Hidden options are included only when
// includeHidden is true.
func (t *Table) RenderHelp(mode DriverMode, includeHidden bool) string {
	var candidates []StoredOption
	for _, e := range t.entries {
		if e.IsAlias || e.HelpText == "" || !e.appliesTo(mode) {
			continue
		}
		if e.IsHidden && !includeHidden {
			continue
		}
		candidates = append(candidates, e)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Spelling < candidates[j].Spelling })

	var b strings.Builder
	for _, e := range candidates {
		left := "  " + e.Spelling
		if e.MetaVar != "" {
			left += " " + e.MetaVar
		}
		if len(left) >= helpColumnWidth {
			b.WriteString(left)
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", helpColumnWidth))
		} else {
			b.WriteString(left)
			b.WriteString(strings.Repeat(" ", helpColumnWidth-len(left)))
		}
		b.WriteString(e.HelpText)
		b.WriteByte('\n')
	}
	return b.String()
}

// Spellings returns every registered spelling for id, canonical first.
func (t *Table) Spellings(id ID) []string {
	idxs := t.byID[id]
	var out []string
	for _, i := range idxs {
		out = append(out, t.entries[i].Spelling)
	}
	return out
}

func (id ID) String() string {
	return fmt.Sprintf("option(%d)", int(id))
}
