package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// "**Acceptance Scenarios**:" or "**Acceptance Scenarios:**"
	scenarioLabelPattern = regexp.MustCompile(`^\s*\*\*Acceptance Scenarios(:?)\*\*(:?)\s*$`)

	// Each keyword capture stops at the next keyword or a trailing period.
	givenPattern = regexp.MustCompile(`\*{0,2}\bGiven\b\*{0,2}\s+(.+?)(?:,?\s*\*{0,2}\b(?:When|Then)\b|\.?\s*$)`)
	whenPattern  = regexp.MustCompile(`\*{0,2}\bWhen\b\*{0,2}\s+(.+?)(?:,?\s*\*{0,2}\bThen\b|\.?\s*$)`)
	thenPattern  = regexp.MustCompile(`\*{0,2}\bThen\b\*{0,2}\s+(.+?)\.?\s*$`)
)

// ScenarioRow is one Given/When/Then triple.
type ScenarioRow struct {
	Given string
	When  string
	Then  string
}

func (r ScenarioRow) empty() bool {
	return r.Given == "" && r.When == "" && r.Then == ""
}

// ParseScenario extracts the Given/When/Then parts of one scenario item.
// A leading "N." is ignored. When no keyword is present the whole item is
// kept as Then.
func ParseScenario(item string) ScenarioRow {
	item = strings.TrimSpace(item)
	if m := numberedItemPattern.FindStringSubmatch(item); m != nil {
		item = strings.TrimSpace(m[1])
	}

	var row ScenarioRow
	if m := givenPattern.FindStringSubmatch(item); m != nil {
		row.Given = strings.TrimSpace(m[1])
	}
	if m := whenPattern.FindStringSubmatch(item); m != nil {
		row.When = strings.TrimSpace(m[1])
	}
	if m := thenPattern.FindStringSubmatch(item); m != nil {
		row.Then = strings.TrimSpace(m[1])
	}
	if row.empty() {
		row.Then = item
	}
	return row
}

// scenarioItem is a numbered item with its continuation lines joined.
type scenarioItem struct {
	text   string
	origin int
}

// ExtractScenarios rewrites each numbered list introduced by an
// "Acceptance Scenarios" label into a scenario table. Each table takes the
// next id from rc. A list with no parseable scenario is left as it was.
func ExtractScenarios(rc *Context, t *Text) *Text {
	mask := t.fenceMask()
	b := newTextBuilder(t.Len())
	changed := false

	for i := 0; i < t.Len(); i++ {
		if mask[i] || !scenarioLabelPattern.MatchString(t.Lines[i]) {
			b.add(t.Lines[i], t.Origin[i])
			continue
		}

		items, end := scanScenarioItems(t, mask, i+1)
		var rows []ScenarioRow
		var origins []int
		for _, it := range items {
			if row := ParseScenario(it.text); !row.empty() {
				rows = append(rows, row)
				origins = append(origins, it.origin)
			}
		}
		if len(rows) == 0 {
			b.add(t.Lines[i], t.Origin[i])
			continue
		}

		writeScenarioTable(b, rc, rows, origins, t.Origin[i])
		i = end - 1
		changed = true
	}

	if !changed {
		return t
	}
	return b.text()
}

// scanScenarioItems collects the numbered items starting at or after from,
// skipping leading blank lines. It returns the items and the index one past
// the last consumed line.
func scanScenarioItems(t *Text, mask []bool, from int) ([]scenarioItem, int) {
	k := from
	for k < t.Len() && isBlankLine(t.Lines[k]) {
		k++
	}
	if k >= t.Len() || mask[k] || !numberedItemPattern.MatchString(t.Lines[k]) {
		return nil, from
	}

	var items []scenarioItem
	end := k
	for k < t.Len() && !mask[k] {
		line := t.Lines[k]
		if m := numberedItemPattern.FindStringSubmatch(line); m != nil {
			items = append(items, scenarioItem{text: strings.TrimSpace(m[1]), origin: t.Origin[k]})
			k++
			end = k
			continue
		}
		if isBlankLine(line) {
			next := k + 1
			for next < t.Len() && isBlankLine(t.Lines[next]) {
				next++
			}
			if next < t.Len() && !mask[next] && numberedItemPattern.MatchString(t.Lines[next]) {
				k = next
				continue
			}
			break
		}
		if headingPattern.MatchString(line) || labelLinePattern.MatchString(line) ||
			passthroughPattern.MatchString(line) || fencePattern.MatchString(line) {
			break
		}
		last := &items[len(items)-1]
		last.text += " " + strings.TrimSpace(line)
		k++
		end = k
	}
	return items, end
}

func writeScenarioTable(b *textBuilder, rc *Context, rows []ScenarioRow, origins []int, labelOrigin int) {
	id := rc.NextTableID()

	b.add(fmt.Sprintf(`<div class="scenario-table-wrapper acceptance-scenarios" data-table-id="%d">`, id), labelOrigin)
	b.add(`<div class="scenario-title">Acceptance Scenarios</div>`, labelOrigin)
	b.add(fmt.Sprintf(`<table class="scenario-table" id="scenario-table-%d">`+
		`<thead><tr><th class="scenario-num">#</th><th>Given</th><th>When</th><th>Then</th></tr></thead><tbody>`, id),
		labelOrigin)

	for r, row := range rows {
		b.add(fmt.Sprintf(`<tr class="scenario-row" data-table-id="%d" data-row="%d">`+
			`<td class="scenario-num">%d</td>`+
			`<td class="scenario-given">%s</td>`+
			`<td class="scenario-when">%s</td>`+
			`<td class="scenario-then">%s</td></tr>`,
			id, r+1, r+1,
			rc.parseInline(row.Given), rc.parseInline(row.When), rc.parseInline(row.Then)),
			origins[r])
	}

	last := origins[len(origins)-1]
	b.add(`</tbody></table>`, last)
	b.add(`</div>`, last)
}
