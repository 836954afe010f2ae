package pipeline

// state is the block renderer's parser state.
type state int

const (
	stateDefault state = iota
	stateCode
	stateList
	stateTable
)

func (s state) String() string {
	switch s {
	case stateDefault:
		return "default"
	case stateCode:
		return "code"
	case stateList:
		return "list"
	case stateTable:
		return "table"
	default:
		return "unknown"
	}
}

// lineKind is what a line looks like, independent of state.
type lineKind int

const (
	kindAny lineKind = iota // table wildcard, never returned by classify
	kindFence
	kindTableRow
	kindBlank
	kindHeading
	kindRule
	kindQuote
	kindUnordered
	kindOrdered
	kindPassthrough
	kindText
)

func (k lineKind) String() string {
	switch k {
	case kindAny:
		return "any"
	case kindFence:
		return "fence"
	case kindTableRow:
		return "table-row"
	case kindBlank:
		return "blank"
	case kindHeading:
		return "heading"
	case kindRule:
		return "rule"
	case kindQuote:
		return "quote"
	case kindUnordered:
		return "unordered"
	case kindOrdered:
		return "ordered"
	case kindPassthrough:
		return "passthrough"
	case kindText:
		return "text"
	default:
		return "unknown"
	}
}

// classify returns the kind of line, checking in precedence order.
func classify(line string) lineKind {
	switch {
	case fencePattern.MatchString(line):
		return kindFence
	case tableRowPattern.MatchString(line):
		return kindTableRow
	case isBlankLine(line):
		return kindBlank
	case headingPattern.MatchString(line):
		return kindHeading
	case rulePattern.MatchString(line):
		return kindRule
	case quotePattern.MatchString(line):
		return kindQuote
	case unorderedPattern.MatchString(line):
		return kindUnordered
	case orderedPattern.MatchString(line):
		return kindOrdered
	case passthroughPattern.MatchString(line):
		return kindPassthrough
	default:
		return kindText
	}
}

type transitionKey struct {
	from state
	kind lineKind
}

// transition handles one line and returns the next state. When consumed is
// false the same line is dispatched again from the next state.
type transition func(r *blockRenderer, i int) (next state, consumed bool)

// transitions is the renderer's transition table. A missing (state, kind)
// pair falls back to (state, kindAny).
var transitions = map[transitionKey]transition{
	{stateDefault, kindFence}:       (*blockRenderer).openCode,
	{stateDefault, kindTableRow}:    (*blockRenderer).openTable,
	{stateDefault, kindBlank}:       (*blockRenderer).skipBlank,
	{stateDefault, kindHeading}:     (*blockRenderer).heading,
	{stateDefault, kindRule}:        (*blockRenderer).rule,
	{stateDefault, kindQuote}:       (*blockRenderer).quote,
	{stateDefault, kindUnordered}:   (*blockRenderer).openList,
	{stateDefault, kindOrdered}:     (*blockRenderer).openList,
	{stateDefault, kindPassthrough}: (*blockRenderer).passthrough,
	{stateDefault, kindText}:        (*blockRenderer).paragraph,

	{stateCode, kindFence}: (*blockRenderer).closeCode,
	{stateCode, kindAny}:   (*blockRenderer).bufferCode,

	{stateList, kindUnordered}: (*blockRenderer).listItem,
	{stateList, kindOrdered}:   (*blockRenderer).listItem,
	{stateList, kindAny}:       (*blockRenderer).closeList,

	{stateTable, kindTableRow}: (*blockRenderer).tableRow,
	{stateTable, kindAny}:      (*blockRenderer).closeTable,
}

// lookupTransition returns the handler for kind in state s.
func lookupTransition(s state, kind lineKind) transition {
	if fn, ok := transitions[transitionKey{s, kind}]; ok {
		return fn
	}
	return transitions[transitionKey{s, kindAny}]
}
