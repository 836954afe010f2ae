package pipeline

import "regexp"

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Fenced code block delimiter (backticks or tildes) with optional language
	fencePattern = regexp.MustCompile("^\\s{0,3}(`{3,}|~{3,})\\s*([\\w+#.-]*)")

	// Fence with no info string, the only form that closes a block
	closingFencePattern = regexp.MustCompile("^\\s{0,3}(`{3,}|~{3,})\\s*$")

	// ATX heading: level marker and text, trailing #s dropped
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.*?)(?:\s+#+)?\s*$`)

	// Horizontal rule
	rulePattern = regexp.MustCompile(`^\s{0,3}(?:-{3,}|\*{3,}|_{3,})\s*$`)

	// Blockquote line
	quotePattern = regexp.MustCompile(`^\s{0,3}>\s?(.*)$`)

	// List items; leading indentation kept for nesting depth
	unorderedPattern = regexp.MustCompile(`^(\s*)[-*+]\s+(.*)$`)
	orderedPattern   = regexp.MustCompile(`^(\s*)(\d+)[.)]\s+(.*)$`)

	// Task checkbox inside unordered item content
	taskPattern = regexp.MustCompile(`^\[([ xX])\]\s+(.*)$`)

	// Task identifier prefix: "T012 [P] [US1] label"
	taskIDPattern = regexp.MustCompile(`^(T\d+)\s+((?:\[[^\]]+\]\s*)*)(.*)$`)

	// Pipe table row
	tableRowPattern       = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	tableSeparatorPattern = regexp.MustCompile(`^\s*\|(?:\s*:?-+:?\s*\|)+\s*$`)

	// HTML produced by preprocessing passes
	passthroughPattern = regexp.MustCompile(`^\s*</?(?:div|section|table|thead|tbody|tr)[\s>]`)

	// Any line starting with bold text ("**Label**" or "**Label:**")
	boldLabelPattern = regexp.MustCompile(`^\s*\*\*[^*]+\*\*`)

	// A label line proper: "**Label**:" or "**Label:**"
	labelLinePattern = regexp.MustCompile(`^\s*\*\*[^*]+(?::\*\*|\*\*:)`)

	// Numbered list item used by the scenario extractor
	numberedItemPattern = regexp.MustCompile(`^\s*\d+\.\s+(.*)$`)
)

// openingFence returns the delimiter run of a fence line, or "".
func openingFence(line string) string {
	if m := fencePattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// closesFence reports whether line closes a block opened by the delimiter run
// open: same character, at least as long, and no info string.
func closesFence(open, line string) bool {
	m := closingFencePattern.FindStringSubmatch(line)
	return m != nil && m[1][0] == open[0] && len(m[1]) >= len(open)
}
