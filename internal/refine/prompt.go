package refine

import (
	"fmt"
	"strings"
)

// FormatPrompt renders comments as a refinement request for the document at
// path. Comments appear in the given order.
func FormatPrompt(path string, comments []Comment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Refine %s using the review comments below.\n", path)
	sb.WriteString("Apply each change to the referenced line and keep the rest of the document as is.\n")

	for i, c := range comments {
		fmt.Fprintf(&sb, "\n%d. Line %d (%s)\n", i+1, c.LineNum, c.LineType)
		if content := strings.TrimSpace(c.LineContent); content != "" {
			fmt.Fprintf(&sb, "   Current: %s\n", content)
		}
		fmt.Fprintf(&sb, "   Comment: %s\n", strings.ReplaceAll(c.Comment, "\n", "\n            "))
	}
	return sb.String()
}
