// Package specview renders specification documents (feature specs, plans and
// task lists written in an extended Markdown dialect) to interactive HTML
// whose blocks can be edited in place.
//
// # Quick Start
//
//	r, err := specview.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := r.Render(ctx, specview.Input{
//	    Markdown: source,
//	    Path:     "specs/001-catalog/spec.md",
//	    Page:     true,
//	})
//
// # Rendering Pipeline
//
//  1. Text passes: comments stripped, metadata collapsed, user story headers,
//     acceptance scenario tables and callouts converted
//  2. Block rendering: one state machine over the remaining lines, inline
//     markup per line, code blocks through the highlighter
//  3. Optional page assembly with the embedded stylesheet and script
//
// Every editable block carries data-line="N", the 1-indexed source line that
// produced it, even when earlier passes collapsed or expanded lines.
//
// # Editing
//
// EditLine, RemoveLine, ToggleCheckbox and Apply take 0-indexed lines, so an
// action on a block maps to line N-1. Heading, quote, list and checkbox
// markers survive an edit:
//
//	updated := specview.ToggleCheckbox(source, block.Line-1)
//
// # Signals
//
// Regenerate, approve and enhance requests resolve to host command
// identifiers by document kind (spec.md, plan.md, tasks.md). The library
// only reports them; running a command is up to the host.
package specview
