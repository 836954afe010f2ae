// Package pipeline turns spec-dialect Markdown into line-addressable HTML.
//
// Rendering runs in two stages that share a per-render Context:
//   - Preprocessing: whole-document passes (comment stripping, metadata
//     header, user story cards, acceptance scenario tables, callouts) that
//     rewrite a Text while keeping each line's source origin.
//   - Block rendering: a line state machine (default, code, list, table)
//     that emits HTML and tags editable blocks with their source line.
//
// Supporting pieces cover page assembly, local path resolution for export
// and a plain goldmark converter for documents outside the dialect.
package pipeline
