package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-specview"
)

// runOutline prints the heading outline of a document with source lines.
func runOutline(args []string, env *Environment) error {
	flags, rest, err := parseOutlineFlags(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: outline takes exactly one file", ErrUsage)
	}

	content, err := os.ReadFile(rest[0]) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	if flags.tree {
		tree := specview.OutlineTree(string(content))
		if tree == nil {
			tree = []*specview.OutlineNode{}
		}
		return encodeOutline(env, tree)
	}

	headings := specview.Outline(string(content))
	if flags.json {
		if headings == nil {
			headings = []specview.Heading{}
		}
		return encodeOutline(env, headings)
	}

	for _, h := range headings {
		fmt.Fprintf(env.Stdout, "%s%s  (line %d)\n", strings.Repeat("  ", h.Level-1), h.Text, h.Line)
	}
	return nil
}

func encodeOutline(env *Environment, v any) error {
	enc := json.NewEncoder(env.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
