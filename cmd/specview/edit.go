package main

import (
	"fmt"
	"os"

	"github.com/alnah/go-specview"
	"github.com/alnah/go-specview/internal/fileutil"
)

// runEdit applies one line edit to a document in place.
func runEdit(args []string, env *Environment) error {
	flags, rest, err := parseEditFlags(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: edit takes exactly one file", ErrUsage)
	}
	path := rest[0]
	if err := validateMarkdownExtension(path); err != nil {
		return err
	}

	e, err := flags.edit()
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	src := string(content)

	edited, err := specview.Apply(src, e)
	if err != nil {
		return err
	}

	if flags.dryRun {
		_, err := fmt.Fprint(env.Stdout, edited)
		return err
	}

	if edited == src {
		if !flags.output.quiet {
			fmt.Fprintf(env.Stdout, "Unchanged %s:%d\n", path, flags.line)
		}
		return nil
	}
	if err := fileutil.WriteFileAtomic(path, []byte(edited)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if !flags.output.quiet {
		fmt.Fprintf(env.Stdout, "Updated %s:%d (%s)\n", path, flags.line, e.Kind)
	}
	return nil
}
