// SPDX-License-Identifier: EPL-2.0

// Package cueutil validates Go values against embedded CUE schemas.
//
// Configuration structs are decoded by their own loaders (viper, TOML); this
// package provides the second line of defense, unifying the decoded value
// with a schema definition so constraint violations surface as readable
// errors before the value reaches the pipeline.
package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// Validate unifies value with the definition at schemaPath (e.g. "#Config")
// inside the given schema source and validates the result with concrete
// field checking. A nil return means the value satisfies every constraint.
func Validate[T any](schema, schemaPath string, value T) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: compiling schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}

	encoded := ctx.Encode(value)
	if encoded.Err() != nil {
		return fmt.Errorf("encoding value for validation: %w", encoded.Err())
	}

	unified := root.Unify(encoded)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatError(err)
	}
	return nil
}

// formatError flattens a CUE error list into one message with field paths,
// one violation per line.
func formatError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	var lines []string
	for _, e := range errs {
		if path := strings.Join(e.Path(), "."); path != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", path, e.Error()))
			continue
		}
		lines = append(lines, e.Error())
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(lines, "\n  "))
}
