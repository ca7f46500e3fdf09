package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roberthamel/oascodegen/internal/dialect"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse the input document and report errors without emitting any file",
		RunE:  runValidate,
	}
}

// runValidate runs the same parse, transform, and orchestrator-resolution
// steps generate does, but stops short of orchestrator.Run and writeFiles
// — it surfaces every ConfigError, SpecError, RefNotFound, and ParseError
// a full run would hit, without writing anything to output.path.
func runValidate(cmd *cobra.Command, args []string) error {
	loader, err := loadLoader(cmd)
	if err != nil {
		return err
	}
	cfg := loader.Resolve()

	specPath, _ := loader.Get("input").(string)
	filter := dialect.NewFilter(stringSliceFromLoader(loader, "input.include"), stringSliceFromLoader(loader, "input.exclude"))
	caseConv := caseFromLoader(loader)

	ctx, order, err := buildPipeline(cfg, filter, specPath, caseConv)
	if err != nil {
		return err
	}
	for _, w := range ctx.IR.Warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}

	fmt.Printf("OK: %d component(s), %d path(s), %d plugin(s) ordered %v\n",
		len(ctx.IR.ComponentOrder), len(ctx.IR.PathOrder), len(order), order)
	return nil
}
