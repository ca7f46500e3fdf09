package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roberthamel/oascodegen/internal/dialect"
	"github.com/roberthamel/oascodegen/internal/orchestrator"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Parse the input document and emit validator schemas and the type-shape reference",
		RunE:  runGenerate,
	}
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
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

	if err := orchestrator.Run(ctx, ctx.Registry(), order); err != nil {
		return err
	}

	if err := writeFiles(ctx.Files); err != nil {
		return err
	}

	fmt.Printf("Generated %d file(s) under %s\n", len(ctx.Files.Files()), cfg.OutputPath)
	return nil
}
