package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roberthamel/oascodegen/internal/dialect"
	"github.com/roberthamel/oascodegen/internal/fileregistry"
	"github.com/roberthamel/oascodegen/internal/orchestrator"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show which output files a generate run would change, without writing them",
		RunE:  runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
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
	if err := orchestrator.Run(ctx, ctx.Registry(), order); err != nil {
		return err
	}
	if err := ctx.Files.Validate(); err != nil {
		return err
	}

	for _, f := range ctx.Files.Files() {
		fmt.Println(diffStatus(f))
	}
	return nil
}

func diffStatus(f *fileregistry.File) string {
	rendered := renderFile(f)
	existing, err := os.ReadFile(f.Path)
	switch {
	case err != nil:
		return fmt.Sprintf("+ %s (new)", f.Path)
	case string(existing) == rendered:
		return fmt.Sprintf("= %s (unchanged)", f.Path)
	default:
		return fmt.Sprintf("~ %s (changed)", f.Path)
	}
}
