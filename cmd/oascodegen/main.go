// Command oascodegen parses an OpenAPI/Swagger document, runs the
// configured IR transforms, and drives the plugin orchestrator to emit
// validator schemas and the supplemental type-shape reference.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "oascodegen",
		Short: "oascodegen — generate validator schemas from an OpenAPI/Swagger document",
		Long: `oascodegen reads an OpenAPI 3.1, OpenAPI 3.0, or Swagger 2.0 document and
produces:
  - A schemas file declaring one named validator per component schema and
    one request-bundle per operation
  - A Markdown type-shape reference alongside it

Configuration layers in ascending precedence: built-in defaults, an
.oascodegen.yaml file, OASCODEGEN_* environment variables, and command
flags.`,
		Version: version,
	}

	// Flag names match internal/config.ValidKeys exactly so Loader.BindFlags
	// can bind them straight through to their viper key with no alias layer.
	rootCmd.PersistentFlags().String("input", "", "Path to the OpenAPI/Swagger document")
	rootCmd.PersistentFlags().StringSlice("input.include", nil, "Ref glob patterns to include (default: all)")
	rootCmd.PersistentFlags().StringSlice("input.exclude", nil, "Ref glob patterns to exclude")
	rootCmd.PersistentFlags().String("output.path", "", "Output directory")
	rootCmd.PersistentFlags().Bool("parser.transforms.enums.enabled", false, "Lift inline enums into named components")
	rootCmd.PersistentFlags().String("parser.transforms.enums.mode", "", "Enum handling: inline | lift")
	rootCmd.PersistentFlags().Bool("parser.transforms.readWrite.enabled", false, "Synthesize Readable/Writable component variants")
	rootCmd.PersistentFlags().String("definitions.case", "", "Identifier case: PascalCase | camelCase | snake_case | SCREAMING_SNAKE | preserve")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newValidateCmd(),
		newDiffCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
