package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change the layered configuration",
	}
	cmd.AddCommand(
		newConfigSetCmd(),
		newConfigListCmd(),
		newConfigResetCmd(),
	)
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value and persist it to .oascodegen.yaml",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSet,
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every recognized configuration key and its resolved value",
		RunE:  runConfigList,
	}
}

func newConfigResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset every configuration key to its built-in default",
		RunE:  runConfigReset,
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	l, err := loadLoader(cmd)
	if err != nil {
		return err
	}
	if err := l.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("%s = %v\n", args[0], l.Get(args[0]))
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	l, err := loadLoader(cmd)
	if err != nil {
		return err
	}
	values := l.List()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s = %v\n", k, values[k])
	}
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	l, err := loadLoader(cmd)
	if err != nil {
		return err
	}
	l.Reset()
	fmt.Println("configuration reset to built-in defaults")
	return nil
}
