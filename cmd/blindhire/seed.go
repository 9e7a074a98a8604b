package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/blind-hire/internal/fixtures"
	"github.com/jonathan/blind-hire/internal/observability"
	"github.com/jonathan/blind-hire/internal/schemas"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Work with fixture files",
}

var seedValidateCmd = &cobra.Command{
	Use:   "validate <file|default>",
	Short: "Validate a fixture file against the seed schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeedValidate,
}

func init() {
	seedCmd.AddCommand(seedValidateCmd)
	rootCmd.AddCommand(seedCmd)
}

func runSeedValidate(cmd *cobra.Command, args []string) error {
	source := args[0]
	printer := observability.NewPrinter(cmd.OutOrStdout())

	var (
		doc *fixtures.Seed
		err error
	)
	if source == "default" {
		doc, err = fixtures.Parse(fixtures.Default())
	} else {
		doc, err = fixtures.LoadFile(source)
	}
	if err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			violations := make([]string, 0, len(schemaErr.Errors))
			for _, fe := range schemaErr.Errors {
				violations = append(violations, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
			}
			printer.PrintViolations("SEED FILE INVALID", violations)
			return fmt.Errorf("%s: %d schema violation(s)", source, len(violations))
		}
		return err
	}

	printer.PrintSeedSummary(source, len(doc.Jobs), len(doc.Candidates), len(doc.Actions))
	return nil
}
