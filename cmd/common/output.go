// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/models"

	"github.com/spf13/cobra"
)

// WriteOutput writes data to outputFile, or to the command's standard output when
// outputFile is empty.
func WriteOutput(cmd *cobra.Command, data []byte, outputFile string, log logging.Logger) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, models.PermissionFile); err != nil {
			return fmt.Errorf("failed to write output to file %s: %w", outputFile, err)
		}
		log.Info("Output written to file", logging.F(logging.FieldOutputFile, outputFile))
		return nil
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("failed to write output to stdout: %w", err)
	}
	return nil
}

// ResolveInputs returns args when given, otherwise the comma-separated fallback list.
func ResolveInputs(args []string, fallback string) []string {
	if len(args) > 0 {
		return args
	}
	var inputs []string
	for _, in := range strings.Split(fallback, ",") {
		if in = strings.TrimSpace(in); in != "" {
			inputs = append(inputs, in)
		}
	}
	return inputs
}
