package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kevs-vm/kevs/bytecode"
)

func (a *app) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a source file to a program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = strings.TrimSuffix(path, filepath.Ext(path)) + ImageExt
			}
			program, err := a.load(cmd.Context(), path)
			if err != nil {
				return err
			}
			data, err := bytecode.Marshal(program)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			a.log.Info().
				Str("output", output).
				Int("instructions", program.InstructionCount()).
				Msg("wrote program image")
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output path (default: input with the "+ImageExt+" extension)")
	return cmd
}
