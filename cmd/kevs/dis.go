package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kevs-vm/kevs/builtins"
	"github.com/kevs-vm/kevs/dis"
)

var outputFormatsCompletion = []string{"text", "json", "listing"}

func (a *app) newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis <file>",
		Short: "Disassemble a source file or a compiled image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			format, _ := cmd.Flags().GetString("output")
			switch strings.ToLower(format) {
			case "listing":
				return dis.Listing(program, out)
			case "", "text", "json":
			default:
				return fmt.Errorf("unknown output format: %s", format)
			}
			instructions, err := dis.Disassemble(program, builtins.Default())
			if err != nil {
				return err
			}
			if strings.ToLower(format) == "json" {
				return dis.PrintJSON(instructions, out)
			}
			return dis.Print(instructions, out)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json, listing)")
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}
