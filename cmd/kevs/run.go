package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevs-vm/kevs"
	"github.com/kevs-vm/kevs/dis"
	"github.com/kevs-vm/kevs/vm"
)

func (a *app) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a source file or a compiled image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			return a.run(cmd, args[0], debug)
		},
	}
	cmd.Flags().BoolP("debug", "d", false, "Print the instruction listing and trace execution")
	return cmd
}

// run executes the program at path. In debug mode the listing is printed
// first, followed by one trace line before every executed instruction.
func (a *app) run(cmd *cobra.Command, path string, debug bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	program, err := a.load(ctx, path)
	if err != nil {
		return err
	}
	opts := []kevs.Option{
		kevs.WithStdout(out),
		kevs.WithLogger(a.log),
	}
	if debug {
		if err := dis.Listing(program, out); err != nil {
			return err
		}
		fmt.Fprintln(out, "Executing...")
		opts = append(opts, kevs.WithObserver(vm.NewTracer(out)))
	}
	_, err = kevs.Run(ctx, program, opts...)
	return err
}
