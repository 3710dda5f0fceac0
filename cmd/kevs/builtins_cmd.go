package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kevs-vm/kevs/builtins"
	"github.com/kevs-vm/kevs/internal/table"
)

func (a *app) newBuiltinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the native functions reachable with syscalls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := builtins.Default()
			var rows [][]string
			for _, spec := range registry.Docs() {
				id, _ := registry.ID(spec.Name)
				rows = append(rows, []string{
					fmt.Sprintf("%d", id),
					spec.Name,
					strings.Join(spec.Args, ", "),
					spec.Doc,
				})
			}
			return table.NewTable(cmd.OutOrStdout()).
				WithHeader([]string{"ID", "NAME", "ARGS", "DOC"}).
				WithColumnAlignment([]table.Alignment{
					table.AlignRight,
					table.AlignLeft,
					table.AlignLeft,
					table.AlignLeft,
				}).
				WithRows(rows).
				Render()
		},
	}
}
