package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"linkcards/internal/cards"
)

func newExportCmd() *cobra.Command {
	var q cards.Query
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print saved links as markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			_, err = fmt.Fprint(cmd.OutOrStdout(), cards.Markdown(a.board.Groups(q)))
			return err
		},
	}
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "only links whose title or URL contains this text")
	cmd.Flags().StringVarP(&q.Category, "category", "c", cards.FilterAll, "only links in this category")
	return cmd
}
