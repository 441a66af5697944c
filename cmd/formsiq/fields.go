package main

import (
	"fmt"

	"github.com/Veraticus/formsiq/internal/cli"
	"github.com/Veraticus/formsiq/internal/fields"
	"github.com/spf13/cobra"
)

func fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the form fields that are extracted, by Form 1003 section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), cli.RenderSections(fields.Default()))
			return err
		},
	}
}
