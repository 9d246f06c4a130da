package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/schemedex/internal/version"
	"github.com/kailas-cloud/schemedex/pkg/schemes"
)

// noResultsMessage is printed for a search that matches nothing.
const noResultsMessage = "No results found."

func newOptionsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List selectable company types, sectors and scheme names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			opts, err := c.Options(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderList("Company types", opts.CompanyTypes))
			fmt.Fprintln(out, renderList("Sectors", opts.Sectors))
			fmt.Fprintln(out, renderList("Schemes", opts.Names))
			return nil
		},
	}
}

func newListCmd(g *globalFlags) *cobra.Command {
	var companyType, sector string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schemes for a company type and sector, soonest deadline first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			list, err := c.Filter(cmd.Context(), companyType, sector)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render(noResultsMessage))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderListings(list))
			return nil
		},
	}
	cmd.Flags().StringVar(&companyType, "company-type", schemes.AllCompanyTypes, "company type tag")
	cmd.Flags().StringVar(&sector, "sector", schemes.AllSectors, "sector tag")
	return cmd
}

func newSearchCmd(g *globalFlags) *cobra.Command {
	var pamphletOut string

	cmd := &cobra.Command{
		Use:   "search NAME",
		Short: "Show one scheme by its exact name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			c, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			m, err := c.Search(cmd.Context(), name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !m.Found {
				fmt.Fprintln(out, mutedStyle.Render(noResultsMessage))
				return nil
			}
			fmt.Fprintln(out, renderScheme(m))

			if pamphletOut == "" {
				return nil
			}
			p, err := c.Pamphlet(cmd.Context(), m.Scheme.Name)
			if err != nil {
				return err
			}
			if err := os.WriteFile(pamphletOut, p.Data, 0o644); err != nil {
				return fmt.Errorf("write pamphlet: %w", err)
			}
			fmt.Fprintf(out, "Pamphlet saved to %s (%s, %d bytes)\n", pamphletOut, p.ContentType, len(p.Data))
			return nil
		},
	}
	cmd.Flags().StringVar(&pamphletOut, "pamphlet-out", "", "download the pamphlet image to this file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "schemectl "+version.String())
		},
	}
}
