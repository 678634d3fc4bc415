package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/services"
)

const defaultTopCount = 3

func newDomainsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List the business domains use cases can be generated for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			return printDomains(cmd.OutOrStdout(), e.catalog.List())
		},
	}
}

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	var challenge string

	cmd := &cobra.Command{
		Use:   "generate <domain>...",
		Short: "Generate one use case for each named domain",
		Example: `  bizget generate "Customer Service"
  bizget generate Finance Operations --seed 42`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, domain := range args {
				uc, err := e.generate(domain, challenge)
				if err != nil {
					return err
				}
				printUseCase(out, uc)
			}
			fmt.Fprintf(out, "Generated %s.\n", countOf(len(args), "use case"))
			return nil
		},
	}

	cmd.Flags().StringVar(&challenge, "challenge", "", "business challenge the use cases should address")
	return cmd
}

func newPortfolioCommand(opts *rootOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Generate a use case per domain, then rank and analyze the portfolio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			if err := e.generateAll(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sectionf(out, "Use cases")
			if err := printUseCaseTable(out, e.generator.GetAll()); err != nil {
				return err
			}

			sectionf(out, "Top %s", countOf(top, "use case"))
			if err := printUseCaseTable(out, e.generator.GetTop(top)); err != nil {
				return err
			}

			sectionf(out, "Portfolio analysis")
			return printAnalysis(out, e.generator.Analyze())
		},
	}

	cmd.Flags().IntVar(&top, "top", defaultTopCount, "number of top-scoring use cases to show")
	return cmd
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format  string
		domains []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate use cases and print them as JSON or YAML",
		Example: `  bizget export --format yaml
  bizget export --format json --domain Finance --domain Operations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}

			if len(domains) == 0 {
				err = e.generateAll()
			} else {
				for _, d := range domains {
					if _, err = e.generate(d, ""); err != nil {
						break
					}
				}
			}
			if err != nil {
				return err
			}

			data, err := e.generator.Export(format)
			if err != nil {
				if errors.Is(err, apperrors.ErrUnsupportedFormat) {
					return fmt.Errorf("unsupported format %q (use %s or %s)", format, services.ExportFormatJSON, services.ExportFormatYAML)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, data)
			if !strings.HasSuffix(data, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", services.ExportFormatJSON, "output format: json or yaml")
	cmd.Flags().StringArrayVar(&domains, "domain", nil, "domain to include (repeatable, default all)")
	return cmd
}

// generate wraps unknown-domain errors with the list of valid names.
func (e *engine) generate(domain, challenge string) (*models.UseCase, error) {
	uc, err := e.generator.GenerateForDomain(domain, challenge)
	if errors.Is(err, apperrors.ErrDomainNotFound) {
		names := make([]string, 0)
		for _, d := range e.catalog.List() {
			names = append(names, d.Name)
		}
		return nil, fmt.Errorf("%w; valid domains: %s", err, strings.Join(names, ", "))
	}
	return uc, err
}

// generateAll adds one use case for every catalog domain.
func (e *engine) generateAll() error {
	for _, d := range e.catalog.List() {
		if _, err := e.generate(d.Name, ""); err != nil {
			return err
		}
	}
	return nil
}
