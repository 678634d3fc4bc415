// Package cli implements the bizget command line tool. Every invocation starts
// with an empty collection, so commands generate the use cases they report on.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/logging"
	"github.com/ekaya-inc/bizget-engine/pkg/services"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type rootOptions struct {
	seed    int64
	noColor bool
	verbose bool
}

// engine holds the services a single command run works against.
type engine struct {
	catalog   services.DomainCatalog
	generator services.UseCaseGenerator
	analyzer  services.UseCaseAnalyzer
	logger    *zap.Logger
}

func (o *rootOptions) newEngine() (*engine, error) {
	logger := zap.NewNop()
	if o.verbose {
		l, err := logging.NewLogger("debug", "local")
		if err != nil {
			return nil, err
		}
		logger = l
	}

	var opts []services.GeneratorOption
	if o.seed != 0 {
		opts = append(opts, services.WithPicker(services.NewRandPicker(o.seed)))
	}

	catalog := services.NewDefaultDomainCatalog()
	return &engine{
		catalog:   catalog,
		generator: services.NewUseCaseGenerator(catalog, services.DefaultTemplateLibrary(), logger, opts...),
		analyzer:  services.NewUseCaseAnalyzer(),
		logger:    logger,
	}, nil
}

// NewRootCommand creates the root bizget command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "bizget",
		Short: "Find, score and rank AI use cases for a business",
		Long: `bizget proposes AI-adoption use cases for business domains such as
Customer Service, Sales, Marketing, Operations and Finance.

Use cases are scored from priority, feasibility and listed benefits, ranked
into a portfolio, and analyzed for ROI, complexity and implementation roadmap.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "seed for template selection (0 picks a random seed)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log generator activity to stderr")

	cmd.AddCommand(newDomainsCommand(opts))
	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newPortfolioCommand(opts))
	cmd.AddCommand(newROICommand(opts))
	cmd.AddCommand(newRoadmapCommand(opts))
	cmd.AddCommand(newExportCommand(opts))

	return cmd
}
