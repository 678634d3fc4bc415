package cli

import (
	"github.com/spf13/cobra"
)

func newROICommand(opts *rootOptions) *cobra.Command {
	var (
		domain  string
		cost    float64
		benefit float64
	)

	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Generate a use case for a domain and calculate its return on investment",
		Example: `  bizget roi --domain Finance --cost 50000 --benefit 120000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			uc, err := e.generate(domain, "")
			if err != nil {
				return err
			}
			result, err := e.analyzer.CalculateROI(uc, cost, benefit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printUseCase(out, uc)
			printROI(out, cost, benefit, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "business domain")
	cmd.Flags().Float64Var(&cost, "cost", 0, "implementation cost")
	cmd.Flags().Float64Var(&benefit, "benefit", 0, "expected annual benefit")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("cost")
	_ = cmd.MarkFlagRequired("benefit")
	return cmd
}

func newRoadmapCommand(opts *rootOptions) *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Generate a use case for a domain and show its complexity and roadmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.newEngine()
			if err != nil {
				return err
			}
			uc, err := e.generate(domain, "")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printUseCase(out, uc)
			printComplexity(out, e.analyzer.AnalyzeComplexity(uc))
			return printRoadmap(out, e.analyzer.GenerateRoadmap(uc))
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "business domain")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}
