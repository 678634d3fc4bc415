package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jinzhu/inflection"
	"github.com/olekukonko/tablewriter"

	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	titleColor   = color.New(color.Bold)
	labelColor   = color.New(color.FgYellow)
)

var recommendationColors = map[models.Recommendation]*color.Color{
	models.RecommendationHighlyRecommended: color.New(color.FgGreen, color.Bold),
	models.RecommendationRecommended:       color.New(color.FgGreen),
	models.RecommendationConsiderCarefully: color.New(color.FgRed),
}

// countOf renders "1 use case" or "3 use cases".
func countOf(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

func sectionf(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w)
	headingColor.Fprintf(w, "== %s ==\n", fmt.Sprintf(format, args...))
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

func printDomains(w io.Writer, domains []models.BusinessDomain) error {
	table := tablewriter.NewWriter(w)
	table.Header("Domain", "Description", "Common challenges")
	for _, d := range domains {
		_ = table.Append([]string{d.Name, d.Description, strings.Join(d.CommonChallenges, "; ")})
	}
	return table.Render()
}

func printUseCase(w io.Writer, uc *models.UseCase) {
	fmt.Fprintln(w)
	titleColor.Fprintf(w, "%s\n", uc.Title)
	labelColor.Fprint(w, "  Domain:      ")
	fmt.Fprintln(w, uc.Domain)
	labelColor.Fprint(w, "  ID:          ")
	fmt.Fprintln(w, uc.ID)
	labelColor.Fprint(w, "  Priority:    ")
	fmt.Fprintln(w, uc.Priority())
	labelColor.Fprint(w, "  Feasibility: ")
	fmt.Fprintln(w, uc.Feasibility())
	labelColor.Fprint(w, "  Score:       ")
	fmt.Fprintln(w, formatScore(uc.CalculateScore()))
	fmt.Fprintf(w, "  %s\n", uc.Description)

	if len(uc.Benefits) > 0 {
		labelColor.Fprintln(w, "  Benefits:")
		for _, b := range uc.Benefits {
			fmt.Fprintf(w, "    - %s\n", b)
		}
	}
	if len(uc.Requirements) > 0 {
		labelColor.Fprintln(w, "  Requirements:")
		for _, r := range uc.Requirements {
			fmt.Fprintf(w, "    - %s\n", r)
		}
	}
}

func printUseCaseTable(w io.Writer, useCases []*models.UseCase) error {
	if len(useCases) == 0 {
		fmt.Fprintln(w, "No use cases.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Title", "Domain", "Priority", "Feasibility", "Score")
	for i, uc := range useCases {
		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			uc.Title,
			uc.Domain,
			string(uc.Priority()),
			string(uc.Feasibility()),
			formatScore(uc.CalculateScore()),
		})
	}
	return table.Render()
}

func printAnalysis(w io.Writer, a models.PortfolioAnalysis) error {
	fmt.Fprintf(w, "Total: %s, average score %s\n", countOf(a.TotalUseCases, "use case"), formatScore(a.AverageScore))

	table := tablewriter.NewWriter(w)
	table.Header("Breakdown", "Value", "Count")
	for _, group := range []struct {
		name   string
		counts map[string]int
	}{
		{"Domain", a.ByDomain},
		{"Priority", a.ByPriority},
		{"Feasibility", a.ByFeasibility},
	} {
		keys := make([]string, 0, len(group.counts))
		for k := range group.counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_ = table.Append([]string{group.name, k, strconv.Itoa(group.counts[k])})
		}
	}
	return table.Render()
}

func printROI(w io.Writer, cost, benefit float64, r models.ROIResult) {
	sectionf(w, "Return on investment")
	fmt.Fprintf(w, "  Cost:           %s\n", strconv.FormatFloat(cost, 'f', 2, 64))
	fmt.Fprintf(w, "  Annual benefit: %s\n", strconv.FormatFloat(benefit, 'f', 2, 64))
	fmt.Fprintf(w, "  ROI:            %s\n", r.ROI)
	fmt.Fprintf(w, "  Payback period: %s\n", r.PaybackPeriod)
	fmt.Fprint(w, "  Recommendation: ")
	c, ok := recommendationColors[r.Recommendation]
	if !ok {
		c = titleColor
	}
	c.Fprintln(w, r.Recommendation)
}

func printComplexity(w io.Writer, c models.ComplexityAnalysis) {
	sectionf(w, "Complexity")
	fmt.Fprintf(w, "  Requirements:     %d\n", c.RequirementsCount)
	fmt.Fprintf(w, "  Feasibility:      %s\n", c.Feasibility)
	fmt.Fprintf(w, "  Estimated effort: %s\n", c.EstimatedEffort)
}

func printRoadmap(w io.Writer, phases []models.RoadmapPhase) error {
	sectionf(w, "Implementation roadmap")
	table := tablewriter.NewWriter(w)
	table.Header("Phase", "Duration", "Activities")
	for _, p := range phases {
		_ = table.Append([]string{p.Name, p.Duration, strings.Join(p.Activities, "; ")})
	}
	return table.Render()
}
