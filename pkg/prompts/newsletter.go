package prompts

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

// NewsletterSystemMessage pins the model to bare JSON output.
const NewsletterSystemMessage = "You produce highly accurate and concise JSON for business owners. Never include markdown or extra text."

// NewsletterUseCaseCount is how many use cases every newsletter must carry.
const NewsletterUseCaseCount = 3

// BuildNewsletterPrompt creates the consultant prompt for one business profile.
// The response shape it requests is decoded by services.NewsletterService.
func BuildNewsletterPrompt(p *models.BusinessProfile) string {
	var prompt strings.Builder

	prompt.WriteString("You are an AI strategy consultant for small and medium businesses.\n\n")

	prompt.WriteString("Given this profile:\n")
	prompt.WriteString(fmt.Sprintf("- Owner Name: %s\n", p.OwnerName))
	prompt.WriteString(fmt.Sprintf("- Business Name: %s\n", p.BusinessName))
	prompt.WriteString(fmt.Sprintf("- Purpose: %s\n", p.Purpose))
	prompt.WriteString(fmt.Sprintf("- Team Size: %d\n", p.TeamSize))
	prompt.WriteString(fmt.Sprintf("- Locations: %s\n", strings.Join(p.Locations, "; ")))
	prompt.WriteString(fmt.Sprintf("- Long-Term Goal: %s\n", p.LongTermGoal))
	prompt.WriteString("- Short-Term Goals:\n")
	for i := 0; i < models.ShortTermGoalCount; i++ {
		prompt.WriteString(fmt.Sprintf("  %d) %s\n", i+1, p.ShortTermGoal(i)))
	}
	prompt.WriteString("\n")

	prompt.WriteString("Return ONLY valid JSON matching this shape:\n")
	prompt.WriteString(`{
  "newsletterSubject": "string",
  "intro": "string",
  "useCases": [
    {
      "title": "string",
      "whyItFits": "string",
      "firstStepThisWeek": "string",
      "expectedBusinessImpact": "string"
    }
  ],
  "weeklyActionPlan": ["string", "string", "string"],
  "closing": "string"
}`)
	prompt.WriteString("\n\n")

	prompt.WriteString("Rules:\n")
	prompt.WriteString(fmt.Sprintf("- exactly %d useCases.\n", NewsletterUseCaseCount))
	prompt.WriteString("- each use case must map directly to at least one stated goal.\n")
	prompt.WriteString("- keep language practical and non-technical for a business owner.\n")
	prompt.WriteString("- no markdown, no extra keys, no preamble.\n")

	return prompt.String()
}
