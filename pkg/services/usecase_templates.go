package services

import (
	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

// TemplateLibrary provides candidate use case definitions per domain.
type TemplateLibrary interface {
	// TemplatesFor returns the templates for a domain; empty if none are defined.
	TemplatesFor(domain string) []models.UseCaseTemplate
}

// StaticTemplateLibrary is a TemplateLibrary backed by a fixed map.
type StaticTemplateLibrary map[string][]models.UseCaseTemplate

var _ TemplateLibrary = StaticTemplateLibrary(nil)

// TemplatesFor implements TemplateLibrary.
func (l StaticTemplateLibrary) TemplatesFor(domain string) []models.UseCaseTemplate {
	return l[domain]
}

// Default domain names.
const (
	DomainCustomerService    = "Customer Service"
	DomainSalesMarketing     = "Sales & Marketing"
	DomainOperations         = "Operations"
	DomainFinance            = "Finance"
	DomainHumanResources     = "Human Resources"
	DomainProductDevelopment = "Product Development"
)

// DefaultBusinessDomains returns the built-in domain catalog entries.
func DefaultBusinessDomains() []models.BusinessDomain {
	return []models.BusinessDomain{
		{
			Name:             DomainCustomerService,
			Description:      "Automated customer support and engagement",
			CommonChallenges: []string{"High volume inquiries", "Response time", "Consistency", "Availability"},
		},
		{
			Name:             DomainSalesMarketing,
			Description:      "Lead generation and customer acquisition",
			CommonChallenges: []string{"Lead qualification", "Personalization", "Follow-up timing", "Content creation"},
		},
		{
			Name:             DomainOperations,
			Description:      "Process automation and efficiency",
			CommonChallenges: []string{"Manual tasks", "Data entry", "Coordination", "Resource allocation"},
		},
		{
			Name:             DomainFinance,
			Description:      "Financial analysis and reporting",
			CommonChallenges: []string{"Data accuracy", "Compliance", "Forecasting", "Report generation"},
		},
		{
			Name:             DomainHumanResources,
			Description:      "Talent management and employee engagement",
			CommonChallenges: []string{"Recruitment", "Onboarding", "Training", "Performance tracking"},
		},
		{
			Name:             DomainProductDevelopment,
			Description:      "Innovation and product lifecycle management",
			CommonChallenges: []string{"Requirements gathering", "Testing", "Documentation", "Release management"},
		},
	}
}

// DefaultTemplateLibrary returns the built-in templates. Finance, Human Resources
// and Product Development carry a single template each.
func DefaultTemplateLibrary() StaticTemplateLibrary {
	return StaticTemplateLibrary{
		DomainCustomerService: {
			{
				Title:       "AI-Powered 24/7 Customer Support Chatbot",
				Description: "Implement an intelligent chatbot that handles customer inquiries, provides instant responses, and escalates complex issues to human agents.",
				Benefits: []string{
					"24/7 availability without additional staffing costs",
					"Instant response times improving customer satisfaction",
					"Reduced workload on human agents",
					"Consistent quality of responses",
					"Multi-language support capabilities",
				},
				Requirements: []string{
					"Integration with existing CRM system",
					"Knowledge base development",
					"Escalation workflow design",
					"Performance monitoring dashboard",
				},
				Priority:    models.PriorityHigh,
				Feasibility: models.FeasibilityModerate,
			},
			{
				Title:       "Automated Ticket Categorization and Routing",
				Description: "Use AI agents to automatically categorize support tickets and route them to the most appropriate team or agent based on content and urgency.",
				Benefits: []string{
					"Faster ticket resolution",
					"Improved agent specialization",
					"Reduced response time",
					"Better workload distribution",
				},
				Requirements: []string{
					"Ticket system integration",
					"Training data collection",
					"Team skill mapping",
					"Feedback mechanism",
				},
				Priority:    models.PriorityMedium,
				Feasibility: models.FeasibilityEasy,
			},
		},
		DomainSalesMarketing: {
			{
				Title:       "Intelligent Lead Qualification Agent",
				Description: "Deploy an AI agent that analyzes incoming leads, scores them based on multiple criteria, and prioritizes follow-up actions for the sales team.",
				Benefits: []string{
					"Increased sales team efficiency",
					"Higher conversion rates",
					"Consistent lead evaluation",
					"Data-driven prioritization",
					"Reduced time to first contact",
				},
				Requirements: []string{
					"CRM integration",
					"Lead scoring model development",
					"Sales process alignment",
					"Performance metrics tracking",
				},
				Priority:    models.PriorityHigh,
				Feasibility: models.FeasibilityModerate,
			},
			{
				Title:       "Personalized Email Campaign Generator",
				Description: "Create AI-powered system that generates personalized email content for different customer segments based on their behavior and preferences.",
				Benefits: []string{
					"Higher engagement rates",
					"Increased personalization at scale",
					"Time savings for marketing team",
					"A/B testing capabilities",
				},
				Requirements: []string{
					"Email platform integration",
					"Customer data access",
					"Content approval workflow",
					"Performance analytics",
				},
				Priority:    models.PriorityMedium,
				Feasibility: models.FeasibilityModerate,
			},
		},
		DomainOperations: {
			{
				Title:       "Automated Invoice Processing System",
				Description: "Implement an AI agent that extracts data from invoices, validates information, matches with purchase orders, and routes for approval.",
				Benefits: []string{
					"Reduced manual data entry",
					"Faster processing times",
					"Improved accuracy",
					"Cost savings on administrative tasks",
					"Better cash flow management",
				},
				Requirements: []string{
					"OCR technology integration",
					"ERP system connection",
					"Approval workflow setup",
					"Exception handling process",
				},
				Priority:    models.PriorityHigh,
				Feasibility: models.FeasibilityComplex,
			},
			{
				Title:       "Smart Meeting Scheduler and Coordinator",
				Description: "Deploy an AI agent that automatically schedules meetings, finds optimal times, sends invitations, and manages rescheduling requests.",
				Benefits: []string{
					"Reduced scheduling overhead",
					"Optimal time slot selection",
					"Automated follow-ups",
					"Calendar conflict resolution",
				},
				Requirements: []string{
					"Calendar system integration",
					"Team availability access",
					"Meeting room booking system",
					"Notification setup",
				},
				Priority:    models.PriorityMedium,
				Feasibility: models.FeasibilityEasy,
			},
		},
		DomainFinance: {
			{
				Title:       "Automated Financial Report Generation",
				Description: "Create an AI system that generates comprehensive financial reports, identifies trends, and provides insights from financial data.",
				Benefits: []string{
					"Time savings for finance team",
					"Consistent report formatting",
					"Trend identification",
					"Automated distribution",
					"Real-time reporting capabilities",
				},
				Requirements: []string{
					"Financial system integration",
					"Report template design",
					"Data validation rules",
					"Security and compliance measures",
				},
				Priority:    models.PriorityHigh,
				Feasibility: models.FeasibilityModerate,
			},
		},
		DomainHumanResources: {
			{
				Title:       "AI-Powered Candidate Screening Assistant",
				Description: "Implement an AI agent that screens resumes, matches candidates to job requirements, and schedules initial interviews.",
				Benefits: []string{
					"Faster time-to-hire",
					"Reduced bias in initial screening",
					"Improved candidate matching",
					"Better candidate experience",
					"Recruiter time savings",
				},
				Requirements: []string{
					"ATS integration",
					"Job requirement definition",
					"Candidate communication templates",
					"Interview scheduling system",
				},
				Priority:    models.PriorityHigh,
				Feasibility: models.FeasibilityModerate,
			},
		},
		DomainProductDevelopment: {
			{
				Title:       "Automated Bug Triaging and Assignment",
				Description: "Deploy an AI agent that analyzes bug reports, categorizes them, assigns severity levels, and routes to appropriate development teams.",
				Benefits: []string{
					"Faster bug resolution",
					"Consistent prioritization",
					"Better team workload balance",
					"Improved product quality",
				},
				Requirements: []string{
					"Bug tracking system integration",
					"Historical bug data analysis",
					"Team expertise mapping",
					"Escalation procedures",
				},
				Priority:    models.PriorityMedium,
				Feasibility: models.FeasibilityModerate,
			},
		},
	}
}
