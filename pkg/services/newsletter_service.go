package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
	"github.com/ekaya-inc/bizget-engine/pkg/jsonutil"
	"github.com/ekaya-inc/bizget-engine/pkg/llm"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/prompts"
	"github.com/ekaya-inc/bizget-engine/pkg/retry"
)

const (
	newsletterSignature = "— BizGet AI Weekly"
	maxActionItems      = 3
	htmlWrapperOpen     = `<div style="font-family:Segoe UI, Arial, sans-serif; color:#111827; line-height:1.5;">`
	htmlWrapperClose    = `</div>`
)

// NewsletterService writes a personalized newsletter for a business profile.
type NewsletterService interface {
	Generate(ctx context.Context, profile *models.BusinessProfile) (*models.NewsletterContent, error)
}

type newsletterService struct {
	client      llm.LLMClient
	temperature float64
	retry       *retry.Config
	markdown    goldmark.Markdown
	logger      *zap.Logger
}

var _ NewsletterService = (*newsletterService)(nil)

// NewNewsletterService creates a newsletter service. client may be nil when no AI
// provider is configured; Generate then fails with apperrors.ErrAINotConfigured.
func NewNewsletterService(client llm.LLMClient, temperature float64, logger *zap.Logger) NewsletterService {
	return &newsletterService{
		client:      client,
		temperature: temperature,
		retry:       retry.RemoteConfig(),
		// Default renderer: raw HTML from the model is omitted, text is escaped.
		markdown: goldmark.New(),
		logger:   logger.Named("newsletter"),
	}
}

// newsletterDraft is the JSON document the model is asked to return.
type newsletterDraft struct {
	NewsletterSubject string         `json:"newsletterSubject"`
	Intro             string         `json:"intro"`
	UseCases          []draftUseCase `json:"useCases"`
	WeeklyActionPlan  flexStrings    `json:"weeklyActionPlan"`
	Closing           string         `json:"closing"`
}

type draftUseCase struct {
	Title                  string `json:"title"`
	WhyItFits              string `json:"whyItFits"`
	FirstStepThisWeek      string `json:"firstStepThisWeek"`
	ExpectedBusinessImpact string `json:"expectedBusinessImpact"`
}

// flexStrings accepts a JSON array of any scalars and keeps their text form.
// A non-array value decodes to an empty list.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	*f = jsonutil.FlexibleStringSlice(data)
	return nil
}

func (s *newsletterService) Generate(ctx context.Context, profile *models.BusinessProfile) (*models.NewsletterContent, error) {
	if s.client == nil {
		return nil, apperrors.ErrAINotConfigured
	}

	prompt := prompts.BuildNewsletterPrompt(profile)

	result, err := retry.DoIfRetryableWithResult(ctx, s.retry, func() (*llm.GenerateResponseResult, error) {
		return s.client.GenerateResponse(ctx, prompt, prompts.NewsletterSystemMessage, s.temperature)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate newsletter: %w", err)
	}

	s.logger.Debug("Newsletter draft received",
		zap.Int64("profile_id", profile.ID),
		zap.String("model", s.client.GetModel()),
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens))

	draft, err := llm.ParseJSONResponse[newsletterDraft](result.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse AI response as JSON: %v", apperrors.ErrInvalidAIResponse, err)
	}

	return s.render(profile, &draft)
}

// render turns a draft into subject, text and HTML bodies.
func (s *newsletterService) render(profile *models.BusinessProfile, draft *newsletterDraft) (*models.NewsletterContent, error) {
	if len(draft.UseCases) != prompts.NewsletterUseCaseCount {
		return nil, fmt.Errorf("%w: expected exactly %d use cases, got %d",
			apperrors.ErrInvalidAIResponse, prompts.NewsletterUseCaseCount, len(draft.UseCases))
	}

	subject := strings.TrimSpace(draft.NewsletterSubject)
	if subject == "" {
		subject = fmt.Sprintf("Weekly AI Ideas for %s", profile.BusinessName)
	}

	actions := []string(draft.WeeklyActionPlan)
	if len(actions) > maxActionItems {
		actions = actions[:maxActionItems]
	}

	md := buildNewsletterMarkdown(profile, draft, actions)

	var html bytes.Buffer
	html.WriteString(htmlWrapperOpen)
	if err := s.markdown.Convert([]byte(md), &html); err != nil {
		return nil, fmt.Errorf("failed to render newsletter html: %w", err)
	}
	html.WriteString(htmlWrapperClose)

	return &models.NewsletterContent{
		Subject:  subject,
		BodyHTML: html.String(),
		BodyText: buildNewsletterText(profile, draft, actions),
		Markdown: md,
	}, nil
}

func useCaseTitle(uc draftUseCase, i int) string {
	if t := strings.TrimSpace(uc.Title); t != "" {
		return t
	}
	return fmt.Sprintf("Use Case %d", i+1)
}

// oneLine keeps model text inside a single markdown block.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func buildNewsletterMarkdown(profile *models.BusinessProfile, draft *newsletterDraft, actions []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", oneLine(profile.OwnerName))
	if intro := oneLine(draft.Intro); intro != "" {
		fmt.Fprintf(&b, "%s\n\n", intro)
	}

	fmt.Fprintf(&b, "## %d AI Use Cases for %s\n\n", len(draft.UseCases), oneLine(profile.BusinessName))
	for i, uc := range draft.UseCases {
		fmt.Fprintf(&b, "%d. **%s**\n\n", i+1, oneLine(useCaseTitle(uc, i)))
		fmt.Fprintf(&b, "   **Why it fits:** %s\n\n", oneLine(uc.WhyItFits))
		fmt.Fprintf(&b, "   **First step this week:** %s\n\n", oneLine(uc.FirstStepThisWeek))
		fmt.Fprintf(&b, "   **Expected impact:** %s\n\n", oneLine(uc.ExpectedBusinessImpact))
	}

	b.WriteString("## Your Weekly Action Plan\n\n")
	for i, item := range actions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, oneLine(item))
	}
	b.WriteString("\n")

	if closing := oneLine(draft.Closing); closing != "" {
		fmt.Fprintf(&b, "%s\n\n", closing)
	}
	b.WriteString(newsletterSignature + "\n")
	return b.String()
}

func buildNewsletterText(profile *models.BusinessProfile, draft *newsletterDraft, actions []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s,\n\n", profile.OwnerName)
	if intro := strings.TrimSpace(draft.Intro); intro != "" {
		fmt.Fprintf(&b, "%s\n\n", intro)
	}

	fmt.Fprintf(&b, "%d AI Use Cases for %s\n", len(draft.UseCases), profile.BusinessName)
	for i, uc := range draft.UseCases {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d) %s\nWhy it fits: %s\nFirst step this week: %s\nExpected impact: %s\n",
			i+1, useCaseTitle(uc, i), uc.WhyItFits, uc.FirstStepThisWeek, uc.ExpectedBusinessImpact)
	}

	b.WriteString("\nYour Weekly Action Plan\n")
	for i, item := range actions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}

	if closing := strings.TrimSpace(draft.Closing); closing != "" {
		fmt.Fprintf(&b, "\n%s\n", closing)
	}
	fmt.Fprintf(&b, "\n%s", newsletterSignature)
	return b.String()
}
