package models

import (
	"strings"
	"time"
)

// ShortTermGoalCount is the number of short-term goals every profile carries.
const ShortTermGoalCount = 3

// ProfileInput is the onboarding form submitted by a business owner.
type ProfileInput struct {
	OwnerName      string   `json:"ownerName" validate:"required,max=200,nomarkup"`
	BusinessName   string   `json:"businessName" validate:"required,max=200,nomarkup"`
	Email          string   `json:"email" validate:"required,email,max=320"`
	Purpose        string   `json:"purpose" validate:"required,max=2000"`
	TeamSize       int      `json:"teamSize" validate:"gte=1"`
	Locations      []string `json:"locations" validate:"min=1,dive,required,max=200,nomarkup"`
	LongTermGoal   string   `json:"longTermGoal" validate:"required,max=2000"`
	ShortTermGoals []string `json:"shortTermGoals" validate:"len=3,dive,required,max=2000"`
}

// Normalize trims every text field and lower-cases the email. Blank entries
// stay in place so validation can reject them.
func (in ProfileInput) Normalize() ProfileInput {
	out := ProfileInput{
		OwnerName:    strings.TrimSpace(in.OwnerName),
		BusinessName: strings.TrimSpace(in.BusinessName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Purpose:      strings.TrimSpace(in.Purpose),
		TeamSize:     in.TeamSize,
		LongTermGoal: strings.TrimSpace(in.LongTermGoal),
	}
	for _, l := range in.Locations {
		out.Locations = append(out.Locations, strings.TrimSpace(l))
	}
	for _, g := range in.ShortTermGoals {
		out.ShortTermGoals = append(out.ShortTermGoals, strings.TrimSpace(g))
	}
	return out
}

// ToProfile converts a normalized input into a profile ready to be stored.
func (in ProfileInput) ToProfile() *BusinessProfile {
	return &BusinessProfile{
		OwnerName:      in.OwnerName,
		BusinessName:   in.BusinessName,
		Email:          in.Email,
		Purpose:        in.Purpose,
		TeamSize:       in.TeamSize,
		Locations:      append([]string(nil), in.Locations...),
		LongTermGoal:   in.LongTermGoal,
		ShortTermGoals: append([]string(nil), in.ShortTermGoals...),
	}
}

// BusinessProfile is a stored newsletter subscriber. Email is unique and lower-case.
type BusinessProfile struct {
	ID                   int64      `json:"id"`
	OwnerName            string     `json:"ownerName"`
	BusinessName         string     `json:"businessName"`
	Email                string     `json:"email"`
	Purpose              string     `json:"purpose"`
	TeamSize             int        `json:"teamSize"`
	Locations            []string   `json:"locations"`
	LongTermGoal         string     `json:"longTermGoal"`
	ShortTermGoals       []string   `json:"shortTermGoals"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
	LastNewsletterSentAt *time.Time `json:"lastNewsletterSentAt"`
}

// ShortTermGoal returns the i-th short-term goal, or "" when it is missing.
func (p *BusinessProfile) ShortTermGoal(i int) string {
	if i < 0 || i >= len(p.ShortTermGoals) {
		return ""
	}
	return p.ShortTermGoals[i]
}

// ProfileSummary is the listing view of a profile.
type ProfileSummary struct {
	ID                   int64      `json:"id"`
	OwnerName            string     `json:"ownerName"`
	BusinessName         string     `json:"businessName"`
	Email                string     `json:"email"`
	TeamSize             int        `json:"teamSize"`
	Locations            []string   `json:"locations"`
	LastNewsletterSentAt *time.Time `json:"lastNewsletterSentAt"`
	LatestSubject        *string    `json:"latestSubject"`
}

// NewProfileSummary builds a summary; latest may be nil when no newsletter was saved yet.
func NewProfileSummary(p *BusinessProfile, latest *Newsletter) ProfileSummary {
	s := ProfileSummary{
		ID:                   p.ID,
		OwnerName:            p.OwnerName,
		BusinessName:         p.BusinessName,
		Email:                p.Email,
		TeamSize:             p.TeamSize,
		Locations:            p.Locations,
		LastNewsletterSentAt: p.LastNewsletterSentAt,
	}
	if s.Locations == nil {
		s.Locations = []string{}
	}
	if latest != nil {
		subject := latest.Subject
		s.LatestSubject = &subject
	}
	return s
}

// NewsletterContent is a rendered newsletter before it is stored.
type NewsletterContent struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"bodyHtml"`
	BodyText string `json:"bodyText"`
	Markdown string `json:"-"`
}

// Newsletter is a newsletter that was sent to a profile.
type Newsletter struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profileId"`
	Subject   string    `json:"subject"`
	BodyHTML  string    `json:"bodyHtml"`
	BodyText  string    `json:"bodyText"`
	CreatedAt time.Time `json:"createdAt"`
}

// Email is an outgoing multipart message.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// NewsletterRunResult counts the outcome of one newsletter run.
type NewsletterRunResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
