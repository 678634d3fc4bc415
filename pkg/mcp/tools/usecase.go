// Package tools registers the MCP tools backed by the use-case engine.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/services"
)

// defaultTopCount matches the HTTP API default for top_use_cases.
const defaultTopCount = 5

// UseCaseToolDeps contains dependencies for the use-case tools.
type UseCaseToolDeps struct {
	Catalog   services.DomainCatalog
	Generator services.UseCaseGenerator
	Analyzer  services.UseCaseAnalyzer
	Logger    *zap.Logger
}

// RegisterUseCaseTools registers list_domains, generate_use_case, top_use_cases,
// analyze_portfolio, calculate_roi and implementation_roadmap.
func RegisterUseCaseTools(s *server.MCPServer, deps *UseCaseToolDeps) {
	registerListDomainsTool(s, deps)
	registerGenerateUseCaseTool(s, deps)
	registerTopUseCasesTool(s, deps)
	registerAnalyzePortfolioTool(s, deps)
	registerCalculateROITool(s, deps)
	registerImplementationRoadmapTool(s, deps)
}

// useCaseResponse is a use case plus its effort estimate.
type useCaseResponse struct {
	models.UseCaseRecord
	EstimatedEffort string `json:"estimatedEffort"`
}

func toUseCaseResponse(deps *UseCaseToolDeps, uc *models.UseCase) useCaseResponse {
	return useCaseResponse{
		UseCaseRecord:   uc.ToRecord(),
		EstimatedEffort: deps.Analyzer.EstimateEffort(uc),
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult converts a fixable application error to a tool error result and
// passes anything else through as a Go error.
func errorResult(deps *UseCaseToolDeps, err error) (*mcp.CallToolResult, error) {
	if code := userErrorCode(err); code != "" {
		if code == "domain_not_found" {
			return NewErrorResultWithDetails(code, err.Error(), map[string]any{"valid_domains": domainNames(deps)}), nil
		}
		return NewErrorResult(code, err.Error()), nil
	}
	deps.Logger.Error("Use case tool failed", zap.Error(err))
	return nil, err
}

func domainNames(deps *UseCaseToolDeps) []string {
	domains := deps.Catalog.List()
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = d.Name
	}
	return names
}

// lookupUseCase resolves the use_case_id argument. A nil use case with a nil error
// means result already holds the error to return.
func lookupUseCase(deps *UseCaseToolDeps, req mcp.CallToolRequest) (*models.UseCase, *mcp.CallToolResult, error) {
	raw, err := req.RequireString("use_case_id")
	if err != nil {
		return nil, NewErrorResult("invalid_parameters", err.Error()), nil
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, NewErrorResult("invalid_parameters", fmt.Sprintf("use_case_id %q is not a valid UUID", raw)), nil
	}
	uc, err := deps.Generator.Get(id)
	if err != nil {
		result, err := errorResult(deps, err)
		return nil, result, err
	}
	return uc, nil, nil
}

func readOnlyHints() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	}
}

func registerListDomainsTool(s *server.MCPServer, deps *UseCaseToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("List the business domains use cases can be generated for, with their common challenges."),
	}, readOnlyHints()...)
	tool := mcp.NewTool("list_domains", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		domains := deps.Catalog.List()
		return jsonResult(struct {
			Domains []models.BusinessDomain `json:"domains"`
			Count   int                     `json:"count"`
		}{Domains: domains, Count: len(domains)})
	})
}

func registerGenerateUseCaseTool(s *server.MCPServer, deps *UseCaseToolDeps) {
	tool := mcp.NewTool(
		"generate_use_case",
		mcp.WithDescription(
			"Generate an AI use case for a business domain and add it to the portfolio. "+
				"Returns the use case with its ID, score and effort estimate. "+
				"Use list_domains to discover valid domain names.",
		),
		mcp.WithString(
			"domain",
			mcp.Required(),
			mcp.Description("Business domain name, e.g. 'Customer Service'"),
		),
		mcp.WithString(
			"custom_challenge",
			mcp.Description("Optional challenge the business is facing; recorded for context"),
		),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		domain, err := req.RequireString("domain")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		uc, err := deps.Generator.GenerateForDomain(strings.TrimSpace(domain), getOptionalString(req, "custom_challenge"))
		if err != nil {
			return errorResult(deps, err)
		}
		return jsonResult(toUseCaseResponse(deps, uc))
	})
}

func registerTopUseCasesTool(s *server.MCPServer, deps *UseCaseToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Return the highest-scoring use cases generated so far, best first."),
		mcp.WithNumber(
			"count",
			mcp.Description("Maximum number of use cases to return (default 5)"),
			mcp.Min(0),
		),
	}, readOnlyHints()...)
	tool := mcp.NewTool("top_use_cases", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		count, err := getOptionalCount(req, "count", defaultTopCount)
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		top := deps.Generator.GetTop(count)
		out := make([]useCaseResponse, len(top))
		for i, uc := range top {
			out[i] = toUseCaseResponse(deps, uc)
		}
		return jsonResult(struct {
			UseCases []useCaseResponse `json:"use_cases"`
			Count    int               `json:"count"`
		}{UseCases: out, Count: len(out)})
	})
}

func registerAnalyzePortfolioTool(s *server.MCPServer, deps *UseCaseToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Summarize the generated use cases by domain, priority and feasibility, with the average score."),
	}, readOnlyHints()...)
	tool := mcp.NewTool("analyze_portfolio", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(deps.Generator.Analyze())
	})
}

func registerCalculateROITool(s *server.MCPServer, deps *UseCaseToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Calculate return on investment, payback period and a recommendation for a generated use case. " +
				"Both amounts must be positive.",
		),
		mcp.WithString("use_case_id", mcp.Required(), mcp.Description("ID returned by generate_use_case")),
		mcp.WithNumber("cost", mcp.Required(), mcp.Description("One-off implementation cost")),
		mcp.WithNumber("annual_benefit", mcp.Required(), mcp.Description("Expected yearly benefit")),
	}, readOnlyHints()...)
	tool := mcp.NewTool("calculate_roi", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uc, errResult, err := lookupUseCase(deps, req)
		if uc == nil {
			return errResult, err
		}

		cost, err := requireFloat(req, "cost")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		benefit, err := requireFloat(req, "annual_benefit")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		roi, err := deps.Analyzer.CalculateROI(uc, cost, benefit)
		if err != nil {
			return errorResult(deps, err)
		}
		return jsonResult(struct {
			UseCaseID uuid.UUID `json:"use_case_id"`
			Title     string    `json:"title"`
			models.ROIResult
		}{UseCaseID: uc.ID, Title: uc.Title, ROIResult: roi})
	})
}

func registerImplementationRoadmapTool(s *server.MCPServer, deps *UseCaseToolDeps) {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Return the four-phase implementation roadmap and complexity analysis for a generated use case."),
		mcp.WithString("use_case_id", mcp.Required(), mcp.Description("ID returned by generate_use_case")),
	}, readOnlyHints()...)
	tool := mcp.NewTool("implementation_roadmap", opts...)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uc, errResult, err := lookupUseCase(deps, req)
		if uc == nil {
			return errResult, err
		}
		return jsonResult(struct {
			UseCaseID  uuid.UUID                 `json:"use_case_id"`
			Title      string                    `json:"title"`
			Complexity models.ComplexityAnalysis `json:"complexity"`
			Phases     []models.RoadmapPhase     `json:"phases"`
		}{
			UseCaseID:  uc.ID,
			Title:      uc.Title,
			Complexity: deps.Analyzer.AnalyzeComplexity(uc),
			Phases:     deps.Analyzer.GenerateRoadmap(uc),
		})
	})
}
