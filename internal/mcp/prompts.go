package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
	"github.com/conn-castle/depgate/internal/registry"
)

// Prompt names served by the registry prompt server.
const (
	ProviderReportPrompt  = "provider-report"
	RegistrySummaryPrompt = "registry-summary"
)

// HiveSource reads hive documents. *registry.FileStore satisfies it.
type HiveSource interface {
	Load(hive gate.Hive) (registry.Document, error)
}

type promptServerRunner func(ctx context.Context, server *mcp.Server) error

// RunPromptServer starts an MCP prompt server over stdio that renders the
// registration store read-only.
func RunPromptServer(ctx context.Context, version string, source HiveSource) error {
	return runPromptServer(ctx, version, source, defaultPromptServerRunner)
}

func runPromptServer(ctx context.Context, version string, source HiveSource, runner promptServerRunner) error {
	if runner == nil {
		return fmt.Errorf(messages.McpRunPromptServerFailedFmt, errors.New(messages.McpPromptServerRunnerNil))
	}
	server, err := newPromptServer(version, source)
	if err != nil {
		return fmt.Errorf(messages.McpRunPromptServerFailedFmt, err)
	}
	if err := runner(ctx, server); err != nil {
		return fmt.Errorf(messages.McpRunPromptServerFailedFmt, err)
	}
	return nil
}

func newPromptServer(version string, source HiveSource) (*mcp.Server, error) {
	if source == nil {
		return nil, errors.New(messages.McpHiveSourceRequired)
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "depgate",
		Version: version,
	}, nil)

	hiveArg := &mcp.PromptArgument{Name: "hive", Description: messages.McpHiveArgDescription}
	server.AddPrompt(&mcp.Prompt{
		Name:        ProviderReportPrompt,
		Description: messages.McpProviderReportDescription,
		Arguments: []*mcp.PromptArgument{
			{Name: "key", Description: messages.McpProviderReportKeyArg, Required: true},
			hiveArg,
		},
	}, textHandler(messages.McpProviderReportDescription, func(args map[string]string) (string, error) {
		return providerReport(source, args)
	}))
	server.AddPrompt(&mcp.Prompt{
		Name:        RegistrySummaryPrompt,
		Description: messages.McpRegistrySummaryDescription,
		Arguments:   []*mcp.PromptArgument{hiveArg},
	}, textHandler(messages.McpRegistrySummaryDescription, func(args map[string]string) (string, error) {
		return registrySummary(source, args)
	}))
	return server, nil
}

// defaultPromptServerRunner runs the MCP prompt server over stdio.
func defaultPromptServerRunner(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func textHandler(description string, render func(args map[string]string) (string, error)) func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var args map[string]string
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		text, err := render(args)
		if err != nil {
			return nil, err
		}
		return &mcp.GetPromptResult{
			Description: description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: text},
				},
			},
		}, nil
	}
}

func providerReport(source HiveSource, args map[string]string) (string, error) {
	key := strings.TrimSpace(args["key"])
	if key == "" {
		return "", fmt.Errorf(messages.McpArgumentRequiredFmt, "key")
	}
	hive, doc, err := loadHive(source, args)
	if err != nil {
		return "", err
	}
	provider, ok := doc.Provider(key)
	if !ok {
		return fmt.Sprintf(messages.McpProviderMissingFmt, key, hive), nil
	}

	lines := []string{fmt.Sprintf(messages.McpProviderHeaderFmt, provider.Key, hive)}
	lines = append(lines, fmt.Sprintf(messages.McpProviderVersionFmt, versionOrUnversioned(provider.Version)))
	if provider.DisplayName != "" {
		lines = append(lines, fmt.Sprintf(messages.McpProviderDisplayNameFmt, provider.DisplayName))
	}
	if len(provider.Dependents) == 0 {
		lines = append(lines, messages.McpProviderNoDependents)
		return strings.Join(lines, "\n"), nil
	}
	lines = append(lines, fmt.Sprintf(messages.McpProviderDependentsFmt, len(provider.Dependents)))
	for _, dep := range provider.Dependents {
		if dep.DisplayName != "" {
			lines = append(lines, fmt.Sprintf(messages.McpListItemNamedFmt, dep.Key, dep.DisplayName))
			continue
		}
		lines = append(lines, fmt.Sprintf(messages.McpListItemFmt, dep.Key))
	}
	return strings.Join(lines, "\n"), nil
}

func registrySummary(source HiveSource, args map[string]string) (string, error) {
	hive, doc, err := loadHive(source, args)
	if err != nil {
		return "", err
	}
	if len(doc.Providers) == 0 {
		return fmt.Sprintf(messages.McpSummaryEmptyFmt, hive), nil
	}
	lines := []string{fmt.Sprintf(messages.McpSummaryHeaderFmt, len(doc.Providers), hive)}
	for _, p := range doc.Providers {
		lines = append(lines, fmt.Sprintf(messages.McpSummaryLineFmt, p.Key, versionOrUnversioned(p.Version), len(p.Dependents)))
	}
	return strings.Join(lines, "\n"), nil
}

func loadHive(source HiveSource, args map[string]string) (gate.Hive, registry.Document, error) {
	var hive gate.Hive
	switch strings.ToLower(strings.TrimSpace(args["hive"])) {
	case "", "user":
		hive = gate.HivePerUser
	case "machine":
		hive = gate.HivePerMachine
	default:
		return hive, registry.Document{}, fmt.Errorf(messages.McpUnknownHiveFmt, args["hive"])
	}
	doc, err := source.Load(hive)
	if err != nil {
		return hive, registry.Document{}, fmt.Errorf(messages.McpLoadHiveFmt, hive, err)
	}
	return hive, doc, nil
}

func versionOrUnversioned(v string) string {
	if v == "" {
		return messages.McpUnversioned
	}
	return v
}
