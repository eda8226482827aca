package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/registry"
)

type fakeSource struct {
	docs  map[gate.Hive]registry.Document
	err   error
	loads []gate.Hive
}

func (f *fakeSource) Load(hive gate.Hive) (registry.Document, error) {
	f.loads = append(f.loads, hive)
	if f.err != nil {
		return registry.Document{}, f.err
	}
	return f.docs[hive], nil
}

func sampleSource() *fakeSource {
	return &fakeSource{docs: map[gate.Hive]registry.Document{
		gate.HivePerUser: {Providers: []registry.Provider{
			{
				Key:         "Acme.Runtime",
				Version:     "1.5.0.12",
				DisplayName: "Acme Runtime",
				Dependents:  []registry.Dependent{{Key: "Acme.Tools"}, {Key: "Contoso.App", DisplayName: "Contoso App"}},
			},
			{Key: "Acme.Tools"},
		}},
	}}
}

func TestProviderReport(t *testing.T) {
	text, err := providerReport(sampleSource(), map[string]string{"key": "acme.runtime"})
	require.NoError(t, err)
	assert.Equal(t, "Provider Acme.Runtime in the user hive\n"+
		"Version: 1.5.0.12\n"+
		"Display name: Acme Runtime\n"+
		"Dependents (2), which block removal unless ignored:\n"+
		"- Acme.Tools\n"+
		"- Contoso.App (Contoso App)", text)
}

func TestProviderReportWithoutDependents(t *testing.T) {
	text, err := providerReport(sampleSource(), map[string]string{"key": "Acme.Tools"})
	require.NoError(t, err)
	assert.Contains(t, text, "Version: unversioned")
	assert.Contains(t, text, "removing it is not blocked")
	assert.NotContains(t, text, "Display name")
}

func TestProviderReportMissing(t *testing.T) {
	source := sampleSource()
	text, err := providerReport(source, map[string]string{"key": "Acme.Runtime", "hive": "Machine"})
	require.NoError(t, err)
	assert.Equal(t, "Provider Acme.Runtime is not registered in the machine hive.", text)
	assert.Equal(t, []gate.Hive{gate.HivePerMachine}, source.loads)
}

func TestProviderReportErrors(t *testing.T) {
	_, err := providerReport(sampleSource(), map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"key"`)

	_, err = providerReport(sampleSource(), map[string]string{"key": "A", "hive": "global"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global")

	loadErr := errors.New("corrupt hive")
	_, err = providerReport(&fakeSource{err: loadErr}, map[string]string{"key": "A"})
	require.ErrorIs(t, err, loadErr)
}

func TestRegistrySummary(t *testing.T) {
	text, err := registrySummary(sampleSource(), nil)
	require.NoError(t, err)
	assert.Equal(t, "2 provider(s) registered in the user hive\n"+
		"- Acme.Runtime 1.5.0.12 (2 dependent(s))\n"+
		"- Acme.Tools unversioned (0 dependent(s))", text)

	text, err = registrySummary(sampleSource(), map[string]string{"hive": "machine"})
	require.NoError(t, err)
	assert.Equal(t, "No providers are registered in the machine hive.", text)
}

func TestTextHandler(t *testing.T) {
	handler := textHandler("desc", func(args map[string]string) (string, error) {
		return "hello " + args["name"], nil
	})
	result, err := handler(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"name": "dg"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "desc", result.Description)
	require.Len(t, result.Messages, 1)
	assert.EqualValues(t, "user", result.Messages[0].Role)
	assert.Equal(t, &mcp.TextContent{Text: "hello dg"}, result.Messages[0].Content)

	result, err = handler(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &mcp.TextContent{Text: "hello "}, result.Messages[0].Content)

	failing := textHandler("desc", func(map[string]string) (string, error) { return "", errors.New("boom") })
	_, err = failing(context.Background(), &mcp.GetPromptRequest{})
	require.Error(t, err)
}

func TestRunPromptServerUsesRunner(t *testing.T) {
	var got *mcp.Server
	err := runPromptServer(context.Background(), "1.2.3", sampleSource(), func(_ context.Context, server *mcp.Server) error {
		got = server
		return nil
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRunPromptServerErrors(t *testing.T) {
	err := runPromptServer(context.Background(), "1.2.3", sampleSource(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runner is nil")

	err = runPromptServer(context.Background(), "1.2.3", nil, func(context.Context, *mcp.Server) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry source is required")

	runErr := errors.New("stdio closed")
	err = runPromptServer(context.Background(), "1.2.3", sampleSource(), func(context.Context, *mcp.Server) error { return runErr })
	require.ErrorIs(t, err, runErr)
}

func TestRunPromptServerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A canceled context may surface as an error or a clean shutdown; either way it must return.
	_ = RunPromptServer(ctx, "v1.0.0", sampleSource())
}
