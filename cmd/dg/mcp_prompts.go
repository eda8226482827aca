package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/depgate/internal/mcp"
	"github.com/conn-castle/depgate/internal/messages"
)

var runPromptServer = mcp.RunPromptServer

func newMcpPromptsCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:    messages.McpPromptsUse,
		Short:  messages.McpPromptsShort,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, global)
			if err != nil {
				return err
			}
			return runPromptServer(cmd.Context(), Version, sess.store)
		},
	}
}
