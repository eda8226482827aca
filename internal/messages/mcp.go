package messages

// MCP prompt server messages.
const (
	McpRunPromptServerFailedFmt = "failed to run MCP prompt server: %w"
	McpPromptServerRunnerNil    = "prompt server runner is nil"
	McpHiveSourceRequired       = "registry source is required"
	McpArgumentRequiredFmt      = "argument %q is required"
	McpUnknownHiveFmt           = "unknown hive %q (expected user or machine)"
	McpLoadHiveFmt              = "load %s hive: %w"

	McpProviderReportDescription  = "Describe one registered provider and what depends on it"
	McpProviderReportKeyArg       = "Provider key, matched case-insensitively"
	McpHiveArgDescription         = "Hive to read: user (default) or machine"
	McpRegistrySummaryDescription = "Summarize every provider registered in a hive"

	McpProviderHeaderFmt      = "Provider %s in the %s hive"
	McpProviderMissingFmt     = "Provider %s is not registered in the %s hive."
	McpProviderVersionFmt     = "Version: %s"
	McpProviderDisplayNameFmt = "Display name: %s"
	McpProviderNoDependents   = "No registered dependents; removing it is not blocked."
	McpProviderDependentsFmt  = "Dependents (%d), which block removal unless ignored:"
	McpSummaryHeaderFmt       = "%d provider(s) registered in the %s hive"
	McpSummaryEmptyFmt        = "No providers are registered in the %s hive."
	McpSummaryLineFmt         = "- %s %s (%d dependent(s))"
	McpListItemFmt            = "- %s"
	McpListItemNamedFmt       = "- %s (%s)"
	McpUnversioned            = "unversioned"
)
