package messages

// CLI messages for user-facing commands.
const (
	// RootUse is the CLI command name.
	RootUse   = "dg"
	RootShort = "Provider dependency gate for transactional installs"

	RootLong = "dg checks an install transaction against the provider registration store before it commits:\n" +
		"required providers must be present, and providers being removed must not leave dependents behind."

	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	FlagConfig      = "Path to depgate.toml"
	FlagMachine     = "Use the per-machine hive instead of the per-user hive"
	FlagVerbose     = "Log decisions to stderr"
	FlagTransaction = "Path to the transaction manifest (TOML)"
	FlagProperties  = "Path to a host property file (NAME=VALUE)"
	FlagYes         = "Answer yes to the prompt without asking"
	FlagNo          = "Answer no to the prompt without asking"
	FlagIgnore      = "Semicolon-separated dependent keys to ignore, or ALL"
	FlagJSON        = "Print JSON instead of text"
	FlagVersion     = "Version to register"
	FlagDisplayName = "Display name to record"
	FlagDryRun      = "Print the registry diff without writing"
	FlagForce       = "Remove providers even when dependents remain"

	// CheckUse is the check command group.
	CheckUse             = "check"
	CheckShort           = "Run a gate check against a transaction"
	CheckRequireUse      = "require"
	CheckRequireShort    = "Verify every provider the installing components require is registered"
	CheckDependentsUse   = "dependents"
	CheckDependentsShort = "Verify nothing still depends on providers being removed"

	CheckYesNoExclusive = "--yes and --no cannot be used together"
	CheckReportFmt      = "%s check: %s\n"
	CheckAnsweredFmt    = "%s check: %s (answered %s)\n"
	CheckIgnoreAllFmt   = "%s check skipped: every dependent is ignored\n"

	// RegistryUse is the registry command group.
	RegistryUse                  = "registry"
	RegistryShort                = "Inspect and update the provider registration store"
	RegistryShowUse              = "show"
	RegistryShowShort            = "Print the providers registered in a hive"
	RegistryRegisterUse          = "register KEY"
	RegistryRegisterShort        = "Register or update a provider key"
	RegistryUnregisterUse        = "unregister KEY"
	RegistryUnregisterShort      = "Remove a provider key"
	RegistryAddDependentUse      = "add-dependent PROVIDER DEPENDENT"
	RegistryAddDependentShort    = "Record that DEPENDENT relies on PROVIDER"
	RegistryRemoveDependentUse   = "remove-dependent PROVIDER DEPENDENT"
	RegistryRemoveDependentShort = "Drop DEPENDENT from PROVIDER"
	RegistryCommitUse            = "commit"
	RegistryCommitShort          = "Apply a transaction's provider registrations and removals"

	RegistryEmptyHiveFmt      = "No providers registered in the %s hive (%s).\n"
	RegistryHiveHeaderFmt     = "%s hive (%s)\n"
	RegistryProviderLineFmt   = "%s %s\n"
	RegistryProviderNameFmt   = "  %s\n"
	RegistryDependentFmt      = "    <- %s\n"
	RegistryDependentNamedFmt = "    <- %s (%s)\n"
	RegistryUnversioned       = "unversioned"
	RegistryNoChangesFmt      = "No changes to %s.\n"
	RegistryUpdatedFmt        = "Updated %s.\n"
	RegistryNothingToCommit   = "Transaction registers and removes no providers."

	// McpPromptsUse is the mcp-prompts command name.
	McpPromptsUse   = "mcp-prompts"
	McpPromptsShort = "Run the registry MCP prompt server over stdio"
)
