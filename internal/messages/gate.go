package messages

// Dependency and dependents check messages.
const (
	// GateCatalogRequired indicates a check was started without a relationship catalog.
	GateCatalogRequired  = "relationship catalog is required"
	GateResolverRequired = "component action resolver is required"
	GateStoreRequired    = "provider registration store is required"

	GateUnknownActionFmt    = "unknown component action %q"
	GateUnknownAttributeFmt = "unknown attribute %q"

	GateDeclarationFieldRequiredFmt = "declaration %q: %s is required"
	GateDeclarationInvalidFmt       = "declaration %q: %s: %w"
	GateInvalidVersionFmt           = "invalid version %q: %w"
	GateVersionRangeInvertedFmt     = "minimum version %s is greater than maximum version %s"
	GateVersionRangeEmptyFmt        = "version range %s admits no version"

	GateReadCatalogFmt      = "read %s declarations: %w"
	GateResolveActionFmt    = "resolve action for component %q: %w"
	GateLookupProviderFmt   = "look up provider %q: %w"
	GateListDependentsFmt   = "list dependents of provider %q: %w"
	GatePromptFailedFmt     = "prompt for %s: %w"
	GateCheckFailedFmt      = "%s check failed (%s): %v"
	GatePolicyFindingsFmt   = "%w: %s"
	GateDependenciesMissing = "required providers are missing or out of range"
	GateDependentsPresent   = "providers being removed still have registered dependents"

	GateCheckRequire    = "dependency"
	GateCheckDependents = "dependents"

	GateKindMissingDependencies = "missing-dependencies"
	GateKindLiveDependents      = "live-dependents"
)
