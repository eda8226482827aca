package messages

// Provider registration store messages.
const (
	RegistryResolveHomeFmt           = "resolve home dir: %w"
	RegistryReadFmt                  = "read registry %s: %w"
	RegistryDecodeFmt                = "decode registry %s: %w"
	RegistryEncodeFmt                = "encode registry %s: %w"
	RegistryWriteFmt                 = "write registry %s: %w"
	RegistryCreateDirFmt             = "create registry dir for %s: %w"
	RegistryDuplicateProviderFmt     = "registry %s lists provider %q more than once"
	RegistryProviderKeyRequired      = "provider key is required"
	RegistryDependentKeyRequired     = "dependent key is required"
	RegistryInvalidVersionFmt        = "invalid provider version %q: %w"
	RegistryProviderNotFoundFmt      = "provider %q is not registered"
	RegistryDependentNotFoundFmt     = "dependent %q is not registered against provider %q"
	RegistrySelfDependencyFmt        = "provider %q cannot depend on itself"
	RegistryProviderHasDependentsFmt = "provider %q still has dependents: %s"
	RegistryMutationRequired         = "registry mutation is required"
	RegistryPathEmptyFmt             = "registry path for the %s hive is empty"

	RegistryOpenLockFmt    = "open registry lock %s: %w"
	RegistryLockFmt        = "lock registry %s: %w"
	RegistryLockTimeoutFmt = "timed out after %s waiting for registry lock"

	RegistryCreateTempFmt = "create temp file: %w"
	RegistryWriteTempFmt  = "write temp file: %w"
	RegistrySyncTempFmt   = "sync temp file: %w"
	RegistryCloseTempFmt  = "close temp file: %w"
	RegistryChmodTempFmt  = "chmod temp file: %w"
	RegistryRenameTempFmt = "move registry into place: %w"
)
