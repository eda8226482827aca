package messages

// Tool configuration messages.
const (
	ConfigReadFmt                = "read config %s: %w"
	ConfigInvalidFmt             = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt    = "%s: unrecognized config keys: %w"
	ConfigResolveHomeFmt         = "resolve home dir: %w"
	ConfigPromptModeFmt          = "%s: prompt.mode must be one of %s, got %q"
	ConfigMachinePathRequiredFmt = "%s: registry.machine_path must not be empty"
	ConfigUserPathRequiredFmt    = "%s: registry.user_path must not be empty"
	ConfigValidationGuidance     = "(edit the file or remove it to use defaults)"
)
