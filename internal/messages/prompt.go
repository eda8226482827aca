package messages

// Interaction gate messages.
const (
	PromptMissingDependenciesTitle = "Required providers are missing or out of range"
	PromptLiveDependentsTitle      = "Other registrations still depend on what is being removed"
	PromptFindingItemFmt           = "  - %s (%s)"
	PromptFindingKeyOnlyFmt        = "  - %s"
	PromptContinueQuestion         = "Continue anyway?"
	PromptChoiceYes                = "Yes, continue"
	PromptChoiceNo                 = "No"
	PromptChoiceCancel             = "Cancel the transaction"
	PromptLineQuestionFmt          = "%s [y]es/[n]o/[c]ancel: "
	PromptLineRetry                = "Please answer y, n, or c."
	PromptUnknownModeFmt           = "unknown prompt mode %q (expected one of %s)"
)
