package messages

// Host property file messages.
const (
	PropertiesReadFmt           = "read properties %s: %w"
	PropertiesParseFmt          = "parse properties %s: %w"
	PropertiesLineFmt           = "line %d: %w"
	PropertiesScanFmt           = "scan properties: %w"
	PropertiesExpectedKeyValue  = "expected NAME=VALUE"
	PropertiesUnterminatedQuote = "unterminated quoted value"
	PropertiesTrailingContent   = "unexpected content after quoted value"
	PropertiesDuplicateFmt      = "property %q is set more than once"
)
