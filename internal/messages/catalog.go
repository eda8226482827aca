package messages

// Transaction manifest messages.
const (
	CatalogReadFmt                = "read transaction %s: %w"
	CatalogDecodeFmt              = "decode transaction %s: %w"
	CatalogComponentIDRequiredFmt = "%s: components[%d]: id is required"
	CatalogDuplicateComponentFmt  = "%s: component %q is declared more than once"
	CatalogComponentActionFmt     = "%s: component %q: %w"
	CatalogAttributesFmt          = "%s: %s[%d]: %w"
)
