package prompt

import (
	"fmt"
	"strings"

	"github.com/conn-castle/depgate/internal/gate"
	"github.com/conn-castle/depgate/internal/messages"
)

// Title returns the heading shown above a batch of findings.
func Title(findings gate.Findings) string {
	if findings.Kind == gate.KindLiveDependents {
		return messages.PromptLiveDependentsTitle
	}
	return messages.PromptMissingDependenciesTitle
}

// Body lists one finding per line, naming the display name and the key.
func Body(findings gate.Findings) string {
	lines := make([]string, 0, len(findings.Items))
	for _, item := range findings.Items {
		if item.DisplayName == "" || strings.EqualFold(item.DisplayName, item.ProviderKey) {
			lines = append(lines, fmt.Sprintf(messages.PromptFindingKeyOnlyFmt, item.ProviderKey))
			continue
		}
		lines = append(lines, fmt.Sprintf(messages.PromptFindingItemFmt, item.DisplayName, item.ProviderKey))
	}
	return strings.Join(lines, "\n")
}
