package gate

import (
	"go.uber.org/zap/zapcore"

	"github.com/conn-castle/depgate/internal/messages"
)

// FindingKind tells which check produced a batch of findings.
// The two kinds are worded differently when presented.
type FindingKind int

const (
	// KindMissingDependencies lists required providers that are absent or out of range.
	KindMissingDependencies FindingKind = iota
	// KindLiveDependents lists dependents still registered against providers being removed.
	KindLiveDependents
)

// String returns the stable kind name used in logs and JSON output.
func (k FindingKind) String() string {
	if k == KindLiveDependents {
		return messages.GateKindLiveDependents
	}
	return messages.GateKindMissingDependencies
}

// MarshalText implements encoding.TextMarshaler.
func (k FindingKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Finding is one unsatisfied dependency or one live dependent.
// For live dependents ProviderKey is the dependent's own key.
type Finding struct {
	ProviderKey string `json:"provider_key"`
	DisplayName string `json:"display_name"`
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (f Finding) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("key", f.ProviderKey)
	enc.AddString("name", f.DisplayName)
	return nil
}

// Findings is the aggregated, ordered result of one check invocation.
type Findings struct {
	Kind  FindingKind `json:"kind"`
	Items []Finding   `json:"items"`
}

// Empty reports whether the batch has no findings.
func (f Findings) Empty() bool {
	return len(f.Items) == 0
}

// Keys returns the provider keys in finding order.
func (f Findings) Keys() []string {
	keys := make([]string, len(f.Items))
	for i, item := range f.Items {
		keys[i] = item.ProviderKey
	}
	return keys
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (f Findings) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("kind", f.Kind.String())
	enc.AddInt("count", len(f.Items))
	return enc.AddArray("items", findingArray(f.Items))
}

type findingArray []Finding

func (a findingArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, item := range a {
		if err := enc.AppendObject(item); err != nil {
			return err
		}
	}
	return nil
}

func (f *Findings) add(key string, displayName string) {
	if displayName == "" {
		displayName = key
	}
	f.Items = append(f.Items, Finding{ProviderKey: key, DisplayName: displayName})
}
