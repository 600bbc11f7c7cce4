package activity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/eurora-ai/eurora-core/pkg/message"
)

// DefaultAsset is the fallback ActivityAsset variant for processes with no
// dedicated strategy (spec §3, §4.3 DefaultStrategy). Grounded on the
// original Rust source's assets/default.rs, including its free-form
// metadata map, which the distilled spec.md drops but which enriches the
// constructed LLM message (see SPEC_FULL.md Feature Supplements).
type DefaultAsset struct {
	ID          string            `json:"id"`
	NameField   string            `json:"name"`
	IconField   *string           `json:"icon,omitempty"`
	Description *string           `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata"`
}

var _ Asset = (*DefaultAsset)(nil)

// NewDefaultAsset constructs a DefaultAsset with an empty metadata map.
func NewDefaultAsset(id, name string, icon, description *string) *DefaultAsset {
	return &DefaultAsset{ID: id, NameField: name, IconField: icon, Description: description, Metadata: map[string]string{}}
}

func (a *DefaultAsset) Name() string  { return a.NameField }
func (a *DefaultAsset) Icon() *string { return a.IconField }

func (a *DefaultAsset) ConstructMessage() message.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "I am working with an application called '%s'", a.NameField)
	if a.Description != nil {
		fmt.Fprintf(&b, " - %s", *a.Description)
	}
	if len(a.Metadata) > 0 {
		b.WriteString(" with the following context:")
		keys := make([]string, 0, len(a.Metadata))
		for k := range a.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n- %s: %s", k, a.Metadata[k])
		}
	}
	b.WriteString(" and have a question about it.")
	return message.NewTextMessage(message.RoleUser, b.String())
}

// ContextChip returns nil: default assets have no UI context chip (spec §3
// notes context chips are optional per asset).
func (a *DefaultAsset) ContextChip() *ContextChip { return nil }

func (a *DefaultAsset) AssetType() string     { return "default" }
func (a *DefaultAsset) FileExtension() string { return "json" }
func (a *DefaultAsset) MimeType() string      { return "application/json" }
func (a *DefaultAsset) UniqueID() string      { return a.ID }
func (a *DefaultAsset) DisplayName() string   { return a.NameField }

func (a *DefaultAsset) SerializeContent() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}
