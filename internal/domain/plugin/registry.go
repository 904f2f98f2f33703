// Package plugin implements the registry of optional UI fragments that
// attach to named render slots. The core stays renderer-agnostic: plugins
// are tagged variants (a Kind plus a config payload), never executable
// references. The view layer maps kinds to actual components.
package plugin

import (
	"maps"

	"github.com/go-faster/errors"
)

// Kind identifies a known plugin variant.
type Kind string

const (
	// KindOfferBanner renders a promotional banner.
	KindOfferBanner Kind = "offer_banner"
	// KindNewsletterSignup renders a newsletter subscription form.
	KindNewsletterSignup Kind = "newsletter_signup"
	// KindRecentlyViewed renders the visitor's recently viewed products.
	KindRecentlyViewed Kind = "recently_viewed"
)

// Position names a render slot a plugin can attach to.
type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

// ErrNotFound is returned when an operation references an unknown plugin id.
var ErrNotFound = errors.New("plugin not found")

// Config holds a plugin's settings. Extra carries free-form keys the
// variant's renderer understands (banner title, theme, and so on).
type Config struct {
	Enabled  bool
	Position Position
	Extra    map[string]string
}

// ConfigPatch is a shallow partial update of a Config. Non-nil fields
// replace the current value; Extra keys are merged over the existing map.
type ConfigPatch struct {
	Enabled  *bool
	Position *Position
	Extra    map[string]string
}

// Plugin is one registered extension.
type Plugin struct {
	ID     string
	Name   string
	Kind   Kind
	Config Config
}

// Registry stores plugins in registration order plus a derived enabled
// index keyed by plugin id. Register and Toggle are the only writers of
// both the index and config.Enabled, and they always write the two
// together so the double gate in ActiveFor never diverges.
//
// Not safe for concurrent use; the owning session serializes access.
type Registry struct {
	plugins []Plugin
	enabled map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{enabled: make(map[string]bool)}
}

// Register upserts the plugin by id: an existing plugin with the same id is
// replaced in place (keeping its position in registration order), otherwise
// the plugin is appended. The enabled index is reseeded from
// p.Config.Enabled either way.
func (r *Registry) Register(p Plugin) {
	replaced := false
	for i := range r.plugins {
		if r.plugins[i].ID == p.ID {
			r.plugins[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		r.plugins = append(r.plugins, p)
	}
	r.enabled[p.ID] = p.Config.Enabled
}

// Unregister removes the plugin and its index entry. Unknown ids are a no-op.
func (r *Registry) Unregister(id string) {
	for i := range r.plugins {
		if r.plugins[i].ID == id {
			r.plugins = append(r.plugins[:i], r.plugins[i+1:]...)
			break
		}
	}
	delete(r.enabled, id)
}

// Toggle flips the plugin's config.Enabled and writes the same value to the
// enabled index.
func (r *Registry) Toggle(id string) error {
	for i := range r.plugins {
		if r.plugins[i].ID == id {
			r.plugins[i].Config.Enabled = !r.plugins[i].Config.Enabled
			r.enabled[id] = r.plugins[i].Config.Enabled
			return nil
		}
	}
	return errors.Wrapf(ErrNotFound, "toggle %q", id)
}

// UpdateConfig shallow-merges the patch into the plugin's config. Note that
// patching Enabled here intentionally does NOT touch the enabled index;
// only Register and Toggle write both sides.
func (r *Registry) UpdateConfig(id string, patch ConfigPatch) error {
	for i := range r.plugins {
		if r.plugins[i].ID != id {
			continue
		}
		cfg := &r.plugins[i].Config
		if patch.Enabled != nil {
			cfg.Enabled = *patch.Enabled
		}
		if patch.Position != nil {
			cfg.Position = *patch.Position
		}
		if len(patch.Extra) > 0 {
			if cfg.Extra == nil {
				cfg.Extra = make(map[string]string, len(patch.Extra))
			}
			for k, v := range patch.Extra {
				cfg.Extra[k] = v
			}
		}
		return nil
	}
	return errors.Wrapf(ErrNotFound, "update config %q", id)
}

// Plugins returns all registered plugins in registration order. Returned
// values are detached copies; mutating them does not touch the registry.
func (r *Registry) Plugins() []Plugin {
	out := make([]Plugin, len(r.plugins))
	for i := range r.plugins {
		out[i] = detach(r.plugins[i])
	}
	return out
}

// Enabled reports the derived enabled index value for the given id.
func (r *Registry) Enabled(id string) bool {
	return r.enabled[id]
}

// ActiveFor returns, in registration order, every plugin whose enabled
// index entry AND config.Enabled AND position all hold. The index/config
// double gate is intentional: the two are written together and checking
// both keeps any divergence visible instead of silently rendering.
func (r *Registry) ActiveFor(pos Position) []Plugin {
	var out []Plugin
	for i := range r.plugins {
		p := &r.plugins[i]
		if r.enabled[p.ID] && p.Config.Enabled && p.Config.Position == pos {
			out = append(out, detach(*p))
		}
	}
	return out
}

// detach copies a plugin out of registry storage, cloning the Extra map so
// the caller cannot edit registry state through the returned value.
func detach(p Plugin) Plugin {
	p.Config.Extra = maps.Clone(p.Config.Extra)
	return p
}
