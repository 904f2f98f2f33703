package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func banner(id string, enabled bool, pos Position) Plugin {
	return Plugin{
		ID:   id,
		Name: "Banner " + id,
		Kind: KindOfferBanner,
		Config: Config{
			Enabled:  enabled,
			Position: pos,
			Extra:    map[string]string{"title": "Sale"},
		},
	}
}

func TestRegister_AppendsAndSeedsIndex(t *testing.T) {
	r := NewRegistry()

	r.Register(banner("a", true, PositionTop))
	r.Register(banner("b", false, PositionBottom))

	require.Len(t, r.Plugins(), 2)
	assert.True(t, r.Enabled("a"))
	assert.False(t, r.Enabled("b"))
}

func TestRegister_UpsertKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(banner("a", true, PositionTop))
	r.Register(banner("b", true, PositionTop))

	replacement := banner("a", false, PositionBottom)
	replacement.Name = "Replaced"
	r.Register(replacement)

	plugins := r.Plugins()
	require.Len(t, plugins, 2)
	assert.Equal(t, "a", plugins[0].ID)
	assert.Equal(t, "Replaced", plugins[0].Name)
	assert.Equal(t, PositionBottom, plugins[0].Config.Position)
	assert.False(t, r.Enabled("a"))
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(banner("a", true, PositionTop))
	r.Register(banner("b", true, PositionTop))

	r.Unregister("a")

	plugins := r.Plugins()
	require.Len(t, plugins, 1)
	assert.Equal(t, "b", plugins[0].ID)
	assert.False(t, r.Enabled("a"))

	// Unknown ids are a no-op.
	r.Unregister("missing")
	assert.Len(t, r.Plugins(), 1)
}

func TestToggle_KeepsIndexAndConfigInSync(t *testing.T) {
	r := NewRegistry()
	r.Register(banner("a", true, PositionTop))

	require.NoError(t, r.Toggle("a"))
	assert.False(t, r.Enabled("a"))
	assert.False(t, r.Plugins()[0].Config.Enabled)

	require.NoError(t, r.Toggle("a"))
	assert.True(t, r.Enabled("a"))
	assert.True(t, r.Plugins()[0].Config.Enabled)
}

func TestToggle_UnknownID(t *testing.T) {
	r := NewRegistry()
	require.ErrorIs(t, r.Toggle("missing"), ErrNotFound)
}

func TestUpdateConfig_ShallowMerge(t *testing.T) {
	r := NewRegistry()
	r.Register(banner("a", true, PositionTop))

	pos := PositionMiddle
	err := r.UpdateConfig("a", ConfigPatch{
		Position: &pos,
		Extra:    map[string]string{"theme": "dark"},
	})
	require.NoError(t, err)

	cfg := r.Plugins()[0].Config
	assert.Equal(t, PositionMiddle, cfg.Position)
	assert.True(t, cfg.Enabled, "unpatched field untouched")
	assert.Equal(t, "Sale", cfg.Extra["title"], "existing extra keys kept")
	assert.Equal(t, "dark", cfg.Extra["theme"])
}

func TestUpdateConfig_EnabledDoesNotTouchIndex(t *testing.T) {
	r := NewRegistry()
	r.Register(banner("a", true, PositionTop))

	disabled := false
	require.NoError(t, r.UpdateConfig("a", ConfigPatch{Enabled: &disabled}))

	// Config changed but the index still holds the Register-time value, so
	// the plugin disappears from ActiveFor via the config side of the gate.
	assert.False(t, r.Plugins()[0].Config.Enabled)
	assert.True(t, r.Enabled("a"))
	assert.Empty(t, r.ActiveFor(PositionTop))
}

func TestUpdateConfig_UnknownID(t *testing.T) {
	r := NewRegistry()
	require.ErrorIs(t, r.UpdateConfig("missing", ConfigPatch{}), ErrNotFound)
}

func TestActiveFor(t *testing.T) {
	r := NewRegistry()
	r.Register(banner("top-on", true, PositionTop))
	r.Register(banner("bottom-on", true, PositionBottom))
	r.Register(banner("top-off", false, PositionTop))
	r.Register(banner("top-on-2", true, PositionTop))

	active := r.ActiveFor(PositionTop)

	require.Len(t, active, 2)
	assert.Equal(t, "top-on", active[0].ID)
	assert.Equal(t, "top-on-2", active[1].ID)
	assert.Empty(t, r.ActiveFor(PositionMiddle))
}

func TestPlugins_ReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register(banner("a", true, PositionTop))

	plugins := r.Plugins()
	plugins[0].Name = "mutated"

	assert.Equal(t, "Banner a", r.Plugins()[0].Name)
}

func TestPlugins_ExtraMapIsDetached(t *testing.T) {
	r := NewRegistry()
	r.Register(banner("a", true, PositionTop))

	r.Plugins()[0].Config.Extra["title"] = "mutated"
	assert.Equal(t, "Sale", r.Plugins()[0].Config.Extra["title"])

	active := r.ActiveFor(PositionTop)
	require.Len(t, active, 1)
	active[0].Config.Extra["theme"] = "dark"
	assert.NotContains(t, r.Plugins()[0].Config.Extra, "theme")
}
