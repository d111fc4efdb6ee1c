package level

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

// startedLoader returns a Loader that has already begun a document.
func startedLoader(t *testing.T, opts ...Option) *Loader {
	t.Helper()
	ld := NewLoader(opts...)
	require.NoError(t, ld.StartDocument())
	return ld
}

// closeElement feeds name with the given properties through the event API.
func closeElement(ld *Loader, name string, props map[string]string) {
	ld.StartElement(name, nil)
	for k, v := range props {
		ld.StartElement("property", Attributes{"name": k, "value": v})
		ld.EndElement("property")
	}
	ld.EndElement(name)
}

func TestStartDocument_AllocatesLevel(t *testing.T) {
	ld := NewLoader()
	assert.Nil(t, ld.Level())

	require.NoError(t, ld.StartDocument())
	lvl := ld.Level()
	require.NotNil(t, lvl)
	require.Len(t, lvl.Backgrounds, 1)
	assert.True(t, lvl.Gradient().Type.IsGradient())
}

func TestStartDocument_SecondDocumentFails(t *testing.T) {
	ld := startedLoader(t)
	first := ld.Level()

	err := ld.StartDocument()
	assert.ErrorIs(t, err, ErrLoaderReused)
	assert.Same(t, first, ld.Level())
}

func TestStartElement_PropertyAccumulates(t *testing.T) {
	ld := startedLoader(t)
	ld.StartElement("settings", nil)
	ld.StartElement("property", Attributes{"name": "lvl_author", "value": "a"})
	ld.EndElement("property")
	ld.StartElement("property", Attributes{"name": "lvl_author", "value": "b"})
	ld.EndElement("property")
	ld.StartElement("property", Attributes{"value": "orphan"})
	ld.EndElement("property")

	assert.Equal(t, 2, ld.pending())
	assert.Equal(t, "b", ld.props["lvl_author"])
	assert.Equal(t, "orphan", ld.props[""])

	ld.EndElement("settings")
	assert.Equal(t, 0, ld.pending())
	assert.Equal(t, "b", ld.Level().Author)
}

func TestEndElement_UnknownTagWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ld := startedLoader(t, WithLogger(zap.New(core)))

	closeElement(ld, "wormhole", map[string]string{"posx": "1"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "unknown XML tag on level parsing", entry.Message)
	assert.Equal(t, "wormhole", entry.ContextMap()["tag"])
	assert.Equal(t, 0, ld.pending())
	assert.Empty(t, ld.Level().Objects)
}

func TestEndElement_BeforeStartDocumentDropped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ld := NewLoader(WithLogger(zap.New(core)))

	for _, tag := range []string{"information", "settings", "background", "player", "sprite"} {
		ld.StartElement("property", Attributes{"name": "posx", "value": "1"})
		assert.NotPanics(t, func() { ld.EndElement(tag) }, tag)
		assert.Equal(t, 0, ld.pending(), tag)
	}

	require.Equal(t, 5, logs.Len())
	assert.Equal(t, "XML tag closed before document start", logs.All()[0].Message)
	assert.Nil(t, ld.Level())
}

func TestEndElement_LevelRootIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ld := startedLoader(t, WithLogger(zap.New(core)))

	closeElement(ld, "level", map[string]string{"engine_version": "40"})

	assert.Equal(t, 0, logs.Len())
	assert.Equal(t, 0, ld.Level().EngineVersion)
}

func TestCharacters_CapturesScriptOnly(t *testing.T) {
	ld := startedLoader(t)
	ld.Characters("outside")
	ld.StartElement("script", nil)
	ld.Characters("puts 1\n")
	ld.Characters("puts 2")
	ld.EndElement("script")
	ld.Characters("after")

	assert.Equal(t, "puts 1\nputs 2", ld.Level().Script)
}

// Property: after any non-property element closes the property bag is empty.
func TestPropertyBagEmptyAfterEveryMajorElement(t *testing.T) {
	known := []string{"information", "settings", "background", "player", "level", "script", "sprite", "enemy", "box"}
	keys := []string{"type", "posx", "posy", "direction", "engine_version", "image", "cam_limit_h"}

	rapid.Check(t, func(rt *rapid.T) {
		ld := NewLoader()
		if err := ld.StartDocument(); err != nil {
			rt.Fatal(err)
		}
		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			tag := rapid.OneOf(
				rapid.SampledFrom(known),
				rapid.StringMatching(`[a-z]{1,8}_tag`),
			).Draw(rt, "tag")
			n := rapid.IntRange(0, 5).Draw(rt, "props")
			props := make(map[string]string, n)
			for j := 0; j < n; j++ {
				props[rapid.SampledFrom(keys).Draw(rt, "key")] = rapid.StringMatching(`-?[0-9]{0,4}`).Draw(rt, "value")
			}
			closeElement(ld, tag, props)
			if ld.pending() != 0 {
				rt.Fatalf("bag not empty after </%s>: %v", tag, ld.props)
			}
		}
	})
}

func TestLoader_ImplementsEveryMajorTag(t *testing.T) {
	for _, tag := range []string{"information", "settings", "background", "player", "level", "script"} {
		_, ok := majorTags[tag]
		assert.True(t, ok, "no handler for <%s>", tag)
	}
	for tag := range majorTags {
		assert.False(t, IsObjectElement(tag), "<%s> is both a major tag and an object", tag)
	}
}

func ExampleLoader() {
	ld := NewLoader()
	if err := ld.StartDocument(); err != nil {
		panic(err)
	}
	ld.StartElement("level", nil)
	ld.StartElement("information", nil)
	ld.StartElement("property", Attributes{"name": "engine_version", "value": "1.7"})
	ld.EndElement("property")
	ld.EndElement("information")
	ld.EndElement("level")
	ld.EndDocument()

	fmt.Println(ld.Level().EngineVersion)
	// Output: 17
}
