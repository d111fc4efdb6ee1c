package level

import "go.uber.org/zap"

var objectElements = map[string]bool{
	"sprite":           true,
	"enemystopper":     true,
	"levelexit":        true,
	"level_entry":      true,
	"box":              true,
	"item":             true,
	"powerup":          true,
	"moving_platform":  true,
	"falling_platform": true,
	"enemy":            true,
	"sound":            true,
	"particle_emitter": true,
	"path":             true,
	"global_effect":    true,
	"ball":             true,
	"lava":             true,
	"crate":            true,
}

// IsObjectElement reports whether name is a level object element.
func IsObjectElement(name string) bool {
	return objectElements[name]
}

// parseObject records a level object with its relocated properties. The
// engine builds the concrete object from Kind and Properties.
func (ld *Loader) parseObject(name string, props Attributes) {
	ld.relocate(props)
	ld.level.Objects = append(ld.level.Objects, &Object{Kind: name, Properties: props})
	ld.logger.Debug("level object",
		zap.String("kind", name),
		zap.Int("properties", len(props)),
	)
}

// relocate applies the configured image relocations to props.
func (ld *Loader) relocate(props Attributes) {
	for _, rel := range ld.relocations {
		rel.Apply(ld.resolver, props)
	}
}
