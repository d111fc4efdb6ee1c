// Package level provides the in-memory level model and the streaming loader
// that builds it from SMC level documents.
package level

// Default player spawn used when a level document omits posx / posy.
const (
	DefaultPlayerPosX float32 = 200
	DefaultPlayerPosY float32 = -300
)

// Direction identifies a facing or movement direction.
type Direction int

// Directions known to level documents.
const (
	DirUndefined Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
	DirUpLeft
	DirUpRight
	DirDownLeft
	DirDownRight
	DirHorizontal
	DirVertical
	DirAll
)

var directionNames = map[string]Direction{
	"undefined":  DirUndefined,
	"left":       DirLeft,
	"right":      DirRight,
	"up":         DirUp,
	"down":       DirDown,
	"up_left":    DirUpLeft,
	"up_right":   DirUpRight,
	"down_left":  DirDownLeft,
	"down_right": DirDownRight,
	"horizontal": DirHorizontal,
	"vertical":   DirVertical,
	"all":        DirAll,
}

// DirectionFromString maps a direction identifier to its Direction.
//
// Postcondition: Returns DirUndefined for unknown identifiers.
func DirectionFromString(s string) Direction {
	if d, ok := directionNames[s]; ok {
		return d
	}
	return DirUndefined
}

// String returns the identifier used in level documents.
func (d Direction) String() string {
	for name, v := range directionNames {
		if v == d {
			return name
		}
	}
	return "undefined"
}

// LandType is the world theme a level belongs to.
type LandType int

// Land types known to level documents.
const (
	LandUndefined LandType = iota
	LandGreen
	LandJungle
	LandIce
	LandSnow
	LandWater
	LandCandy
	LandDesert
	LandSand
	LandCastle
	LandUnderground
	LandCrystal
	LandGhost
	LandMushroom
	LandSky
	LandPlastic
)

var landTypeNames = []string{
	LandUndefined:   "undefined",
	LandGreen:       "green",
	LandJungle:      "jungle",
	LandIce:         "ice",
	LandSnow:        "snow",
	LandWater:       "water",
	LandCandy:       "candy",
	LandDesert:      "desert",
	LandSand:        "sand",
	LandCastle:      "castle",
	LandUnderground: "underground",
	LandCrystal:     "crystal",
	LandGhost:       "ghost",
	LandMushroom:    "mushroom",
	LandSky:         "sky",
	LandPlastic:     "plastic",
}

// LandTypeFromString maps a land type identifier to its LandType.
//
// Postcondition: Returns LandUndefined for unknown identifiers.
func LandTypeFromString(s string) LandType {
	for i, name := range landTypeNames {
		if name == s {
			return LandType(i)
		}
	}
	return LandUndefined
}

// String returns the identifier used in level documents.
func (lt LandType) String() string {
	if lt < 0 || int(lt) >= len(landTypeNames) {
		return "undefined"
	}
	return landTypeNames[lt]
}

// Rect is an axis-aligned rectangle in level coordinates.
type Rect struct {
	X, Y, W, H float32
}

// Object is a level object element (sprite, enemy, box, ...) captured with
// all of its properties. Building the concrete game object is left to the
// engine.
type Object struct {
	// Kind is the element name, e.g. "sprite" or "enemy".
	Kind string
	// Properties holds the element's <property> values after image relocation.
	Properties Attributes
}

// Level is a fully loaded level document.
type Level struct {
	// EngineVersion is the compatibility marker, normalized to the integer scale.
	EngineVersion int
	// LastSaved is the save timestamp in seconds since the epoch.
	LastSaved int64

	Author      string
	Version     string
	Description string
	// Difficulty ranges from 0 (unset) to 100.
	Difficulty int
	// Music is the music file path in OS form.
	Music    string
	LandType LandType

	// FixedCameraHorVel is the constant horizontal camera velocity; 0 disables it.
	FixedCameraHorVel float32
	CameraLimits      Rect

	PlayerStartX         float32
	PlayerStartY         float32
	PlayerStartDirection Direction

	// Backgrounds holds the background layers. Index 0 is always the gradient.
	Backgrounds []*Background
	Objects     []*Object
	// Script is the verbatim text of the <script> element.
	Script string
}

// NewLevel returns an empty level with the default gradient background in
// slot 0 and the default player spawn.
//
// Postcondition: len(Backgrounds) == 1 and Backgrounds[0] is a gradient.
func NewLevel() *Level {
	return &Level{
		PlayerStartX:         DefaultPlayerPosX,
		PlayerStartY:         DefaultPlayerPosY,
		PlayerStartDirection: DirRight,
		Backgrounds:          []*Background{{Type: BgGradientVertical}},
	}
}

// SetDifficulty stores d clamped to the range 0..100.
func (l *Level) SetDifficulty(d int) {
	switch {
	case d < 0:
		l.Difficulty = 0
	case d > 100:
		l.Difficulty = 100
	default:
		l.Difficulty = d
	}
}

// Gradient returns the gradient background occupying slot 0.
func (l *Level) Gradient() *Background {
	return l.Backgrounds[0]
}

// ObjectsOfKind returns the objects whose element name equals kind.
func (l *Level) ObjectsOfKind(kind string) []*Object {
	var out []*Object
	for _, o := range l.Objects {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}
