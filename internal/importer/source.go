package importer

import (
	"context"

	"github.com/cory-johannsen/smclevel/internal/level"
	"github.com/cory-johannsen/smclevel/internal/storage/postgres"
)

// LevelData is the YAML export of one loaded level.
type LevelData struct {
	Level LevelSpec `yaml:"level"`
}

// LevelSpec holds the level's settings and contents.
type LevelSpec struct {
	ID            string           `yaml:"id"`
	Source        string           `yaml:"source"`
	EngineVersion int              `yaml:"engine_version"`
	LastSaved     int64            `yaml:"last_saved,omitempty"`
	Author        string           `yaml:"author,omitempty"`
	Version       string           `yaml:"version,omitempty"`
	Description   string           `yaml:"description,omitempty"`
	Difficulty    int              `yaml:"difficulty,omitempty"`
	Music         string           `yaml:"music,omitempty"`
	LandType      string           `yaml:"land_type"`
	CameraLimits  RectSpec         `yaml:"camera_limits"`
	CameraHorVel  float32          `yaml:"camera_fixed_hor_vel,omitempty"`
	Player        PlayerSpec       `yaml:"player"`
	Backgrounds   []BackgroundSpec `yaml:"backgrounds"`
	Objects       []ObjectSpec     `yaml:"objects,omitempty"`
	Script        string           `yaml:"script,omitempty"`
}

// RectSpec is a rectangle in level coordinates.
type RectSpec struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	W float32 `yaml:"w"`
	H float32 `yaml:"h"`
}

// PlayerSpec is the player spawn.
type PlayerSpec struct {
	X         float32 `yaml:"x"`
	Y         float32 `yaml:"y"`
	Direction string  `yaml:"direction"`
}

// BackgroundSpec is one background layer.
type BackgroundSpec struct {
	Type   int       `yaml:"type"`
	Colors []string  `yaml:"colors,omitempty"`
	Image  string    `yaml:"image,omitempty"`
	Speed  []float32 `yaml:"speed,omitempty"`
}

// ObjectSpec is one level object with its raw properties.
type ObjectSpec struct {
	Kind       string            `yaml:"kind"`
	Properties map[string]string `yaml:"properties,omitempty"`
}

// Catalog stores level summaries. *postgres.LevelRepository satisfies it.
type Catalog interface {
	Upsert(ctx context.Context, rec postgres.LevelRecord) (postgres.LevelRecord, error)
}

var _ Catalog = (*postgres.LevelRepository)(nil)

// Export converts a loaded level to its YAML form.
//
// Precondition: lvl must be non-nil.
func Export(path string, lvl *level.Level) *LevelData {
	spec := LevelSpec{
		ID:            NameToID(trimExt(path)),
		Source:        path,
		EngineVersion: lvl.EngineVersion,
		LastSaved:     lvl.LastSaved,
		Author:        lvl.Author,
		Version:       lvl.Version,
		Description:   lvl.Description,
		Difficulty:    lvl.Difficulty,
		Music:         lvl.Music,
		LandType:      lvl.LandType.String(),
		CameraLimits: RectSpec{
			X: lvl.CameraLimits.X,
			Y: lvl.CameraLimits.Y,
			W: lvl.CameraLimits.W,
			H: lvl.CameraLimits.H,
		},
		CameraHorVel: lvl.FixedCameraHorVel,
		Player: PlayerSpec{
			X:         lvl.PlayerStartX,
			Y:         lvl.PlayerStartY,
			Direction: lvl.PlayerStartDirection.String(),
		},
		Script: lvl.Script,
	}

	for _, bg := range lvl.Backgrounds {
		bs := BackgroundSpec{Type: int(bg.Type)}
		switch {
		case bg.Type.IsGradient():
			bs.Colors = []string{hexColor(bg.Color1), hexColor(bg.Color2)}
		case bg.Type.IsImage():
			bs.Image = bg.Image
			bs.Speed = []float32{bg.SpeedX, bg.SpeedY}
		}
		spec.Backgrounds = append(spec.Backgrounds, bs)
	}
	for _, obj := range lvl.Objects {
		spec.Objects = append(spec.Objects, ObjectSpec{Kind: obj.Kind, Properties: obj.Properties})
	}

	return &LevelData{Level: spec}
}
