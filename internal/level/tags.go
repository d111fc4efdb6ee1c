package level

import "math"

// Engine versions that changed the meaning of stored values.
const (
	// Versions below this stored a float like 1.7 instead of 17.
	floatVersionCeiling = 3
	// Versions below this measured Y with the origin at the bottom.
	topOriginVersion = 35
	// Vertical shift between the bottom and top origin systems.
	bottomOriginOffset = 600
)

func (ld *Loader) parseInformation(props Attributes) {
	v := stringToFloat(props["engine_version"])
	if v < floatVersionCeiling {
		v *= 10
	}
	// Catalog rows store the version as a 32-bit integer.
	if v > math.MaxInt32 || v < math.MinInt32 {
		v = 0
	}
	ld.level.EngineVersion = int(v)
	ld.level.LastSaved = stringToInt64(props["save_time"])
}

func (ld *Loader) parseSettings(props Attributes) {
	lvl := ld.level

	// Old levels measured the camera limit from the bottom. The migrated value
	// has always been stored under "cam_lmit_h" and is therefore never read;
	// existing levels depend on the height below staying unmigrated.
	if lvl.EngineVersion < topOriginVersion && props.Exists("cam_limit_h") {
		h := stringToFloat(props["cam_limit_h"])
		props["cam_lmit_h"] = floatToString(h - bottomOriginOffset)
	}

	lvl.Author = props["lvl_author"]
	lvl.Version = props["lvl_version"]
	lvl.SetDifficulty(stringToInt(props["lvl_difficulty"]))
	lvl.Description = xmlStringToString(props["lvl_description"])
	lvl.Music = utf8ToPath(props["lvl_music"])
	lvl.LandType = LandTypeFromString(props["lvl_land_type"])

	lvl.FixedCameraHorVel = stringToFloat(props["cam_fixed_hor_vel"])

	lvl.CameraLimits = Rect{
		X: stringToFloat(props["cam_limit_x"]),
		Y: stringToFloat(props["cam_limit_y"]),
		W: stringToFloat(props["cam_limit_w"]),
		H: stringToFloat(props["cam_limit_h"]),
	}
}

func (ld *Loader) parseBackground(props Attributes) {
	ld.relocate(props)

	bgType := BackgroundType(stringToInt(props["type"]))
	if bgType.IsGradient() {
		ld.level.Gradient().LoadFromAttributes(props)
		return
	}
	ld.level.Backgrounds = append(ld.level.Backgrounds, NewBackground(props))
}

func (ld *Loader) parsePlayer(props Attributes) {
	lvl := ld.level

	lvl.PlayerStartX = props.FetchFloat("posx", DefaultPlayerPosX)
	lvl.PlayerStartY = props.FetchFloat("posy", DefaultPlayerPosY)
	lvl.PlayerStartY += playerYOffset(lvl.EngineVersion)

	lvl.PlayerStartDirection = DirectionFromString(props["direction"])
	if lvl.PlayerStartDirection != DirLeft && lvl.PlayerStartDirection != DirRight {
		lvl.PlayerStartDirection = DirRight
	}
}

// playerYOffset returns the spawn Y correction for levels saved by engine
// version v. At most one correction applies.
func playerYOffset(v int) float32 {
	switch {
	case v <= 10:
		return 58
	case v <= 20:
		return -48
	case v < topOriginVersion:
		return -bottomOriginOffset
	default:
		return 0
	}
}
