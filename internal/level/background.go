package level

// BackgroundType identifies how a background layer is drawn. The numeric
// values are the ones stored in level documents.
type BackgroundType int

// Background types.
const (
	BgNone               BackgroundType = 0
	BgImageBottom        BackgroundType = 1
	BgImageAll           BackgroundType = 2
	BgImageTop           BackgroundType = 3
	BgGradientVertical   BackgroundType = 103
	BgGradientHorizontal BackgroundType = 104
)

// IsGradient reports whether t is one of the two gradient variants.
func (t BackgroundType) IsGradient() bool {
	return t == BgGradientVertical || t == BgGradientHorizontal
}

// IsImage reports whether t is one of the tiled image variants.
func (t BackgroundType) IsImage() bool {
	return t == BgImageBottom || t == BgImageAll || t == BgImageTop
}

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Background is one background layer of a level.
type Background struct {
	Type BackgroundType

	// Color1 and Color2 are the gradient endpoints.
	Color1 Color
	Color2 Color

	// Image is the pixmap path for image layers.
	Image string
	// PosX and PosY are the layer start position.
	PosX, PosY float32
	// SpeedX and SpeedY are the parallax scroll factors.
	SpeedX, SpeedY float32
	// ConstVelX and ConstVelY are constant scroll velocities.
	ConstVelX, ConstVelY float32
}

// NewBackground builds a background layer from a property bag.
func NewBackground(props Attributes) *Background {
	bg := &Background{}
	bg.LoadFromAttributes(props)
	return bg
}

// LoadFromAttributes overwrites the layer's type and the fields that type
// uses with the values found in props.
func (bg *Background) LoadFromAttributes(props Attributes) {
	bg.Type = BackgroundType(props.FetchInt("type", 0))

	switch {
	case bg.Type.IsGradient():
		bg.Color1 = colorFrom(props, "bg_color_1")
		bg.Color2 = colorFrom(props, "bg_color_2")
	case bg.Type.IsImage():
		bg.Image = props.Fetch("image", "")
		bg.PosX = props.FetchFloat("posx", 0)
		bg.PosY = props.FetchFloat("posy", 0)
		bg.SpeedX = props.FetchFloat("speedx", 1)
		bg.SpeedY = props.FetchFloat("speedy", 1)
		bg.ConstVelX = props.FetchFloat("const_velx", 0)
		bg.ConstVelY = props.FetchFloat("const_vely", 0)
	}
}

func colorFrom(props Attributes, prefix string) Color {
	return Color{
		R: clampByte(props.FetchInt(prefix+"_red", 0)),
		G: clampByte(props.FetchInt(prefix+"_green", 0)),
		B: clampByte(props.FetchInt(prefix+"_blue", 0)),
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
