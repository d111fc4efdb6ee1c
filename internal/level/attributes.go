package level

import "path/filepath"

// DefaultImageAttribute is the attribute RelocateImage rewrites by default.
const DefaultImageAttribute = "image"

// Attributes maps attribute or property names to their string values.
// It serves both as an element's attribute list and as the property bag
// accumulated from <property> children.
type Attributes map[string]string

// AttributesFrom copies m into a new Attributes.
func AttributesFrom(m map[string]string) Attributes {
	a := make(Attributes, len(m))
	for k, v := range m {
		a[k] = v
	}
	return a
}

// Exists reports whether key is present.
func (a Attributes) Exists(key string) bool {
	_, ok := a[key]
	return ok
}

// Fetch returns the value stored under key, or def when key is absent.
// A present but empty value is returned as is.
func (a Attributes) Fetch(key, def string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

// FetchInt returns the value under key as an int, def when absent and 0
// when the stored text is not an integer.
func (a Attributes) FetchInt(key string, def int) int {
	if v, ok := a[key]; ok {
		return stringToInt(v)
	}
	return def
}

// FetchInt64 is FetchInt for 64-bit values.
func (a Attributes) FetchInt64(key string, def int64) int64 {
	if v, ok := a[key]; ok {
		return stringToInt64(v)
	}
	return def
}

// FetchFloat returns the value under key as a float32, def when absent and
// 0 when the stored text is not a number.
func (a Attributes) FetchFloat(key string, def float32) float32 {
	if v, ok := a[key]; ok {
		return stringToFloat(v)
	}
	return def
}

// Clone returns an independent copy of a.
func (a Attributes) Clone() Attributes {
	return AttributesFrom(a)
}

// AssetResolver locates the game's asset directories.
type AssetResolver interface {
	// PixmapsDir returns the root directory of the game's image assets.
	PixmapsDir() string
}

// PixmapsDir is an AssetResolver rooted at a fixed directory.
type PixmapsDir string

// PixmapsDir returns the directory itself.
func (d PixmapsDir) PixmapsDir() string { return string(d) }

// RelocateImage repoints the "image" attribute from oldName to newName.
// See RelocateImageAttr.
func (a Attributes) RelocateImage(r AssetResolver, oldName, newName string) {
	a.RelocateImageAttr(r, oldName, newName, DefaultImageAttribute)
}

// RelocateImageAttr overwrites attr with newName when its current value is
// oldName, either bare or resolved against the pixmaps directory of r.
// Any other value is left untouched.
//
// Precondition: r must be non-nil.
func (a Attributes) RelocateImageAttr(r AssetResolver, oldName, newName, attr string) {
	current, ok := a[attr]
	if !ok {
		return
	}
	full := filepath.ToSlash(filepath.Join(r.PixmapsDir(), oldName))
	if current == oldName || current == full {
		a[attr] = newName
	}
}

// Relocation describes one renamed image asset.
type Relocation struct {
	Old string
	New string
	// Attribute is the attribute holding the image path; empty means "image".
	Attribute string
}

// Apply runs RelocateImageAttr for rel against a.
func (rel Relocation) Apply(r AssetResolver, a Attributes) {
	attr := rel.Attribute
	if attr == "" {
		attr = DefaultImageAttribute
	}
	a.RelocateImageAttr(r, rel.Old, rel.New, attr)
}
