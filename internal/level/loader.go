package level

import (
	"errors"

	"go.uber.org/zap"
)

// ErrLoaderReused is returned when a Loader receives a second document.
var ErrLoaderReused = errors.New("level loader already started a document")

// tagHandler handles a closed major element. props is the element's own
// property bag; the Loader has already replaced it with an empty one.
type tagHandler func(ld *Loader, props Attributes)

var majorTags = map[string]tagHandler{
	"information": (*Loader).parseInformation,
	"settings":    (*Loader).parseSettings,
	"background":  (*Loader).parseBackground,
	"player":      (*Loader).parsePlayer,
	"level":       func(*Loader, Attributes) {},
	"script":      func(ld *Loader, _ Attributes) { ld.inScript = false },
}

// Loader receives the markup events of one level document and builds a
// Level from them. A Loader is single use and not safe for concurrent use.
type Loader struct {
	logger      *zap.Logger
	resolver    AssetResolver
	relocations []Relocation

	level    *Level
	props    Attributes
	inScript bool
}

// NewLoader creates a Loader.
//
// Postcondition: Returns a Loader ready for StartDocument.
func NewLoader(opts ...Option) *Loader {
	o := newOptions(opts)
	return &Loader{
		logger:      o.logger,
		resolver:    o.resolver,
		relocations: o.relocations,
		props:       make(Attributes),
	}
}

// Level returns the level under construction, or nil before StartDocument.
// Ownership passes to the caller; the Loader never modifies it after
// EndDocument.
func (ld *Loader) Level() *Level {
	return ld.level
}

// StartDocument allocates the level.
//
// Postcondition: Returns ErrLoaderReused if this Loader already started a
// document; otherwise Level() is a new empty level.
func (ld *Loader) StartDocument() error {
	if ld.level != nil {
		return ErrLoaderReused
	}
	ld.level = NewLevel()
	return nil
}

// EndDocument is called once the document is complete.
func (ld *Loader) EndDocument() {}

// StartElement handles an opening tag with its attribute list.
//
// <property> children accumulate into the current bag until their parent
// element closes.
func (ld *Loader) StartElement(name string, attrs Attributes) {
	switch name {
	case "property":
		ld.props[attrs.Fetch("name", "")] = attrs.Fetch("value", "")
	case "script":
		ld.inScript = true
	}
}

// EndElement handles a closing tag. Elements closed before StartDocument
// are dropped with a warning.
//
// Postcondition: For every name except "property" the property bag is empty.
func (ld *Loader) EndElement(name string) {
	if name == "property" {
		return
	}

	props := ld.props
	ld.props = make(Attributes)

	if ld.level == nil {
		ld.logger.Warn("XML tag closed before document start", zap.String("tag", name))
		return
	}

	if h, ok := majorTags[name]; ok {
		h(ld, props)
		return
	}
	if IsObjectElement(name) {
		ld.parseObject(name, props)
		return
	}
	ld.logger.Warn("unknown XML tag on level parsing", zap.String("tag", name))
}

// Characters handles character data. Text inside <script> is appended to
// the level script verbatim; everything else is ignored.
func (ld *Loader) Characters(text string) {
	if ld.inScript && ld.level != nil {
		ld.level.Script += text
	}
}
