package domain

// Control identifies an option toggle in the search window.
type Control int

// Option toggles, one per common directive.
const (
	ControlTransforms Control = iota
	ControlShapes
	ControlLights
	ControlCameras
	ControlMaterials
	ControlTextures
	ControlGeometry
	ControlDagObjects
	ControlSelection
)

// ControlBinding ties a toggle to the directive it sets.
type ControlBinding struct {
	Control   Control
	Directive string
	Label     string
}

// controlDirectives is the stable control to directive table.
var controlDirectives = map[Control]string{
	ControlTransforms: "transforms",
	ControlShapes:     "shapes",
	ControlLights:     "lights",
	ControlCameras:    "cameras",
	ControlMaterials:  "materials",
	ControlTextures:   "textures",
	ControlGeometry:   "geometry",
	ControlDagObjects: "dagObjects",
	ControlSelection:  "selection",
}

// Directive returns the directive name bound to the control.
func (c Control) Directive() (string, bool) {
	name, ok := controlDirectives[c]
	return name, ok
}

// Bindings builds the toggle table for the schema's common directives,
// in schema order. Directives without a control are skipped.
func Bindings(s Schema) []ControlBinding {
	byName := make(map[string]Control, len(controlDirectives))
	for c, name := range controlDirectives {
		byName[name] = c
	}

	bindings := make([]ControlBinding, 0, len(s.Common))
	for _, name := range s.Common {
		c, ok := byName[name]
		if !ok {
			continue
		}
		bindings = append(bindings, ControlBinding{
			Control:   c,
			Directive: name,
			Label:     label(name),
		})
	}
	return bindings
}

// label title-cases a directive name for a button.
func label(name string) string {
	if name == "" {
		return name
	}
	b := []byte(name)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
