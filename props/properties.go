// Package props implements custom property parsing for TMX documents: the
// type-name to value conversion table and the schema of author-defined
// "class" types.
package props

// Properties is the custom property bag attached to maps, tilesets, layers,
// tiles and objects. Values are Go-typed per the property's declared type.
type Properties map[string]any

func (p Properties) String(name string) (string, bool) {
	v, ok := p[name].(string)
	return v, ok
}

func (p Properties) Int(name string) (int, bool) {
	v, ok := p[name].(int)
	return v, ok
}

func (p Properties) Float(name string) (float64, bool) {
	v, ok := p[name].(float64)
	return v, ok
}

func (p Properties) Bool(name string) (bool, bool) {
	v, ok := p[name].(bool)
	return v, ok
}

// Class returns a class-typed property value.
func (p Properties) Class(name string) (Class, bool) {
	v, ok := p[name].(Class)
	return v, ok
}

// Clone returns a shallow copy with class-typed values deep-copied, so the
// copy can be mutated without affecting the original bag.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		if c, ok := v.(Class); ok {
			out[k] = c.Clone()
			continue
		}
		out[k] = v
	}
	return out
}
