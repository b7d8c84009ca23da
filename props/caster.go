package props

import (
	"fmt"
	"strconv"
)

// Cast converts a raw attribute value according to a TMX property type name.
// Unknown and absent type names degrade to string rather than failing; the
// "class" type is handled by the caller through Types.Instantiate, since
// instantiation needs the property node's nested values.
func Cast(typeName, raw string) (any, error) {
	switch typeName {
	case "bool":
		return ParseBool(raw)
	case "int", "object":
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("props: invalid int value %q: %w", raw, err)
		}
		return v, nil
	case "float":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("props: invalid float value %q: %w", raw, err)
		}
		return v, nil
	default:
		// "string", "color", "file" and anything unrecognized pass through.
		return raw, nil
	}
}

// ParseBool accepts the boolean spellings Tiled emits or accepts in hand
// written documents: 1/0, true/false, yes/no.
func ParseBool(raw string) (bool, error) {
	switch raw {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("props: invalid bool value %q", raw)
}
