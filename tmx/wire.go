package tmx

import "encoding/xml"

// Wire structs mirror the one targeted document dialect. Attribute casting is
// a compile-time mapping from attribute names to typed fields; anything the
// dialect does not declare stays in the custom property bag.

type xmlMap struct {
	XMLName         xml.Name      `xml:"map"`
	Version         string        `xml:"version,attr"`
	TiledVersion    string        `xml:"tiledversion,attr"`
	Orientation     string        `xml:"orientation,attr"`
	RenderOrder     string        `xml:"renderorder,attr"`
	Width           int           `xml:"width,attr"`
	Height          int           `xml:"height,attr"`
	TileWidth       int           `xml:"tilewidth,attr"`
	TileHeight      int           `xml:"tileheight,attr"`
	BackgroundColor string        `xml:"backgroundcolor,attr"`
	NextObjectID    int           `xml:"nextobjectid,attr"`
	Properties      xmlProperties `xml:"properties"`
	Tilesets        []xmlTileset  `xml:"tileset"`

	// Layer kinds are collected unparsed so their relative document order
	// survives; named fields above are excluded from the catch-all.
	LayerNodes []xmlNode `xml:",any"`
}

// xmlNode is an unparsed element that can be re-marshaled and decoded into a
// concrete layer struct once its kind is known.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   []byte     `xml:",innerxml"`
}

type xmlGroup struct {
	XMLName    xml.Name      `xml:"group"`
	Name       string        `xml:"name,attr"`
	Opacity    *float64      `xml:"opacity,attr"`
	Visible    *bool         `xml:"visible,attr"`
	OffsetX    float64       `xml:"offsetx,attr"`
	OffsetY    float64       `xml:"offsety,attr"`
	Properties xmlProperties `xml:"properties"`
	LayerNodes []xmlNode     `xml:",any"`
}

type xmlTileLayer struct {
	XMLName    xml.Name      `xml:"layer"`
	Name       string        `xml:"name,attr"`
	Width      int           `xml:"width,attr"`
	Height     int           `xml:"height,attr"`
	Opacity    *float64      `xml:"opacity,attr"`
	Visible    *bool         `xml:"visible,attr"`
	OffsetX    float64       `xml:"offsetx,attr"`
	OffsetY    float64       `xml:"offsety,attr"`
	Properties xmlProperties `xml:"properties"`
	Data       xmlData       `xml:"data"`
}

type xmlData struct {
	Encoding    string        `xml:"encoding,attr"`
	Compression string        `xml:"compression,attr"`
	Tiles       []xmlDataTile `xml:"tile"`
	Raw         []byte        `xml:",innerxml"`
}

type xmlDataTile struct {
	GID uint32 `xml:"gid,attr"`
}

type xmlImageLayer struct {
	XMLName    xml.Name      `xml:"imagelayer"`
	Name       string        `xml:"name,attr"`
	Opacity    *float64      `xml:"opacity,attr"`
	Visible    *bool         `xml:"visible,attr"`
	OffsetX    float64       `xml:"offsetx,attr"`
	OffsetY    float64       `xml:"offsety,attr"`
	Properties xmlProperties `xml:"properties"`
	Image      *xmlImage     `xml:"image"`
}

type xmlObjectGroup struct {
	XMLName    xml.Name      `xml:"objectgroup"`
	Name       string        `xml:"name,attr"`
	Color      string        `xml:"color,attr"`
	DrawOrder  string        `xml:"draworder,attr"`
	Opacity    *float64      `xml:"opacity,attr"`
	Visible    *bool         `xml:"visible,attr"`
	OffsetX    float64       `xml:"offsetx,attr"`
	OffsetY    float64       `xml:"offsety,attr"`
	Properties xmlProperties `xml:"properties"`
	Objects    []xmlObject   `xml:"object"`
}

type xmlObject struct {
	ID         int           `xml:"id,attr"`
	Name       string        `xml:"name,attr"`
	Type       string        `xml:"type,attr"`
	X          float64       `xml:"x,attr"`
	Y          float64       `xml:"y,attr"`
	Width      float64       `xml:"width,attr"`
	Height     float64       `xml:"height,attr"`
	Rotation   float64       `xml:"rotation,attr"`
	GID        *uint32       `xml:"gid,attr"`
	Visible    *bool         `xml:"visible,attr"`
	Properties xmlProperties `xml:"properties"`
	Polygon    *xmlPoints    `xml:"polygon"`
	Polyline   *xmlPoints    `xml:"polyline"`
	Ellipse    *struct{}     `xml:"ellipse"`
	Point      *struct{}     `xml:"point"`
}

type xmlPoints struct {
	Points string `xml:"points,attr"`
}

type xmlTileset struct {
	XMLName    xml.Name       `xml:"tileset"`
	FirstGID   uint32         `xml:"firstgid,attr"`
	Source     string         `xml:"source,attr"`
	Name       string         `xml:"name,attr"`
	TileWidth  int            `xml:"tilewidth,attr"`
	TileHeight int            `xml:"tileheight,attr"`
	Spacing    int            `xml:"spacing,attr"`
	Margin     int            `xml:"margin,attr"`
	TileCount  int            `xml:"tilecount,attr"`
	Columns    int            `xml:"columns,attr"`
	TileOffset *xmlTileOffset `xml:"tileoffset"`
	Image      *xmlImage      `xml:"image"`
	Properties xmlProperties  `xml:"properties"`
	Tiles      []xmlTile      `xml:"tile"`
}

type xmlTileOffset struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

type xmlImage struct {
	Source string `xml:"source,attr"`
	Trans  string `xml:"trans,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type xmlTile struct {
	ID           uint32           `xml:"id,attr"`
	Type         string           `xml:"type,attr"`
	Probability  float64          `xml:"probability,attr"`
	Properties   xmlProperties    `xml:"properties"`
	Image        *xmlImage        `xml:"image"`
	Animation    *xmlAnimation    `xml:"animation"`
	ObjectGroups []xmlObjectGroup `xml:"objectgroup"`
}

type xmlAnimation struct {
	Frames []xmlFrame `xml:"frame"`
}

type xmlFrame struct {
	TileID   uint32 `xml:"tileid,attr"`
	Duration int    `xml:"duration,attr"`
}

type xmlProperties struct {
	Properties []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name       string         `xml:"name,attr"`
	Type       string         `xml:"type,attr"`
	CustomType string         `xml:"propertytype,attr"`
	Value      *string        `xml:"value,attr"`
	Text       string         `xml:",chardata"`
	Nested     *xmlProperties `xml:"properties"`
}

// rawValue returns the property value, preferring the value attribute over
// element text (Tiled writes multiline strings as text content).
func (p *xmlProperty) rawValue() string {
	if p.Value != nil {
		return *p.Value
	}
	return p.Text
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
