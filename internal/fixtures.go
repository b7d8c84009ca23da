// Package internal provides shared test fixtures: small TMX and TSX
// documents and helpers to lay them out on disk.
package internal

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFixture writes one document into dir and returns its path.
func WriteFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// BasicMapTMX is a 4x3 map with two inline tilesets (firstgid 1 and 50), an
// interleaved layer stack including a group, an image layer and two object
// groups. Cell (1, 0) of the ground layer references raw gid 51: tile 1 of
// the second tileset. Cell (2, 0) carries a horizontal flip on raw gid 2.
const BasicMapTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down"
     width="4" height="3" tilewidth="16" tileheight="16"
     backgroundcolor="#102030" nextobjectid="5">
 <properties>
  <property name="weather" value="rain"/>
  <property name="difficulty" type="int" value="3"/>
 </properties>
 <tileset firstgid="1" name="terrain" tilewidth="16" tileheight="16" tilecount="4" columns="2">
  <image source="terrain.png" width="32" height="32"/>
  <tile id="1">
   <properties>
    <property name="solid" type="bool" value="true"/>
   </properties>
  </tile>
  <tile id="2">
   <animation>
    <frame tileid="2" duration="120"/>
    <frame tileid="3" duration="120"/>
   </animation>
  </tile>
 </tileset>
 <tileset firstgid="50" name="props" tilewidth="16" tileheight="16" tilecount="4" columns="2">
  <image source="props.png" width="32" height="32"/>
 </tileset>
 <layer name="ground" width="4" height="3">
  <data encoding="csv">
1,51,2147483650,0,
1,1,2,0,
0,0,0,3
</data>
 </layer>
 <group name="scenery">
  <layer name="detail" width="4" height="3">
   <data encoding="csv">
0,0,0,0,
0,2,0,0,
0,0,0,0
</data>
  </layer>
  <imagelayer name="backdrop">
   <image source="backdrop.png"/>
  </imagelayer>
 </group>
 <objectgroup name="markers">
  <object id="1" name="spawn" x="8" y="8"/>
  <object id="2" name="door" type="portal" x="32" y="16" width="16" height="16">
   <properties>
    <property name="target" value="level2"/>
   </properties>
  </object>
 </objectgroup>
 <objectgroup name="decals" visible="0">
  <object id="3" name="crate" gid="2" x="10" y="20" width="16" height="32"/>
 </objectgroup>
</map>
`

// RotatedObjectTMX carries one tile object whose gid encodes a 90 degree
// rotation (diagonal + horizontal flip) with x=10 y=20 w=16 h=32.
const RotatedObjectTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down"
     width="2" height="2" tilewidth="16" tileheight="16" nextobjectid="2">
 <tileset firstgid="1" name="terrain" tilewidth="16" tileheight="16" tilecount="4" columns="2">
  <image source="terrain.png" width="32" height="32"/>
 </tileset>
 <objectgroup name="objects">
  <object id="1" name="sign" gid="2684354562" x="10" y="20" width="16" height="32"/>
 </objectgroup>
</map>
`

// ExternalTilesetTMX references tiles.tsx from a subdirectory, so tile image
// sources must resolve against the tsx directory, not the map's.
const ExternalTilesetTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down"
     width="2" height="1" tilewidth="16" tileheight="16" nextobjectid="1">
 <tileset firstgid="1" source="sets/tiles.tsx"/>
 <layer name="ground" width="2" height="1">
  <data encoding="csv">1,2</data>
 </layer>
</map>
`

// ExternalTilesetTSX is the external document for ExternalTilesetTMX; note
// it has no firstgid of its own.
const ExternalTilesetTSX = `<?xml version="1.0" encoding="UTF-8"?>
<tileset name="tiles" tilewidth="16" tileheight="16" tilecount="4" columns="2">
 <image source="img/tiles.png" width="32" height="32"/>
 <tile id="0">
  <properties>
   <property name="kind" value="grass"/>
  </properties>
 </tile>
</tileset>
`

// UniformMapTMX is a 4x4 map with every cell set to tile 1, for tests over
// the spatial ordering of full-grid scans.
const UniformMapTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down"
     width="4" height="4" tilewidth="16" tileheight="16" nextobjectid="1">
 <tileset firstgid="1" name="terrain" tilewidth="16" tileheight="16" tilecount="4" columns="2">
  <image source="terrain.png" width="32" height="32"/>
 </tileset>
 <layer name="ground" width="4" height="4">
  <data encoding="csv">
1,1,1,1,
1,1,1,1,
1,1,1,1,
1,1,1,1
</data>
 </layer>
</map>
`

// CollisionMapTMX declares a custom property named like the reserved tile
// attribute "width".
const CollisionMapTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down"
     width="1" height="1" tilewidth="16" tileheight="16" nextobjectid="1">
 <tileset firstgid="1" name="terrain" tilewidth="16" tileheight="16" tilecount="4" columns="2">
  <image source="terrain.png" width="32" height="32"/>
  <tile id="0">
   <properties>
    <property name="width" type="int" value="99"/>
   </properties>
  </tile>
 </tileset>
 <layer name="ground" width="1" height="1">
  <data encoding="csv">1</data>
 </layer>
</map>
`

// ClassMapTMX uses a class-typed map property with a nested override.
const ClassMapTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down"
     width="1" height="1" tilewidth="16" tileheight="16" nextobjectid="1">
 <properties>
  <property name="boss" type="class" propertytype="Enemy">
   <properties>
    <property name="hp" type="int" value="250"/>
   </properties>
  </property>
 </properties>
 <layer name="ground" width="1" height="1">
  <data encoding="csv">0</data>
 </layer>
</map>
`
