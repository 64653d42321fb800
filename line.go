package wad

// Record sizes of the level lumps.
const (
	lineSize   = 14
	sideSize   = 30
	vertexSize = 4
	sectorSize = 26
)

// Line flag bits.
const (
	LineBlockPlayerAndMonsters = 0x0001
	LineBlockMonsters          = 0x0002
	LineTwoSided               = 0x0004
	LineUpperTextureUnpegged   = 0x0008
	LineLowerTextureUnpegged   = 0x0010
	LineSecret                 = 0x0020
	LineBlocksSound            = 0x0040
	LineNeverMap               = 0x0080
	LineAlwaysMap              = 0x0100
)

// Line is a LINEDEFS record. SideLNum is -1 for a one-sided wall.
type Line struct {
	V1Num                  int
	V2Num                  int
	Flags                  int16
	BlockPlayerAndMonsters bool
	BlockMonsters          bool
	TwoSided               bool
	UpperTextureUnpegged   bool
	LowerTextureUnpegged   bool
	Secret                 bool
	BlocksSound            bool
	NeverMap               bool
	AlwaysMap              bool
	Type                   LineType
	SectorTagNum           int
	SideRNum, SideLNum     int
}

// LineType is the special action number of a line. Actions are not interpreted.
type LineType int

func decodeLine(b []byte) Line {
	flags := i16(b[4:])
	return Line{
		V1Num:                  int(le.Uint16(b[0:])),
		V2Num:                  int(le.Uint16(b[2:])),
		Flags:                  flags,
		BlockPlayerAndMonsters: flags&LineBlockPlayerAndMonsters != 0,
		BlockMonsters:          flags&LineBlockMonsters != 0,
		TwoSided:               flags&LineTwoSided != 0,
		UpperTextureUnpegged:   flags&LineUpperTextureUnpegged != 0,
		LowerTextureUnpegged:   flags&LineLowerTextureUnpegged != 0,
		Secret:                 flags&LineSecret != 0,
		BlocksSound:            flags&LineBlocksSound != 0,
		NeverMap:               flags&LineNeverMap != 0,
		AlwaysMap:              flags&LineAlwaysMap != 0,
		Type:                   LineType(i16(b[6:])),
		SectorTagNum:           int(i16(b[8:])),
		SideRNum:               int(i16(b[10:])),
		SideLNum:               int(i16(b[12:])),
	}
}

// Side is a SIDEDEFS record.
type Side struct {
	XOffset           int16
	YOffset           int16
	UpperTextureName  string
	LowerTextureName  string
	MiddleTextureName string
	SectorNum         int
}

func decodeSide(b []byte) Side {
	return Side{
		XOffset:           i16(b[0:]),
		YOffset:           i16(b[2:]),
		UpperTextureName:  readString8(b[4:12]).Upper(),
		LowerTextureName:  readString8(b[12:20]).Upper(),
		MiddleTextureName: readString8(b[20:28]).Upper(),
		SectorNum:         int(i16(b[28:])),
	}
}

type Vertex struct {
	X, Y int16
}

func decodeVertex(b []byte) Vertex {
	return Vertex{X: i16(b[0:]), Y: i16(b[2:])}
}

// Sector is a SECTORS record. LightLevel is scaled from 0-255 to 0-1.
type Sector struct {
	Index              int
	FloorHeight        int16
	CeilingHeight      int16
	FloorTextureName   string
	CeilingTextureName string
	LightLevel         float32
	Type               SectorType
	TagNum             int
}

type SectorType int

const (
	TypeNormal          SectorType = iota
	TypeBlinkRandom                // 1  Light  Blink random
	TypeBlink05                    // 2  Light  Blink 0.5 second
	TypeBlink10                    // 3  Light  Blink 1.0 second
	TypeDamage20Blink05            // 4  Both   20% damage per second; light blink 0.5 second
	TypeDamage10                   // 5	 Damage 10% damage per second
	TypeUnused1                    // 6  Unused
	TypeDamage5                    // 7	 Damage 5% damage per second
	TypeOscillate                  // 8	 Light  Oscillates
	TypeSecret                     // 9	 Secret Player entering this sector gets credit for finding a secret
	TypeDoor30                     // 10 Door   30 seconds after level start, ceiling closes like a door
	TypeEnd                        // 11 End    20% damage ps. Level ends when player health drops below 11% & touching floor
	TypeBlink10Sync                // 12 Light  Blink 1.0 second, synchronized
	TypeBlink05Sync                // 13 Light  Blink 0.5 second, synchronized
	TypeDoor300                    // 14 Door   300 seconds after level start, ceiling opens like a door
	TypeUnused2                    // 15 Unused
	TypeDamage20                   // 16 Damage 20% damage per second
	TypeFlickerRandom              // 17 Light  Flickers randomly
)

func decodeSector(b []byte) Sector {
	return Sector{
		FloorHeight:        i16(b[0:]),
		CeilingHeight:      i16(b[2:]),
		FloorTextureName:   readString8(b[4:12]).Upper(),
		CeilingTextureName: readString8(b[12:20]).Upper(),
		LightLevel:         clamp(float32(i16(b[20:]))/255, 0, 1),
		Type:               SectorType(i16(b[22:])),
		TagNum:             int(i16(b[24:])),
	}
}

// NoSurface is the first character of a texture name that means nothing is drawn.
const NoSurface = '-'

func hasSurface(name string) bool {
	return name != "" && name[0] != NoSurface
}
