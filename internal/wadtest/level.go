package wadtest

// Vertex is a VERTEXES record.
type Vertex struct {
	X, Y int
}

// Line is a LINEDEFS record. Left is -1 for a one-sided line.
type Line struct {
	V1, V2      int
	Flags       int
	Right, Left int
}

// Side is a SIDEDEFS record.
type Side struct {
	XOffset, YOffset     int
	Upper, Lower, Middle string
	Sector               int
}

// Sector is a SECTORS record.
type Sector struct {
	Floor, Ceiling         int
	FloorFlat, CeilingFlat string
	Light                  int
}

// Level holds the records of one map.
type Level struct {
	Vertexes []Vertex
	Lines    []Line
	Sides    []Side
	Sectors  []Sector
}

// AddLevel appends a map marker called name followed by its lumps.
func (b *Builder) AddLevel(name string, l Level) *Builder {
	b.Add(name, nil)
	b.Add("THINGS", nil)
	b.Add("LINEDEFS", l.lineBytes())
	b.Add("SIDEDEFS", l.sideBytes())
	b.Add("VERTEXES", l.vertexBytes())
	b.Add("SECTORS", l.sectorBytes())
	return b
}

func (l Level) lineBytes() []byte {
	out := make([]byte, 0, len(l.Lines)*14)
	for _, li := range l.Lines {
		out = le.AppendUint16(out, uint16(li.V1))
		out = le.AppendUint16(out, uint16(li.V2))
		out = le.AppendUint16(out, uint16(li.Flags))
		out = le.AppendUint16(out, 0) // type
		out = le.AppendUint16(out, 0) // tag
		out = le.AppendUint16(out, uint16(int16(li.Right)))
		out = le.AppendUint16(out, uint16(int16(li.Left)))
	}
	return out
}

func (l Level) sideBytes() []byte {
	out := make([]byte, 0, len(l.Sides)*30)
	for _, s := range l.Sides {
		out = le.AppendUint16(out, uint16(int16(s.XOffset)))
		out = le.AppendUint16(out, uint16(int16(s.YOffset)))
		out = append(out, Name8(orDash(s.Upper))...)
		out = append(out, Name8(orDash(s.Lower))...)
		out = append(out, Name8(orDash(s.Middle))...)
		out = le.AppendUint16(out, uint16(s.Sector))
	}
	return out
}

func (l Level) vertexBytes() []byte {
	out := make([]byte, 0, len(l.Vertexes)*4)
	for _, v := range l.Vertexes {
		out = le.AppendUint16(out, uint16(int16(v.X)))
		out = le.AppendUint16(out, uint16(int16(v.Y)))
	}
	return out
}

func (l Level) sectorBytes() []byte {
	out := make([]byte, 0, len(l.Sectors)*26)
	for _, s := range l.Sectors {
		out = le.AppendUint16(out, uint16(int16(s.Floor)))
		out = le.AppendUint16(out, uint16(int16(s.Ceiling)))
		out = append(out, Name8(s.FloorFlat)...)
		out = append(out, Name8(s.CeilingFlat)...)
		out = le.AppendUint16(out, uint16(s.Light))
		out = le.AppendUint16(out, 0) // type
		out = le.AppendUint16(out, 0) // tag
	}
	return out
}

func orDash(name string) string {
	if name == "" {
		return "-"
	}
	return name
}

// Room returns a single square sector of the given size. Its four one-sided walls are wound
// clockwise so their fronts face in and use wall; floor and ceiling use flat.
func Room(size, floor, ceiling int, wall, flat string) Level {
	l := Level{
		Vertexes: []Vertex{{0, 0}, {size, 0}, {size, size}, {0, size}},
		Sectors:  []Sector{{Floor: floor, Ceiling: ceiling, FloorFlat: flat, CeilingFlat: flat, Light: 160}},
	}
	for i := range 4 {
		l.Lines = append(l.Lines, Line{V1: i, V2: (i + 3) % 4, Right: i, Left: -1})
		l.Sides = append(l.Sides, Side{Middle: wall, Sector: 0})
	}
	return l
}
