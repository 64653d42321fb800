package wad

import "fmt"

// Level holds the structural records of one map. Indices in the records have been checked.
type Level struct {
	Name     string
	Lines    []Line
	Sides    []Side
	Vertexes []Vertex
	Sectors  []Sector
}

// ReadLevel reads the records of the map whose marker lump is name. Lumps are looked up at or
// after the marker so that each map reads its own LINEDEFS, SIDEDEFS and so on.
func (w *WAD) ReadLevel(name string) (*Level, error) {
	logger.Printf("Reading Level %v ...", name)

	marker, ok := w.Find(name, 0)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrMapNotFound, name)
	}

	level := Level{Name: w.lumps[marker].Name}
	var err error
	if level.Lines, err = ReadRecords(w, marker, "LINEDEFS", lineSize, decodeLine); err != nil {
		return nil, err
	}
	if level.Sides, err = ReadRecords(w, marker, "SIDEDEFS", sideSize, decodeSide); err != nil {
		return nil, err
	}
	if level.Vertexes, err = ReadRecords(w, marker, "VERTEXES", vertexSize, decodeVertex); err != nil {
		return nil, err
	}
	if level.Sectors, err = ReadRecords(w, marker, "SECTORS", sectorSize, decodeSector); err != nil {
		return nil, err
	}
	for i := range level.Sectors {
		level.Sectors[i].Index = i
	}
	logger.Printf("Read %v lines, %v sides, %v vertexes, %v sectors",
		len(level.Lines), len(level.Sides), len(level.Vertexes), len(level.Sectors))

	if err := level.check(); err != nil {
		return nil, err
	}
	return &level, nil
}

// check verifies that every reference between records points at an existing record and that
// every line has a front side.
func (l *Level) check() error {
	for i, s := range l.Sides {
		if s.SectorNum < 0 || s.SectorNum >= len(l.Sectors) {
			return fmt.Errorf("%w: side %v references sector %v", ErrInvalidFormat, i, s.SectorNum)
		}
	}
	for i, li := range l.Lines {
		if li.V1Num >= len(l.Vertexes) || li.V2Num >= len(l.Vertexes) {
			return fmt.Errorf("%w: line %v references vertexes %v-%v", ErrInvalidFormat, i, li.V1Num, li.V2Num)
		}
		if li.SideRNum < 0 || li.SideRNum >= len(l.Sides) {
			return fmt.Errorf("%w: line %v has front side %v", ErrInvalidFormat, i, li.SideRNum)
		}
		if li.SideLNum >= len(l.Sides) {
			return fmt.Errorf("%w: line %v has back side %v", ErrInvalidFormat, i, li.SideLNum)
		}
	}
	return nil
}

// FrontSide returns the front side of line i and its sector.
func (l *Level) FrontSide(i int) (*Side, *Sector) {
	s := &l.Sides[l.Lines[i].SideRNum]
	return s, &l.Sectors[s.SectorNum]
}

// BackSide returns the back side of line i and its sector, or nils for a one-sided line.
func (l *Level) BackSide(i int) (*Side, *Sector) {
	n := l.Lines[i].SideLNum
	if n < 0 {
		return nil, nil
	}
	s := &l.Sides[n]
	return s, &l.Sectors[s.SectorNum]
}
