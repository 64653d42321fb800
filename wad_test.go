package wad_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadgeom"
	"github.com/stuarthighley/wadgeom/internal/wadtest"
)

func TestOpen(t *testing.T) {
	w := open(t, wadtest.New().PWAD().Add("one", []byte{1, 2, 3}).Add("TWO", nil))

	require.Equal(t, wad.KindPWAD, w.Kind())
	require.Equal(t, 2, w.NumLumps())
	require.Equal(t, "ONE", w.LumpInfo(0).Name)
	require.Equal(t, 3, w.LumpInfo(0).Size)
	require.Equal(t, []byte{1, 2, 3}, w.LumpBytes(0))
	require.Empty(t, w.LumpBytes(1))
}

func TestOpenErrors(t *testing.T) {
	valid := wadtest.New().Add("A", []byte{1, 2, 3, 4}).Bytes()
	dir := int(binary.LittleEndian.Uint32(valid[8:]))

	for _, tc := range []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"truncated header", func(b []byte) []byte { return b[:8] }},
		{"bad magic", func(b []byte) []byte { copy(b, "XWAD"); return b }},
		{"too many lumps", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[4:], 100); return b }},
		{"directory past end", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[8:], uint32(len(b))); return b }},
		{"lump past end", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[dir+4:], 1000); return b }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.mutate(append([]byte(nil), valid...))
			_, err := wad.Open(data)
			require.Truef(t, errors.Is(err, wad.ErrInvalidFormat), "%v", err)
		})
	}
}

func TestFind(t *testing.T) {
	w := open(t, wadtest.New().
		Add("E1M1", nil).Add("THINGS", nil).
		Add("E1M2", nil).Add("THINGS", nil).
		Add("sky1", nil))

	i, ok := w.Find("E1M", 0)
	require.True(t, ok)
	require.Equal(t, 0, i)

	j, ok := w.Find("E1M", 0)
	require.True(t, ok)
	require.Equal(t, i, j)

	i, ok = w.Find("things", 2)
	require.True(t, ok)
	require.Equal(t, 3, i)

	i, ok = w.Find("SKY1", 0)
	require.True(t, ok)
	require.Equal(t, 4, i)

	for _, name := range []string{"", "E1M3", "TOOLONGNAME"} {
		_, ok := w.Find(name, 0)
		require.Falsef(t, ok, "Find(%q)", name)
	}
	_, ok = w.Find("E1M1", 1)
	require.False(t, ok)
}

func TestLump(t *testing.T) {
	w := open(t, wadtest.New().Add("DATA", []byte{9}))

	data, err := w.Lump("data")
	require.NoError(t, err)
	require.Equal(t, []byte{9}, data)

	_, err = w.Lump("MISSING")
	require.Truef(t, errors.Is(err, wad.ErrLumpNotFound), "%v", err)
}

func TestLevelNames(t *testing.T) {
	w := open(t, wadtest.New().
		AddLevel("MAP02", wadtest.Level{}).
		AddLevel("MAP01", wadtest.Level{}).
		Add("PLAYPAL", wadtest.Palette()))

	if got, want := w.LevelNames(), []string{"MAP01", "MAP02"}; !cmp.Equal(got, want) {
		t.Errorf("LevelNames() = %v, want = %v", got, want)
	}
}

func TestReadRecords(t *testing.T) {
	decode := func(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
	w := open(t, wadtest.New().
		Add("SHORT", []byte{1, 2}).
		Add("EMPTY", nil).
		Add("TRAIL", []byte{1, 0, 0, 0, 2, 0, 0, 0, 7}))

	_, err := wad.ReadRecords(w, 0, "SHORT", 4, decode)
	require.Truef(t, errors.Is(err, wad.ErrSectionSizeMismatch), "%v", err)

	records, err := wad.ReadRecords(w, 0, "EMPTY", 4, decode)
	require.NoError(t, err)
	require.Empty(t, records)

	records, err = wad.ReadRecords(w, 0, "TRAIL", 4, decode)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2}, records)

	_, err = wad.ReadRecords(w, 0, "NONE", 4, decode)
	require.Truef(t, errors.Is(err, wad.ErrLumpNotFound), "%v", err)
}

func TestReadLevel(t *testing.T) {
	w := open(t, fixture())

	level, err := w.ReadLevel("E1M1")
	require.NoError(t, err)
	require.Equal(t, "E1M1", level.Name)
	require.Len(t, level.Lines, 4)
	require.Len(t, level.Sides, 4)
	require.Len(t, level.Vertexes, 4)
	require.Len(t, level.Sectors, 1)

	s := level.Sectors[0]
	require.Equal(t, "FLOOR1", s.FloorTextureName)
	require.Equal(t, int16(128), s.CeilingHeight)
	require.InDelta(t, 160.0/255, s.LightLevel, 1e-6)

	side, sector := level.FrontSide(0)
	require.Equal(t, "WALL", side.MiddleTextureName)
	require.Equal(t, "-", side.UpperTextureName)
	require.Equal(t, 0, sector.Index)

	side, sector = level.BackSide(0)
	require.Nil(t, side)
	require.Nil(t, sector)

	_, err = w.ReadLevel("E2M1")
	require.Truef(t, errors.Is(err, wad.ErrMapNotFound), "%v", err)
}

func TestReadLevelBrokenReferences(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*wadtest.Level)
	}{
		{"vertex", func(l *wadtest.Level) { l.Lines[0].V2 = 99 }},
		{"front side", func(l *wadtest.Level) { l.Lines[1].Right = 99 }},
		{"missing front side", func(l *wadtest.Level) { l.Lines[1].Right = -1 }},
		{"back side", func(l *wadtest.Level) { l.Lines[2].Left = 99 }},
		{"sector", func(l *wadtest.Level) { l.Sides[3].Sector = 5 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			level := wadtest.Room(64, 0, 64, "WALL", "FLOOR1")
			tc.mutate(&level)
			w := open(t, wadtest.New().AddLevel("MAP01", level))

			_, err := w.ReadLevel("MAP01")
			require.Truef(t, errors.Is(err, wad.ErrInvalidFormat), "%v", err)
		})
	}
}
