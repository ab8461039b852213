package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var raw = map[string]any{
	"EXIF:ISO":          float64(200),
	"EXIF:FNumber":      2.8,
	"File:FileSize":     "2.1 MB",
	"FileName":          "a.jpg",
	"SourceFile":        "/photos/a.jpg",
	"Composite:GPS:Lat": "51.2",
	"XMP:Subject":       []any{"beach", "sunset"},
	"EXIF:Flash":        nil,
}

func TestGroupBy(t *testing.T) {
	groups := GroupBy(raw)

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"Composite", "EXIF", "File", "General", "XMP"}, names)

	exif := groups[1]
	require.Len(t, exif.Entries, 3)
	assert.Equal(t, Entry{Group: "EXIF", Key: "FNumber", Value: "2.8"}, exif.Entries[0])
	assert.Equal(t, Entry{Group: "EXIF", Key: "Flash", Value: ""}, exif.Entries[1])
	assert.Equal(t, Entry{Group: "EXIF", Key: "ISO", Value: "200"}, exif.Entries[2])

	general := groups[3]
	assert.Equal(t, []Entry{
		{Group: "General", Key: "FileName", Value: "a.jpg"},
		{Group: "General", Key: "SourceFile", Value: "/photos/a.jpg"},
	}, general.Entries)

	// only the first colon separates the group
	assert.Equal(t, "GPS:Lat", groups[0].Entries[0].Key)
	assert.Equal(t, "beach, sunset", groups[4].Entries[0].Value)
}

func TestGroupByEmpty(t *testing.T) {
	assert.Empty(t, GroupBy(nil))
}

func TestRows(t *testing.T) {
	rows := Rows(GroupBy(raw))
	assert.Len(t, rows, len(raw))
	assert.Equal(t, "Composite", rows[0].Group)
	assert.Equal(t, "XMP", rows[len(rows)-1].Group)
}

func TestFilter(t *testing.T) {
	groups := GroupBy(raw)

	assert.Equal(t, groups, Filter(groups, ""))

	got := Filter(groups, "iso")
	require.Len(t, got, 1)
	assert.Equal(t, "EXIF", got[0].Name)
	assert.Equal(t, "ISO", got[0].Entries[0].Key)

	got = Filter(groups, "a.jpg")
	require.NotEmpty(t, got)
	assert.Equal(t, "General", got[0].Name)

	assert.Empty(t, Filter(groups, "zzzz"))
}
