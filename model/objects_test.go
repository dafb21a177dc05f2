package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes_Find(t *testing.T) {
	codes := Codes{
		{Type: "source", Value: "123"},
		{Type: "osm_line_id", Value: "relation:1"},
		{Type: "osm_line_id", Value: "relation:2"},
	}

	tests := []struct {
		name      string
		codeType  string
		wantValue string
		wantFound bool
	}{
		{name: "first of duplicated keys", codeType: "osm_line_id", wantValue: "relation:1", wantFound: true},
		{name: "single key", codeType: "source", wantValue: "123", wantFound: true},
		{name: "absent key", codeType: "osm_route_id", wantFound: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := codes.Find(tt.codeType)
			assert.Equal(t, tt.wantFound, ok)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestSetGeometryID_OnlyOnce(t *testing.T) {
	l := &Line{ID: "L1"}
	require.NoError(t, l.SetGeometryID("geo:line:osm:1"))

	err := l.SetGeometryID("geo:line:osm:2")
	require.ErrorIs(t, err, ErrGeometryAlreadySet)
	assert.Equal(t, "geo:line:osm:1", l.GeometryID, "entity must stay unchanged")

	r := &Route{ID: "R1", GeometryID: "existing"}
	require.ErrorIs(t, r.SetGeometryID("geo:route:osm:1"), ErrGeometryAlreadySet)
	assert.Equal(t, "existing", r.GeometryID)
}
