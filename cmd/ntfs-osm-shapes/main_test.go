package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/ntfs"
	"github.com/theoremus-urban-solutions/ntfs-osm-shapes/shapes"
)

const extract = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="43.0" lon="5.0"/>
  <node id="2" lat="43.1" lon="5.1"/>
  <node id="3" lat="43.2" lon="5.2"/>
  <way id="10"><nd ref="1"/><nd ref="2"/></way>
  <way id="11"><nd ref="2"/><nd ref="3"/></way>
  <relation id="100">
    <member type="way" ref="10" role=""/>
    <member type="way" ref="11" role=""/>
    <tag k="type" v="route"/>
    <tag k="route" v="bus"/>
  </relation>
  <relation id="200">
    <member type="relation" ref="100" role=""/>
    <tag k="type" v="route_master"/>
  </relation>
</osm>`

var dataset = map[string]string{
	"lines.txt":  "line_id,line_name\nL1,Castellane\nL2,Arenc\n",
	"routes.txt": "route_id,route_name,line_id\nR1,Castellane,L1\n",
	"object_codes.txt": "object_type,object_id,object_system,object_code\n" +
		"line,L1,osm_line_id,relation:200\n" +
		"route,R1,osm_route_id,relation:100\n",
}

func setup(t *testing.T) (input, osmPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	input = filepath.Join(dir, "ntfs")
	require.NoError(t, os.MkdirAll(input, 0755))
	for name, content := range dataset {
		require.NoError(t, os.WriteFile(filepath.Join(input, name), []byte(content), 0644))
	}
	osmPath = filepath.Join(dir, "marseille-lite.osm")
	require.NoError(t, os.WriteFile(osmPath, []byte(extract), 0644))
	return input, osmPath
}

func execute(args ...string) (string, error) {
	var logs bytes.Buffer
	cmd := newRootCommand(&logs)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return logs.String(), err
}

func TestRun(t *testing.T) {
	input, osmPath := setup(t)
	output := filepath.Join(t.TempDir(), "out")

	logs, err := execute("-i", input, "-o", output, "--osm", osmPath, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, logs, "attached osm shapes")

	ds, err := ntfs.Read(output)
	require.NoError(t, err)
	l1, _ := ds.Collections.Lines.Get("L1")
	assert.Equal(t, "geo:line:osm:1", l1.GeometryID)
	l2, _ := ds.Collections.Lines.Get("L2")
	assert.Empty(t, l2.GeometryID)
	r1, _ := ds.Collections.Routes.Get("R1")
	assert.Equal(t, "geo:route:osm:1", r1.GeometryID)
	assert.Equal(t, 2, ds.Collections.Geometries.Len())

	data, err := os.ReadFile(filepath.Join(output, "object_codes.txt"))
	require.NoError(t, err)
	assert.Equal(t, dataset["object_codes.txt"], string(data))
}

func TestRun_TwiceFails(t *testing.T) {
	input, osmPath := setup(t)
	output := filepath.Join(t.TempDir(), "out")
	_, err := execute("-i", input, "-o", output, "--osm", osmPath)
	require.NoError(t, err)

	again := filepath.Join(t.TempDir(), "again")
	logs, err := execute("-i", output, "-o", again, "--osm", osmPath, "--log-format", "json")
	require.ErrorIs(t, err, shapes.ErrDuplicateGeometryAssignment)
	assert.Contains(t, logs, `"msg":"failed to attach osm shapes"`)
	assert.NoDirExists(t, again)
}

func TestRun_MissingFlags(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute()
	require.Error(t, err)
	for _, want := range []string{"input directory", "output directory", "osm extract"} {
		assert.True(t, strings.Contains(err.Error(), want), "missing %q in %v", want, err)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	input, osmPath := setup(t)
	output := filepath.Join(t.TempDir(), "out")
	cfg := "dataset:\n  input: " + input + "\n  output: " + output + "\nosm:\n  extract: " + osmPath + "\n"
	require.NoError(t, os.WriteFile("config.yml", []byte(cfg), 0644))

	_, err := execute()
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(output, "geometries.txt"))
}

func TestRun_InvalidLogLevel(t *testing.T) {
	input, osmPath := setup(t)
	_, err := execute("-i", input, "-o", t.TempDir(), "--osm", osmPath, "--log-level", "loud")
	assert.Error(t, err)
}
