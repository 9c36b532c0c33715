package schema

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/usbdesc/descriptor"
	"github.com/ardnew/usbdesc/pkg"
)

const sampleTOML = `
[[descriptor]]
kind = "device"
vendor_id = 0x1209
product_id = 0x0001

[[descriptor]]
kind = "configuration"
name = "config_descriptor"
max_power_ma = 500

  [[descriptor.children]]
  kind = "interface"
  interface_class = 0xFF

    [[descriptor.children.children]]
    kind = "endpoint"
    direction = "in"

    [[descriptor.children.children]]
    kind = "endpoint"
    direction = "out"
    number = 2
`

const sampleYAML = `
descriptor:
  - kind: device
    vendor_id: 0x1209
    product_id: 0x0001
  - kind: configuration
    name: config_descriptor
    max_power_ma: 500
    children:
      - kind: interface
        interface_class: 0xFF
        children:
          - kind: endpoint
            direction: in
          - kind: endpoint
            direction: out
            number: 2
`

func buildSample(t *testing.T, tree *Tree) []Root {
	t.Helper()
	roots, err := tree.Build(&Builder{})
	require.NoError(t, err)
	require.Len(t, roots, 2)
	return roots
}

func TestDecodeTOML(t *testing.T) {
	tree, err := DecodeTOML(strings.NewReader(sampleTOML), "sample.toml")
	require.NoError(t, err)
	require.Len(t, tree.Entries, 2)

	cfg := tree.Entries[1]
	assert.Equal(t, KindConfiguration, cfg.Kind)
	assert.Equal(t, "descriptor[1]", cfg.Path)
	require.Len(t, cfg.Children, 1)
	require.Len(t, cfg.Children[0].Children, 2)
	assert.Equal(t, "descriptor[1].children[0].children[1]", cfg.Children[0].Children[1].Path)

	// Absent keys keep their defaults.
	opts, ok := cfg.Options.(*ConfigurationOptions)
	require.True(t, ok)
	assert.Equal(t, 500, opts.MaxPower)
	assert.Equal(t, 1, opts.ConfigurationValue)

	ep, ok := cfg.Children[0].Children[1].Options.(*EndpointOptions)
	require.True(t, ok)
	assert.Equal(t, "out", ep.Direction)
	assert.Equal(t, "bulk", ep.Transfer)
	assert.Equal(t, 64, ep.MaxPacketSize)

	roots := buildSample(t, tree)
	assert.Equal(t, "device_descriptor", roots[0].Name)
	assert.Equal(t, "config_descriptor", roots[1].Name)

	b, err := descriptor.Bytes(roots[1].Node)
	require.NoError(t, err)
	assert.Len(t, b, 9+9+7+7)
	assert.Equal(t, []byte{0x20, 0x00, 0x01}, b[2:5])
	assert.Equal(t, byte(250), b[8])
}

func TestDecodeYAML_MatchesTOML(t *testing.T) {
	fromTOML, err := DecodeTOML(strings.NewReader(sampleTOML), "sample.toml")
	require.NoError(t, err)
	fromYAML, err := DecodeYAML(strings.NewReader(sampleYAML), "sample.yaml")
	require.NoError(t, err)

	tomlRoots := buildSample(t, fromTOML)
	yamlRoots := buildSample(t, fromYAML)
	for i := range tomlRoots {
		want, err := descriptor.Bytes(tomlRoots[i].Node)
		require.NoError(t, err)
		got, err := descriptor.Bytes(yamlRoots[i].Node)
		require.NoError(t, err)
		assert.Equal(t, want, got, "root %d", i)
		assert.Equal(t, tomlRoots[i].Name, yamlRoots[i].Name)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		toml     string
		yaml     string
		want     error
		contains string
	}{
		{
			name:     "unknown option",
			toml:     "[[descriptor]]\nkind = \"device\"\nvendor = 1\n",
			yaml:     "descriptor:\n  - kind: device\n    vendor: 1\n",
			want:     pkg.ErrUnknownOption,
			contains: `descriptor[0] (device)`,
		},
		{
			name:     "unknown kind",
			toml:     "[[descriptor]]\nkind = \"hid\"\n",
			yaml:     "descriptor:\n  - kind: hid\n",
			want:     pkg.ErrUnknownKind,
			contains: "descriptor[0]",
		},
		{
			name:     "missing kind",
			toml:     "[[descriptor]]\nname = \"x\"\n",
			yaml:     "descriptor:\n  - name: x\n",
			want:     pkg.ErrUnknownKind,
			contains: "descriptor[0]",
		},
		{
			name: "children on record",
			toml: "[[descriptor]]\nkind = \"endpoint\"\n" +
				"[[descriptor.children]]\nkind = \"endpoint\"\n",
			yaml:     "descriptor:\n  - kind: endpoint\n    children:\n      - kind: endpoint\n",
			want:     pkg.ErrChildrenNotAllowed,
			contains: "(endpoint)",
		},
		{
			name: "nested unknown option",
			toml: "[[descriptor]]\nkind = \"configuration\"\n" +
				"[[descriptor.children]]\nkind = \"interface\"\nnumber = 1\n",
			yaml:     "descriptor:\n  - kind: configuration\n    children:\n      - kind: interface\n        number: 1\n",
			want:     pkg.ErrUnknownOption,
			contains: "descriptor[0].children[0] (interface)",
		},
		{
			name:     "empty",
			toml:     "",
			yaml:     "",
			want:     pkg.ErrEmptyInput,
			contains: "no descriptor entries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/toml", func(t *testing.T) {
			_, err := DecodeTOML(strings.NewReader(tt.toml), "test.toml")
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.contains)
		})
		t.Run(tt.name+"/yaml", func(t *testing.T) {
			_, err := DecodeYAML(strings.NewReader(tt.yaml), "test.yaml")
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestDecode_TopLevelUnknownKey(t *testing.T) {
	_, err := DecodeTOML(strings.NewReader("title = \"x\"\n[[descriptor]]\nkind = \"bos\"\n"), "test.toml")
	require.ErrorIs(t, err, pkg.ErrUnknownOption)
	assert.Contains(t, err.Error(), "title")

	_, err = DecodeYAML(strings.NewReader("title: x\ndescriptor:\n  - kind: bos\n"), "test.yaml")
	require.Error(t, err)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := DecodeTOML(strings.NewReader("[[descriptor]\nkind ="), "bad.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.toml")

	_, err = DecodeYAML(strings.NewReader("descriptor: [\n"), "bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestTree_BuildError(t *testing.T) {
	src := "[[descriptor]]\nkind = \"configuration\"\n" +
		"[[descriptor.children]]\nkind = \"interface\"\n" +
		"[[descriptor.children.children]]\nkind = \"endpoint\"\nmax_packet_size = 70000\n"
	tree, err := DecodeTOML(strings.NewReader(src), "test.toml")
	require.NoError(t, err)

	_, err = tree.Build(&Builder{})
	require.ErrorIs(t, err, pkg.ErrRange)
	assert.Contains(t, err.Error(), "descriptor[0].children[0].children[0]: endpoint")
	assert.Contains(t, err.Error(), "Max packet size")
}

func TestTree_BuildNames(t *testing.T) {
	src := "descriptor:\n" +
		"  - kind: string\n    text: Acme\n" +
		"  - kind: string\n    text: Widget\n" +
		"  - kind: language\n    name: lang\n"
	tree, err := DecodeYAML(strings.NewReader(src), "test.yaml")
	require.NoError(t, err)

	roots, err := tree.Build(&Builder{})
	require.NoError(t, err)
	names := make([]string, len(roots))
	for i, r := range roots {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"string_descriptor", "string_descriptor_1", "lang"}, names)

	claimed := "descriptor:\n" +
		"  - kind: string\n    text: Acme\n" +
		"  - kind: string\n    text: Widget\n" +
		"  - kind: string\n    name: string_descriptor_1\n    text: Serial\n"
	tree, err = DecodeYAML(strings.NewReader(claimed), "claimed.yaml")
	require.NoError(t, err)
	roots, err = tree.Build(&Builder{})
	require.NoError(t, err)
	names = names[:0]
	for _, r := range roots {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"string_descriptor", "string_descriptor_2", "string_descriptor_1"}, names)

	dup := "descriptor:\n  - kind: bos\n    name: x\n  - kind: bos\n    name: x\n"
	tree, err = DecodeYAML(strings.NewReader(dup), "dup.yaml")
	require.NoError(t, err)
	_, err = tree.Build(&Builder{})
	require.ErrorIs(t, err, pkg.ErrEncoding)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"tree.toml": sampleTOML,
		"tree.yaml": sampleYAML,
		"tree.YML":  sampleYAML,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		tree, err := LoadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, path, tree.Source)
		assert.Len(t, tree.Entries, 2, name)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := LoadFile(path)
	require.ErrorIs(t, err, pkg.ErrUnsupportedFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}
