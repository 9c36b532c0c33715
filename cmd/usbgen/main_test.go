package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/usbdesc/pkg"
	"github.com/ardnew/usbdesc/schema"
)

const definition = `
[[descriptor]]
kind = "device"
vendor_id = 0x1209
product_id = 0x0001

[[descriptor]]
kind = "configuration"
name = "config_descriptor"

  [[descriptor.children]]
  kind = "interface"

    [[descriptor.children.children]]
    kind = "endpoint"
`

func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "device.toml")
	require.NoError(t, os.WriteFile(path, []byte(definition), 0o644))
	return path
}

// run executes usbgen with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { pkg.SetLogOutput(os.Stderr) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestKinds(t *testing.T) {
	out, err := run(t, "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
	assert.Contains(t, out, "camera_terminal")
	assert.Regexp(t, `configuration\s+yes`, out)
	assert.Regexp(t, `endpoint\s+no`, out)
}

func TestRender_Text(t *testing.T) {
	out, err := run(t, "render", writeDefinition(t))
	require.NoError(t, err)
	assert.Contains(t, out, "/* device_descriptor: Device (0x01) */\n{\n\t0x12,")
	assert.Contains(t, out, "/* config_descriptor: Configuration (0x02) */")
	assert.Contains(t, out, "/* Endpoint (0x05) */")
}

func TestRender_C(t *testing.T) {
	out, err := run(t, "render", "--format", "c", writeDefinition(t))
	require.NoError(t, err)
	assert.Contains(t, out, "static const unsigned char device_descriptor[] = {")
	assert.Contains(t, out, "/* 25 bytes */\nstatic const unsigned char config_descriptor[] = {")
	assert.Contains(t, out, "};\n")
}

func TestRender_Hex(t *testing.T) {
	out, err := run(t, "render", "--format", "hex", writeDefinition(t))
	require.NoError(t, err)
	assert.Contains(t, out, "# device_descriptor (18 bytes)\n00000000  12 01 00 02 00 00 00 40  09 12 01 00 00 01 00 00")
	assert.Contains(t, out, "# config_descriptor (25 bytes)")
}

func TestRender_BinToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.bin")
	out, err := run(t, "render", "--format", "bin", "-o", dest, writeDefinition(t))
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Len(t, b, 18+25)
	assert.Equal(t, []byte{0x12, 0x01}, b[:2])
	assert.Equal(t, []byte{0x09, 0x02, 0x19, 0x00}, b[18:22])
}

func TestRenderFile(t *testing.T) {
	tree, err := schema.LoadFile(writeDefinition(t))
	require.NoError(t, err)
	roots, err := tree.Build(&schema.Builder{})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out.h")
	require.NoError(t, renderFile(dest, roots, formatC))
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(b), "config_descriptor[]")

	err = renderFile(filepath.Join(t.TempDir(), "missing", "out.h"), roots, formatC)
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "create output")
}

func TestExecute(t *testing.T) {
	t.Cleanup(func() { pkg.SetLogOutput(os.Stderr) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"render", "--format", "svg", writeDefinition(t)})
	assert.Equal(t, 1, execute(cmd))
	assert.Contains(t, stderr.String(), "usbgen failed")
	assert.Contains(t, stderr.String(), "svg")

	cmd = newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"kinds"})
	assert.Equal(t, 0, execute(cmd))
}

func TestRender_USBIDs(t *testing.T) {
	ids := filepath.Join(t.TempDir(), "usb.ids")
	require.NoError(t, os.WriteFile(ids, []byte("1209  Generic\n\t0001  Test PID\n"), 0o644))

	out, err := run(t, "render", "--usb-ids", ids, writeDefinition(t))
	require.NoError(t, err)
	assert.Contains(t, out, "/* Vendor ID (Generic) */")
	assert.Contains(t, out, "/* Product ID (Test PID) */")

	_, err = run(t, "render", "--usb-ids", filepath.Join(t.TempDir(), "missing.ids"), writeDefinition(t))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRender_Errors(t *testing.T) {
	path := writeDefinition(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"bad format", []string{"render", "--format", "svg", path}, pkg.ErrUnsupportedFormat},
		{"bad log level", []string{"--log-level", "loud", "render", path}, pkg.ErrUnsupportedFormat},
		{"bad log format", []string{"--log-format", "xml", "render", path}, pkg.ErrUnsupportedFormat},
		{"missing definition", []string{"render", filepath.Join(t.TempDir(), "none.toml")}, fs.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := run(t, "render")
	require.Error(t, err, "render without a definition")
}
