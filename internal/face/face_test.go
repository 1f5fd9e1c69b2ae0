package face_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-clock/internal/face"
)

const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
  <rect x="0" y="0" width="10" height="10" fill="#00FF00"/>
</svg>`

func TestDefault_LoadsAllParts(t *testing.T) {
	f, err := face.Default()
	require.NoError(t, err)

	assert.Equal(t, "classic", f.Name)
	for name, d := range map[string]interface{ IntrinsicWidth() int }{
		"dial":   f.Dial,
		"hour":   f.HourHand,
		"minute": f.MinuteHand,
		"second": f.SecondHand,
	} {
		assert.Equal(t, 200, d.IntrinsicWidth(), name)
	}

	// The second hand's hub sits on the pivot.
	hub := f.SecondHand.Image().At(100, 100)
	_, _, _, a := hub.RGBA()
	assert.NotZero(t, a)

	// Hands point to twelve o'clock: nothing below the hub's tail.
	_, _, _, a = f.HourHand.Image().At(100, 180).RGBA()
	assert.Zero(t, a)
}

func TestRasterize(t *testing.T) {
	img, err := face.Rasterize(strings.NewReader(squareSVG), 20, 20)
	require.NoError(t, err)

	assert.Equal(t, 20, img.Bounds().Dx())
	c := img.RGBAAt(10, 10)
	assert.Equal(t, uint8(255), c.G)
	assert.Equal(t, uint8(255), c.A)
}

func TestLoad_Errors(t *testing.T) {
	manifest := func(file string, size int) string {
		var b strings.Builder
		b.WriteString("name: test\n")
		for _, part := range []string{"dial", "hour_hand", "minute_hand", "second_hand"} {
			b.WriteString(part + ":\n  file: " + file + "\n")
			b.WriteString("  width: " + map[bool]string{true: "10", false: "0"}[size > 0] + "\n")
			b.WriteString("  height: 10\n")
		}
		return b.String()
	}

	tests := []struct {
		name    string
		fs      fstest.MapFS
		wantErr string
	}{
		{
			name:    "MissingManifest",
			fs:      fstest.MapFS{},
			wantErr: "failed to read face manifest",
		},
		{
			name:    "BadYAML",
			fs:      fstest.MapFS{"face.yaml": {Data: []byte("dial: [unclosed")}},
			wantErr: "failed to decode face manifest",
		},
		{
			name:    "MissingAsset",
			fs:      fstest.MapFS{"face.yaml": {Data: []byte(manifest("nope.svg", 10))}},
			wantErr: "failed to load face asset",
		},
		{
			name: "ZeroSize",
			fs: fstest.MapFS{
				"face.yaml": {Data: []byte(manifest("sq.svg", 0))},
				"sq.svg":    {Data: []byte(squareSVG)},
			},
			wantErr: "face asset size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := face.Load(tt.fs, "face.yaml")
			assert.Nil(t, f)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_RelativeToManifest(t *testing.T) {
	fsys := fstest.MapFS{
		"faces/mini/face.yaml": {Data: []byte(`name: mini
dial: {file: sq.svg, width: 10, height: 10}
hour_hand: {file: sq.svg, width: 10, height: 10}
minute_hand: {file: sq.svg, width: 10, height: 10}
second_hand: {file: sq.svg, width: 4, height: 8}
`)},
		"faces/mini/sq.svg": {Data: []byte(squareSVG)},
	}

	f, err := face.Load(fsys, "faces/mini/face.yaml")
	require.NoError(t, err)
	assert.Equal(t, "mini", f.Name)
	assert.Equal(t, 4, f.SecondHand.IntrinsicWidth())
	assert.Equal(t, 8, f.SecondHand.IntrinsicHeight())
}
