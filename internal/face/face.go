// Package face loads clock face assets: a YAML manifest naming one SVG per
// part, rasterized at the manifest's pixel size.
package face

import (
	"embed"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"path"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/tartampluch/go-clock/internal/config"
	"github.com/tartampluch/go-clock/internal/raster"
	"gopkg.in/yaml.v3"
)

//go:embed assets/*.svg assets/*.yaml
var assetsFS embed.FS

// Asset describes one SVG file and the size it is rasterized at.
type Asset struct {
	File   string `yaml:"file"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Manifest is the YAML description of a face.
type Manifest struct {
	Name       string `yaml:"name"`
	Dial       Asset  `yaml:"dial"`
	HourHand   Asset  `yaml:"hour_hand"`
	MinuteHand Asset  `yaml:"minute_hand"`
	SecondHand Asset  `yaml:"second_hand"`
}

// Face holds the four decoded drawables of a clock face.
type Face struct {
	Name       string
	Dial       *raster.ImageDrawable
	HourHand   *raster.ImageDrawable
	MinuteHand *raster.ImageDrawable
	SecondHand *raster.ImageDrawable
}

// Default loads the embedded face.
func Default() (*Face, error) {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFaceLoad, err)
	}
	return Load(sub, config.FaceManifest)
}

// Load reads the manifest at manifestPath in fsys and rasterizes every asset.
// Asset files are resolved relative to the manifest.
func Load(fsys fs.FS, manifestPath string) (*Face, error) {
	data, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFaceManifest, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFaceDecode, err)
	}

	dir := path.Dir(manifestPath)
	f := &Face{Name: m.Name}
	parts := []struct {
		asset Asset
		dst   **raster.ImageDrawable
	}{
		{m.Dial, &f.Dial},
		{m.HourHand, &f.HourHand},
		{m.MinuteHand, &f.MinuteHand},
		{m.SecondHand, &f.SecondHand},
	}
	for _, p := range parts {
		img, err := loadAsset(fsys, dir, p.asset)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", config.ErrFaceAsset, p.asset.File, err)
		}
		*p.dst = raster.NewImageDrawable(img)
	}

	slog.Debug(config.MsgFaceLoaded,
		config.LogKeyComponent, config.CompFace,
		config.LogKeyFace, f.Name,
	)
	return f, nil
}

func loadAsset(fsys fs.FS, dir string, a Asset) (*image.RGBA, error) {
	if a.Width <= 0 || a.Height <= 0 {
		return nil, errors.New(config.ErrFaceSize)
	}
	file, err := fsys.Open(path.Join(dir, a.File))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return Rasterize(file, a.Width, a.Height)
}

// Rasterize renders an SVG document into a width x height image.
func Rasterize(r io.Reader, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSVGParse, err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), config.SVGOpacity)
	return img, nil
}
