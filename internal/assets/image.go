package assets

import (
	"bytes"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
)

type palette struct {
	background color.RGBA
	accent     color.RGBA
}

func (g *Generator) palette() palette {
	return palette{
		background: color.RGBA{R: uint8(g.text.Int(120, 230)), G: uint8(g.text.Int(120, 230)), B: uint8(g.text.Int(120, 230)), A: 255},
		accent:     color.RGBA{R: uint8(g.text.Int(20, 110)), G: uint8(g.text.Int(20, 110)), B: uint8(g.text.Int(20, 110)), A: 255},
	}
}

// raster draws a diagonal-stripe placeholder with a solid frame.
func (g *Generator) raster(kind Kind, opts Options) ([]byte, error) {
	colors := g.palette()
	stripe := max(8, min(opts.Width, opts.Height)/12)
	frame := max(2, min(opts.Width, opts.Height)/64)

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			onFrame := x < frame || y < frame || x >= opts.Width-frame || y >= opts.Height-frame
			onStripe := ((x+y)/stripe)%2 == 0
			if onFrame || onStripe {
				img.SetRGBA(x, y, colors.accent)
			} else {
				img.SetRGBA(x, y, colors.background)
			}
		}
	}

	var buf bytes.Buffer
	var err error
	switch kind {
	case KindPNG:
		err = png.Encode(&buf, img)
	case KindJPG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80})
	case KindGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) svg(opts Options) []byte {
	colors := g.palette()
	return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
  <rect width="100%%" height="100%%" fill="%s"/>
  <rect x="4" y="4" width="%d" height="%d" fill="none" stroke="%s" stroke-width="4"/>
  <text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" font-family="sans-serif" font-size="%d" fill="%s">%s</text>
</svg>
`,
		opts.Width, opts.Height, opts.Width, opts.Height,
		hexColor(colors.background),
		opts.Width-8, opts.Height-8, hexColor(colors.accent),
		max(12, opts.Height/12), hexColor(colors.accent),
		html.EscapeString(opts.Label),
	))
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
