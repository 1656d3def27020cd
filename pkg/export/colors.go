package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"

	"github.com/vanderheijden86/trendradar/pkg/model"
)

var (
	colorStroke   = color.RGBA{0x2b, 0x2f, 0x36, 0xff}
	colorText     = color.RGBA{0x1f, 0x23, 0x28, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorRing     = color.RGBA{0xcf, 0xd8, 0xdc, 0xff}
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorLegendBG = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorFallback = color.RGBA{0x8a, 0x94, 0xa6, 0xff}
)

// parseColor accepts any CSS color string. Unparseable or empty input yields
// the neutral fallback.
func parseColor(s string) color.RGBA {
	if s == "" {
		return colorFallback
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return colorFallback
	}
	return color.RGBA{to8(c.R), to8(c.G), to8(c.B), to8(c.A)}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// lighten raises the HSL lightness of c by amount (0..1).
func lighten(c color.RGBA, amount float64) color.RGBA {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	h, s, l := cf.Hsl()
	r, g, b := colorful.Hsl(h, s, l+amount).Clamped().RGB255()
	return color.RGBA{r, g, b, c.A}
}

// clusterColor resolves the fill for a cluster. In domain mode the synthetic
// cluster already carries the domain table color.
func clusterColor(c model.Cluster, domainColors map[model.Domain]string) color.RGBA {
	if c.Color != "" {
		return parseColor(c.Color)
	}
	if hex := domainColors[c.Domain]; hex != "" {
		return parseColor(hex)
	}
	return parseColor(model.DefaultDomainColors[c.Domain])
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
