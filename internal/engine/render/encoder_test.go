package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/skip2/go-qrcode"
)

func expectedModules(t *testing.T, content string, level qrcode.RecoveryLevel) [][]bool {
	t.Helper()

	qr, err := qrcode.New(content, level)
	if err != nil {
		t.Fatalf("qrcode.New: %v", err)
	}
	qr.DisableBorder = true
	return qr.Bitmap()
}

// assertRasterMatches samples the center pixel of every module, quiet zone
// included, and checks it carries the expected color.
func assertRasterMatches(t *testing.T, img image.Image, modules [][]bool, margin int, fg, bg color.NRGBA) {
	t.Helper()

	width := img.Bounds().Dx()
	n := len(modules)
	total := n + 2*margin

	for my := 0; my < total; my++ {
		for mx := 0; mx < total; mx++ {
			x := int((float64(mx) + 0.5) * float64(width) / float64(total))
			y := int((float64(my) + 0.5) * float64(width) / float64(total))

			want := bg
			sx, sy := mx-margin, my-margin
			if sx >= 0 && sx < n && sy >= 0 && sy < n && modules[sy][sx] {
				want = fg
			}

			got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if got != want {
				t.Fatalf("module (%d,%d) at pixel (%d,%d) = %v, want %v", mx, my, x, y, got, want)
			}
		}
	}
}

var svgRun = regexp.MustCompile(`M(\d+) (\d+)h(\d+)v1h-\d+z`)

// svgDarkModules expands the path runs of an SVG export back into a module set
// keyed by "x,y" in viewBox coordinates.
func svgDarkModules(t *testing.T, svg string) map[string]bool {
	t.Helper()

	dark := make(map[string]bool)
	for _, m := range svgRun.FindAllStringSubmatch(svg, -1) {
		x, _ := strconv.Atoi(m[1])
		y, _ := strconv.Atoi(m[2])
		run, _ := strconv.Atoi(m[3])
		for i := 0; i < run; i++ {
			dark[strconv.Itoa(x+i)+","+strconv.Itoa(y)] = true
		}
	}
	return dark
}

func assertSVGMatches(t *testing.T, svg string, modules [][]bool, margin int) {
	t.Helper()

	dark := svgDarkModules(t, svg)
	count := 0
	for y, row := range modules {
		for x, on := range row {
			key := strconv.Itoa(x+margin) + "," + strconv.Itoa(y+margin)
			if dark[key] != on {
				t.Fatalf("module %s dark = %v, want %v", key, dark[key], on)
			}
			if on {
				count++
			}
		}
	}
	if len(dark) != count {
		t.Fatalf("svg has %d dark modules, want %d", len(dark), count)
	}
}

func decodePNG(t *testing.T, body []byte) image.Image {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	return img
}

func TestExportWidth(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, 512},
		{-10, 512},
		{100, 512},
		{240, 512},
		{256, 512},
		{300, 600},
		{1024, 2048},
	}

	for _, tt := range tests {
		if got := ExportWidth(tt.size); got != tt.want {
			t.Errorf("ExportWidth(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestEncodePNG(t *testing.T) {
	const content = "https://kompi.app/r/xyz"

	body, err := EncodePNG(content, Options{
		Width:   ExportWidth(300),
		Margin:  2,
		FG:      "#112233",
		BG:      "transparent",
		ECLevel: "M",
	})
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	img := decodePNG(t, body)
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 600 {
		t.Fatalf("size = %dx%d, want 600x600", b.Dx(), b.Dy())
	}

	assertRasterMatches(t, img, expectedModules(t, content, qrcode.Medium), 2,
		color.NRGBA{0x11, 0x22, 0x33, 0xff}, white)
}

func TestEncodeImageHonorsECLevelAndMargin(t *testing.T) {
	const content = "https://kompi.app/r/abc123"

	levels := map[string]qrcode.RecoveryLevel{
		"L": qrcode.Low,
		"M": qrcode.Medium,
		"Q": qrcode.High,
		"H": qrcode.Highest,
	}

	for name, level := range levels {
		t.Run(name, func(t *testing.T) {
			img, err := EncodeImage(content, Options{Width: 512, Margin: 4, FG: "#000", BG: "#fff", ECLevel: name})
			if err != nil {
				t.Fatalf("EncodeImage: %v", err)
			}
			assertRasterMatches(t, img, expectedModules(t, content, level), 4,
				color.NRGBA{0, 0, 0, 0xff}, white)
		})
	}
}

func TestEncodeZeroMargin(t *testing.T) {
	const content = "https://kompi.app/r/m0"

	img, err := EncodeImage(content, Options{Width: 512, Margin: 0, FG: "#000000", BG: "#ffffff"})
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	// The finder pattern starts at the very first pixel.
	if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got != (color.NRGBA{0, 0, 0, 0xff}) {
		t.Errorf("top-left pixel = %v, want black", got)
	}
}

func TestEncodeErrors(t *testing.T) {
	base := Options{Width: 512, Margin: 2, FG: "#000", BG: "#fff", ECLevel: "M"}

	tests := []struct {
		name    string
		content string
		mutate  func(o *Options)
	}{
		{"empty content", "", func(o *Options) {}},
		{"negative margin", "x", func(o *Options) { o.Margin = -1 }},
		{"bad fg", "x", func(o *Options) { o.FG = "blue" }},
		{"bad bg", "x", func(o *Options) { o.BG = "#12345" }},
		{"bad ec level", "x", func(o *Options) { o.ECLevel = "Z" }},
		{"zero width", "x", func(o *Options) { o.Width = 0 }},
		{"too wide", "x", func(o *Options) { o.Width = MaxExportWidth + 1 }},
		{"huge margin", "x", func(o *Options) { o.Margin = 10000000 }},
		{"margin wider than export", "x", func(o *Options) { o.Margin = MaxExportWidth / 2 }},
		{"too long", strings.Repeat("a", 8000), func(o *Options) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			if _, err := EncodePNG(tt.content, o); err == nil {
				t.Error("EncodePNG expected error")
			}
			if _, err := EncodeSVG(tt.content, o); err == nil {
				t.Error("EncodeSVG expected error")
			}
		})
	}
}

func TestEncodeSVG(t *testing.T) {
	const content = "https://kompi.app/r/xyz"

	svg, err := EncodeSVG(content, Options{Width: 600, Margin: 3, FG: "#112233", BG: "transparent", ECLevel: "Q"})
	if err != nil {
		t.Fatalf("EncodeSVG: %v", err)
	}

	modules := expectedModules(t, content, qrcode.High)
	total := len(modules) + 6

	header := `width="600" height="600" viewBox="0 0 ` + strconv.Itoa(total) + " " + strconv.Itoa(total) + `"`
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, header) {
		t.Fatalf("unexpected svg header: %.200s", svg)
	}
	if !strings.Contains(svg, `<rect width="100%" height="100%" fill="#ffffff"/>`) {
		t.Error("background should be opaque white")
	}
	if !strings.Contains(svg, `<path fill="#112233" d="`) {
		t.Error("foreground path missing")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg not closed")
	}

	assertSVGMatches(t, svg, modules, 3)
}

func TestEncodeSVGTranslucentColors(t *testing.T) {
	svg, err := EncodeSVG("x", Options{Width: 512, FG: "#00000080", BG: "#ffffff00"})
	if err != nil {
		t.Fatalf("EncodeSVG: %v", err)
	}
	if !strings.Contains(svg, `fill="#000000" fill-opacity="0.502"`) {
		t.Errorf("fg opacity missing: %.300s", svg)
	}
	if !strings.Contains(svg, `fill="#ffffff" fill-opacity="0.000"`) {
		t.Errorf("bg opacity missing: %.300s", svg)
	}
}
