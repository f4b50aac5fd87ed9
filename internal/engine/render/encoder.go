package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	// MinExportWidth keeps exports print-quality even for small preview sizes.
	MinExportWidth = 512
	MaxExportWidth = 4096
)

// Options describes one encode. Colors use CSS hex notation; BG also accepts
// "transparent", which is rendered as white.
type Options struct {
	Width   int
	Margin  int
	FG      string
	BG      string
	ECLevel string
}

// ExportWidth is the pixel width of full-size exports for a stored size.
func ExportWidth(size int) int {
	return max(MinExportWidth, size*2)
}

func recoveryLevel(level string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(level) {
	case "L":
		return qrcode.Low, nil
	case "", "M":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("unknown error correction level %q", level)
	}
}

// symbol is an encoded QR code ready to be painted: the module matrix without
// quiet zone plus the resolved colors.
type symbol struct {
	modules [][]bool
	margin  int
	fg, bg  color.NRGBA
}

func (s *symbol) total() int {
	return len(s.modules) + 2*s.margin
}

func encode(content string, o Options) (*symbol, error) {
	if content == "" {
		return nil, errors.New("empty content")
	}
	if o.Margin < 0 || o.Margin > MaxExportWidth/2 {
		return nil, fmt.Errorf("margin %d out of range", o.Margin)
	}
	if o.Width <= 0 || o.Width > MaxExportWidth {
		return nil, fmt.Errorf("width %d out of range", o.Width)
	}

	level, err := recoveryLevel(o.ECLevel)
	if err != nil {
		return nil, err
	}
	fg, err := ParseColor(o.FG)
	if err != nil {
		return nil, err
	}
	bg, err := parseBackground(o.BG)
	if err != nil {
		return nil, err
	}

	qr, err := qrcode.New(content, level)
	if err != nil {
		return nil, err
	}
	// The quiet zone is painted from Options.Margin instead.
	qr.DisableBorder = true

	modules := qr.Bitmap()
	if total := len(modules) + 2*o.Margin; total > MaxExportWidth {
		return nil, fmt.Errorf("symbol of %d modules exceeds %d pixels", total, MaxExportWidth)
	}

	return &symbol{
		modules: modules,
		margin:  o.Margin,
		fg:      fg,
		bg:      bg,
	}, nil
}

// EncodeImage renders content as a square image exactly o.Width pixels wide,
// or one pixel per module when the symbol does not fit.
func EncodeImage(content string, o Options) (*image.Paletted, error) {
	sym, err := encode(content, o)
	if err != nil {
		return nil, err
	}

	total := sym.total()
	width := max(o.Width, total)

	// Palette index 0 is the background, so the zeroed image starts filled.
	img := image.NewPaletted(image.Rect(0, 0, width, width), color.Palette{sym.bg, sym.fg})

	n := len(sym.modules)
	modulesPerPixel := float64(total) / float64(width)
	for y := 0; y < width; y++ {
		my := int(float64(y)*modulesPerPixel) - sym.margin
		if my < 0 || my >= n {
			continue
		}
		row := sym.modules[my]
		for x := 0; x < width; x++ {
			mx := int(float64(x)*modulesPerPixel) - sym.margin
			if mx < 0 || mx >= n {
				continue
			}
			if row[mx] {
				img.Pix[img.PixOffset(x, y)] = 1
			}
		}
	}

	return img, nil
}

func EncodePNG(content string, o Options) ([]byte, error) {
	img, err := EncodeImage(content, o)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeSVG renders content as SVG markup. The viewBox is measured in modules
// and the dark modules are emitted as one path of horizontal runs.
func EncodeSVG(content string, o Options) (string, error) {
	sym, err := encode(content, o)
	if err != nil {
		return "", err
	}

	total := sym.total()
	width := max(o.Width, total)
	fg, fgOpacity := svgColor(sym.fg)
	bg, bgOpacity := svgColor(sym.bg)

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		width, width, total, total,
	)

	sb.WriteString(`<rect width="100%" height="100%" fill="` + bg + `"`)
	if bgOpacity != "" {
		sb.WriteString(` fill-opacity="` + bgOpacity + `"`)
	}
	sb.WriteString(`/>`)

	sb.WriteString(`<path fill="` + fg + `"`)
	if fgOpacity != "" {
		sb.WriteString(` fill-opacity="` + fgOpacity + `"`)
	}
	sb.WriteString(` d="`)
	for y, row := range sym.modules {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			run := 1
			for x+run < len(row) && row[x+run] {
				run++
			}
			sb.WriteString("M" + strconv.Itoa(x+sym.margin) + " " + strconv.Itoa(y+sym.margin) +
				"h" + strconv.Itoa(run) + "v1h-" + strconv.Itoa(run) + "z")
			x += run
		}
	}
	sb.WriteString(`"/></svg>`)

	return sb.String(), nil
}
