package render

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const maxLogoBytes = 5 << 20

var (
	ErrUnsupportedLogoSource = errors.New("unsupported logo source")
	ErrPathEscapesRoot       = errors.New("logo path escapes asset root")
	ErrLogoTooLarge          = errors.New("logo exceeds size limit")
)

type Logo struct {
	Data []byte
	MIME string
}

// DataURI returns the logo as a base64 data URI.
func (l *Logo) DataURI() string {
	return "data:" + l.MIME + ";base64," + base64.StdEncoding.EncodeToString(l.Data)
}

// LogoLoader resolves a style's logoUrl. Two sources are supported: inline
// data: URLs and files under the public asset root.
type LogoLoader struct {
	root string
}

func NewLogoLoader(publicRoot string) *LogoLoader {
	return &LogoLoader{root: publicRoot}
}

func (l *LogoLoader) Load(ref string) (*Logo, error) {
	ref = strings.TrimSpace(ref)

	switch {
	case ref == "":
		return nil, ErrUnsupportedLogoSource
	case hasPrefixFold(ref, "data:"):
		return parseDataURL(ref)
	case strings.Contains(ref, "://"), strings.HasPrefix(ref, "//"):
		return nil, fmt.Errorf("%w: remote logo %q", ErrUnsupportedLogoSource, ref)
	default:
		return l.loadFile(ref)
	}
}

// resolvePath maps ref onto a file under the asset root. Any ".." segment is
// rejected outright and the cleaned result must stay inside the root.
func (l *LogoLoader) resolvePath(ref string) (string, error) {
	if l.root == "" {
		return "", fmt.Errorf("%w: no asset root configured", ErrUnsupportedLogoSource)
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if strings.ContainsRune(ref, 0) || strings.Contains(ref, "\\") {
		return "", ErrPathEscapesRoot
	}

	rel := strings.TrimLeft(ref, "/")
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", ErrPathEscapesRoot
		}
	}
	if rel == "" {
		return "", ErrUnsupportedLogoSource
	}

	root, err := filepath.Abs(l.root)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	if !within(root, full) {
		return "", ErrPathEscapesRoot
	}

	// Follow symlinks and check again against the real root.
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", err
	}
	realFull, err := filepath.EvalSymlinks(full)
	if err != nil {
		return "", err
	}
	if !within(realRoot, realFull) {
		return "", ErrPathEscapesRoot
	}

	return realFull, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func (l *LogoLoader) loadFile(ref string) (*Logo, error) {
	path, err := l.resolvePath(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxLogoBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxLogoBytes {
		return nil, ErrLogoTooLarge
	}

	mt, err := detectImageMIME(data, mime.TypeByExtension(strings.ToLower(filepath.Ext(path))))
	if err != nil {
		return nil, err
	}
	return &Logo{Data: data, MIME: mt}, nil
}

func parseDataURL(ref string) (*Logo, error) {
	meta, payload, ok := strings.Cut(ref[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupportedLogoSource)
	}

	params := strings.Split(meta, ";")
	declared := strings.TrimSpace(params[0])
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		cleaned := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		decoded, err := base64.StdEncoding.DecodeString(cleaned)
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(cleaned, "="))
			if err != nil {
				return nil, fmt.Errorf("%w: bad base64 payload", ErrUnsupportedLogoSource)
			}
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: bad data URL payload", ErrUnsupportedLogoSource)
		}
		data = []byte(unescaped)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data URL", ErrUnsupportedLogoSource)
	}
	if len(data) > maxLogoBytes {
		return nil, ErrLogoTooLarge
	}

	mt, err := detectImageMIME(data, declared)
	if err != nil {
		return nil, err
	}
	return &Logo{Data: data, MIME: mt}, nil
}

// detectImageMIME sniffs data and only falls back to the declared type when
// sniffing is inconclusive. Non-image content is refused.
func detectImageMIME(data []byte, declared string) (string, error) {
	sniffed := mimetype.Detect(data)
	if strings.HasPrefix(sniffed.String(), "image/") {
		return baseMIME(sniffed.String()), nil
	}

	declared = baseMIME(declared)
	if sniffed.Is("application/octet-stream") && strings.HasPrefix(declared, "image/") && validMIME(declared) {
		return declared, nil
	}
	return "", fmt.Errorf("%w: content is %s", ErrUnsupportedLogoSource, sniffed.String())
}

func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func validMIME(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || strings.ContainsRune("/+-.", r)) {
			return false
		}
	}
	return true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
