package codec

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

var wrapped = regexp.MustCompile(`^Diary\(["'](.*)["']\)$`)

// Serialise renders d in its persisted text form, Diary("<base64>").
func Serialise(d *models.Diary) string {
	return `Diary("` + base64.StdEncoding.EncodeToString(EncodeDiary(d)) + `")`
}

// Parse reads a diary from its persisted text form. Trailing newlines are
// ignored, and a bare base64 string without the Diary(...) wrapper is
// accepted too. On failure no partial diary is returned.
func Parse(s string) (*models.Diary, error) {
	s = strings.TrimRight(s, "\r\n")
	if m := wrapped.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	raw, err := decodeBase64(s)
	if err != nil {
		return nil, err
	}
	d, err := DecodeDiary(raw)
	if err != nil {
		return nil, fmt.Errorf("parse diary: %w", err)
	}
	return d, nil
}

// UpdateToString encodes u for appending to a sync URL.
func UpdateToString(u models.Update) string {
	return base64.StdEncoding.EncodeToString(EncodeUpdate(u))
}

// UpdateFromString decodes an update taken from a URL or a log line. A '+'
// that a query parser turned into a space is restored first.
func UpdateFromString(s string) (models.Update, error) {
	raw, err := decodeBase64(strings.ReplaceAll(s, " ", "+"))
	if err != nil {
		return models.Update{}, err
	}
	u, err := DecodeUpdate(raw)
	if err != nil {
		return models.Update{}, fmt.Errorf("parse update: %w", err)
	}
	return u, nil
}

func decodeBase64(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", common.ErrDecode, err)
	}
	return raw, nil
}
