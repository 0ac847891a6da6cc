package export

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatZip  Format = "zip"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatPDF, FormatXLSX, FormatZip:
		return f, nil
	case "":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatZip:
		return "application/zip"
	}

	return "application/octet-stream"
}

// Render produces doc in format f.
func Render(f Format, doc Document) ([]byte, error) {
	switch f {
	case FormatHTML:
		return HTML(doc)
	case FormatPDF:
		return PDF(doc)
	case FormatXLSX:
		return XLSX(doc)
	case FormatZip:
		return Bundle(doc)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
