package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName turns a project name into a download name with ext appended.
func FileName(title string, f Format) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(title), "-"), "-.")
	if base == "" {
		base = "budget"
	}

	return base + "." + string(f)
}

// Bundle renders every format concurrently and zips the results.
func Bundle(doc Document) ([]byte, error) {
	formats := []Format{FormatPDF, FormatXLSX, FormatHTML}
	outputs := make([][]byte, len(formats))

	var g errgroup.Group

	for i, f := range formats {
		i, f := i, f

		g.Go(func() error {
			out, err := Render(f, doc)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", f, err)
			}

			outputs[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	for i, f := range formats {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     FileName(doc.Title, f),
			Method:   zip.Deflate,
			Modified: doc.GeneratedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("adding %s to bundle: %w", f, err)
		}

		if _, err := w.Write(outputs[i]); err != nil {
			return nil, fmt.Errorf("writing %s to bundle: %w", f, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing bundle: %w", err)
	}

	return buf.Bytes(), nil
}
