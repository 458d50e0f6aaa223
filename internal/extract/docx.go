package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// DOCX is a ZIP containing the OOXML document body, normally at
// word/document.xml. We pull every <w:t> text node so content survives
// regardless of paragraph and run attributes.

const docxBodyPath = "word/document.xml"

const docxContentTypes = "[Content_Types].xml"

const docxBodyContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

// textNode matches <w:t> with any attributes, e.g. <w:t xml:space="preserve">.
var textNode = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

var overridePart = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxBodyContentType) + `"`)

var overridePartRev = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxBodyContentType) + `"[^>]+PartName="([^"]+)"`)

func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("not a zip: %w", err)
	}

	bodyPath := docxBodyPathFromContentTypes(zr)
	if bodyPath == "" {
		bodyPath = docxBodyPath
	}

	bodyXML, err := readZipEntry(zr, bodyPath)
	if err != nil {
		return "", err
	}

	nodes := textNode.FindAllStringSubmatch(string(bodyXML), -1)
	var sb strings.Builder
	for _, node := range nodes {
		part := strings.TrimSpace(node[1])
		if part == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(part)
	}
	return sb.String(), nil
}

// docxBodyPathFromContentTypes resolves the main document part declared in
// [Content_Types].xml, handling either attribute order. Returns "" when the
// declaration is missing, in which case the conventional path is used.
func docxBodyPathFromContentTypes(zr *zip.Reader) string {
	data, err := readZipEntry(zr, docxContentTypes)
	if err != nil {
		return ""
	}
	for _, re := range []*regexp.Regexp{overridePart, overridePartRev} {
		if m := re.FindSubmatch(data); len(m) > 1 {
			return strings.TrimPrefix(string(m[1]), "/")
		}
	}
	return ""
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found", name)
}
