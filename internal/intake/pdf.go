package intake

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// extractPDFText pulls the plain text out of an uploaded PDF.
func extractPDFText(buf []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", eris.Wrap(err, "intake: open pdf")
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", eris.Wrap(err, "intake: extract pdf text")
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", eris.Wrap(err, "intake: read pdf text")
	}
	return sb.String(), nil
}
