package reports

import (
	"fmt"
	"strings"
)

// renderPDF emits a minimal single-page PDF carrying the report heading.
// A typesetting library takes over when the document layout firms up; the
// download endpoint and storage path are already final.
// TODO: swap in real layout once the report template is approved.
func renderPDF(investigationID int64, heading string) []byte {
	text := fmt.Sprintf("(%s - Investigation %d) Tj", escapePDFText(heading), investigationID)
	stream := "BT\n/F1 12 Tf\n72 720 Td\n" + text + "\nET"

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n")
	b.WriteString("4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")
	fmt.Fprintf(&b, "5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream)
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\n%%EOF\n")
	return []byte(b.String())
}

func escapePDFText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return r.Replace(s)
}
