package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-hrcore/internal/employee"
)

const defaultUploadDir = "uploads"

// pdfRenderer writes a minimal single-page PDF per payslip under
// <baseDir>/payslips/. No external PDF library is used; the document is
// a hand-assembled PDF 1.4 skeleton with one Helvetica text block.
type pdfRenderer struct {
	baseDir string
}

func NewPDFRenderer() Renderer {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = defaultUploadDir
	}
	return &pdfRenderer{baseDir: dir}
}

func (r *pdfRenderer) Render(ctx context.Context, payslip *Payslip, emp *employee.Employee, run *PayrollRun) (string, error) {
	doc, err := buildPayslipPDF(payslipLines(payslip, emp, run))
	if err != nil {
		return "", fmt.Errorf("build payslip pdf: %w", err)
	}

	dir := filepath.Join(r.baseDir, "payslips")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create payslip dir: %w", err)
	}

	name := fmt.Sprintf("payslip_%s_%d_%02d.pdf", payslip.EmployeeID, run.Year, run.Month)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("write payslip pdf: %w", err)
	}
	return path, nil
}

func payslipLines(payslip *Payslip, emp *employee.Employee, run *PayrollRun) []string {
	lines := []string{
		"PAYSLIP",
		fmt.Sprintf("Payslip No: %s", payslip.PayslipNumber),
		fmt.Sprintf("Employee: %s", emp.FullName()),
		fmt.Sprintf("Period: %02d/%d", run.Month, run.Year),
		"",
		"EARNINGS",
	}

	var details PayslipDetails
	// Details is stored as JSON text; a decode failure degrades to the
	// totals-only layout instead of failing the render.
	if err := json.Unmarshal([]byte(payslip.Details), &details); err == nil {
		for _, item := range details.Earnings {
			lines = append(lines, fmt.Sprintf("  %-28s %12.2f", item.Name, item.Amount))
		}
		lines = append(lines, "", "DEDUCTIONS")
		for _, item := range details.Deductions {
			lines = append(lines, fmt.Sprintf("  %-28s %12.2f", item.Name, item.Amount))
		}
		if details.AbsentDays > 0 {
			lines = append(lines, "", fmt.Sprintf("Absent Days: %d", details.AbsentDays))
		}
	} else {
		lines = append(lines,
			fmt.Sprintf("  %-28s %12.2f", "Basic", payslip.BasicSalary),
			fmt.Sprintf("  %-28s %12.2f", "Allowances", payslip.Allowances),
			"",
			"DEDUCTIONS",
			fmt.Sprintf("  %-28s %12.2f", "Total", payslip.Deductions),
		)
	}

	lines = append(lines, "", fmt.Sprintf("NET PAY: %.2f", payslip.NetPay))
	return lines
}

func buildPayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 11 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
