package payroll

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	cryptoutil "mistypay/internal/platform/crypto"
)

const encryptedSuffix = ".enc"

// PayslipRenderer writes one PDF payslip per successful result. When the
// crypto service has a key the file is sealed and gets a .pdf.enc name.
type PayslipRenderer struct {
	Dir      string
	Employer string
	Crypto   *cryptoutil.Service
}

func NewPayslipRenderer(dir, employer string, crypto *cryptoutil.Service) *PayslipRenderer {
	return &PayslipRenderer{Dir: dir, Employer: employer, Crypto: crypto}
}

func (p *PayslipRenderer) Render(run Run, res Result) (string, error) {
	if res.Failed() {
		return "", ErrNoPayslipForFailure
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", err
	}
	name := payslipName(run.ID, res.EmployeeID)

	var buf bytes.Buffer
	if err := p.write(&buf, run, res); err != nil {
		return "", err
	}
	data := buf.Bytes()
	filePath := filepath.Join(p.Dir, name)
	if p.Crypto.Configured() {
		sealed, err := p.Crypto.Encrypt(data, []byte(name))
		if err != nil {
			return "", err
		}
		data = sealed
		filePath += encryptedSuffix
	}
	if err := os.WriteFile(filePath, data, 0o600); err != nil {
		return "", err
	}
	return filePath, nil
}

// ReadPayslip returns the PDF bytes at path, opening sealed files.
func (p *PayslipRenderer) ReadPayslip(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, encryptedSuffix) {
		return data, nil
	}
	if !p.Crypto.Configured() {
		return nil, fmt.Errorf("payslip %s is encrypted and no key is configured", filepath.Base(path))
	}
	name := strings.TrimSuffix(filepath.Base(path), encryptedSuffix)
	return p.Crypto.Decrypt(data, []byte(name))
}

func (p *PayslipRenderer) write(buf *bytes.Buffer, run Run, res Result) error {
	b := res.Breakdown
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+res.EmployeeName, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if p.Employer != "" {
		pdf.Cell(0, 7, "Employer: "+p.Employer)
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", res.EmployeeName, res.EmployeeID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s, %s to %s", run.Period, run.PeriodStart.Format("2006-01-02"), run.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 7, "Financial year: "+run.FinancialYear)
	pdf.Ln(10)

	lines := []struct {
		label  string
		amount decimal.Decimal
		bold   bool
	}{
		{"Ordinary time earnings", b.OTE, false},
		{"Gross pay", b.GrossPay, true},
		{"Pre-tax deductions", b.PreTaxDeductions, false},
		{"Taxable income", b.TaxableIncome, true},
		{"PAYG withholding", b.PAYG, false},
		{"Medicare levy", b.MedicareLevy, false},
		{"HELP repayment", b.HELP, false},
		{"Total tax withheld", b.TotalTaxWithheld, true},
		{"Post-tax deductions", b.PostTaxDeductions, false},
		{"Net pay", b.NetPay, true},
		{"Employer super contribution", b.Super, false},
	}
	for _, line := range lines {
		style := ""
		if line.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(120, 7, line.label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, "$"+money(line.amount), "B", 1, "R", false, 0, "")
	}

	if len(b.Notes) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		for _, note := range b.Notes {
			pdf.Cell(0, 6, note)
			pdf.Ln(5)
		}
	}
	return pdf.Output(buf)
}

func payslipName(runID, employeeID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, employeeID)
	return runID + "-" + safe + ".pdf"
}
