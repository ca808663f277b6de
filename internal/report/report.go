// Package report renders the finance summary and the customer list as
// downloadable documents.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/finance"
	"fleetdesk-backend/internal/money"
	"fleetdesk-backend/internal/utils"
)

// FinancePDF renders s as an A4 PDF.
func FinancePDF(company string, s finance.Summary, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr(company+" - Resumo Financeiro"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, tr("Gerado em: "+utils.FormatDateTime(generatedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, tr(fmt.Sprintf("Semana %d", s.Week)), "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, tr("Recebido: "+money.Format(s.Received)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, tr("Descontos: "+money.Format(s.Discounts)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, tr("Líquido: "+money.Format(s.Net)), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, tr("Totais por mês de retirada"), "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(95, 7, tr("Mês"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "Total", "1", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, m := range s.Months {
		pdf.CellFormat(95, 6, tr(fmt.Sprintf("%s/%d", m.Name, m.Year)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, tr(money.Format(m.Total)), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 7, tr("Total semanal esperado"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr(money.Format(s.WeeklyTotal)), "1", 1, "R", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, tr("Situação dos pagamentos"), "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, st := range s.Statuses {
		pdf.CellFormat(60, 6, tr(st.LoginID), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, tr(st.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(st.Label), "1", 1, "C", false, 0, "")
	}

	if len(s.Referrers) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, tr("Indicações"), "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, r := range s.Referrers {
			pdf.CellFormat(150, 6, tr(fmt.Sprintf("%s (%d indicado(s))", r.Name, len(r.Referred))), "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, tr(r.DiscountAmount), "1", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render finance pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// CustomersCSV writes one row per customer with payment progress.
func CustomersCSV(customers []domain.Customer) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"#", "Login", "Nome", "Total", "Semanal", "Retirada", "Devolução", "Pagamento", "Ativo"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, c := range customers {
		st := finance.StatusOf(c)
		row := []string{
			strconv.Itoa(i + 1),
			c.LoginID,
			c.Name,
			c.TotalPrice,
			c.WeeklyPrice,
			c.PickupDate,
			c.ReturnDate,
			st.Label,
			strconv.FormatBool(c.IsActive()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
