package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/money"
	"pocket-ledger/internal/repository"
)

var exportHeader = []string{"Date", "Type", "Category", "Account", "Amount", "Description"}

// ExportService 导出收支记录为 CSV 或 XLSX
type ExportService struct {
	store repository.Store
}

func NewExportService(store repository.Store) *ExportService {
	return &ExportService{store: store}
}

func (s *ExportService) rows(ctx context.Context, owner auth.Owner, f repository.TransactionFilter) ([][]string, error) {
	f.Page, f.PageSize = 0, 0
	list, _, err := s.store.Transactions().Find(ctx, owner, f)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(list))
	for i := range list {
		out = append(out, exportRow(&list[i]))
	}
	return out, nil
}

func exportRow(t *models.Transaction) []string {
	category, account := "", ""
	if t.Category != nil {
		category = t.Category.Name
	}
	if t.Account != nil {
		account = t.Account.Name
	}
	return []string{
		t.Date.UTC().Format("2006-01-02"),
		t.Type,
		category,
		account,
		money.Format(t.AmountCent),
		t.Description,
	}
}

// CSV 写入 UTF-8 BOM（让 Excel 正确识别中文）
func (s *ExportService) CSV(ctx context.Context, owner auth.Owner, f repository.TransactionFilter, w io.Writer) error {
	rows, err := s.rows(ctx, owner, f)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return apperr.Internal("write csv", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return apperr.Internal("write csv", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return apperr.Internal("write csv", err)
	}
	return nil
}

func (s *ExportService) XLSX(ctx context.Context, owner auth.Owner, f repository.TransactionFilter, w io.Writer) error {
	rows, err := s.rows(ctx, owner, f)
	if err != nil {
		return err
	}

	x := excelize.NewFile()
	defer x.Close()

	const sheet = "Transactions"
	if err := x.SetSheetName("Sheet1", sheet); err != nil {
		return apperr.Internal("create sheet", err)
	}

	if err := x.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return apperr.Internal("write header", err)
	}
	for i, r := range rows {
		cells := make([]interface{}, len(r))
		for j, v := range r {
			cells[j] = v
		}
		// 金额写成数字，方便表格里求和
		if d, err := money.Parse(r[4]); err == nil {
			cells[4] = money.FromCents(d).InexactFloat64()
		}
		if err := x.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return apperr.Internal("write row", err)
		}
	}

	_ = x.SetColWidth(sheet, "A", "A", 12)
	_ = x.SetColWidth(sheet, "B", "D", 14)
	_ = x.SetColWidth(sheet, "E", "E", 12)
	_ = x.SetColWidth(sheet, "F", "F", 40)

	if err := x.Write(w); err != nil {
		return apperr.Internal("write xlsx", err)
	}
	return nil
}
