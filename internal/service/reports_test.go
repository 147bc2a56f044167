package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/repository"
)

func TestBudget_Status(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	owner := auth.NewOwner(1)
	acc, salary, food := seed(t, svc, owner, "1000")

	if _, err := svc.Budgets.Create(ctx, owner, BudgetInput{CategoryID: food.ID, Amount: dec("200"), Year: 2024, Month: 3}); err != nil {
		t.Fatalf("Create budget: %v", err)
	}
	if _, err := svc.Budgets.Create(ctx, owner, BudgetInput{CategoryID: food.ID, Amount: dec("50"), Year: 2024, Month: 3}); !apperr.IsValidation(err) {
		t.Errorf("duplicate budget err = %v", err)
	}
	if _, err := svc.Budgets.Create(ctx, owner, BudgetInput{CategoryID: food.ID, Amount: dec("50"), Year: 2024, Month: 13}); !apperr.IsValidation(err) {
		t.Errorf("month 13 err = %v", err)
	}

	for _, in := range []TransactionInput{
		{AccountID: &acc.ID, CategoryID: food.ID, Type: "EXPENSE", Amount: dec("120"), Date: "2024-03-02"},
		{AccountID: &acc.ID, CategoryID: food.ID, Type: "EXPENSE", Amount: dec("130"), Date: "2024-03-31"},
		{AccountID: &acc.ID, CategoryID: food.ID, Type: "EXPENSE", Amount: dec("999"), Date: "2024-04-01"},
		{AccountID: &acc.ID, CategoryID: salary.ID, Type: "INCOME", Amount: dec("5000"), Date: "2024-03-10"},
	} {
		if _, err := svc.Transactions.Create(ctx, owner, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	status, err := svc.Budgets.Status(ctx, owner, 2024, 3)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(status) != 1 {
		t.Fatalf("got %d statuses", len(status))
	}
	st := status[0]
	if st.SpentCent != 250_00 || st.RemainingCent != -50_00 || !st.Exceeded {
		t.Errorf("status = %+v", st)
	}
	if !st.Percent.Equal(decimal.NewFromInt(125)) {
		t.Errorf("percent = %s, want 125", st.Percent)
	}
	if st.Budget.Category == nil || st.Budget.Category.Name != "Food" {
		t.Errorf("category not loaded: %+v", st.Budget)
	}
}

func TestDashboard_SummaryAndTrend(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	owner := auth.NewOwner(1)
	acc, salary, food := seed(t, svc, owner, "0")

	for _, in := range []TransactionInput{
		{AccountID: &acc.ID, CategoryID: salary.ID, Type: "INCOME", Amount: dec("3000"), Date: "2024-02-01"},
		{AccountID: &acc.ID, CategoryID: food.ID, Type: "EXPENSE", Amount: dec("12.5"), Date: "2024-02-01"},
		{AccountID: &acc.ID, CategoryID: food.ID, Type: "EXPENSE", Amount: dec("7.5"), Date: "2024-02-29"},
		{CategoryID: food.ID, Type: "EXPENSE", Amount: dec("100"), Date: "2024-01-15"},
	} {
		if _, err := svc.Transactions.Create(ctx, owner, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	sum, err := svc.Dashboard.Summary(ctx, owner, 2024, time.February)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.IncomeCent != 3000_00 || sum.ExpenseCent != 20_00 || sum.NetCent != 2980_00 {
		t.Errorf("totals = %+v", sum)
	}
	if sum.TotalBalanceCent != 2980_00 {
		t.Errorf("balance = %d", sum.TotalBalanceCent)
	}
	if len(sum.Daily) != 29 {
		t.Fatalf("daily points = %d, want 29", len(sum.Daily))
	}
	if sum.Daily[0].IncomeCent != 3000_00 || sum.Daily[0].ExpenseCent != 12_50 || sum.Daily[28].ExpenseCent != 7_50 {
		t.Errorf("daily = %+v / %+v", sum.Daily[0], sum.Daily[28])
	}
	if len(sum.Expenses) != 1 || sum.Expenses[0].TotalCent != 20_00 {
		t.Errorf("expenses = %+v", sum.Expenses)
	}

	trend, err := svc.Dashboard.MonthlyTrend(ctx, owner, 3, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthlyTrend: %v", err)
	}
	want := []MonthPoint{
		{Year: 2024, Month: time.January, ExpenseCent: 100_00},
		{Year: 2024, Month: time.February, IncomeCent: 3000_00, ExpenseCent: 20_00},
		{Year: 2024, Month: time.March},
	}
	if len(trend) != len(want) {
		t.Fatalf("trend = %+v", trend)
	}
	for i := range want {
		if trend[i] != want[i] {
			t.Errorf("trend[%d] = %+v, want %+v", i, trend[i], want[i])
		}
	}
	if _, err := svc.Dashboard.MonthlyTrend(ctx, owner, 25, time.Now()); !apperr.IsValidation(err) {
		t.Errorf("25 months err = %v", err)
	}
}

func TestExport_CSVAndXLSX(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	owner := auth.NewOwner(1)
	acc, _, food := seed(t, svc, owner, "0")
	if _, err := svc.Transactions.Create(ctx, owner, TransactionInput{
		AccountID: &acc.ID, CategoryID: food.ID, Type: "EXPENSE", Amount: dec("12.5"), Date: "2024-03-01", Description: "lunch, with tea",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.Export.CSV(ctx, owner, repository.TransactionFilter{}, &buf); err != nil {
		t.Fatalf("CSV: %v", err)
	}
	body := strings.TrimPrefix(buf.String(), "\ufeff")
	if len(body) == buf.Len() {
		t.Error("missing byte order mark")
	}
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %v", records)
	}
	wantRow := []string{"2024-03-01", "EXPENSE", "Food", "Bank", "12.50", "lunch, with tea"}
	for i, v := range wantRow {
		if records[1][i] != v {
			t.Errorf("column %d = %q, want %q", i, records[1][i], v)
		}
	}

	buf.Reset()
	if err := svc.Export.XLSX(ctx, owner, repository.TransactionFilter{}, &buf); err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Transactions")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[1][2] != "Food" {
		t.Errorf("rows = %v", rows)
	}
}

func TestAudit_SealedRoundTrip(t *testing.T) {
	svc, store := newTestServices(t)
	ctx := context.Background()
	owner := auth.NewOwner(1)

	if err := svc.Audit.Record(ctx, owner, AuditRecord{
		Method: "POST", Path: "/api/transactions", Action: `{"amount":"12.50"}`, Status: 201, IP: "10.0.0.1",
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	raw, _, err := store.AuditLogs().Find(ctx, owner, repository.AuditFilter{})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(raw) != 1 || strings.Contains(raw[0].PathEnc, "/api") || strings.Contains(raw[0].ActionEnc, "amount") {
		t.Fatalf("audit stored in clear: %+v", raw)
	}

	list, total, err := svc.Audit.List(ctx, owner, repository.AuditFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || list[0].Path != "/api/transactions" || list[0].Action != `{"amount":"12.50"}` {
		t.Errorf("entries = %+v", list)
	}
	if _, total, _ := svc.Audit.List(ctx, auth.NewOwner(2), repository.AuditFilter{}); total != 0 {
		t.Errorf("other owner sees %d records", total)
	}
}
