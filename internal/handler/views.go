package handler

import (
	"time"

	"pocket-ledger/internal/models"
	"pocket-ledger/internal/money"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/service"
)

// 金额对外统一返回两位小数的字符串（元），_cent 字段为数据库里存的分

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

type userView struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"last_login_ip"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		LastLoginAt: u.LastLoginAt,
		LastLoginIP: u.LastLoginIP,
		CreatedAt:   u.CreatedAt,
	}
}

type accountView struct {
	ID                 uint      `json:"id"`
	Name               string    `json:"name"`
	Currency           string    `json:"currency"`
	Balance            string    `json:"balance"`
	BalanceCent        int64     `json:"balance_cent"`
	InitialBalance     string    `json:"initial_balance"`
	InitialBalanceCent int64     `json:"initial_balance_cent"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toAccountView(a *models.Account) accountView {
	return accountView{
		ID:                 a.ID,
		Name:               a.Name,
		Currency:           a.Currency,
		Balance:            money.Format(a.BalanceCent),
		BalanceCent:        a.BalanceCent,
		InitialBalance:     money.Format(a.InitialBalanceCent),
		InitialBalanceCent: a.InitialBalanceCent,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

type categoryView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func toCategoryView(c *models.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Type: c.Type, Color: c.Color, Icon: c.Icon}
}

type transactionView struct {
	ID           uint      `json:"id"`
	AccountID    *uint     `json:"account_id"`
	AccountName  string    `json:"account_name"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	RecurringID  *uint     `json:"recurring_id"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	AmountCent   int64     `json:"amount_cent"`
	Date         string    `json:"date"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func toTransactionView(t *models.Transaction) transactionView {
	v := transactionView{
		ID:          t.ID,
		AccountID:   t.AccountID,
		CategoryID:  t.CategoryID,
		RecurringID: t.RecurringID,
		Type:        t.Type,
		Amount:      money.Format(t.AmountCent),
		AmountCent:  t.AmountCent,
		Date:        t.Date.UTC().Format(dateLayout),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
	if t.Account != nil {
		v.AccountName = t.Account.Name
	}
	if t.Category != nil {
		v.CategoryName = t.Category.Name
	}
	return v
}

type ruleView struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	AccountID    uint       `json:"account_id"`
	CategoryID   uint       `json:"category_id"`
	Type         string     `json:"type"`
	Amount       string     `json:"amount"`
	AmountCent   int64      `json:"amount_cent"`
	Frequency    string     `json:"frequency"`
	DayOfMonth   int        `json:"day_of_month"`
	StartDate    string     `json:"start_date"`
	EndDate      *string    `json:"end_date"`
	LastExecuted *time.Time `json:"last_executed"`
	IsActive     bool       `json:"is_active"`
}

func toRuleView(r *models.RecurringTransaction) ruleView {
	return ruleView{
		ID:           r.ID,
		Name:         r.Name,
		AccountID:    r.AccountID,
		CategoryID:   r.CategoryID,
		Type:         r.Type,
		Amount:       money.Format(r.AmountCent),
		AmountCent:   r.AmountCent,
		Frequency:    r.Frequency,
		DayOfMonth:   r.DayOfMonth,
		StartDate:    r.StartDate.UTC().Format(dateLayout),
		EndDate:      formatDate(r.EndDate),
		LastExecuted: r.LastExecuted,
		IsActive:     r.IsActive,
	}
}

type budgetView struct {
	ID           uint   `json:"id"`
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Amount       string `json:"amount"`
	AmountCent   int64  `json:"amount_cent"`
}

func toBudgetView(b *models.Budget) budgetView {
	v := budgetView{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Year:       b.Year,
		Month:      b.Month,
		Amount:     money.Format(b.AmountCent),
		AmountCent: b.AmountCent,
	}
	if b.Category != nil {
		v.CategoryName = b.Category.Name
	}
	return v
}

type budgetStatusView struct {
	budgetView
	Spent     string `json:"spent"`
	Remaining string `json:"remaining"`
	Percent   string `json:"percent"`
	Exceeded  bool   `json:"exceeded"`
}

func toBudgetStatusView(s *service.BudgetStatus) budgetStatusView {
	return budgetStatusView{
		budgetView: toBudgetView(&s.Budget),
		Spent:      money.Format(s.SpentCent),
		Remaining:  money.Format(s.RemainingCent),
		Percent:    s.Percent.StringFixed(1),
		Exceeded:   s.Exceeded,
	}
}

type assetView struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Value      string    `json:"value"`
	ValueCent  int64     `json:"value_cent"`
	Currency   string    `json:"currency"`
	AcquiredAt *string   `json:"acquired_at"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAssetView(a *models.Asset) assetView {
	return assetView{
		ID:         a.ID,
		Name:       a.Name,
		Type:       a.Type,
		Value:      money.Format(a.ValueCent),
		ValueCent:  a.ValueCent,
		Currency:   a.Currency,
		AcquiredAt: formatDate(a.AcquiredAt),
		Note:       a.Note,
		CreatedAt:  a.CreatedAt,
	}
}

type notificationView struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationView(n *models.Notification) notificationView {
	return notificationView{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

type backupView struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"file_name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func toBackupView(b *models.Backup) backupView {
	return backupView{ID: b.ID, FileName: b.FileName, Size: b.Size, CreatedAt: b.CreatedAt}
}

type categoryTotalView struct {
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Total      string `json:"total"`
	TotalCent  int64  `json:"total_cent"`
}

func toCategoryTotals(in []repository.CategoryTotal) []categoryTotalView {
	out := make([]categoryTotalView, 0, len(in))
	for _, t := range in {
		out = append(out, categoryTotalView{
			CategoryID: t.CategoryID,
			Name:       t.Name,
			Type:       t.Type,
			Total:      money.Format(t.TotalCent),
			TotalCent:  t.TotalCent,
		})
	}
	return out
}

type flowView struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type dayView struct {
	Date string `json:"date"`
	flowView
}

type monthView struct {
	Month string `json:"month"` // YYYY-MM
	flowView
}

type summaryView struct {
	Month        string              `json:"month"`
	Income       string              `json:"income"`
	Expense      string              `json:"expense"`
	Net          string              `json:"net"`
	TotalBalance string              `json:"total_balance"`
	Expenses     []categoryTotalView `json:"expenses"`
	Incomes      []categoryTotalView `json:"incomes"`
	Daily        []dayView           `json:"daily"`
}

func toSummaryView(s *service.Summary) summaryView {
	daily := make([]dayView, 0, len(s.Daily))
	for _, d := range s.Daily {
		daily = append(daily, dayView{
			Date:     d.Date.String(),
			flowView: flowView{Income: money.Format(d.IncomeCent), Expense: money.Format(d.ExpenseCent)},
		})
	}
	return summaryView{
		Month:        time.Date(s.Year, s.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		Income:       money.Format(s.IncomeCent),
		Expense:      money.Format(s.ExpenseCent),
		Net:          money.Format(s.NetCent),
		TotalBalance: money.Format(s.TotalBalanceCent),
		Expenses:     toCategoryTotals(s.Expenses),
		Incomes:      toCategoryTotals(s.Incomes),
		Daily:        daily,
	}
}

func toTrendView(points []service.MonthPoint) []monthView {
	out := make([]monthView, 0, len(points))
	for _, p := range points {
		out = append(out, monthView{
			Month:    time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			flowView: flowView{Income: money.Format(p.IncomeCent), Expense: money.Format(p.ExpenseCent)},
		})
	}
	return out
}

// mapSlice 逐个转换
func mapSlice[T, V any](in []T, fn func(*T) V) []V {
	out := make([]V, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
