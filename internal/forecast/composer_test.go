package forecast

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/finance-forecast/internal/models"
)

const profile int64 = 42

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func idPtr(v int64) *int64 { return &v }

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func findByType(items []models.ForecastItem, typ models.ForecastItemType) []models.ForecastItem {
	var out []models.ForecastItem
	for _, it := range items {
		if it.Type == typ {
			out = append(out, it)
		}
	}
	return out
}

func findByID(items []models.ForecastItem, id string) (models.ForecastItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.ForecastItem{}, false
}

func sampleStore() *memStore {
	return &memStore{
		transactions: []models.LedgerTransaction{
			// pending in January
			{ID: 1, ProfileID: profile, Description: "Aluguel", Amount: dec("1500"), Type: models.TransactionExpense,
				Date: day(2024, time.December, 28), DueDate: timePtr(day(2025, time.January, 10)), Status: models.StatusPending},
			// overdue in January
			{ID: 2, ProfileID: profile, Description: "Energia", Amount: dec("200"), Type: models.TransactionExpense,
				Date: day(2024, time.December, 20), DueDate: timePtr(day(2025, time.January, 3)), Status: models.StatusOverdue},
			// paid, never pending
			{ID: 3, ProfileID: profile, Description: "Internet", Amount: dec("100"), Type: models.TransactionExpense,
				Date: day(2025, time.January, 2), DueDate: timePtr(day(2025, time.January, 5)), Status: models.StatusPaid},
			// pending in February, outside the month
			{ID: 4, ProfileID: profile, Description: "IPTU", Amount: dec("300"), Type: models.TransactionExpense,
				Date: day(2025, time.January, 2), DueDate: timePtr(day(2025, time.February, 5)), Status: models.StatusPending},
			// recurring expenses from previous months
			{ID: 5, ProfileID: profile, Description: "Academia", Amount: dec("90"), Type: models.TransactionExpense,
				Date: day(2024, time.November, 30), IsRecurring: true, Status: models.StatusPaid},
			{ID: 6, ProfileID: profile, Description: "Academia", Amount: dec("99"), Type: models.TransactionExpense,
				Date: day(2024, time.December, 31), IsRecurring: true, Status: models.StatusPaid},
			{ID: 7, ProfileID: profile, Description: "Streaming", Amount: dec("40"), Type: models.TransactionExpense,
				Date: day(2024, time.December, 15), IsRecurring: true, Status: models.StatusPaid},
			// Streaming already recorded in January
			{ID: 8, ProfileID: profile, Description: "Streaming", Amount: dec("40"), Type: models.TransactionExpense,
				Date: day(2025, time.January, 15), Status: models.StatusPaid},
			// recurring income
			{ID: 9, ProfileID: profile, Description: "Salário", Amount: dec("5000"), Type: models.TransactionIncome,
				Date: day(2024, time.December, 6), IsRecurring: true, Status: models.StatusCompleted},
			{ID: 10, ProfileID: profile, Description: "Consultoria ACME", Amount: dec("2000"), Type: models.TransactionIncome,
				Date: day(2024, time.December, 20), IsRecurring: true, Status: models.StatusCompleted, ClientID: idPtr(7)},
			// recorded income in January
			{ID: 11, ProfileID: profile, Description: "Freela", Amount: dec("800"), Type: models.TransactionIncome,
				Date: day(2025, time.January, 12), Status: models.StatusCompleted},
			// another profile
			{ID: 12, ProfileID: 99, Description: "Aluguel", Amount: dec("999"), Type: models.TransactionExpense,
				Date: day(2025, time.January, 1), DueDate: timePtr(day(2025, time.January, 10)), Status: models.StatusPending},
		},
		debts: []models.Debt{
			{ID: 20, ProfileID: profile, Description: "Empréstimo", Amount: dec("1000"), InstallmentValue: installment("300"), PaymentDay: intPtr(25)},
			{ID: 21, ProfileID: profile, Description: "Amigo", Amount: dec("500")},
		},
		appointments: []models.Appointment{
			{ID: 30, ProfileID: profile, Title: "Reunião contador", Location: "Escritório", Date: day(2025, time.January, 8)},
			{ID: 31, ProfileID: profile, Title: "Fora do mês", Date: day(2025, time.February, 8)},
		},
	}
}

func TestComposeJanuary(t *testing.T) {
	store := sampleStore()
	c := NewComposer(store, fixedClock(day(2025, time.January, 18)))

	items, err := c.Compose(context.Background(), profile, 0, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	start, end := MonthBounds(2025, time.January, time.UTC)
	for i, it := range items {
		if it.Date.Before(start) || it.Date.After(end) {
			t.Fatalf("item %s dated %s outside January", it.ID, it.Date)
		}
		if i > 0 && it.Date.Before(items[i-1].Date) {
			t.Fatalf("items not sorted at %d: %s before %s", i, it.Date, items[i-1].Date)
		}
	}

	if got := len(findByType(items, models.ForecastPending)); got != 2 {
		t.Fatalf("expected 2 pending items, got %d", got)
	}
	if _, ok := findByID(items, "pending-12"); ok {
		t.Fatal("item of another profile leaked into the forecast")
	}

	recurring := findByType(items, models.ForecastRecurring)
	if len(recurring) != 1 {
		t.Fatalf("expected only Academia to be projected, got %+v", recurring)
	}
	if recurring[0].Description != "(Recorrente) Academia" || !recurring[0].Amount.Equal(dec("99")) {
		t.Fatalf("expected latest Academia record, got %+v", recurring[0])
	}
	if recurring[0].Date.Day() != 31 {
		t.Fatalf("expected Academia on the 31st, got %d", recurring[0].Date.Day())
	}

	debts := findByType(items, models.ForecastDebt)
	if len(debts) != 1 {
		t.Fatalf("expected 1 debt item, got %+v", debts)
	}
	if !debts[0].Amount.Equal(dec("300")) || debts[0].Date.Day() != 25 {
		t.Fatalf("unexpected debt item %+v", debts[0])
	}

	salary, ok := findByID(items, "projected-income-9")
	if !ok {
		t.Fatal("expected projected salary")
	}
	if salary.Description != "(Projetado) Salário" || salary.Date.Day() != 6 {
		t.Fatalf("expected salary on the 5th business day (6th), got %+v", salary)
	}
	if _, ok := findByID(items, "projected-income-10"); !ok {
		t.Fatal("expected projected consulting income")
	}
	freela, ok := findByID(items, "income-11")
	if !ok || freela.TransactionID == nil || *freela.TransactionID != 11 {
		t.Fatalf("expected recorded income with transaction id, got %+v", freela)
	}

	appts := findByType(items, models.ForecastAppointment)
	if len(appts) != 1 || appts[0].Location != "Escritório" || !appts[0].Amount.IsZero() {
		t.Fatalf("unexpected appointments %+v", appts)
	}
}

func TestComposeInvalidProfile(t *testing.T) {
	c := NewComposer(sampleStore())
	for _, id := range []int64{0, -1} {
		items, err := c.Compose(context.Background(), id, 0, 2025)
		if err != nil {
			t.Fatalf("expected no error for profile %d, got %v", id, err)
		}
		if items == nil || len(items) != 0 {
			t.Fatalf("expected empty non-nil forecast, got %v", items)
		}
	}
}

func TestComposeInvalidMonth(t *testing.T) {
	c := NewComposer(sampleStore())
	for _, m := range []int{-1, 12} {
		if _, err := c.Compose(context.Background(), profile, m, 2025); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("month %d: expected ErrInvalidMonth, got %v", m, err)
		}
	}
}

func TestComposeEmptyStore(t *testing.T) {
	c := NewComposer(&memStore{})
	items, err := c.Compose(context.Background(), profile, 5, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty forecast, got %d items", len(items))
	}
}

func TestComposeStoreFailureAborts(t *testing.T) {
	boom := errors.New("connection refused")
	ops := []string{
		"PendingExpenses", "LatestRecurring", "TransactionsByDescriptions", "TransactionsInRange",
		"ActiveDebts", "PaymentPlansInRange", "AppointmentsInRange", "ProfileSettings",
	}
	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			store := sampleStore()
			store.errs = map[string]error{op: boom}
			c := NewComposer(store, fixedClock(day(2025, time.January, 1)))

			items, err := c.Compose(context.Background(), profile, 0, 2025)
			if !errors.Is(err, boom) {
				t.Fatalf("expected store error, got %v", err)
			}
			if items != nil {
				t.Fatalf("expected no partial forecast, got %d items", len(items))
			}
		})
	}
}

func TestComposeRecurringIdempotence(t *testing.T) {
	store := sampleStore()
	c := NewComposer(store, fixedClock(day(2025, time.January, 1)))

	items, err := c.Compose(context.Background(), profile, 0, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if _, ok := findByID(items, "recurring-6"); !ok {
		t.Fatal("expected Academia projection before it is recorded")
	}

	store.transactions = append(store.transactions, models.LedgerTransaction{
		ID: 50, ProfileID: profile, Description: "Academia", Amount: dec("99"), Type: models.TransactionExpense,
		Date: day(2025, time.January, 31), Status: models.StatusPaid,
	})
	items, err = c.Compose(context.Background(), profile, 0, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got := findByType(items, models.ForecastRecurring); len(got) != 0 {
		t.Fatalf("expected recording the expense to remove its projection, got %+v", got)
	}
}

func TestComposeRecurringClampsToShortMonth(t *testing.T) {
	c := NewComposer(sampleStore(), fixedClock(day(2025, time.January, 1)))
	items, err := c.Compose(context.Background(), profile, 1, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	academia, ok := findByID(items, "recurring-6")
	if !ok {
		t.Fatal("expected Academia projection in February")
	}
	if academia.Date.Day() != 28 {
		t.Fatalf("expected February 28th, got %s", academia.Date)
	}
	// Streaming was only recorded in January, February still needs it
	if _, ok := findByID(items, "recurring-7"); !ok {
		t.Fatal("expected Streaming projection in February")
	}
	if _, ok := findByID(items, "recurring-8"); ok {
		t.Fatal("non-recurring transaction must not be projected")
	}
}

func TestComposeIncomeMatching(t *testing.T) {
	tests := []struct {
		name     string
		recorded models.LedgerTransaction
		suppress bool
	}{
		{"contained description", models.LedgerTransaction{Description: "consultoria acme janeiro"}, true},
		{"containing description", models.LedgerTransaction{Description: "ACME"}, true},
		{"same client", models.LedgerTransaction{Description: "Projeto X", ClientID: idPtr(7)}, true},
		{"same service", models.LedgerTransaction{Description: "Projeto X", ServiceID: idPtr(3)}, true},
		{"unrelated", models.LedgerTransaction{Description: "Projeto X", ClientID: idPtr(8), ServiceID: idPtr(4)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{transactions: []models.LedgerTransaction{
				{ID: 1, ProfileID: profile, Description: "Consultoria ACME", Amount: dec("2000"), Type: models.TransactionIncome,
					Date: day(2024, time.December, 20), IsRecurring: true, ClientID: idPtr(7), ServiceID: idPtr(3)},
			}}
			rec := tt.recorded
			rec.ID, rec.ProfileID, rec.Type = 2, profile, models.TransactionIncome
			rec.Amount, rec.Date = dec("2000"), day(2025, time.January, 20)
			store.transactions = append(store.transactions, rec)

			items, err := NewComposer(store).Compose(context.Background(), profile, 0, 2025)
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}
			_, projected := findByID(items, "projected-income-1")
			if projected == tt.suppress {
				t.Fatalf("projected = %v, want suppressed = %v", projected, tt.suppress)
			}
			if _, ok := findByID(items, "income-2"); !ok {
				t.Fatal("expected recorded income to pass through")
			}
		})
	}
}

func TestComposeGenericDescriptionSuppresses(t *testing.T) {
	store := &memStore{transactions: []models.LedgerTransaction{
		{ID: 1, ProfileID: profile, Description: "Serviço", Amount: dec("500"), Type: models.TransactionIncome,
			Date: day(2024, time.December, 10), IsRecurring: true},
		{ID: 2, ProfileID: profile, Description: "Serviço de pintura", Amount: dec("900"), Type: models.TransactionIncome,
			Date: day(2025, time.January, 4)},
	}}
	items, err := NewComposer(store).Compose(context.Background(), profile, 0, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if _, ok := findByID(items, "projected-income-1"); ok {
		t.Fatal("expected a generic description to be suppressed by containment")
	}
}

func TestComposeSalaryBusinessDays(t *testing.T) {
	tests := []struct {
		name        string
		description string
		settings    *models.ProfileSettings
		want        int
	}{
		{"missing settings default mon-sat", "Salário", nil, 6},
		{"profile mon-fri", "Salario", &models.ProfileSettings{ProfileID: profile, BusinessDaysConfig: "mon-fri"}, 7},
		{"item override mon-fri", "SALÁRIO seg-sex", &models.ProfileSettings{ProfileID: profile, BusinessDaysConfig: "mon-sat"}, 7},
		{"item override mon-sat", "Salário 6 dias", &models.ProfileSettings{ProfileID: profile, BusinessDaysConfig: "mon-fri"}, 6},
		{"not a salary keeps day", "Aluguel recebido", &models.ProfileSettings{ProfileID: profile, BusinessDaysConfig: "mon-fri"}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{
				transactions: []models.LedgerTransaction{
					{ID: 1, ProfileID: profile, Description: tt.description, Amount: dec("5000"), Type: models.TransactionIncome,
						Date: day(2024, time.December, 20), IsRecurring: true},
				},
				settings: map[int64]*models.ProfileSettings{},
			}
			if tt.settings != nil {
				store.settings[profile] = tt.settings
			}
			items, err := NewComposer(store).Compose(context.Background(), profile, 0, 2025)
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}
			it, ok := findByID(items, "projected-income-1")
			if !ok {
				t.Fatal("expected projected income")
			}
			if it.Date.Day() != tt.want {
				t.Fatalf("expected day %d, got %d", tt.want, it.Date.Day())
			}
			if !strings.HasPrefix(it.Description, "(Projetado) ") {
				t.Fatalf("unexpected description %q", it.Description)
			}
		})
	}
}

func TestComposeDebtSimulationFromCurrentMonth(t *testing.T) {
	store := &memStore{
		debts: []models.Debt{
			{ID: 1, ProfileID: profile, Description: "Cartão", Amount: dec("1000"), InstallmentValue: installment("300")},
		},
		plans: []models.DebtPaymentPlan{
			{DebtID: 1, Day: 15, Month: 2, Year: 2025, Amount: dec("500")},
		},
	}
	c := NewComposer(store, fixedClock(day(2025, time.January, 20)))

	// January 300, February plan 500, March caps the installment at 200
	items, err := c.Compose(context.Background(), profile, 2, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(items) != 1 || !items[0].Amount.Equal(dec("200")) {
		t.Fatalf("expected one debt item of 200, got %+v", items)
	}

	items, err = c.Compose(context.Background(), profile, 1, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(items) != 1 || !items[0].Amount.Equal(dec("500")) || items[0].Date.Day() != 15 {
		t.Fatalf("expected February plan item, got %+v", items)
	}

	items, err = c.Compose(context.Background(), profile, 3, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected debt paid off by April, got %+v", items)
	}
}

func TestComposeLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	store := &memStore{appointments: []models.Appointment{
		{ID: 1, ProfileID: profile, Title: "Fechamento", Date: time.Date(2025, time.January, 31, 22, 0, 0, 0, loc)},
	}}
	items, err := NewComposer(store, WithLocation(loc)).Compose(context.Background(), profile, 0, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the appointment inside the local month, got %d items", len(items))
	}

	items, err = NewComposer(store).Compose(context.Background(), profile, 0, 2025)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected the appointment to fall in February UTC, got %d items", len(items))
	}
}

func TestMergeSortsStable(t *testing.T) {
	a := models.ForecastItem{ID: "a", Date: day(2025, time.January, 10)}
	b := models.ForecastItem{ID: "b", Date: day(2025, time.January, 5)}
	c := models.ForecastItem{ID: "c", Date: day(2025, time.January, 10)}
	d := models.ForecastItem{ID: "d", Date: day(2025, time.January, 1)}

	out := merge([]models.ForecastItem{a, b}, nil, []models.ForecastItem{c}, []models.ForecastItem{d})
	var ids []string
	for _, it := range out {
		ids = append(ids, it.ID)
	}
	if got := strings.Join(ids, ","); got != "d,b,a,c" {
		t.Fatalf("unexpected order %s", got)
	}
}

func TestSummarize(t *testing.T) {
	items := []models.ForecastItem{
		{Type: models.ForecastPending, Amount: dec("100")},
		{Type: models.ForecastRecurring, Amount: dec("50.5")},
		{Type: models.ForecastDebt, Amount: dec("200")},
		{Type: models.ForecastIncome, Amount: dec("1000")},
		{Type: models.ForecastAppointment},
	}
	s := Summarize(items)
	if !s.Expenses.Equal(dec("350.5")) {
		t.Fatalf("expected expenses 350.5, got %s", s.Expenses)
	}
	if !s.Net.Equal(dec("649.5")) {
		t.Fatalf("expected net 649.5, got %s", s.Net)
	}
	if s.Items != 5 {
		t.Fatalf("expected 5 items, got %d", s.Items)
	}
}
