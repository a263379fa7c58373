package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resala-backend/internal/models"
	"resala-backend/internal/repositories"
	"resala-backend/internal/store"
)

type fixture struct {
	mem      *store.Memory
	families *repositories.FamilyRepository
	products *repositories.ProductRepository
	visits   *repositories.VisitRepository
}

func newFixture(t *testing.T, products ...models.Product) *fixture {
	t.Helper()
	mem := store.NewMemory()
	_, err := store.SeedProducts(context.Background(), mem, products)
	require.NoError(t, err)
	return &fixture{
		mem:      mem,
		families: repositories.NewFamilyRepository(mem),
		products: repositories.NewProductRepository(mem),
		visits:   repositories.NewVisitRepository(mem),
	}
}

func (f *fixture) visitService(policy InventoryPolicy) *VisitService {
	s := NewVisitService(f.families, f.products, f.visits, policy, nil)
	s.Now = func() time.Time { return time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC) }
	return s
}

func (f *fixture) addFamily(t *testing.T, name string) *models.Family {
	t.Helper()
	fam, err := f.families.Create(context.Background(), &models.CreateFamilyRequest{Name: name})
	require.NoError(t, err)
	return fam
}

func TestSearchNameNumber(t *testing.T) {
	families := []models.Family{
		{FamilyNumber: 1, Name: "Ahmed Ali"},
		{FamilyNumber: 2, Name: "Sara"},
		{FamilyNumber: 12, Name: "AHMED Hassan"},
	}

	got := SearchFamilies(families, models.SearchNameNumber, "ahm", MatchSubstring)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].FamilyNumber)
	assert.Equal(t, 12, got[1].FamilyNumber)

	got = SearchFamilies(families, models.SearchNameNumber, "2", MatchSubstring)
	assert.Equal(t, []models.Family{families[1], families[2]}, got)

	assert.Empty(t, SearchFamilies(families, models.SearchNameNumber, "", MatchSubstring))
	assert.Empty(t, SearchFamilies(families, models.SearchNameNumber, "   ", MatchSubstring))
	assert.Empty(t, SearchFamilies(families, "colour", "ahm", MatchSubstring))
}

func TestSearchArabicName(t *testing.T) {
	families := []models.Family{{FamilyNumber: 1, Name: "محمد احمد"}, {FamilyNumber: 2, Name: "سارة"}}
	got := SearchFamilies(families, models.SearchNameNumber, "احمد", MatchSubstring)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].FamilyNumber)
}

func TestSearchMobileID(t *testing.T) {
	families := []models.Family{
		{FamilyNumber: 1, MobileNumber: "01001234567", NationalID: "29001010101010"},
		{FamilyNumber: 2, MobileNumber: "01119998888", NationalID: ""},
	}

	assert.Len(t, SearchFamilies(families, models.SearchMobileID, "0100", MatchSubstring), 1)
	assert.Len(t, SearchFamilies(families, models.SearchMobileID, "0100", MatchExact), 0)
	assert.Len(t, SearchFamilies(families, models.SearchMobileID, "01119998888", MatchExact), 1)
	assert.Len(t, SearchFamilies(families, models.SearchMobileID, "29001010101010", MatchExact), 1)
}

func TestAddFamily(t *testing.T) {
	f := newFixture(t)
	svc := NewFamilyService(f.families, MatchSubstring, nil)
	ctx := context.Background()

	_, err := svc.AddFamily(ctx, &models.CreateFamilyRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrNameRequired)
	families, err := svc.ListFamilies(ctx)
	require.NoError(t, err)
	assert.Empty(t, families, "no write on validation failure")

	fam, err := svc.AddFamily(ctx, &models.CreateFamilyRequest{Name: "Ahmed", MobileNumber: " 0100 "})
	require.NoError(t, err)
	assert.Equal(t, 1, fam.FamilyNumber)
	assert.Equal(t, "0100", fam.MobileNumber)

	fam, err = svc.AddFamily(ctx, &models.CreateFamilyRequest{Name: "Sara"})
	require.NoError(t, err)
	assert.Equal(t, 2, fam.FamilyNumber)

	found, err := svc.Search(ctx, models.SearchNameNumber, "sar")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sara", found[0].Name)
}

func TestParseQuantities(t *testing.T) {
	q, err := ParseQuantities(map[string]string{"كراسة": "3", "بطة": " 1 ", "كشكول": ""})
	require.NoError(t, err)
	assert.Equal(t, 3, q["كراسة"])
	assert.Equal(t, 1, q["بطة"])
	assert.Equal(t, 0, q["كشكول"])
	assert.Len(t, q, len(models.ProductColumns))

	for _, bad := range []string{"-1", "abc", "1.5"} {
		_, err := ParseQuantities(map[string]string{"مسطرة": bad})
		var qe *QuantityError
		require.ErrorAs(t, err, &qe, bad)
		assert.Equal(t, "مسطرة", qe.Product)
	}
}

func TestRecordVisitRejectsInvalidQuantityWithoutWriting(t *testing.T) {
	f := newFixture(t, models.Product{Name: "كراسة", Price: 2.5, Quantity: 100})
	fam := f.addFamily(t, "Ahmed")
	svc := f.visitService(PolicyDecrement)
	ctx := context.Background()

	_, err := svc.RecordVisit(ctx, fam.FamilyNumber, "karim", map[string]string{"كراسة": "2", "قلم جاف": "-4"})
	var qe *QuantityError
	require.ErrorAs(t, err, &qe)

	visits, err := f.visits.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, visits)

	p, err := f.products.Get(ctx, "كراسة")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Quantity)
}

func TestRecordVisitUnknownFamily(t *testing.T) {
	f := newFixture(t)
	_, err := f.visitService(PolicyRecompute).RecordVisit(context.Background(), 7, "karim", nil)
	assert.ErrorIs(t, err, ErrFamilyNotFound)
}

func TestRecordVisitStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.mem.FailWith = errors.New("quota exceeded")
	_, err := f.visitService(PolicyRecompute).RecordVisit(context.Background(), 1, "karim", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFamilyNotFound)
}

func TestRecordVisitThenAggregate(t *testing.T) {
	products := []models.Product{
		{Name: "كراسة", Price: 2.5, Quantity: 100},
		{Name: "قلم جاف", Price: 1.25, Quantity: 50},
		{Name: "بطة", Price: 10, Quantity: 5},
	}
	f := newFixture(t, products...)
	a := f.addFamily(t, "Ahmed")
	b := f.addFamily(t, "Sara")
	svc := f.visitService(PolicyRecompute)
	ctx := context.Background()

	r1, err := svc.RecordVisit(ctx, a.FamilyNumber, "karim", map[string]string{"كراسة": "3", "قلم جاف": "2"})
	require.NoError(t, err)
	assert.InDelta(t, 3*2.5+2*1.25, r1.TotalPrice, 1e-9)
	assert.Equal(t, "2024-09-01 10:30:00", r1.Visit.Date)

	r2, err := svc.RecordVisit(ctx, b.FamilyNumber, "karim", map[string]string{"بطة": "1"})
	require.NoError(t, err)
	r3, err := svc.RecordVisit(ctx, b.FamilyNumber, "yomna", map[string]string{"كراسة": "1"})
	require.NoError(t, err)

	report, err := NewReportService(f.products, f.visits, PolicyRecompute).Spending(ctx)
	require.NoError(t, err)

	assert.InDelta(t, r1.TotalPrice+r2.TotalPrice, report.UserSpending["karim"], 1e-9)
	assert.InDelta(t, r3.TotalPrice, report.UserSpending["yomna"], 1e-9)
	assert.InDelta(t, r1.TotalPrice+r2.TotalPrice+r3.TotalPrice, report.TotalSpent, 1e-9)
	assert.Equal(t, 4, report.SoldCounts["كراسة"])
	assert.Equal(t, 1, report.SoldCounts["بطة"])
}

func TestAggregateSkipsUnknownAndMissing(t *testing.T) {
	products := []models.Product{
		{Name: "كراسة", Price: 2.5},
		{Name: "Gift card", Price: 100}, // not a product column
	}
	visits := []models.Visit{
		{User: "karim", Quantities: map[string]int{"كراسة": 2, "Gift card": 1}},
		{User: "yomna", Quantities: map[string]int{}},
		{User: "", Quantities: map[string]int{"كراسة": 1}},
	}

	report := Aggregate(visits, products)
	assert.Equal(t, 5.0, report.UserSpending["karim"])
	assert.Contains(t, report.UserSpending, "yomna")
	assert.Equal(t, 0.0, report.UserSpending["yomna"])
	assert.Equal(t, 2.5, report.UserSpending["Unknown"])
	assert.Equal(t, 7.5, report.TotalSpent)
	assert.Equal(t, map[string]int{"كراسة": 3}, report.SoldCounts)
}

// One visit of 3 notebooks against a stock of 100, under each inventory policy.
func TestInventoryPolicies(t *testing.T) {
	cases := []struct {
		policy        InventoryPolicy
		storedAfter   int
		availableRept int
	}{
		{PolicyRecompute, 100, 97},
		{PolicyDecrement, 97, 97},
		{PolicyLegacy, 97, 94}, // the decrement is counted twice
	}

	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := newFixture(t, models.Product{Name: "كراسة", Price: 2.5, Quantity: 100})
			fam := f.addFamily(t, "Ahmed")
			ctx := context.Background()

			_, err := f.visitService(tc.policy).RecordVisit(ctx, fam.FamilyNumber, "karim", map[string]string{"كراسة": "3"})
			require.NoError(t, err)

			stored, err := f.products.Get(ctx, "كراسة")
			require.NoError(t, err)
			assert.Equal(t, tc.storedAfter, stored.Quantity)

			report, err := NewReportService(f.products, f.visits, tc.policy).AdminReport(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, report.SoldCounts["كراسة"])
			require.Len(t, report.Availability, 1)
			assert.Equal(t, tc.availableRept, report.Availability[0].Available)
		})
	}
}

func TestDecrementSkipsUnpricedProducts(t *testing.T) {
	f := newFixture(t, models.Product{Name: "كراسة", Price: 2.5, Quantity: 1})
	fam := f.addFamily(t, "Ahmed")
	ctx := context.Background()

	receipt, err := f.visitService(PolicyDecrement).RecordVisit(ctx, fam.FamilyNumber, "karim",
		map[string]string{"كراسة": "2", "بطة": "1"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, receipt.TotalPrice)

	stored, err := f.products.Get(ctx, "كراسة")
	require.NoError(t, err)
	assert.Equal(t, -1, stored.Quantity, "overdraw is not prevented")
}

func TestBlankStockStillPricesVisits(t *testing.T) {
	for _, policy := range []InventoryPolicy{PolicyRecompute, PolicyDecrement, PolicyLegacy} {
		t.Run(string(policy), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			require.NoError(t, f.mem.AppendRecord(ctx, store.TableProducts, []string{"كراسة", "2.5", ""}))
			fam := f.addFamily(t, "Ahmed")

			receipt, err := f.visitService(policy).RecordVisit(ctx, fam.FamilyNumber, "karim", map[string]string{"كراسة": "3"})
			require.NoError(t, err)
			assert.Equal(t, 7.5, receipt.TotalPrice)

			report, err := NewReportService(f.products, f.visits, policy).AdminReport(ctx)
			require.NoError(t, err)
			assert.Equal(t, 7.5, report.UserSpending["karim"])
			assert.Equal(t, 7.5, report.TotalSpent)
			assert.Equal(t, 3, report.SoldCounts["كراسة"])
			assert.Empty(t, report.Availability)

			records, err := f.mem.ListRecords(ctx, store.TableProducts)
			require.NoError(t, err)
			assert.Equal(t, "", records[0][store.ColQuantity], "unknown stock is left as is")
		})
	}
}

func TestParseInventoryPolicy(t *testing.T) {
	p, err := ParseInventoryPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyRecompute, p)

	_, err = ParseInventoryPolicy("fifo")
	assert.Error(t, err)

	assert.False(t, PolicyRecompute.DecrementsOnVisit())
	assert.True(t, PolicyRecompute.SubtractsSold())
	assert.True(t, PolicyDecrement.DecrementsOnVisit())
	assert.False(t, PolicyDecrement.SubtractsSold())
	assert.True(t, PolicyLegacy.DecrementsOnVisit())
	assert.True(t, PolicyLegacy.SubtractsSold())
}
