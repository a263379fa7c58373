package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func TestColumnLetter(t *testing.T) {
	cases := map[int]string{0: "A", 2: "C", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA"}
	for col, want := range cases {
		assert.Equal(t, want, columnLetter(col), "column %d", col)
	}
}

func TestCellA1(t *testing.T) {
	assert.Equal(t, "'Products'!C5", cellA1("Products", 2, 5))
	assert.Equal(t, "'O''Brien'!A2", cellA1("O'Brien", 0, 2))
}

// fakeSheetsAPI serves the three Values endpoints the backend uses
type fakeSheetsAPI struct {
	values  [][]interface{}
	appends [][]interface{}
	updates map[string]interface{}
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		json.NewEncoder(w).Encode(sheets.ValueRange{Values: f.values})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var vr sheets.ValueRange
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &vr)
		f.appends = append(f.appends, vr.Values...)
		json.NewEncoder(w).Encode(sheets.AppendValuesResponse{})
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		var vr sheets.ValueRange
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &vr)
		cell := path[strings.Index(path, "/values/")+len("/values/"):]
		f.updates[cell] = vr.Values[0][0]
		json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
	default:
		http.NotFound(w, r)
	}
}

func newFakeSheets(t *testing.T, api *fakeSheetsAPI) *Sheets {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewSheetsWithService(svc, "sheet-id")
}

func TestSheetsListRecords(t *testing.T) {
	api := &fakeSheetsAPI{values: [][]interface{}{
		{"FamilyNumber", "Name", "NationalID", "MobileNumber"},
		{"1", "Ahmed", "2900", "0100"},
		{"", "", ""},
		{"2", "Sara"},
	}}
	b := newFakeSheets(t, api)

	records, err := b.ListRecords(context.Background(), TableFamilies)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ahmed", records[0][ColName])
	assert.Equal(t, "Sara", records[1][ColName])
	assert.Equal(t, "", records[1][ColMobileNumber])
}

func TestSheetsAppendAndUpdate(t *testing.T) {
	api := &fakeSheetsAPI{
		values: [][]interface{}{
			{"Name", "Price", "Quantity"},
			{"كراسة", "2.5", "100"},
			{"كشكول", "4", "20"},
			{" استيكة ", "1", "30"},
		},
		updates: map[string]interface{}{},
	}
	b := newFakeSheets(t, api)
	ctx := context.Background()

	require.NoError(t, b.AppendRecord(ctx, TableProducts, []string{"بطة", "10", "3"}))
	require.Len(t, api.appends, 1)
	assert.Equal(t, []interface{}{"بطة", "10", "3"}, api.appends[0])

	require.NoError(t, b.UpdateCell(ctx, TableProducts, ColName, "كشكول", ColQuantity, "18"))
	assert.Equal(t, "18", api.updates["'Products'!C3"])

	require.NoError(t, b.UpdateCell(ctx, TableProducts, ColName, "استيكة", ColQuantity, "29"))
	assert.Equal(t, "29", api.updates["'Products'!C4"])

	err := b.UpdateCell(ctx, TableProducts, ColName, "missing", ColQuantity, "1")
	assert.ErrorIs(t, err, ErrRowNotFound)
}
