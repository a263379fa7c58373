package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resala-backend/internal/models"
)

// Table names
const (
	TableFamilies = "Families"
	TableVisits   = "Visits"
	TableProducts = "Products"
)

// Column headers shared by several tables
const (
	ColFamilyNumber = "FamilyNumber"
	ColName         = "Name"
	ColNationalID   = "NationalID"
	ColMobileNumber = "MobileNumber"
	ColUser         = "User"
	ColDate         = "Date"
	ColPrice        = "Price"
	ColQuantity     = "Quantity"
)

var (
	ErrUnknownTable   = errors.New("unknown table")
	ErrRowNotFound    = errors.New("row not found")
	ErrColumnNotFound = errors.New("column not found")
)

// Record is one table row keyed by column header
type Record map[string]string

// Backend is a spreadsheet-like record store with three named tables.
// Calls are independent: there is no transaction spanning an append and an update.
type Backend interface {
	// ListRecords returns every data row of table in sheet order
	ListRecords(ctx context.Context, table string) ([]Record, error)
	// AppendRecord adds one row, values in header order
	AppendRecord(ctx context.Context, table string, values []string) error
	// UpdateCell overwrites column on the first row whose keyColumn equals key
	UpdateCell(ctx context.Context, table, keyColumn, key, column, value string) error
	// Ping checks the backend is reachable
	Ping(ctx context.Context) error
}

// Headers is the fixed header row of each table
var Headers = map[string][]string{
	TableFamilies: {ColFamilyNumber, ColName, ColNationalID, ColMobileNumber},
	TableVisits:   append([]string{ColFamilyNumber, ColUser, ColDate}, models.ProductColumns...),
	TableProducts: {ColName, ColPrice, ColQuantity},
}

// HeaderFor returns the header row of table
func HeaderFor(table string) ([]string, error) {
	header, ok := Headers[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return header, nil
}

// zipRecord maps values onto header. Missing trailing values become empty strings
// and values beyond the header are dropped.
func zipRecord(header, values []string) Record {
	rec := make(Record, len(header))
	for i, col := range header {
		if col == "" {
			continue
		}
		if i < len(values) {
			rec[col] = values[i]
		} else {
			rec[col] = ""
		}
	}
	return rec
}

// columnIndex returns the position of column in header or -1
func columnIndex(header []string, column string) int {
	for i, col := range header {
		if col == column {
			return i
		}
	}
	return -1
}

// keyMatches compares a key cell ignoring surrounding whitespace, as the repositories read it
func keyMatches(cell, key string) bool {
	return strings.TrimSpace(cell) == strings.TrimSpace(key)
}
