// Copyright (c) 2025, AgroSense Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package market

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/agrosense/cropwise/pkg/defaults"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/serializer"
)

// Supported SQL drivers for price snapshots.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DefaultPriceQuery reads a snapshot from the market_prices table.
const DefaultPriceQuery = `SELECT district, commodity, date, modal_price FROM market_prices ORDER BY rowid`

// postgresPriceQuery orders by the natural key since Postgres has no rowid.
const postgresPriceQuery = `SELECT district, commodity, date, modal_price FROM market_prices ORDER BY date DESC, district, commodity`

//go:embed data/market_prices.csv
var embeddedPrices []byte

var (
	defaultTableOnce sync.Once
	defaultTable     *PriceTable
	defaultTableErr  error
)

var csvColumns = []string{"district", "commodity", "date", "modal_price"}

// Source selects where a price snapshot is loaded from. URI takes a CSV
// file; DBDriver and DSN take a SQL table. Empty selects the embedded snapshot.
type Source struct {
	URI      string
	DBDriver string
	DSN      string
	Query    string
}

// DefaultTable returns the table over the embedded snapshot, built once.
func DefaultTable() (*PriceTable, error) {
	defaultTableOnce.Do(func() {
		records, err := ParseCSV(bytes.NewReader(embeddedPrices))
		if err != nil {
			defaultTableErr = err
			return
		}
		defaultTable = NewPriceTable(records)
	})
	return defaultTable, defaultTableErr
}

// LoadSnapshot reads price records from src.
func LoadSnapshot(ctx context.Context, src Source) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.PriceSnapshotLoadTimeout)
	defer cancel()

	var (
		records []Record
		err     error
	)
	switch {
	case src.DBDriver != "":
		records, err = LoadSQL(ctx, src.DBDriver, src.DSN, src.Query)
	case src.URI != "":
		records, err = LoadCSV(ctx, src.URI)
	default:
		records, err = ParseCSV(bytes.NewReader(embeddedPrices))
	}
	if err != nil {
		return nil, err
	}

	snapshotRecords.Set(float64(len(records)))
	slog.Info("price snapshot loaded", "records", len(records), "driver", src.DBDriver, "uri", src.URI)
	return records, nil
}

// LoadCSV reads a price CSV from a path, file://, http(s) or s3:// URI.
func LoadCSV(ctx context.Context, uri string) ([]Record, error) {
	data, err := serializer.ReadURI(ctx, uri)
	if err != nil {
		return nil, cwerrors.WrapWithContext(cwerrors.ErrCodeInternal, "failed to read price snapshot", err,
			map[string]any{"uri": uri})
	}
	return ParseCSV(bytes.NewReader(data))
}

// ParseCSV reads records with a District, Commodity, Date, Modal_Price
// header. Column order is taken from the header; names are case-insensitive.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInternal, "failed to read price csv header", err)
	}

	idx := make(map[string]int, len(head))
	for i, h := range head {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range csvColumns {
		if _, ok := idx[col]; !ok {
			return nil, cwerrors.NewWithContext(cwerrors.ErrCodeInternal, "price csv is missing a column",
				map[string]any{"column": col})
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, cwerrors.Wrap(cwerrors.ErrCodeInternal, "failed to parse price csv", err)
		}

		price, err := parsePrice(row[idx["modal_price"]])
		if err != nil {
			return nil, cwerrors.WrapWithContext(cwerrors.ErrCodeInternal, "invalid modal price", err,
				map[string]any{"line": line})
		}
		records = append(records, Record{
			District:   row[idx["district"]],
			Commodity:  row[idx["commodity"]],
			Date:       row[idx["date"]],
			ModalPrice: price,
		})
	}
	return records, nil
}

// parsePrice accepts integer or decimal prices and truncates to int.
// The truncated price must be positive.
func parsePrice(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return checkPrice(n, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number", s)
	}
	return priceFromFloat(f)
}

func priceFromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("price %v is not a number", f)
	}
	return checkPrice(int(f), strconv.FormatFloat(f, 'f', -1, 64))
}

func checkPrice(n int, raw string) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("price %q is not positive", raw)
	}
	return n, nil
}

// LoadSQL reads records from a SQL database. driver is "sqlite" or "pgx".
// An empty query reads the market_prices table.
func LoadSQL(ctx context.Context, driver, dsn, query string) ([]Record, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, cwerrors.NewWithContext(cwerrors.ErrCodeInvalidRequest, "unsupported price database driver",
			map[string]any{"driver": driver, "supported": []string{DriverSQLite, DriverPostgres}})
	}
	if query == "" {
		query = DefaultPriceQuery
		if driver == DriverPostgres {
			query = postgresPriceQuery
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeUnavailable, "open price database", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeUnavailable, "ping price database", err)
	}

	return queryRecords(ctx, db, query)
}

func queryRecords(ctx context.Context, db *sql.DB, query string) ([]Record, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInternal, "query price snapshot", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r     Record
			price float64
		)
		if err := rows.Scan(&r.District, &r.Commodity, &r.Date, &price); err != nil {
			return nil, cwerrors.Wrap(cwerrors.ErrCodeInternal, "scan price row", err)
		}
		if r.ModalPrice, err = priceFromFloat(price); err != nil {
			return nil, cwerrors.WrapWithContext(cwerrors.ErrCodeInternal, "invalid modal price", err,
				map[string]any{"district": r.District, "commodity": r.Commodity})
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInternal, "iterate price rows", err)
	}
	return records, nil
}
