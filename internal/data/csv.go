package data

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/valuesip/internal/simulate"
)

// LoadCSV reads a weekly valuation series from a CSV file.
//
// Expected columns: date, price, pe, pb (with a header row). pb는 선택
// 컬럼이며, 빈 값이나 누락은 NaN(결측)으로 들어간다. 날짜 오름차순
// 정렬 여부는 Series.Validate가 검사한다.
func LoadCSV(path string) (simulate.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // pb 컬럼 유무 혼재 허용

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, simulate.InputError{Field: "series", Message: "file is empty"}
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	series := make(simulate.Series, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2 // 헤더 다음 줄부터

		date, err := parseDate(rec[cols.date])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(rec[cols.price]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad price %q", path, line, rec[cols.price])
		}

		pe, err := optionalFloat(rec, cols.pe)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad pe %q", path, line, rec[cols.pe])
		}
		pb, err := optionalFloat(rec, cols.pb)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad pb %q", path, line, rec[cols.pb])
		}

		series = append(series, simulate.Point{Date: date, Price: price, PE: pe, PB: pb})
	}

	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return series, nil
}

type columnIndex struct {
	date, price, pe, pb int
}

func headerIndex(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, price: -1, pe: -1, pb: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			idx.date = i
		case "price", "close":
			idx.price = i
		case "pe", "pe_ratio":
			idx.pe = i
		case "pb", "pb_ratio":
			idx.pb = i
		}
	}

	if idx.date < 0 || idx.price < 0 || idx.pe < 0 {
		return idx, fmt.Errorf("header must contain date, price and pe columns, got %v", header)
	}
	return idx, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006/01/02", time.RFC3339} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}

// optionalFloat parses a float column, treating a missing column or
// blank cell as NaN
func optionalFloat(rec []string, col int) (float64, error) {
	if col < 0 || col >= len(rec) {
		return math.NaN(), nil
	}
	s := strings.TrimSpace(rec[col])
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
