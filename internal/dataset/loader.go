package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/xuri/excelize/v2"

	"scamlab-go/internal/logger"
)

var httpClient = &http.Client{Timeout: 12 * time.Second}

// Load reads the scenario dataset from a local file or an http(s) URL and
// parses it into rows. The format is picked by extension: .xlsx goes through
// excelize, everything else is treated as comma-separated text with a
// mandatory header row.
//
// Malformed records (field count differing from the header) are dropped and
// counted; the returned warning count lets the caller log how many were lost
// without failing the whole load.
func Load(path string) ([]Row, int, error) {
	data, err := read(path)
	if err != nil {
		return nil, 0, fmt.Errorf("load dataset: %w", err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return parseXLSX(data)
	}
	return parseCSV(data)
}

func read(path string) ([]byte, error) {
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return fetch(path)
	}
	return os.ReadFile(path)
}

// fetch retrieves a remote dataset resource, retrying transient failures.
func fetch(url string) ([]byte, error) {
	log := logger.New().WithComponent("dataset.fetch").WithField("url", url)

	var data []byte
	var lastErr error
	op := func() error {
		resp, err := httpClient.Get(url)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("dataset fetch failed")
			return err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = err
			return err
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
			return lastErr
		}
		if resp.StatusCode >= 400 {
			// 404 and friends won't get better on retry
			lastErr = fmt.Errorf("fetch failed: status %d", resp.StatusCode)
			return backoff.Permanent(lastErr)
		}
		data = body
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	if err := backoff.Retry(op, bo); err != nil {
		return nil, lastErr
	}
	return data, nil
}

// parseCSV parses header-first comma-separated text. Quoted fields are
// supported and whitespace inside fields is preserved. Empty lines are
// skipped; records with the wrong field count are dropped and counted.
func parseCSV(data []byte) ([]Row, int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("parse csv: missing header row")
	}
	return mapRecords(records[0], records[1:])
}

func parseXLSX(data []byte) ([]Row, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("open workbook: no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("read rows: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("read rows: missing header row")
	}
	// excelize trims trailing empty cells; pad so short records aren't
	// mistaken for malformed ones
	header := records[0]
	for i, rec := range records {
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		records[i] = rec
	}
	return mapRecords(header, records[1:])
}

// mapRecords binds raw records to the Row schema via the header. Records
// whose field count differs from the header are dropped and counted.
func mapRecords(header []string, records [][]string) ([]Row, int, error) {
	log := logger.New().WithComponent("dataset.loader")

	idx := columnIndex(header)
	rows := make([]Row, 0, len(records))
	warnings := 0
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if len(rec) != len(header) {
			warnings++
			log.WithFields(map[string]interface{}{
				"line":   i + 2,
				"fields": len(rec),
				"want":   len(header),
			}).Warn("dropping malformed record")
			continue
		}
		rows = append(rows, Row{
			Name:            cell(rec, idx[ColName]),
			PhoneNumber:     cell(rec, idx[ColPhoneNumber]),
			Response:        cell(rec, idx[ColResponse]),
			GaveInformation: cell(rec, idx[ColGaveInformation]),
			CallLength:      cell(rec, idx[ColCallLength]),
			Scenario:        cell(rec, idx[ColScenario]),
		})
	}
	return rows, warnings, nil
}

// columnIndex maps known column names to header positions. Exact match on
// the trimmed header wins; a lowercase-contains fallback tolerates header
// variants across dataset exports.
func columnIndex(header []string) map[string]int {
	idx := map[string]int{
		ColName: -1, ColPhoneNumber: -1, ColResponse: -1,
		ColGaveInformation: -1, ColCallLength: -1, ColScenario: -1,
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := idx[h]; ok && idx[h] == -1 {
			idx[h] = i
		}
	}
	for col, pos := range idx {
		if pos != -1 {
			continue
		}
		needle := strings.ToLower(strings.Fields(col)[0])
		for i, h := range header {
			if strings.Contains(strings.ToLower(h), needle) {
				idx[col] = i
				break
			}
		}
	}
	return idx
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
