// Package dataset loads, checkpoints, and exports the roster spreadsheet the
// enrichment pipeline operates on. The whole table is held in memory and
// written back as full snapshots; unknown input columns pass through to
// every snapshot untouched.
package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

const snapshotTimestamp = "20060102_150405"

// Dataset is the ordered roster plus its column layout. It is owned by a
// single goroutine for the duration of a run.
type Dataset struct {
	header  []string
	colIdx  map[string]int
	raw     [][]string // input cells, parallel to Records
	Records []Record
}

// Load reads sheet 0 of the XLSX file at path, mapping the configured input
// columns and appending any missing output columns to the header. Rows with
// parseable Latitude/Longitude cells come back with coordinates already set.
func Load(path string, cols Columns) (*Dataset, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("dataset: %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("dataset: %s has no header row", path)
	}

	ds := &Dataset{
		header: rowToStrings(sheet.Rows[0]),
		colIdx: make(map[string]int),
	}
	for i, h := range ds.header {
		ds.colIdx[h] = i
	}
	for _, col := range outputColumns {
		if _, ok := ds.colIdx[col]; !ok {
			ds.colIdx[col] = len(ds.header)
			ds.header = append(ds.header, col)
		}
	}

	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		for len(cells) < len(ds.header) {
			cells = append(cells, "")
		}

		rec := Record{
			Index:   len(ds.Records),
			Address: ds.cell(cells, cols.Address),
			City:    ds.cell(cells, cols.City),
			ZipCode: ds.cell(cells, cols.ZipCode),
		}
		if lat, ok := parseFloatCell(ds.cell(cells, ColLatitude)); ok {
			if lon, ok := parseFloatCell(ds.cell(cells, ColLongitude)); ok {
				rec.Latitude = &lat
				rec.Longitude = &lon
			}
		}

		ds.raw = append(ds.raw, cells)
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

// Len returns the number of records.
func (ds *Dataset) Len() int {
	return len(ds.Records)
}

// Truncate trims the dataset to its first n records.
func (ds *Dataset) Truncate(n int) {
	if n < 0 || n >= len(ds.Records) {
		return
	}
	ds.Records = ds.Records[:n]
	ds.raw = ds.raw[:n]
}

// Save writes the full dataset to path, one row per record.
func (ds *Dataset) Save(path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		return eris.Wrap(err, "dataset: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range ds.header {
		hr.AddCell().SetString(h)
	}

	for i := range ds.Records {
		row := sheet.AddRow()
		for _, c := range ds.outputRow(i) {
			row.AddCell().SetString(c)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "dataset: save")
	}
	return nil
}

// SaveCheckpoint writes a timestamped snapshot into dir and returns its path.
// Best-effort persistence is the caller's policy; this just reports failure.
func (ds *Dataset) SaveCheckpoint(dir string, now time.Time) (string, error) {
	name := fmt.Sprintf("temp_geocode_%s.xlsx", now.Format(snapshotTimestamp))
	path := filepath.Join(dir, name)
	if err := ds.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// Export writes the final dataset. An empty name selects a timestamped
// default. Returns the resolved filename.
func (ds *Dataset) Export(name string, now time.Time) (string, error) {
	if name == "" {
		name = fmt.Sprintf("Geocoded_ActiveParticipants_%s.xlsx", now.Format(snapshotTimestamp))
	}
	if err := ds.Save(name); err != nil {
		return "", err
	}
	return name, nil
}

// outputRow merges a record's raw input cells with its produced fields. Nil
// fields leave the stored cell as loaded.
func (ds *Dataset) outputRow(i int) []string {
	cells := make([]string, len(ds.header))
	copy(cells, ds.raw[i])

	rec := &ds.Records[i]
	ds.setFloat(cells, ColLatitude, rec.Latitude)
	ds.setFloat(cells, ColLongitude, rec.Longitude)
	ds.setStr(cells, ColGeocodedAddress, rec.GeocodedAddress)
	ds.setStr(cells, ColSFDistrict, rec.SFDistrict)
	ds.setStr(cells, ColSFSupervisor, rec.SFSupervisor)
	ds.setStr(cells, ColMarinDistrict, rec.MarinDistrict)
	ds.setStr(cells, ColMarinSupervisor, rec.MarinSupervisor)
	ds.setStr(cells, ColCongressional, rec.Congressional)
	ds.setStr(cells, ColCensusPUMA, rec.CensusPUMA)
	ds.setStr(cells, ColCensusTract, rec.CensusTract)
	ds.setStr(cells, ColCensusBlock, rec.CensusBlock)
	ds.setStr(cells, ColAssembly, rec.Assembly)
	ds.setStr(cells, ColSenate, rec.Senate)
	ds.setStr(cells, ColStatus, rec.GeocodingStatus)
	ds.setStr(cells, ColLastUpdated, rec.LastUpdated)
	return cells
}

func (ds *Dataset) cell(cells []string, col string) string {
	idx, ok := ds.colIdx[col]
	if !ok || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

func (ds *Dataset) setStr(cells []string, col string, val *string) {
	if val != nil {
		cells[ds.colIdx[col]] = *val
	}
}

func (ds *Dataset) setFloat(cells []string, col string, val *float64) {
	if val != nil {
		cells[ds.colIdx[col]] = strconv.FormatFloat(*val, 'f', -1, 64)
	}
}

func parseFloatCell(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
