// Package common provides the CSV plumbing shared by the commands.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fjacquet/trendfit/internal/fileutils"
	"fjacquet/trendfit/internal/logging"
	"fjacquet/trendfit/internal/models"
	"fjacquet/trendfit/internal/trend"

	"github.com/gocarina/gocsv"
)

// Delimiter is the field separator used for reading and writing CSV files.
var Delimiter rune = ','

// SetDelimiter sets the delimiter for CSV input and output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	log := logger.WithField(logging.FieldInputFile, filePath)
	log.Debug("Reading CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	rows, err := UnmarshalCSV[TCSVRow](file)
	if err != nil {
		log.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	log.Debug("Successfully read CSV data", logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// UnmarshalCSV decodes CSV rows from r using the configured delimiter.
func UnmarshalCSV[TCSVRow any](r io.Reader) ([]TCSVRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.TrimLeadingSpace = true

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MarshalCSV encodes rows to w with a header line, using the configured delimiter.
func MarshalCSV[TCSVRow any](rows []TCSVRow, w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.Comma = Delimiter
	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer))
}

// WriteCSVFile writes rows to filePath, creating its directory if needed.
func WriteCSVFile[TCSVRow any](rows []TCSVRow, filePath string, logger logging.Logger) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}
	log := logger.WithField(logging.FieldOutputFile, filePath)

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		log.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionFile)
	if err != nil {
		log.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := MarshalCSV(rows, file); err != nil {
		log.WithError(err).Error("Failed to marshal rows to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.Info("Wrote CSV file", logging.F(logging.FieldCount, len(rows)))
	return nil
}

// ReadPeriodTable loads period entries from a CSV file with the columns
// period, category, budgeted and actual, grouped by period.
func ReadPeriodTable(filePath string, logger logging.Logger) (models.PeriodTable, error) {
	rows, err := ReadCSVFile[models.PeriodEntryRow](filePath, logger)
	if err != nil {
		return nil, err
	}
	entries, err := models.EntriesFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	table, err := models.GroupByPeriod(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	logger.Info("Loaded period entries",
		logging.F(logging.FieldInputFile, filePath),
		logging.F(logging.FieldCount, len(entries)),
		logging.F("periods", len(table)))
	return table, nil
}

// WriteForecastsToCSV writes forecast rows to csvFile.
func WriteForecastsToCSV(points []trend.ForecastPoint, csvFile string, logger logging.Logger) error {
	if points == nil {
		points = []trend.ForecastPoint{}
	}
	return WriteCSVFile(points, csvFile, logger)
}
