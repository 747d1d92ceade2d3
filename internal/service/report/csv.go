package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"production-tracker/internal/storage"
)

var csvHeader = []string{"Parça", "Adet", "Vardiya", "Makine", "Operatör", "Tarih"}

// WriteCSV writes one row per record after the header, in the given order.
func WriteCSV(w io.Writer, records []storage.Record, loc *time.Location) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("report: write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Part,
			strconv.FormatInt(int64(r.Quantity), 10),
			string(r.Shift),
			r.Machine,
			r.Operator,
			r.Timestamp.In(loc).Format(TimestampLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write csv row %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: flush csv: %w", err)
	}
	return nil
}
