package report

import (
	"fmt"
	"strconv"
	"time"

	"production-tracker/internal/service/aggregate"
	"production-tracker/internal/storage"
)

// TimestampLayout is how record times are printed in every export.
const TimestampLayout = "02.01.2006 15:04:05"

var tableHeader = []string{"Parça", "Adet", "Vardiya", "Makine", "Operatör", "Sorumlu", "Kullanıcı", "Tarih"}

var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// Table is the weekly grouped record table shown on the list page.
type Table struct {
	Header []string
	Weeks  []WeekSection
}

type WeekSection struct {
	Title string
	Rows  [][]string
}

func (t Table) RowCount() int {
	n := 0
	for _, w := range t.Weeks {
		n += len(w.Rows)
	}
	return n
}

func BuildTable(records []storage.Record, loc *time.Location) Table {
	t := Table{Header: tableHeader}

	for _, b := range aggregate.GroupByWeek(records, loc).Buckets() {
		section := WeekSection{
			Title: WeekTitle(b.Start),
			Rows:  make([][]string, 0, len(b.Records)),
		}
		for _, r := range b.Records {
			section.Rows = append(section.Rows, []string{
				r.Part,
				strconv.FormatInt(int64(r.Quantity), 10),
				string(r.Shift),
				r.Machine,
				r.Operator,
				r.Supervisor,
				r.User,
				r.Timestamp.In(loc).Format(TimestampLayout),
			})
		}
		t.Weeks = append(t.Weeks, section)
	}

	return t
}

// WeekTitle renders "11 Mart 2024 haftası".
func WeekTitle(start time.Time) string {
	return fmt.Sprintf("%02d %s %d haftası", start.Day(), turkishMonths[start.Month()-1], start.Year())
}
