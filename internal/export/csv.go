package export

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/Flyrell/redday/internal/cache"
)

// Row is one line of CSV output.
type Row struct {
	Date        string `csv:"date"`
	Weekday     string `csv:"weekday"`
	Region      string `csv:"region"`
	Key         string `csv:"key"`
	Name        string `csv:"name"`
	BankHoliday bool   `csv:"bank_holiday"`
	Icon        string `csv:"icon"`
}

// Rows flattens buckets into CSV rows, keeping bucket order.
func Rows(buckets []cache.Bucket, label func(string) string) []Row {
	var rows []Row
	for _, b := range buckets {
		for _, o := range b.Occurrences {
			name := o.Title
			if name == "" {
				name = o.Name
				if label != nil {
					name = label(o.Name)
				}
			}
			rows = append(rows, Row{
				Date:        b.Day.String(),
				Weekday:     b.Day.Weekday().String(),
				Region:      o.Region,
				Key:         o.Key.String(),
				Name:        name,
				BankHoliday: o.BankHoliday,
				Icon:        o.Icon,
			})
		}
	}
	return rows
}

// CSV writes buckets as CSV with a header line.
func CSV(w io.Writer, buckets []cache.Bucket, label func(string) string) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	rows := Rows(buckets, label)
	if len(rows) == 0 {
		if err := enc.EncodeHeader(Row{}); err != nil {
			return err
		}
	}
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
