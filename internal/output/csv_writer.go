package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"login-generator/internal/model"
)

// TimestampLayout has microsecond precision and no zone suffix.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// WriteCSV writes a header row followed by one row per event.
func WriteCSV(w io.Writer, events []model.LoginEvent) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(model.LoginEventColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(model.LoginEventColumns))
	for i, e := range events {
		row[0] = e.Timestamp.Format(TimestampLayout)
		row[1] = e.UserID
		row[2] = e.IPAddress
		row[3] = e.UserAgent
		row[4] = formatBool(e.Success)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile creates (or truncates) path and writes events to it as CSV.
func WriteFile(path string, events []model.LoginEvent) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	bw := bufio.NewWriterSize(f, 64*1024)
	if err := WriteCSV(bw, events); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
