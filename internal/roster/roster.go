package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"login-generator/internal/model"
)

var (
	ErrEmptyRoster   = errors.New("roster has no header row")
	ErrMissingColumn = errors.New("roster is missing a required column")
)

// Load reads a CSV roster with a header row naming at least user_id,
// login_propensity, ip_address and user_agent. Extra columns are ignored.
func Load(path string) ([]model.User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	users, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return users, nil
}

func Read(r io.Reader) ([]model.User, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyRoster
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roster header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range model.RosterColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var users []model.User
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read roster row %d: %w", row, err)
		}

		propensity, err := strconv.ParseFloat(strings.TrimSpace(rec[index["login_propensity"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid login_propensity: %w", row, err)
		}

		users = append(users, model.User{
			UserID:          rec[index["user_id"]],
			LoginPropensity: propensity,
			IPAddress:       rec[index["ip_address"]],
			UserAgent:       rec[index["user_agent"]],
		})
	}

	return users, nil
}
