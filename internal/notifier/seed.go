package notifier

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Arten331/observability/logger"
	"go.uber.org/zap"
)

// SeedUsers registers users from a CSV stream of "id,name,role" rows. Used
// for dev bootstrap from the embedded seed file. Malformed rows are skipped.
func (s *Service) SeedUsers(r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	count := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return count, err
		}

		if len(row) < 3 || row[0] == "" {
			continue
		}

		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}

		if err := s.RegisterUser(id, row[1], row[2]); err != nil {
			logger.L().Warn("skipped seed user", zap.String("row_id", row[0]), zap.Error(err))

			continue
		}

		count++
	}

	return count, nil
}
