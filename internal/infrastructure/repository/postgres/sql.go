package postgres

import (
	"database/sql"
	"errors"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/kickabout/internal/domain/session"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// sortedUnique returns ids sorted and without blanks or duplicates, the
// order rows must be locked in.
func sortedUnique(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// encodeSetScores returns text, not bytes: pq sends []byte as bytea.
func encodeSetScores(scores []session.SetScore) (string, error) {
	if len(scores) == 0 {
		return "[]", nil
	}
	return sonic.MarshalString(scores)
}

func decodeSetScores(raw string) ([]session.SetScore, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var scores []session.SetScore
	if err := sonic.UnmarshalString(raw, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
