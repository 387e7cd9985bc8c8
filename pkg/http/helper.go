package http

import (
	"net/http"
	"strconv"

	"github.com/kdrivas1989/tunnel-sessions/pkg/config"
	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// Paginate slices one page out of an already-sorted list.
func Paginate[T any](items []T, limit int, offset int64) []T {
	total := int64(len(items))
	start := min(offset, total)
	end := min(start+int64(limit), total)
	return items[start:end]
}
