// Package params converts untrusted URL query values into a bounded
// models.SearchParams. Nothing here ever propagates a failure to the
// caller: parsing degrades through three explicit tiers — strict parse,
// per-field salvage, hard default.
package params

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"pasar/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	maxQueryLen = 200
	maxLabelLen = 100

	minPrice = 0
	maxPrice = 1_000_000

	minPage = 1
	maxPage = 1000

	minLimit = 1
	maxLimit = 100
)

// errPriceBoundsInverted rejects the whole request: min > max means the
// caller gets hard defaults, not a salvaged subset.
var errPriceBoundsInverted = errors.New("price bounds inverted: min > max")

var validate = validator.New()

// queryStripper removes characters that could leak into downstream
// rendering. Applied to the keyword only, after trim and length cap.
var queryStripper = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "&", "")

// Parse turns raw query values into a usable SearchParams. Tier one
// requires every supplied field to coerce cleanly; tier two re-validates
// each field in isolation and keeps what passes; tier three is the hard
// default. An inverted price range short-circuits straight to defaults.
func Parse(query url.Values) models.SearchParams {
	p, err := parseStrict(query)
	if err == nil {
		return p
	}
	if errors.Is(err, errPriceBoundsInverted) {
		return models.DefaultSearchParams()
	}

	p, err = parseSalvage(query)
	if err == nil {
		return p
	}
	return models.DefaultSearchParams()
}

// parseStrict accepts the request only if every supplied field is
// well-formed. String fields are trimmed and truncated silently; a
// numeric field that fails to coerce is a strict-tier error.
func parseStrict(query url.Values) (models.SearchParams, error) {
	p := models.DefaultSearchParams()
	var fields []models.FieldError

	p.Query = sanitizeQuery(first(query, "q"))
	p.Category = sanitizeLabel(first(query, "category"))
	p.Location = sanitizeLabel(first(query, "location"))

	for _, key := range []string{"min", "max"} {
		raw := strings.TrimSpace(first(query, key))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields = append(fields, models.FieldError{Field: key, Message: "not a number", Code: "invalid_number"})
			continue
		}
		value = clampFloat(value, minPrice, maxPrice)
		if key == "min" {
			p.MinPrice = &value
		} else {
			p.MaxPrice = &value
		}
	}

	if page, err := parseIntField(query, "page"); err != nil {
		fields = append(fields, models.FieldError{Field: "page", Message: "not an integer", Code: "invalid_number"})
	} else if page != 0 {
		p.Page = clampInt(page, minPage, maxPage)
	}
	if limit, err := parseIntField(query, "limit"); err != nil {
		fields = append(fields, models.FieldError{Field: "limit", Message: "not an integer", Code: "invalid_number"})
	} else if limit != 0 {
		p.Limit = clampInt(limit, minLimit, maxLimit)
	}

	if len(fields) > 0 {
		return models.SearchParams{}, &models.ValidationError{Fields: fields}
	}
	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return models.SearchParams{}, errPriceBoundsInverted
	}
	if err := validate.Struct(p); err != nil {
		return models.SearchParams{}, err
	}
	return p, nil
}

// parseSalvage re-validates each field independently, dropping the ones
// that fail instead of discarding the request.
func parseSalvage(query url.Values) (models.SearchParams, error) {
	p := models.DefaultSearchParams()

	p.Query = sanitizeQuery(first(query, "q"))
	p.Category = sanitizeLabel(first(query, "category"))
	p.Location = sanitizeLabel(first(query, "location"))

	if raw := strings.TrimSpace(first(query, "min")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			value = clampFloat(value, minPrice, maxPrice)
			p.MinPrice = &value
		}
	}
	if raw := strings.TrimSpace(first(query, "max")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			value = clampFloat(value, minPrice, maxPrice)
			p.MaxPrice = &value
		}
	}
	if page, err := parseIntField(query, "page"); err == nil && page != 0 {
		p.Page = clampInt(page, minPage, maxPage)
	}
	if limit, err := parseIntField(query, "limit"); err == nil && limit != 0 {
		p.Limit = clampInt(limit, minLimit, maxLimit)
	}

	if p.MinPrice != nil && p.MaxPrice != nil && *p.MinPrice > *p.MaxPrice {
		return models.SearchParams{}, errPriceBoundsInverted
	}
	if err := validate.Struct(p); err != nil {
		return models.SearchParams{}, err
	}
	return p, nil
}

// first collapses repeated keys to their first value.
func first(query url.Values, key string) string {
	values, ok := query[key]
	if !ok || len(values) == 0 {
		return ""
	}
	return values[0]
}

func sanitizeLabel(s string) string {
	return truncate(strings.TrimSpace(s), maxLabelLen)
}

func sanitizeQuery(s string) string {
	return queryStripper.Replace(truncate(strings.TrimSpace(s), maxQueryLen))
}

// truncate caps by rune count so multi-byte input cannot be cut
// mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

// parseIntField returns 0 for an absent field and an error for a
// malformed one.
func parseIntField(query url.Values, key string) (int, error) {
	raw := strings.TrimSpace(first(query, key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		// Zero is out of range for both page and limit; let the clamp
		// handle it by reporting the minimum instead of "absent".
		return 1, nil
	}
	return value, nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
