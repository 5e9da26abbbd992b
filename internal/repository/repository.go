// Package repository provides typed CRUD for the four entity kinds on top
// of the keyed item store. It owns key construction, item/entity
// marshaling, and the derived card-name cache.
package repository

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"expense-tracker/internal/categorize"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/store"
)

// Repository is the entity repository. The backing store is injected so
// tests run against the in-memory implementation and production against
// DynamoDB, behind the same capability interface.
type Repository struct {
	store     store.Store
	log       zerolog.Logger
	cardNames cardNameCache
	cat       *categorize.Engine // manual category reassignment
}

// New creates a Repository over the given store.
func New(st store.Store, log zerolog.Logger) *Repository {
	r := &Repository{store: st, log: log}
	r.cat = categorize.New(r, log)
	return r
}

// asValidation converts a lost conditional write into a validation-class
// error with the given message; any other error passes through as an
// infrastructure failure.
func asValidation(err error, format string, args ...interface{}) error {
	if errors.Is(err, store.ErrConflict) {
		return domain.Validationf(format, args...)
	}
	return err
}

// timeFormat keeps the nanosecond fraction fixed-width. Range predicates
// compare stored timestamps as strings, and RFC3339Nano trims trailing
// zeros, which breaks lexicographic ordering across fractional seconds.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}

// Attribute read helpers. Items round-trip through storage backends that
// may widen []string to []interface{}, so slice reads handle both.

func itemString(item store.Item, attr string) string {
	s, _ := item[attr].(string)
	return s
}

func itemBool(item store.Item, attr string, def bool) bool {
	if b, ok := item[attr].(bool); ok {
		return b
	}
	return def
}

func itemStringSlice(item store.Item, attr string) ([]string, bool) {
	switch v := item[attr].(type) {
	case []string:
		return append([]string(nil), v...), true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}
