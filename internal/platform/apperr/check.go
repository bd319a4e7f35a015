package apperr

import (
	"math"
	"unicode/utf8"
)

// Column widths shared by every table.
const (
	UsuarioLen     = 100
	NroHistoriaLen = 50
	ColorLen       = 30
)

// MaxLen rejects a value longer than n characters. nil passes.
func MaxLen(field string, s *string, n int) error {
	if s != nil && utf8.RuneCountInString(*s) > n {
		return Validation("%s exceeds %d characters", field, n)
	}
	return nil
}

// Numeric rejects a value that does not fit NUMERIC(precision, scale) once
// rounded to scale digits. nil passes.
func Numeric(field string, v *float64, precision, scale int) error {
	if v == nil {
		return nil
	}
	limit := math.Pow10(precision - scale)
	rounded := math.Round(*v*math.Pow10(scale)) / math.Pow10(scale)
	if math.Abs(rounded) >= limit {
		return Validation("%s must be below %g in absolute value", field, limit)
	}
	return nil
}

// SmallInt rejects a value outside the SMALLINT range.
func SmallInt(field string, n int) error {
	if n < math.MinInt16 || n > math.MaxInt16 {
		return Validation("%s is out of range", field)
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
