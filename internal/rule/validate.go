package rule

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrNarrowRange marks a floating rule whose day range is shorter than a
// week, so the target weekday is missing from the range in some years.
var ErrNarrowRange = errors.New("day range shorter than 7 days")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks parameter ranges and the parameters required by the
// record's type. All problems are joined into one error.
func Validate(rec Record) error {
	var errs []error

	if strings.TrimSpace(rec.Name) == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}

	if err := recordValidator().Struct(rec); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
	}

	errs = append(errs, requiredParams(rec)...)

	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "min", "max":
		return fmt.Errorf("%s %v out of range", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Errorf("%s %v must be one of %s", fe.Field(), fe.Value(), fe.Param())
	}
	return fmt.Errorf("%s failed %s check", fe.Field(), fe.Tag())
}

func requiredParams(rec Record) []error {
	var errs []error
	need := func(name string, p *int) {
		if p == nil {
			errs = append(errs, fmt.Errorf("%s rule requires %s", rec.Type, name))
		}
	}

	switch rec.Type {
	case KindFixed:
		need("month", rec.Month)
		need("day", rec.Day)
	case KindEasterRelative:
		need("days_offset", rec.DaysOffset)
	case KindFloating:
		need("month", rec.Month)
		need("weekday", rec.Weekday)
		need("day_range_start", rec.DayRangeStart)
		need("day_range_end", rec.DayRangeEnd)
		if rec.DayRangeStart != nil && rec.DayRangeEnd != nil {
			start, end := *rec.DayRangeStart, *rec.DayRangeEnd
			switch {
			case start > end:
				errs = append(errs, fmt.Errorf("day_range_start %d after day_range_end %d", start, end))
			case end-start+1 < 7:
				errs = append(errs, fmt.Errorf("%w: %d-%d", ErrNarrowRange, start, end))
			}
		}
	case KindNthWeekday:
		need("month", rec.Month)
		need("weekday", rec.Weekday)
		need("ordinal", rec.Ordinal)
	case KindLunar:
		need("month", rec.Month)
		need("day", rec.Day)
	case KindAstronomical:
		need("month", rec.Month)
		if rec.Month != nil && !Season(*rec.Month).Valid() {
			errs = append(errs, fmt.Errorf("astronomical rule month %d must be 3, 6, 9 or 12", *rec.Month))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown rule type %q", rec.Type))
	}
	return errs
}
