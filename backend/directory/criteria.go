package directory

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Unrestricted is the option label meaning "no constraint on this field".
const Unrestricted = "不限"

// ErrInvalidCriteria is wrapped by every Criteria.Validate failure.
var ErrInvalidCriteria = errors.New("invalid criteria")

var (
	// AgeBounds and HeightBounds are the limits of the range sliders.
	AgeBounds    = Range{Min: 18, Max: 60}
	HeightBounds = Range{Min: 150, Max: 200}

	Educations = []string{"高中", "专科", "本科", "硕士", "博士及以上"}
	Incomes    = []string{"5000-10000元", "10000-20000元", "20000-30000元", "30000-50000元", "50000元以上"}
	Locations  = []string{"北京", "上海", "广州", "深圳", "成都", "杭州"}
)

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Criteria is the full set of directory filter selections. Empty categorical
// fields and GenderAny mean unrestricted.
type Criteria struct {
	Gender    Gender `json:"gender"`
	Age       Range  `json:"age"`
	Height    Range  `json:"height"`
	Education string `json:"education"`
	Income    string `json:"income"`
	Location  string `json:"location"`
	Search    string `json:"search"`
}

// DefaultCriteria matches every seeded candidate.
func DefaultCriteria() Criteria {
	return Criteria{
		Gender: GenderAny,
		Age:    AgeBounds,
		Height: HeightBounds,
	}
}

// Normalize folds the 不限 label and surrounding whitespace of the
// categorical selectors into the empty value. The search term is kept as typed.
func (c Criteria) Normalize() Criteria {
	if g, ok := ParseGender(strings.TrimSpace(string(c.Gender))); ok {
		c.Gender = g
	}
	c.Education = normalizeChoice(c.Education)
	c.Income = normalizeChoice(c.Income)
	c.Location = normalizeChoice(c.Location)
	return c
}

func normalizeChoice(v string) string {
	v = strings.TrimSpace(v)
	if v == Unrestricted {
		return ""
	}
	return v
}

// Validate reports criteria that the directory controls could never
// produce: inverted ranges, values outside the slider bounds and unknown
// options.
func (c Criteria) Validate() error {
	switch c.Gender {
	case GenderAny, Male, Female:
	default:
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidCriteria, c.Gender)
	}
	if err := validateRange("age", c.Age, AgeBounds); err != nil {
		return err
	}
	if err := validateRange("height", c.Height, HeightBounds); err != nil {
		return err
	}
	if err := validateChoice("education", c.Education, Educations); err != nil {
		return err
	}
	if err := validateChoice("income", c.Income, Incomes); err != nil {
		return err
	}
	return validateChoice("location", c.Location, Locations)
}

func validateRange(name string, r, bounds Range) error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s min %d exceeds max %d", ErrInvalidCriteria, name, r.Min, r.Max)
	}
	if !bounds.Contains(r.Min) || !bounds.Contains(r.Max) {
		return fmt.Errorf("%w: %s range [%d,%d] outside [%d,%d]", ErrInvalidCriteria, name, r.Min, r.Max, bounds.Min, bounds.Max)
	}
	return nil
}

func validateChoice(name, v string, options []string) error {
	if v == "" || slices.Contains(options, v) {
		return nil
	}
	return fmt.Errorf("%w: unknown %s %q", ErrInvalidCriteria, name, v)
}

// IsDefault reports whether c equals DefaultCriteria after normalization.
func (c Criteria) IsDefault() bool {
	return c.Normalize() == DefaultCriteria()
}
