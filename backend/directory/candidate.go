package directory

// Gender of a candidate, or the unrestricted selector when used in Criteria.
type Gender string

const (
	GenderAny Gender = ""
	Male      Gender = "male"
	Female    Gender = "female"
)

// ParseGender accepts the values sent by the gender tabs ("all", "male",
// "female"). Anything else reports ok=false.
func ParseGender(s string) (Gender, bool) {
	switch s {
	case "", "all", Unrestricted:
		return GenderAny, true
	case string(Male):
		return Male, true
	case string(Female):
		return Female, true
	}
	return GenderAny, false
}

// Label is the display text used on member cards.
func (g Gender) Label() string {
	switch g {
	case Male:
		return "男士"
	case Female:
		return "女士"
	}
	return "全部"
}

// Candidate is a read-only member profile shown in the directory.
type Candidate struct {
	ID          int    `json:"id" yaml:"id" db:"id"`
	Name        string `json:"name" yaml:"name" db:"name"`
	Age         int    `json:"age" yaml:"age" db:"age"`
	Height      int    `json:"height" yaml:"height" db:"height"`
	Education   string `json:"education" yaml:"education" db:"education"`
	Occupation  string `json:"occupation" yaml:"occupation" db:"occupation"`
	Income      string `json:"income" yaml:"income" db:"income"`
	Location    string `json:"location" yaml:"location" db:"location"`
	Gender      Gender `json:"gender" yaml:"gender" db:"gender"`
	Description string `json:"description" yaml:"description" db:"description"`
	ImageURL    string `json:"image_url" yaml:"image_url" db:"image_url"`
}
