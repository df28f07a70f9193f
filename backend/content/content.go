// Package content holds the static copy of the site and the member seed,
// both embedded as YAML.
package content

import (
	"embed"
	"errors"
	"fmt"

	"github.com/liangxing/matchsite/backend/directory"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml members.yaml
var files embed.FS

// ErrInvalidContent is wrapped by every content validation failure.
var ErrInvalidContent = errors.New("invalid content")

type NavLink struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

type Action struct {
	Label  string `yaml:"label" json:"label"`
	Target string `yaml:"target" json:"target"`
}

type Hero struct {
	Title           string `yaml:"title" json:"title"`
	Subtitle        string `yaml:"subtitle" json:"subtitle"`
	PrimaryAction   Action `yaml:"primary_action" json:"primary_action"`
	SecondaryAction Action `yaml:"secondary_action" json:"secondary_action"`
}

type About struct {
	Intro    string   `yaml:"intro" json:"intro"`
	ImageURL string   `yaml:"image_url" json:"image_url"`
	Scope    string   `yaml:"scope" json:"scope"`
	Vision   []string `yaml:"vision" json:"vision"`
}

type Service struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Icon        string `yaml:"icon" json:"icon"`
	Description string `yaml:"description" json:"description"`
}

type Step struct {
	Step        string `yaml:"step" json:"step"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type Guarantee struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Story is one testimonial of the success-story carousel.
type Story struct {
	ID         int    `yaml:"id" json:"id"`
	CoupleName string `yaml:"couple_name" json:"couple_name"`
	MatchDate  string `yaml:"match_date" json:"match_date"`
	Status     string `yaml:"status" json:"status"`
	Story      string `yaml:"story" json:"story"`
	ImageURL   string `yaml:"image_url" json:"image_url"`
}

type ContactInfo struct {
	Title string `yaml:"title" json:"title"`
	Value string `yaml:"value" json:"value"`
	Icon  string `yaml:"icon" json:"icon"`
}

type Footer struct {
	Tagline   string   `yaml:"tagline" json:"tagline"`
	Legal     []string `yaml:"legal" json:"legal"`
	Copyright string   `yaml:"copyright" json:"copyright"`
}

// Site is everything on the page that is not the directory or a form.
type Site struct {
	Brand      string        `yaml:"brand" json:"brand"`
	Company    string        `yaml:"company" json:"company"`
	Nav        []NavLink     `yaml:"nav" json:"nav"`
	Hero       Hero          `yaml:"hero" json:"hero"`
	About      About         `yaml:"about" json:"about"`
	Services   []Service     `yaml:"services" json:"services"`
	Process    []Step        `yaml:"process" json:"process"`
	Guarantees []Guarantee   `yaml:"guarantees" json:"guarantees"`
	Stories    []Story       `yaml:"stories" json:"stories"`
	Contact    []ContactInfo `yaml:"contact" json:"contact"`
	Footer     Footer        `yaml:"footer" json:"footer"`
}

// Carousel returns the navigator over the site's success stories.
func (s *Site) Carousel() Carousel {
	return Carousel{Len: len(s.Stories)}
}

// LoadSite parses the embedded site copy.
func LoadSite() (*Site, error) {
	data, err := files.ReadFile("site.yaml")
	if err != nil {
		return nil, fmt.Errorf("read site content: %w", err)
	}
	return ParseSite(data)
}

func ParseSite(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode site content: %w", err)
	}
	if s.Brand == "" {
		return nil, fmt.Errorf("%w: brand is required", ErrInvalidContent)
	}
	if len(s.Stories) == 0 {
		return nil, fmt.Errorf("%w: at least one success story is required", ErrInvalidContent)
	}
	return &s, nil
}

// LoadMembers parses the embedded member seed.
func LoadMembers() ([]directory.Candidate, error) {
	data, err := files.ReadFile("members.yaml")
	if err != nil {
		return nil, fmt.Errorf("read member seed: %w", err)
	}
	return ParseMembers(data)
}

func ParseMembers(data []byte) ([]directory.Candidate, error) {
	var members []directory.Candidate
	if err := yaml.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("decode member seed: %w", err)
	}
	if err := ValidateMembers(members); err != nil {
		return nil, err
	}
	return members, nil
}

// ValidateMembers checks the invariants the directory relies on: unique
// positive ids and a concrete gender on every record.
func ValidateMembers(members []directory.Candidate) error {
	seen := make(map[int]struct{}, len(members))
	for _, m := range members {
		if m.ID <= 0 {
			return fmt.Errorf("%w: member %q has no id", ErrInvalidContent, m.Name)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: duplicate member id %d", ErrInvalidContent, m.ID)
		}
		seen[m.ID] = struct{}{}
		if m.Gender != directory.Male && m.Gender != directory.Female {
			return fmt.Errorf("%w: member %d has gender %q", ErrInvalidContent, m.ID, m.Gender)
		}
	}
	return nil
}
