package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// Seasons lists the valid seasons in calendar order
var Seasons = []Season{Spring, Summer, Autumn, Winter}

// ParseSeason validates s; the empty string means unset and yields nil.
func ParseSeason(s string) (*Season, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	for _, season := range Seasons {
		if string(season) == s {
			return &season, nil
		}
	}
	return nil, fmt.Errorf("season must be one of spring, summer, autumn, winter")
}

const (
	MaxTitleLength     = 100
	DefaultDifficulty  = "easy"
	DefaultCostLevel   = "low"
	DefaultServings    = "1 serving"
	DefaultSafetyLevel = "safe"
)

type RecipeMetadata struct {
	CookingTime int    `gorm:"not null;default:0" json:"cookingTime"`
	Difficulty  string `gorm:"size:20;not null;default:easy" json:"difficulty"`
	CostLevel   string `gorm:"size:20;not null;default:low" json:"costLevel"`
	Servings    string `gorm:"size:20;not null;default:'1 serving'" json:"servings"`
}

type Material struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type Step struct {
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time          `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Title       string             `gorm:"size:100;not null;index" json:"title"`
	Author      AuthorSnapshot     `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	CoverImage  *string            `gorm:"size:512" json:"coverImage"`
	Metadata    RecipeMetadata     `gorm:"embedded" json:"metadata"`
	Tags        JSONList[string]   `gorm:"not null" json:"tags"`
	SafetyLevel string             `gorm:"size:20;not null;default:safe" json:"safetyLevel"`
	Materials   JSONList[Material] `gorm:"not null" json:"materials"`
	Steps       JSONList[Step]     `gorm:"not null" json:"steps"`
	Likes       int64              `gorm:"not null;default:0;check:likes >= 0" json:"likes"`
	Collects    int64              `gorm:"not null;default:0;check:collects >= 0" json:"collects"`
	Rating      float64            `gorm:"not null;default:0;check:rating >= 0 AND rating <= 5" json:"rating"`
	RatingCount int                `gorm:"not null;default:0;check:rating_count >= 0" json:"ratingCount"`
	Season      *Season            `gorm:"size:10;index" json:"season"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.ApplyDefaults()
	return nil
}

// ApplyDefaults fills unset labels and lists with their default values
func (r *Recipe) ApplyDefaults() {
	if r.Author.Level == "" {
		r.Author.Level = DefaultUserLevel
	}
	if r.Metadata.Difficulty == "" {
		r.Metadata.Difficulty = DefaultDifficulty
	}
	if r.Metadata.CostLevel == "" {
		r.Metadata.CostLevel = DefaultCostLevel
	}
	if r.Metadata.Servings == "" {
		r.Metadata.Servings = DefaultServings
	}
	if r.SafetyLevel == "" {
		r.SafetyLevel = DefaultSafetyLevel
	}
	if r.Tags == nil {
		r.Tags = JSONList[string]{}
	}
	if r.Materials == nil {
		r.Materials = JSONList[Material]{}
	}
	if r.Steps == nil {
		r.Steps = JSONList[Step]{}
	}
}

// Validate checks the field constraints a stored recipe must satisfy
func (r *Recipe) Validate() error {
	var errs []error

	title := strings.TrimSpace(r.Title)
	if n := utf8.RuneCountInString(title); n == 0 || n > MaxTitleLength {
		errs = append(errs, fmt.Errorf("title must be between 1 and %d characters", MaxTitleLength))
	}
	if r.Metadata.CookingTime < 0 {
		errs = append(errs, errors.New("cookingTime must not be negative"))
	}
	if r.Season != nil {
		if _, err := ParseSeason(string(*r.Season)); err != nil {
			errs = append(errs, err)
		}
	}
	if r.CoverImage != nil && !IsImageURL(*r.CoverImage) {
		errs = append(errs, errors.New("coverImage must be an http(s) URL"))
	}
	for i, m := range r.Materials {
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, fmt.Errorf("materials[%d].name is required", i))
		}
	}
	for i, s := range r.Steps {
		if strings.TrimSpace(s.Description) == "" {
			errs = append(errs, fmt.Errorf("steps[%d].description is required", i))
		}
		if s.Image != nil && !IsImageURL(*s.Image) {
			errs = append(errs, fmt.Errorf("steps[%d].image must be an http(s) URL", i))
		}
	}
	if r.Likes < 0 || r.Collects < 0 || r.RatingCount < 0 {
		errs = append(errs, errors.New("counters must not be negative"))
	}
	if r.Rating < 0 || r.Rating > 5 {
		errs = append(errs, errors.New("rating must be between 0 and 5"))
	}

	return errors.Join(errs...)
}

// IsImageURL reports whether s is an absolute http or https URL
func IsImageURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
