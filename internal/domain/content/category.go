package content

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryPost     Category = "post"
	CategoryTutorial Category = "tutorial"
	CategoryCourse   Category = "course"
	CategoryPage     Category = "page"
)

// Categories lists every category in directory order.
var Categories = []Category{CategoryPost, CategoryTutorial, CategoryCourse, CategoryPage}

// Listed are the categories that take part in cross-category queries, in
// union order.
var Listed = []Category{CategoryPost, CategoryTutorial, CategoryCourse}

// Dir is the directory name of the category below the content root.
func (c Category) Dir() string {
	return string(c) + "s"
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPost, CategoryTutorial, CategoryCourse, CategoryPage:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts the singular or the directory form, in any case.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if s == string(c) || s == c.Dir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty matches s against the known tiers, ignoring case and
// surrounding space.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Beginner, Intermediate, Advanced:
		return d, true
	}
	return "", false
}
