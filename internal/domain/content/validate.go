package content

import (
	"net/url"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var difficultyRule = validation.In(Beginner, Intermediate, Advanced).
	Error("must be beginner, intermediate or advanced")

var githubRule = validation.By(func(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("content.github.invalid_url", "must be an absolute http(s) URL")
	}
	return nil
})

// Validate checks the post-specific fields.
func (p Post) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.GitHub, githubRule),
		validation.Field(&p.Difficulty, difficultyRule),
	)
}

// Validate checks the tutorial-specific fields. Difficulty is required once
// defaults have been applied.
func (t Tutorial) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.GitHub, githubRule),
		validation.Field(&t.Difficulty, validation.Required, difficultyRule),
	)
}

// Validate checks the course-specific fields and then the tutorial fields it
// inherits.
func (c Course) Validate() error {
	errs := validation.Errors{}
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Chapters, validation.Min(0)),
		validation.Field(&c.Price, validation.Min(0.0)),
	); err != nil {
		if fe, ok := err.(validation.Errors); ok {
			for k, v := range fe {
				errs[k] = v
			}
		} else {
			return err
		}
	}
	if err := c.Tutorial.Validate(); err != nil {
		if fe, ok := err.(validation.Errors); ok {
			for k, v := range fe {
				errs[k] = v
			}
		} else {
			return err
		}
	}
	return errs.Filter()
}

// InvalidFields returns the json names of the fields rejected by err, or nil
// when err is not a field validation error.
func InvalidFields(err error) []string {
	fe, ok := err.(validation.Errors)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(fe))
	for k, v := range fe {
		if v != nil {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
