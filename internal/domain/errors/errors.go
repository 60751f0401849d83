package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalid              = errors.New("invalid")
	ErrContentNotFound      = errors.New("content not found")
	ErrMalformedFrontmatter = errors.New("malformed frontmatter")
	ErrMarkdownRender       = errors.New("markdown render failed")
)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Message: msg,
	})
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// NotFoundError reports a slug with no backing file in its category.
type NotFoundError struct {
	Category string
	Slug     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Category, e.Slug)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrContentNotFound
}

// MalformedFrontmatterError reports a metadata block that was opened but
// never closed, or that does not decode into a mapping.
type MalformedFrontmatterError struct {
	Path   string
	Reason string
	Cause  error
}

func (e MalformedFrontmatterError) Error() string {
	msg := "malformed frontmatter"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e MalformedFrontmatterError) Is(target error) bool {
	return target == ErrMalformedFrontmatter
}

func (e MalformedFrontmatterError) Unwrap() error {
	return e.Cause
}

type MarkdownRenderError struct {
	Cause error
}

func (e MarkdownRenderError) Error() string {
	if e.Cause == nil {
		return ErrMarkdownRender.Error()
	}
	return fmt.Sprintf("%s: %v", ErrMarkdownRender.Error(), e.Cause)
}

func (e MarkdownRenderError) Is(target error) bool {
	return target == ErrMarkdownRender
}

func (e MarkdownRenderError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is, or wraps, a missing content error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContentNotFound)
}
