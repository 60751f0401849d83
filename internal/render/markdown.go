package render

import (
	"bytes"
	"chainpress/internal/domain/build"
	"chainpress/internal/domain/config"
	"chainpress/internal/domain/content"
	domainerr "chainpress/internal/domain/errors"
	"chainpress/internal/logging"
	"fmt"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// engineDescriptor names the goldmark configuration below. Change it when
// the extensions or options change so cached HTML is invalidated.
const engineDescriptor = "goldmark/gfm+linkify+strikethrough+table/unsafe/auto-heading-id/v1"

type MarkdownRenderer struct {
	md     goldmark.Markdown
	mode   config.RenderMode
	logger logging.Logger

	// render is swapped in tests to simulate engine failures
	render func(src []byte) (MarkdownResult, error)
}

type Option func(*MarkdownRenderer)

func WithLogger(l logging.Logger) Option {
	return func(r *MarkdownRenderer) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewMarkdownRenderer(mode config.RenderMode, opts ...Option) *MarkdownRenderer {
	if mode == "" {
		mode = config.RenderTolerant
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// raw HTML passes through; the caller owns the trust boundary
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	r := &MarkdownRenderer{md: md, mode: mode, logger: logging.NoOp()}
	r.render = r.renderGoldmark
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type MarkdownResult struct {
	HTML     []byte
	Headings []content.Heading
	// Degraded is set when the fallback pass produced HTML.
	Degraded bool
}

// Mode reports whether engine errors fall back or fail the render.
func (r *MarkdownRenderer) Mode() config.RenderMode {
	return r.mode
}

// Fingerprint identifies the renderer configuration.
func (r *MarkdownRenderer) Fingerprint() string {
	return build.HashBytes([]byte(engineDescriptor))
}

// Render converts markdown to HTML. In strict mode an engine failure is
// returned as a MarkdownRenderError; in tolerant mode the fallback pass
// supplies degraded HTML instead.
func (r *MarkdownRenderer) Render(src []byte) (MarkdownResult, error) {
	res, err := r.safeRender(src)
	if err == nil {
		return res, nil
	}
	if r.mode == config.RenderStrict {
		return MarkdownResult{}, domainerr.MarkdownRenderError{Cause: err}
	}
	r.logger.Warn("markdown render failed, using fallback", "error", err)
	return MarkdownResult{HTML: []byte(Fallback(string(src))), Degraded: true}, nil
}

// RenderString is the standalone markdown to HTML entry point.
func (r *MarkdownRenderer) RenderString(src string) (string, error) {
	res, err := r.Render([]byte(src))
	if err != nil {
		return "", err
	}
	return string(res.HTML), nil
}

func (r *MarkdownRenderer) safeRender(src []byte) (res MarkdownResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = MarkdownResult{}
			err = fmt.Errorf("renderer panic: %v", p)
		}
	}()
	return r.render(src)
}

func (r *MarkdownRenderer) renderGoldmark(src []byte) (MarkdownResult, error) {
	var buf bytes.Buffer

	ctx := parser.NewContext()
	reader := text.NewReader(src)
	doc := r.md.Parser().Parse(reader, parser.WithContext(ctx))

	var heads []content.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var idStr string
			if id, ok := h.AttributeString("id"); ok {
				switch v := id.(type) {
				case string:
					idStr = v
				case []byte:
					idStr = string(v)
				}
			}
			heads = append(heads, content.Heading{
				Level: h.Level,
				ID:    idStr,
				Text:  headingText(h, src),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return MarkdownResult{}, err
	}
	return MarkdownResult{
		HTML:     buf.Bytes(),
		Headings: heads,
	}, nil
}

// headingText concatenates the text segments below n, including those
// nested in emphasis or links.
func headingText(n ast.Node, src []byte) string {
	var b bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.CodeSpan:
			for cc := t.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if seg, ok := cc.(*ast.Text); ok {
					b.Write(seg.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
