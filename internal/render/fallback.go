package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	fbFence  = regexp.MustCompile("(?s)```([\\w+#.-]*)[ \\t]*\\n(.*?)\\n?```")
	fbStrong = regexp.MustCompile(`\*\*(.+?)\*\*`)
	fbEm     = regexp.MustCompile(`\*([^*\n]+?)\*`)
)

// Fallback is the minimal substitution pass used when the markdown engine
// fails: fenced code blocks, **strong**, *em* and line breaks. Code block
// bodies are escaped; everything else passes through as the engine would
// pass raw HTML.
func Fallback(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")

	var blocks []string
	src = fbFence.ReplaceAllStringFunc(src, func(m string) string {
		parts := fbFence.FindStringSubmatch(m)
		lang, body := parts[1], parts[2]
		class := ""
		if lang != "" {
			class = fmt.Sprintf(` class="language-%s"`, html.EscapeString(lang))
		}
		blocks = append(blocks, fmt.Sprintf("<pre><code%s>%s</code></pre>", class, html.EscapeString(body)))
		return fmt.Sprintf("\x00%d\x00", len(blocks)-1)
	})

	src = fbStrong.ReplaceAllString(src, "<strong>$1</strong>")
	src = fbEm.ReplaceAllString(src, "<em>$1</em>")
	src = strings.ReplaceAll(src, "\n", "<br/>")

	for i, b := range blocks {
		src = strings.Replace(src, fmt.Sprintf("\x00%d\x00", i), b, 1)
	}
	return src
}
