package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"strong", "a **b** c", "a <strong>b</strong> c"},
		{"em", "a *b* c", "a <em>b</em> c"},
		{"breaks", "one\r\ntwo\nthree", "one<br/>two<br/>three"},
		{
			"code block",
			"before\n```sol\nuint x = 1 < 2;\n**not bold**\n```\nafter",
			"before<br/><pre><code class=\"language-sol\">uint x = 1 &lt; 2;\n**not bold**</code></pre><br/>after",
		},
		{"code no lang", "```\nx\n```", "<pre><code>x</code></pre>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fallback(tt.in))
		})
	}
}
