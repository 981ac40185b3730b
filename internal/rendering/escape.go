package rendering

import "strings"

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// EscapeLaTeX escapes the LaTeX special characters \ { } $ & % # ^ _ ~
func EscapeLaTeX(text string) string {
	return latexReplacer.Replace(text)
}

// urlReplacer escapes only what \url{} cannot take verbatim
var urlReplacer = strings.NewReplacer(
	`%`, `\%`,
	`#`, `\#`,
	`{`, `%7B`,
	`}`, `%7D`,
	`\`, `%5C`,
)

func escapeURL(u string) string {
	return urlReplacer.Replace(u)
}
