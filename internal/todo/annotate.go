package todo

import "regexp"

var githubURLPattern = regexp.MustCompile(`https?://github\.com/[^/\s]+/[^/\s]+/(?:pull|issues?)/(\d+)`)

// AnnotateURLs turns GitHub pull request and issue URLs into markdown links
// labelled with their number. URLs already inside a link target are kept.
func AnnotateURLs(text string) string {
	matches := githubURLPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	out := make([]byte, 0, len(text)+len(matches)*8)
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start >= 2 && text[start-2:start] == "](" {
			continue
		}
		out = append(out, text[last:start]...)
		out = append(out, '[')
		out = append(out, text[m[2]:m[3]]...)
		out = append(out, "]("...)
		out = append(out, text[start:end]...)
		out = append(out, ')')
		last = end
	}
	out = append(out, text[last:]...)
	return string(out)
}
