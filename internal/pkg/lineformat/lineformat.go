// Package lineformat converts model output into plain text suitable for
// LINE, which renders no markdown at all.
package lineformat

import (
	"regexp"
	"strings"
)

var (
	boldRE        = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderRE   = regexp.MustCompile(`__(.+?)__`)
	italicRE      = regexp.MustCompile(`\*(.+?)\*`)
	italicUnderRE = regexp.MustCompile(`_(.+?)_`)
	h3RE          = regexp.MustCompile(`(?m)^###\s+(.+)$`)
	h2RE          = regexp.MustCompile(`(?m)^##\s+(.+)$`)
	h1RE          = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	linkRE        = regexp.MustCompile(`\[([^\]]+)\]\(([^\)]+)\)`)
	dashBulletRE  = regexp.MustCompile(`(?m)^-\s+`)
	starBulletRE  = regexp.MustCompile(`(?m)^\*\s+`)
	codeBlockRE   = regexp.MustCompile(`(?s)` + "```" + `\w*\n?(.+?)` + "```")
	inlineCodeRE  = regexp.MustCompile("`(.+?)`")
	hrRE          = regexp.MustCompile(`(?m)^(-{3,}|\*{3,})$`)
	blankRunsRE   = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes emphasis, headings, links, lists, code markers and
// rules, leaving readable plain text. The transformation is idempotent:
// applying it twice yields the same result as once.
func StripMarkdown(text string) string {
	text = boldRE.ReplaceAllString(text, "$1")
	text = boldUnderRE.ReplaceAllString(text, "$1")
	text = italicRE.ReplaceAllString(text, "$1")
	text = italicUnderRE.ReplaceAllString(text, "$1")

	text = h3RE.ReplaceAllString(text, "▪️ $1")
	text = h2RE.ReplaceAllString(text, "◾️ $1")
	text = h1RE.ReplaceAllString(text, "$1")

	text = linkRE.ReplaceAllString(text, "$1\n👉 $2")

	text = dashBulletRE.ReplaceAllString(text, "• ")
	text = starBulletRE.ReplaceAllString(text, "• ")

	text = codeBlockRE.ReplaceAllString(text, "$1")
	text = inlineCodeRE.ReplaceAllString(text, "$1")

	text = hrRE.ReplaceAllString(text, "")
	text = blankRunsRE.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

var imageRequestKeywords = []string{"ส่งรูป", "ขอรูป", "ขอดูรูป", "แนบรูป", "ช่วยส่งรูป"}

// RemoveImageRequests drops sentences where the model asks the customer to
// send a photo; the text pipeline cannot analyze images.
func RemoveImageRequests(text string) string {
	lines := strings.Split(text, "\n")
	filtered := lines[:0]
	for _, line := range lines {
		lower := strings.ToLower(line)
		keep := true
		for _, kw := range imageRequestKeywords {
			if strings.Contains(lower, kw) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, line)
		}
	}
	result := strings.Join(filtered, "\n")
	result = blankRunsRE.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

const truncateNotice = "\n\n... (ข้อความยาวเกินไป กรุณาสอบถามเฉพาะเจาะจงมากขึ้นค่ะ)"

// Truncate caps the reply at limit runes, appending a notice when cut.
// LINE rejects messages beyond 5000 characters; callers pass a limit with
// headroom for the notice.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + truncateNotice
}
