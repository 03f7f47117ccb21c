package app

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// imageRule maps a topic pattern to a promotional image. An optional
// exclude phrase suppresses the match (Go's regexp has no negative
// lookahead, so "คาง but not คางมัน" is expressed as match + exclude).
type imageRule struct {
	pattern *regexp.Regexp
	exclude string
	image   string
}

var imageRules = []imageRule{
	{pattern: regexp.MustCompile(`sculptra|หน้าเด็ก|biostimulator`), image: "Child.png"},
	{pattern: regexp.MustCompile(`ฝ้า|กระ|จุดด่างดำ|exion|clear`), image: "DarkSpots.png"},
	{pattern: regexp.MustCompile(`ฟิลเลอร์|filler|เสริมหน้า|คาง`), exclude: "คางมัน", image: "Filler.png"},
	{pattern: regexp.MustCompile(`ปาก|ริมฝีปาก|lip`), image: "LipFull.png"},
	{pattern: regexp.MustCompile(`mounjaro|ปากกา|ลดน้ำหนัก`), image: "Pen.png"},
	{pattern: regexp.MustCompile(`หลุมสิว|รีเซ็ตผิว|signature`), image: "SkinReset.png"},
	{pattern: regexp.MustCompile(`ดื้อสบู่|รูขุมขน|คอเหี่ยว`), image: "Imfomation1.png"},
	{pattern: regexp.MustCompile(`โบท็อกซ์|botox|โบก|กราม|รอบหน้า`), image: "Information2.png"},
}

// ImageForTopic returns the promotional image file name matching the
// customer's message, or "" when no topic matches.
func ImageForTopic(userText string) string {
	lowered := strings.ToLower(userText)
	for _, rule := range imageRules {
		if !rule.pattern.MatchString(lowered) {
			continue
		}
		if rule.exclude != "" && strings.Contains(lowered, rule.exclude) {
			// The exclude phrase may coexist with a real keyword match,
			// so only skip when removing it kills the match.
			stripped := strings.ReplaceAll(lowered, rule.exclude, "")
			if !rule.pattern.MatchString(stripped) {
				continue
			}
		}
		return rule.image
	}
	return ""
}

// ImageResolver turns image file names into public HTTPS URLs that LINE can
// fetch. Without an HTTPS base URL images are silently dropped.
type ImageResolver struct {
	imageDir string
	baseURL  string
}

func NewImageResolver(imageDir, baseURL string) *ImageResolver {
	return &ImageResolver{
		imageDir: imageDir,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (r *ImageResolver) PublicURL(imageName string) string {
	if imageName == "" {
		return ""
	}
	if !strings.HasPrefix(r.baseURL, "https://") {
		return ""
	}
	if r.imageDir != "" {
		if _, err := os.Stat(filepath.Join(r.imageDir, imageName)); err != nil {
			return ""
		}
	}
	return fmt.Sprintf("%s/images/%s", r.baseURL, imageName)
}
