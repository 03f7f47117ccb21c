package guard

import (
	"regexp"
	"strings"
)

// Result classifies an inbound message before it reaches the model.
type Result string

const (
	Allowed              Result = "allowed"
	BlockedOffTopic      Result = "blocked_off_topic"
	BlockedMedical       Result = "blocked_medical"
	BlockedInappropriate Result = "blocked_inappropriate"
	BlockedSpam          Result = "blocked_spam"
)

// Verdict is a pure function of the input text; nothing is persisted.
type Verdict struct {
	Result         Result `json:"result"`
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason"`
	SanitizedInput string `json:"sanitized_input"`
}

var medicalPatterns = compileAll([]string{
	`วินิจฉัย`, `โรค`, `อาการ.*อะไร`, `เป็น.*โรค`,
	`ตรวจเลือด`, `ตรวจหา`, `มะเร็ง`, `เนื้องอก`,
	`รักษา.*โรค`, `ยา.*อะไร`, `แพ้ยา`, `ผื่น.*แพ้`,
	`diagnose`, `disease`, `symptom`, `cancer`,
})

var offTopicPatterns = compileAll([]string{
	`อาหาร`, `ร้านอาหาร`, `กิน.*อะไร`, `เที่ยว`,
	`ท่องเที่ยว`, `โรงแรม`, `ที่พัก`, `เช่ารถ`,
	`ตั๋วเครื่องบิน`, `สนามบิน`, `รถไฟ`, `รถเมล์`,
	`ช้อปปิ้ง`, `ซื้อ.*เสื้อผ้า`, `ร้านค้า`, `ห้างสรรพสินค้า`,
	`ธนาคาร`, `ตู้.*เอทีเอ็ม`, `แลกเงิน`, `อัตราแลกเปลี่ยน`,
	`อากาศ.*วันนี้`, `พยากรณ์อากาศ`, `ฝนตก`,
	`คอมพิวเตอร์`, `มือถือ`, `ซ่อม.*คอม`, `แอพ`,
	`football`, `soccer`, `basketball`, `sport`,
	`restaurant`, `hotel`, `flight`, `weather`,
	`bank`, `atm`, `shopping`,
})

var inappropriatePatterns = compileAll([]string{
	`สถิติผล.*บอล`, `ราคาหวย`, `หวยออก`, `ล็อตเตอรี่`,
	`พนัน`, `บาคารา`, `คาสิโน`, `สล็อต`,
	`xxx`, `porn`, `sex`, `เซ็กส์`,
	`ยาเสพติด`, `กัญชา`, `ไอซ์`,
	`ฆ่า`, `ตาย`, `ฆาตกรรม`, `ฆ่าตัวตาย`,
})

// Plain-substring keyword sets; matched against the lowercased input.
var clinicKeywords = []string{
	"seoulholic", "คลินิก", "clinic", "ราคา", "price",
	"บริการ", "service", "ทำ", "ฉีด", "เลเซอร์",
	"ผิว", "skin", "หน้า", "face", "ปาก", "lip",
	"mts", "pdrn", "filler", "meso", "botox",
	"ฝ้า", "กระ", "สิว", "รอยดำ", "ริ้วรอย",
	"โปรโมชั่น", "promotion", "ส่วนลด", "discount",
	"จอง", "book", "นัด", "appointment", "เบอร์", "phone",
	"ที่อยู่", "address", "เปิด", "open", "เวลา", "time",
	"ไลน์", "line", "ติดต่อ", "contact",
}

var greetingKeywords = []string{
	"สวัสดี", "หวัดดี", "ดีครับ", "ดีค่ะ",
	"ขอบคุณ", "ขอบใจ", "thank", "hi", "hello",
	"สวัสดีตอนเช้า", "สวัสดีตอนบ่าย", "ราตรีสวัสดิ์",
}

var (
	specialCharRE = regexp.MustCompile(`[^a-zA-Zก-๙0-9\s]`)
	digitsOnlyRE  = regexp.MustCompile(`^\d{10,}$`)
)

type Guard struct {
	maxInputLen int
}

func New(maxInputLen int) *Guard {
	if maxInputLen <= 0 {
		maxInputLen = 500
	}
	return &Guard{maxInputLen: maxInputLen}
}

// Check classifies the input. Rules run in fixed priority order and the
// first match wins: empty/oversized/spam patterns, then greetings (always
// allowed), inappropriate, medical, off-topic without a clinic keyword.
func (g *Guard) Check(input string) Verdict {
	sanitized := strings.TrimSpace(input)
	if sanitized == "" {
		return Verdict{
			Result:         BlockedSpam,
			Reason:         "ข้อความว่างเปล่า",
			SanitizedInput: "",
		}
	}

	if runes := []rune(sanitized); len(runes) > g.maxInputLen {
		return Verdict{
			Result:         BlockedSpam,
			Reason:         "ข้อความยาวเกินไป",
			SanitizedInput: string(runes[:g.maxInputLen]),
		}
	}

	if isSpamPattern(sanitized) {
		return Verdict{
			Result:         BlockedSpam,
			Reason:         "ตรวจพบรูปแบบ spam",
			SanitizedInput: sanitized,
		}
	}

	lower := strings.ToLower(sanitized)

	if containsAny(lower, greetingKeywords) {
		return Verdict{
			Result:         Allowed,
			Allowed:        true,
			Reason:         "ทักทาย/สุภาพ",
			SanitizedInput: sanitized,
		}
	}

	if matchesAny(lower, inappropriatePatterns) {
		return Verdict{
			Result:         BlockedInappropriate,
			Reason:         "เนื้อหาไม่เหมาะสม",
			SanitizedInput: sanitized,
		}
	}

	if matchesAny(lower, medicalPatterns) {
		return Verdict{
			Result:         BlockedMedical,
			Reason:         "คำถามทางการแพทย์ - ต้องปรึกษาแพทย์",
			SanitizedInput: sanitized,
		}
	}

	if matchesAny(lower, offTopicPatterns) && !containsAny(lower, clinicKeywords) {
		return Verdict{
			Result:         BlockedOffTopic,
			Reason:         "คำถามไม่เกี่ยวกับคลินิก",
			SanitizedInput: sanitized,
		}
	}

	return Verdict{
		Result:         Allowed,
		Allowed:        true,
		Reason:         "ผ่านการตรวจสอบ",
		SanitizedInput: sanitized,
	}
}

// Response returns the canned reply for a blocked verdict, empty otherwise.
func (g *Guard) Response(v Verdict) string {
	switch v.Result {
	case BlockedMedical:
		return "คำถามของคุณเป็นเรื่องทางการแพทย์ที่ต้องให้แพทย์ตอบโดยตรงค่ะ\n\n" +
			"ฉันเป็น AI Assistant ที่ให้ข้อมูลเกี่ยวกับบริการ ราคา และโปรโมชั่นของคลินิกเท่านั้น\n\n" +
			"📞 กรุณาติดต่อคลินิก Seoulholic:\n" +
			"• Line: @seoulholicclinic\n" +
			"• Tel: 099-989-2893\n\n" +
			"แพทย์จะประเมินอาการและให้คำแนะนำที่เหมาะสมกับคุณค่ะ 💚"
	case BlockedOffTopic:
		return "ขอโทษค่ะ ฉันเป็น AI Assistant ของคลินิก Seoulholic\n\n" +
			"ฉันสามารถช่วยเรื่อง:\n" +
			"• ข้อมูลบริการดูแลผิวหน้า (MTS PDRN, Filler, Meso ฯลฯ)\n" +
			"• ราคาและโปรโมชั่น\n" +
			"• การจองนัด\n" +
			"• ที่อยู่และเวลาเปิดทำการ\n\n" +
			"มีอะไรให้ช่วยเรื่องคลินิกไหมคะ? 😊"
	case BlockedInappropriate:
		return "ขอโทษค่ะ ฉันไม่สามารถตอบคำถามนี้ได้\n\nกรุณาถามเกี่ยวกับบริการของคลินิกเท่านั้นค่ะ"
	case BlockedSpam:
		return "ขอโทษค่ะ ตรวจพบข้อความที่ไม่ถูกต้อง\n\nกรุณาพิมพ์คำถามที่ชัดเจนเกี่ยวกับบริการคลินิกค่ะ"
	default:
		return ""
	}
}

func isSpamPattern(text string) bool {
	if hasRepeatedRun(text, 6) {
		return true
	}
	runes := []rune(text)
	special := len(specialCharRE.FindAllString(text, -1))
	if len(runes) > 0 && float64(special)/float64(len(runes)) > 0.5 {
		return true
	}
	return digitsOnlyRE.MatchString(text)
}

// hasRepeatedRun reports whether any rune repeats n or more times in a row.
// Go's RE2 has no backreferences, so this replaces the usual `(.)\1{5,}`.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func matchesAny(lower string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+p))
	}
	return compiled
}
