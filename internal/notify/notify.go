package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const notifyAPIURL = "https://notify-api.line.me/api/notify"

// Intent classifies why a customer message warrants alerting staff.
type Intent string

const (
	IntentBooking      Intent = "booking"
	IntentConsultation Intent = "consultation"
	IntentInterested   Intent = "interested"
	IntentInquiry      Intent = "inquiry"
	IntentNone         Intent = ""
)

var bookingKeywords = []string{
	"จองคิว", "จอง", "นัด", "นัดหมาย", "book", "booking",
	"อยากมา", "ไปคลินิก", "มาคลินิก", "เข้ารับ",
}

var consultationKeywords = []string{
	"ปรึกษา", "ปรึกษาหมอ", "คุยกับหมอ", "พูดกับหมอ",
	"ต้องการคำแนะนำ", "แนะนำ", "consult",
}

var interestKeywords = []string{
	"สนใจจริงๆ", "สนใจมาก", "อยากทำจริง", "ตัดสินใจแล้ว",
	"เอาแน่นอน", "ทำเลย", "เริ่มเมื่อไหร่", "ทำได้เลย",
}

var inquiryKeywords = []string{
	"ราคาแน่นอน", "ต้องเตรียมตัวอย่างไร", "มีผลข้างเคียงไหม",
	"กี่ครั้ง", "นานแค่ไหน", "ระยะเวลา", "ติดต่อกลับ",
	"โทรกลับ", "เบอร์", "ไลน์", "line",
}

// DetectIntent scans a customer message for signals that staff should follow
// up. Booking wins over consultation, which wins over interest, which wins
// over general inquiry.
func DetectIntent(message string) Intent {
	lowered := strings.ToLower(message)

	for _, kw := range bookingKeywords {
		if strings.Contains(lowered, kw) {
			return IntentBooking
		}
	}
	for _, kw := range consultationKeywords {
		if strings.Contains(lowered, kw) {
			return IntentConsultation
		}
	}
	for _, kw := range interestKeywords {
		if strings.Contains(lowered, kw) {
			return IntentInterested
		}
	}
	for _, kw := range inquiryKeywords {
		if strings.Contains(lowered, kw) {
			return IntentInquiry
		}
	}
	return IntentNone
}

var intentEmoji = map[Intent]string{
	IntentBooking:      "📅",
	IntentConsultation: "💬",
	IntentInquiry:      "❓",
	IntentInterested:   "⭐",
}

var intentText = map[Intent]string{
	IntentBooking:      "ต้องการจองคิว",
	IntentConsultation: "ต้องการปรึกษาแพทย์",
	IntentInquiry:      "สอบถามรายละเอียด",
	IntentInterested:   "แสดงความสนใจ",
}

// LineNotifier alerts clinic staff through LINE Notify. With an empty token
// every call is a silent no-op, so the chat pipeline never depends on it.
type LineNotifier struct {
	httpClient *http.Client
	token      string
	apiURL     string
	now        func() time.Time
}

func NewLineNotifier(token string) *LineNotifier {
	return &LineNotifier{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		token:  token,
		apiURL: notifyAPIURL,
		now:    time.Now,
	}
}

func (n *LineNotifier) Configured() bool {
	return n.token != ""
}

// NotifyCustomerInterest pushes a staff alert describing the customer
// message, the detected intent, and a preview of the bot's answer.
func (n *LineNotifier) NotifyCustomerInterest(ctx context.Context, customerMessage, botResponse string, intent Intent) error {
	if !n.Configured() {
		return nil
	}

	emoji := intentEmoji[intent]
	if emoji == "" {
		emoji = "🔔"
	}
	text := intentText[intent]
	if text == "" {
		text = "มีข้อความใหม่"
	}

	preview := botResponse
	if len([]rune(preview)) > 200 {
		preview = string([]rune(preview)[:200]) + "..."
	}

	message := fmt.Sprintf(`
%s 【แจ้งเตือนลูกค้า%s】

⏰ เวลา: %s

💬 ข้อความลูกค้า:
%s

🤖 บอทตอบ:
%s

━━━━━━━━━━━━━━━━━━
📞 กรุณาติดต่อลูกค้ากลับเร็วๆ นี้
`, emoji, text, n.now().Format("02/01/2006 15:04:05"), customerMessage, preview)

	return n.send(ctx, message)
}

func (n *LineNotifier) send(ctx context.Context, message string) error {
	form := url.Values{}
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build notify request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("line notify returned status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
