package lineformat

import (
	"strings"
	"testing"
)

func TestStripMarkdown_RemovesEmphasis(t *testing.T) {
	in := "โปร **Sculptra** ราคา *พิเศษ* และ __จำกัด__ เวลา"
	out := StripMarkdown(in)
	if strings.ContainsAny(out, "*_") {
		t.Fatalf("emphasis markers remain: %q", out)
	}
	if !strings.Contains(out, "Sculptra") || !strings.Contains(out, "พิเศษ") {
		t.Errorf("content lost: %q", out)
	}
}

func TestStripMarkdown_ConvertsHeadingsAndLists(t *testing.T) {
	in := "## บริการ\n- Filler\n- Botox\n### ราคา"
	out := StripMarkdown(in)
	if strings.Contains(out, "#") {
		t.Fatalf("heading marker remains: %q", out)
	}
	if !strings.Contains(out, "• Filler") {
		t.Errorf("expected bullet conversion: %q", out)
	}
}

func TestStripMarkdown_RewritesLinks(t *testing.T) {
	in := "ดูโปรที่ [Facebook](https://www.facebook.com/SeoulholicClinic)"
	out := StripMarkdown(in)
	if strings.Contains(out, "](") {
		t.Fatalf("markdown link remains: %q", out)
	}
	if !strings.Contains(out, "https://www.facebook.com/SeoulholicClinic") {
		t.Errorf("url lost: %q", out)
	}
}

func TestStripMarkdown_RemovesCodeAndRules(t *testing.T) {
	in := "ราคา `3500` บาท\n```\nรายละเอียด\n```\n---\nจบ"
	out := StripMarkdown(in)
	if strings.Contains(out, "`") || strings.Contains(out, "---") {
		t.Fatalf("code or rule markers remain: %q", out)
	}
	if !strings.Contains(out, "รายละเอียด") {
		t.Errorf("code block content lost: %q", out)
	}
}

func TestStripMarkdown_Idempotent(t *testing.T) {
	inputs := []string{
		"# หัวข้อ\n**ตัวหนา** และ *เอียง*\n- รายการ\n[ลิงก์](https://example.com)\n```\ncode\n```\n---",
		"ข้อความธรรมดาไม่มี markdown เลยค่ะ",
		"***",
		"",
	}
	for _, in := range inputs {
		once := StripMarkdown(in)
		twice := StripMarkdown(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestRemoveImageRequests_DropsRequestLines(t *testing.T) {
	in := "ยินดีให้คำปรึกษาค่ะ\nช่วยส่งรูปผิวหน้ามาให้หน่อยได้ไหมคะ\nหรือสอบถามราคาได้เลยค่ะ"
	out := RemoveImageRequests(in)
	if strings.Contains(out, "ส่งรูป") {
		t.Fatalf("image request remains: %q", out)
	}
	if !strings.Contains(out, "ยินดีให้คำปรึกษาค่ะ") || !strings.Contains(out, "สอบถามราคา") {
		t.Errorf("unrelated lines lost: %q", out)
	}
}

func TestTruncate_CapsLongRepliesWithNotice(t *testing.T) {
	long := strings.Repeat("ก", 5000)
	out := Truncate(long, 4500)
	if !strings.Contains(out, "ข้อความยาวเกินไป") {
		t.Fatalf("expected truncation notice")
	}
	if len([]rune(out)) >= 5000 {
		t.Errorf("truncated text still too long: %d runes", len([]rune(out)))
	}

	short := "สั้นๆ"
	if Truncate(short, 4500) != short {
		t.Errorf("short text must pass through unchanged")
	}
}
