package guard

import (
	"strings"
	"testing"
)

func TestCheck_EmptyInputIsSpam(t *testing.T) {
	g := New(500)
	v := g.Check("   ")
	if v.Result != BlockedSpam {
		t.Fatalf("expected blocked_spam, got %s", v.Result)
	}
	if v.Allowed {
		t.Fatalf("expected allowed=false")
	}
}

func TestCheck_OversizedInputIsSpamBeforeOtherRules(t *testing.T) {
	g := New(500)
	// Contains a greeting, but length wins: the oversize rule runs first.
	input := "สวัสดี " + strings.Repeat("ก", 600)
	v := g.Check(input)
	if v.Result != BlockedSpam {
		t.Fatalf("expected blocked_spam for oversized input, got %s", v.Result)
	}
	if got := len([]rune(v.SanitizedInput)); got != 500 {
		t.Errorf("expected sanitized input truncated to 500 runes, got %d", got)
	}
}

func TestCheck_RepeatedCharactersAreSpam(t *testing.T) {
	g := New(500)
	v := g.Check("aaaaaaaa")
	if v.Result != BlockedSpam {
		t.Fatalf("expected blocked_spam, got %s", v.Result)
	}
}

func TestCheck_LongDigitOnlyIsSpam(t *testing.T) {
	g := New(500)
	v := g.Check("123456789012345")
	if v.Result != BlockedSpam {
		t.Fatalf("expected blocked_spam, got %s", v.Result)
	}
}

func TestCheck_HighSpecialCharRatioIsSpam(t *testing.T) {
	g := New(500)
	v := g.Check("!@#$%^&*()!@#$%^ ok")
	if v.Result != BlockedSpam {
		t.Fatalf("expected blocked_spam, got %s", v.Result)
	}
}

func TestCheck_GreetingAlwaysAllowed(t *testing.T) {
	g := New(500)
	inputs := []string{
		"สวัสดีค่ะ",
		"hello",
		"ขอบคุณมากค่ะ",
		// Greeting outranks the medical keyword that follows it.
		"สวัสดีค่ะ อยากถามเรื่องวินิจฉัยโรค",
	}
	for _, in := range inputs {
		v := g.Check(in)
		if v.Result != Allowed || !v.Allowed {
			t.Errorf("expected %q allowed, got %s", in, v.Result)
		}
	}
}

func TestCheck_InappropriateBlocked(t *testing.T) {
	g := New(500)
	v := g.Check("หวยออกวันไหน")
	if v.Result != BlockedInappropriate {
		t.Fatalf("expected blocked_inappropriate, got %s", v.Result)
	}
}

func TestCheck_MedicalBlocked(t *testing.T) {
	g := New(500)
	v := g.Check("ช่วยวินิจฉัยโรคผิวหนังให้หน่อย")
	if v.Result != BlockedMedical {
		t.Fatalf("expected blocked_medical, got %s", v.Result)
	}
}

func TestCheck_OffTopicWithoutClinicKeywordBlocked(t *testing.T) {
	g := New(500)
	v := g.Check("แนะนำร้านอาหารแถวนี้หน่อย")
	if v.Result != BlockedOffTopic {
		t.Fatalf("expected blocked_off_topic, got %s", v.Result)
	}
}

func TestCheck_OffTopicWithClinicKeywordAllowed(t *testing.T) {
	g := New(500)
	// Mentions a hotel but also the clinic, so it stays allowed.
	v := g.Check("คลินิกอยู่ใกล้โรงแรมไหนคะ")
	if v.Result != Allowed {
		t.Fatalf("expected allowed, got %s", v.Result)
	}
}

func TestCheck_ClinicQuestionAllowed(t *testing.T) {
	g := New(500)
	v := g.Check("MTS PDRN ราคาเท่าไหร่คะ")
	if v.Result != Allowed {
		t.Fatalf("expected allowed, got %s", v.Result)
	}
	if v.SanitizedInput != "MTS PDRN ราคาเท่าไหร่คะ" {
		t.Errorf("unexpected sanitized input: %q", v.SanitizedInput)
	}
}

func TestCheck_IsPure(t *testing.T) {
	g := New(500)
	first := g.Check("จองคิวได้ไหมคะ")
	second := g.Check("จองคิวได้ไหมคะ")
	if first != second {
		t.Fatalf("verdict changed between identical calls: %+v vs %+v", first, second)
	}
}

func TestResponse_BlockedVerdictsHaveCannedText(t *testing.T) {
	g := New(500)
	for _, result := range []Result{BlockedMedical, BlockedOffTopic, BlockedInappropriate, BlockedSpam} {
		if g.Response(Verdict{Result: result}) == "" {
			t.Errorf("expected canned response for %s", result)
		}
	}
	if g.Response(Verdict{Result: Allowed}) != "" {
		t.Errorf("expected empty response for allowed verdict")
	}
}
