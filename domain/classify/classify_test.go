package classify

import "testing"

func TestClassify(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name        string
		text        string
		wantKey     string
		wantMatched bool
	}{
		{name: "data structures hits cs", text: "复习了数据结构链表", wantKey: "cs", wantMatched: true},
		{name: "english vocabulary", text: "背了200个单词", wantKey: "english", wantMatched: true},
		{name: "math workbook", text: "做了660第三章", wantKey: "math", wantMatched: true},
		{name: "politics", text: "看了肖秀荣精讲精练", wantKey: "politics", wantMatched: true},
		{name: "no keyword", text: "休息了一会儿", wantMatched: false},
		{name: "empty text", text: "", wantMatched: false},
		{name: "whitespace only", text: "   ", wantMatched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := c.Classify(tt.text)
			if ok != tt.wantMatched {
				t.Fatalf("matched = %v, want %v", ok, tt.wantMatched)
			}
			if ok && match.Subject.Key != tt.wantKey {
				t.Errorf("subject = %q, want %q", match.Subject.Key, tt.wantKey)
			}
		})
	}
}

func TestClassify_FirstSubjectWins(t *testing.T) {
	c := New(nil)

	// Mentions both english and math; english sits earlier on the board.
	match, ok := c.Classify("上午背单词，下午做数学题")
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Subject.Key != "english" {
		t.Errorf("subject = %q, want english", match.Subject.Key)
	}
}

func TestClassify_Confidence(t *testing.T) {
	c := New(nil)

	match, ok := c.Classify("英语长难句和语法练习")
	if !ok {
		t.Fatal("expected a match")
	}
	// Three of four english keywords present.
	if match.Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", match.Confidence)
	}
}

func TestSubjectByKey(t *testing.T) {
	c := New(nil)
	if _, ok := c.SubjectByKey("math"); !ok {
		t.Error("math should be on the default board")
	}
	if _, ok := c.SubjectByKey("biology"); ok {
		t.Error("biology should not be on the default board")
	}
}
