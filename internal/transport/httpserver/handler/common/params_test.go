package common

import (
	"testing"
	"time"
)

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		"  plain  ":                             "plain",
		"<b>bold</b> move":                      "bold move",
		"Milk & eggs":                           "Milk & eggs",
		"<script>alert(1)</script>ok":           "ok",
		`<a href="javascript:x">a</a>`:          "a",
		"&lt;script&gt;alert(1)&lt;/script&gt;": "",
		"&lt;b&gt;bold&lt;/b&gt; move":          "bold move",
		"&amp;lt;b&amp;gt;x&amp;lt;/b&amp;gt;":  "x",
		"<<b>b>hi<</b>/b>":                      "hi",
		"a < b":                                 "a < b",
	}

	for input, want := range tests {
		if got := CleanText(input); got != want {
			t.Fatalf("CleanText(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseDeadline(t *testing.T) {
	got, err := ParseDeadline("2025-03-05")
	if err != nil || !got.Equal(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("plain date: got %v err %v", got, err)
	}

	got, err = ParseDeadline("2025-03-05T10:00:00-03:00")
	if err != nil || !got.Equal(time.Date(2025, 3, 5, 13, 0, 0, 0, time.UTC)) {
		t.Fatalf("rfc3339: got %v err %v", got, err)
	}

	if _, err := ParseDeadline("05/03/2025"); err == nil {
		t.Fatalf("expected display format to be rejected")
	}
	if _, err := ParseDeadline(" "); err == nil {
		t.Fatalf("expected empty deadline to be rejected")
	}
}
