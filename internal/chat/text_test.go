package chat

import "testing"

func TestClipRunes(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hell…"},
		{"编年史守护者", 3, "编年史…"},
		{"anything", 0, ""},
	}
	for _, tc := range cases {
		if got := clipRunes(tc.in, tc.max); got != tc.want {
			t.Errorf("clipRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestClipRunesHard(t *testing.T) {
	if got := clipRunesHard("编年史守护者", 3); got != "编年史" {
		t.Errorf("got %q", got)
	}
	if got := clipRunesHard("ok", 5); got != "ok" {
		t.Errorf("got %q", got)
	}
}

func TestClipField(t *testing.T) {
	if got := clipField("  多行\n\n文本\t压缩  ", 100); got != "多行 文本 压缩" {
		t.Errorf("got %q", got)
	}
	if got := clipField("", 100); got != "" {
		t.Errorf("empty input must stay empty, got %q", got)
	}
}
