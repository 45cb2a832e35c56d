package richtext

import (
	"testing"

	"github.com/g-Off/RichText/geom"
)

func TestBuildInterleavesPlaceholders(t *testing.T) {
	first := NewAttachment("badge-1", geom.Sz(3, 1))
	second := NewAttachment("badge-2", geom.Sz(5, 2))

	content := Content{
		PlainText("see "),
		Widget(first),
		PlainText(" and "),
		Widget(second),
		PlainText("."),
	}

	buf := Build(content, DefaultEnvironment())

	want := "see " + string(Placeholder) + " and " + string(Placeholder) + "."
	if got := buf.String(); got != want {
		t.Errorf("buffer text = %q, want %q", got, want)
	}
	if got := buf.PlaceholderCount(); got != 2 {
		t.Errorf("PlaceholderCount = %d, want 2", got)
	}

	slots := buf.Slots()
	if slots[0].Pos != 4 || slots[1].Pos != 10 {
		t.Errorf("slot positions = %d, %d, want 4, 10", slots[0].Pos, slots[1].Pos)
	}
	if slots[0].Ref.Identity() != "badge-1" || slots[1].Ref.Identity() != "badge-2" {
		t.Errorf("slot order = %s, %s, want badge-1, badge-2",
			slots[0].Ref.Identity(), slots[1].Ref.Identity())
	}
}

func TestBuildEmptyContent(t *testing.T) {
	buf := Build(nil, DefaultEnvironment())

	if buf.Len() != 0 {
		t.Errorf("Len = %d, want 0", buf.Len())
	}
	if buf.PlaceholderCount() != 0 {
		t.Errorf("PlaceholderCount = %d, want 0", buf.PlaceholderCount())
	}
	if !buf.EntireRange().IsEmpty() {
		t.Errorf("EntireRange = %v, want empty", buf.EntireRange())
	}
}

func TestBuildCoalescesEqualRuns(t *testing.T) {
	content := Content{
		PlainText("abc"),
		PlainText("def"),
		StyledText(Plain("ghi")),
	}

	buf := Build(content, DefaultEnvironment())

	runs := buf.Runs()
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1 coalesced run: %+v", len(runs), runs)
	}
	if runs[0].Start != 0 || runs[0].End != 9 {
		t.Errorf("run extent = [%d, %d), want [0, 9)", runs[0].Start, runs[0].End)
	}
}

func TestBuildSplitsDifferingRuns(t *testing.T) {
	content := Content{
		PlainText("ab"),
		StyledText(Attributed("cd", Attributes{Foreground: Red})),
		PlainText("ef"),
	}

	buf := Build(content, DefaultEnvironment())

	runs := buf.Runs()
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3: %+v", len(runs), runs)
	}

	// Runs must tile the buffer with no gaps.
	pos := 0
	for i, r := range runs {
		if r.Start != pos {
			t.Errorf("run %d starts at %d, want %d", i, r.Start, pos)
		}
		pos = r.End
	}
	if pos != buf.Len() {
		t.Errorf("runs end at %d, want %d", pos, buf.Len())
	}

	if !runs[1].Style.Foreground.Equals(Red) {
		t.Errorf("middle run foreground = %v, want %v", runs[1].Style.Foreground, Red)
	}
}

func TestBuildFillsEnvironmentDefaults(t *testing.T) {
	env := DefaultEnvironment()
	env.Foreground = Gray

	content := Content{
		StyledText(Text{
			{Text: "plain"},
			{Text: "red", Attrs: Attributes{Foreground: Red}},
		}),
	}

	buf := Build(content, env)

	if got := buf.StyleAt(0).Foreground; !got.Equals(Gray) {
		t.Errorf("unset span foreground = %v, want environment %v", got, Gray)
	}
	if got := buf.StyleAt(5).Foreground; !got.Equals(Red) {
		t.Errorf("explicit span foreground = %v, want %v", got, Red)
	}
	if got := buf.StyleAt(0).Font; !got.Equals(env.Font) {
		t.Errorf("unset span font = %+v, want environment %+v", got, env.Font)
	}
}

func TestStyleAtOutsideBuffer(t *testing.T) {
	buf := Build(Content{PlainText("ab")}, DefaultEnvironment())

	def := resolveStyle(Attributes{}, buf.Environment())
	if got := buf.StyleAt(-1); !got.Equals(def) {
		t.Errorf("StyleAt(-1) = %+v, want environment default", got)
	}
	if got := buf.StyleAt(99); !got.Equals(def) {
		t.Errorf("StyleAt(99) = %+v, want environment default", got)
	}
}

func TestRunsInClipsToRange(t *testing.T) {
	content := Content{
		StyledText(Attributed("aaaa", Attributes{Foreground: Red})),
		StyledText(Attributed("bbbb", Attributes{Foreground: Blue})),
	}
	buf := Build(content, DefaultEnvironment())

	var got []Range
	buf.RunsIn(NewRange(2, 6), func(r Range, _ Style) bool {
		got = append(got, r)
		return true
	})

	if len(got) != 2 {
		t.Fatalf("got %d clipped runs, want 2: %v", len(got), got)
	}
	if got[0] != (Range{Start: 2, End: 4}) {
		t.Errorf("first clipped run = %v, want [2, 4)", got[0])
	}
	if got[1] != (Range{Start: 4, End: 6}) {
		t.Errorf("second clipped run = %v, want [4, 6)", got[1])
	}
}

func TestRunsInStopsEarly(t *testing.T) {
	content := Content{
		StyledText(Attributed("aa", Attributes{Foreground: Red})),
		StyledText(Attributed("bb", Attributes{Foreground: Blue})),
		StyledText(Attributed("cc", Attributes{Foreground: Green})),
	}
	buf := Build(content, DefaultEnvironment())

	calls := 0
	buf.RunsIn(buf.EntireRange(), func(Range, Style) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("callback ran %d times after returning false, want 1", calls)
	}
}

func TestSlotAt(t *testing.T) {
	ref := NewAttachment("spin", geom.Sz(1, 1))
	buf := Build(Content{PlainText("x"), Widget(ref), PlainText("y")}, DefaultEnvironment())

	got, ok := buf.SlotAt(1)
	if !ok {
		t.Fatal("SlotAt(1) found nothing")
	}
	if got.Identity() != "spin" {
		t.Errorf("SlotAt(1) = %s, want spin", got.Identity())
	}

	if _, ok := buf.SlotAt(0); ok {
		t.Error("SlotAt(0) found a slot on a text position")
	}
}

func TestSlotRange(t *testing.T) {
	ref := NewAttachment("bar", geom.Sz(8, 1))
	buf := Build(Content{PlainText("ab"), Widget(ref)}, DefaultEnvironment())

	r, ok := buf.SlotRange("bar")
	if !ok {
		t.Fatal("SlotRange(bar) found nothing")
	}
	if r != (Range{Start: 2, End: 3}) {
		t.Errorf("SlotRange = %v, want [2, 3)", r)
	}

	if _, ok := buf.SlotRange("missing"); ok {
		t.Error("SlotRange(missing) reported a range")
	}
}

func TestSlotsIn(t *testing.T) {
	a := NewAttachment("a", geom.Sz(1, 1))
	b := NewAttachment("b", geom.Sz(1, 1))
	c := NewAttachment("c", geom.Sz(1, 1))
	buf := Build(Content{
		Widget(a), PlainText("--"), Widget(b), PlainText("--"), Widget(c),
	}, DefaultEnvironment())

	var ids []Identity
	buf.SlotsIn(NewRange(1, 6), func(s Slot) bool {
		ids = append(ids, s.Ref.Identity())
		return true
	})
	if len(ids) != 1 || ids[0] != "b" {
		t.Errorf("SlotsIn([1,6)) = %v, want [b]", ids)
	}
}

func TestAdjacentTextPos(t *testing.T) {
	ref := NewAttachment("w", geom.Sz(2, 2))

	t.Run("preceding text wins", func(t *testing.T) {
		buf := Build(Content{PlainText("ab"), Widget(ref), PlainText("cd")}, DefaultEnvironment())
		pos, ok := buf.AdjacentTextPos(2)
		if !ok || pos != 1 {
			t.Errorf("AdjacentTextPos(2) = %d, %v, want 1, true", pos, ok)
		}
	})

	t.Run("skips newline looking back", func(t *testing.T) {
		buf := Build(Content{PlainText("ab\n"), Widget(ref)}, DefaultEnvironment())
		pos, ok := buf.AdjacentTextPos(3)
		if !ok || pos != 1 {
			t.Errorf("AdjacentTextPos(3) = %d, %v, want 1, true", pos, ok)
		}
	})

	t.Run("falls forward at buffer start", func(t *testing.T) {
		buf := Build(Content{Widget(ref), PlainText("xy")}, DefaultEnvironment())
		pos, ok := buf.AdjacentTextPos(0)
		if !ok || pos != 1 {
			t.Errorf("AdjacentTextPos(0) = %d, %v, want 1, true", pos, ok)
		}
	})

	t.Run("skips other placeholders", func(t *testing.T) {
		other := NewAttachment("v", geom.Sz(1, 1))
		buf := Build(Content{Widget(other), Widget(ref), PlainText("z")}, DefaultEnvironment())
		pos, ok := buf.AdjacentTextPos(1)
		if !ok || pos != 2 {
			t.Errorf("AdjacentTextPos(1) = %d, %v, want 2, true", pos, ok)
		}
	})

	t.Run("nothing font-bearing", func(t *testing.T) {
		buf := Build(Content{Widget(ref)}, DefaultEnvironment())
		if _, ok := buf.AdjacentTextPos(0); ok {
			t.Error("AdjacentTextPos found text in a placeholder-only buffer")
		}
	})
}

func TestBuildAutoDirection(t *testing.T) {
	env := DefaultEnvironment()
	env.Direction = DirectionAuto

	tests := []struct {
		name string
		text string
		want Direction
	}{
		{"latin", "hello", DirectionLeftToRight},
		{"hebrew", "שלום", DirectionRightToLeft},
		{"leading neutrals then hebrew", "42 שלום", DirectionRightToLeft},
		{"empty", "", DirectionLeftToRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Build(Content{PlainText(tt.text)}, env)
			if got := buf.Environment().Direction; got != tt.want {
				t.Errorf("resolved direction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildSkipsEmptySpans(t *testing.T) {
	content := Content{
		PlainText(""),
		StyledText(Text{{Text: ""}, {Text: "a"}}),
	}
	buf := Build(content, DefaultEnvironment())

	if got := buf.String(); got != "a" {
		t.Errorf("buffer text = %q, want %q", got, "a")
	}
	if len(buf.Runs()) != 1 {
		t.Errorf("got %d runs, want 1", len(buf.Runs()))
	}
}

func TestBufferRuneAt(t *testing.T) {
	buf := Build(Content{PlainText("ab")}, DefaultEnvironment())

	if got := buf.RuneAt(1); got != 'b' {
		t.Errorf("RuneAt(1) = %q, want 'b'", got)
	}
	if got := buf.RuneAt(5); got != 0 {
		t.Errorf("RuneAt(5) = %q, want 0", got)
	}
}
