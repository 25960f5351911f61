package audio

import (
	"testing"

	"polyglot/internal/language"
	"polyglot/internal/media/ffprobe"
)

func TestSelectPrefersSourceLanguage(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "video"},
		{
			Index:       1,
			CodecType:   "audio",
			CodecName:   "truehd",
			Channels:    8,
			Tags:        map[string]string{"language": "hin"},
			Disposition: map[string]int{"default": 1},
		},
		{
			Index:     2,
			CodecType: "audio",
			CodecName: "ac3",
			Channels:  2,
			Tags:      map[string]string{"language": "eng", "title": "Stereo"},
		},
	}

	sel := Select(streams, language.English)
	if sel.PrimaryIndex != 2 || !sel.LanguageMatched {
		t.Fatalf("expected English stream (index 2), got %d matched=%v", sel.PrimaryIndex, sel.LanguageMatched)
	}
	if label := sel.PrimaryLabel(); label != "eng | ac3 | 2ch | stereo" {
		t.Fatalf("unexpected label %q", label)
	}
}

func TestSelectRanksCommentaryLast(t *testing.T) {
	streams := []ffprobe.Stream{
		{
			Index:     1,
			CodecType: "audio",
			CodecName: "dts",
			CodecLong: "DTS-HD Master Audio",
			Channels:  6,
			Tags:      map[string]string{"language": "eng", "title": "Director's Commentary"},
		},
		{
			Index:     2,
			CodecType: "audio",
			CodecName: "ac3",
			Channels:  2,
			Tags:      map[string]string{"language": "en"},
		},
	}

	sel := Select(streams, language.English)
	if sel.PrimaryIndex != 2 {
		t.Fatalf("expected main feature audio (index 2) over commentary, got %d", sel.PrimaryIndex)
	}
}

func TestSelectPrefersLosslessOverLossy(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 1, CodecType: "audio", CodecName: "ac3", Channels: 6, Tags: map[string]string{"language": "eng"}},
		{Index: 2, CodecType: "audio", CodecName: "flac", Channels: 6, Tags: map[string]string{"language": "eng"}},
	}
	if sel := Select(streams, language.English); sel.PrimaryIndex != 2 {
		t.Fatalf("expected lossless stream (index 2), got %d", sel.PrimaryIndex)
	}
}

func TestSelectFallsBackToFirstAudio(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "video"},
		{Index: 1, CodecType: "audio", Channels: 2, Tags: map[string]string{"language": "jpn"}},
		{Index: 2, CodecType: "audio", Channels: 6, Tags: map[string]string{"language": "fra"}},
	}

	sel := Select(streams, language.English)
	if sel.PrimaryIndex != 1 || sel.LanguageMatched {
		t.Fatalf("expected first audio stream fallback, got %d matched=%v", sel.PrimaryIndex, sel.LanguageMatched)
	}
}

func TestSelectNoAudio(t *testing.T) {
	sel := Select([]ffprobe.Stream{{Index: 0, CodecType: "video"}}, language.English)
	if sel.PrimaryIndex != -1 || sel.PrimaryLabel() != "" {
		t.Fatalf("expected empty selection, got %+v", sel)
	}
}

func TestChannelCountFromLayout(t *testing.T) {
	tests := []struct {
		layout string
		want   int
	}{
		{"mono", 1},
		{"stereo", 2},
		{"5.1(side)", 6},
		{"7.1", 8},
		{"", 0},
	}
	for _, tt := range tests {
		if got := channelCount(ffprobe.Stream{ChannelLayout: tt.layout}); got != tt.want {
			t.Errorf("channelCount(%q) = %d, want %d", tt.layout, got, tt.want)
		}
	}
}
