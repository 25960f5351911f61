package audio

import (
	"strconv"
	"strings"

	"polyglot/internal/language"
	"polyglot/internal/media/ffprobe"
)

// Selection describes the audio stream chosen for transcription.
type Selection struct {
	Primary      ffprobe.Stream
	PrimaryIndex int
	// LanguageMatched is false when no stream carried the preferred language
	// and the first audio stream was used instead.
	LanguageMatched bool
}

// PrimaryLabel returns a human-readable summary of the selected primary stream.
func (s Selection) PrimaryLabel() string {
	if s.PrimaryIndex < 0 {
		return ""
	}
	return formatStreamSummary(s.Primary)
}

// Select returns the stream to transcribe. Streams tagged with the preferred
// language win; among them the ranking is channel count first, then lossless
// over lossy, with commentary tracks pushed last. Without a language match
// the first audio stream is used.
func Select(streams []ffprobe.Stream, preferred language.Language) Selection {
	candidates := buildCandidates(streams, preferred)
	if len(candidates) == 0 {
		return Selection{PrimaryIndex: -1}
	}

	matching := candidates.matching()
	if len(matching) == 0 {
		return Selection{
			Primary:      candidates[0].stream,
			PrimaryIndex: candidates[0].stream.Index,
		}
	}

	primary := choosePrimary(matching)
	return Selection{
		Primary:         primary.stream,
		PrimaryIndex:    primary.stream.Index,
		LanguageMatched: true,
	}
}

type candidate struct {
	stream         ffprobe.Stream
	order          int
	matches        bool
	isCommentary   bool
	isLossless     bool
	channels       int
	defaultFlagged bool
}

type candidateList []candidate

func (c candidateList) matching() candidateList {
	result := make(candidateList, 0, len(c))
	for _, cand := range c {
		if cand.matches {
			result = append(result, cand)
		}
	}
	return result
}

func choosePrimary(candidates candidateList) candidate {
	best := candidates[0]
	bestScore := scorePrimary(best)
	for i := 1; i < len(candidates); i++ {
		score := scorePrimary(candidates[i])
		if score > bestScore {
			best = candidates[i]
			bestScore = score
		}
	}
	return best
}

func scorePrimary(cand candidate) float64 {
	score := 0.0

	if !cand.isCommentary {
		score += 2000
	}

	switch {
	case cand.channels >= 8:
		score += 1000
	case cand.channels >= 6:
		score += 800
	case cand.channels >= 4:
		score += 600
	case cand.channels >= 2:
		score += 400
	default:
		score += 200
	}

	if cand.isLossless {
		score += 100
	} else {
		score += 50
	}

	if cand.defaultFlagged {
		score += 5
	}

	// Prefer earlier tracks when scores tie.
	score -= float64(cand.order) * 0.1

	return score
}

func buildCandidates(streams []ffprobe.Stream, preferred language.Language) candidateList {
	want := preferred.Code()
	result := make(candidateList, 0)
	order := 0
	for _, stream := range streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		tag := language.ExtractFromTags(stream.Tags)
		cand := candidate{
			stream:         stream,
			order:          order,
			matches:        want != "" && language.ToISO2(tag) == want,
			isCommentary:   detectCommentary(stream.Title()),
			isLossless:     detectLossless(stream),
			channels:       channelCount(stream),
			defaultFlagged: stream.IsDefault(),
		}
		result = append(result, cand)
		order++
	}
	return result
}

func channelCount(stream ffprobe.Stream) int {
	if stream.Channels > 0 {
		return stream.Channels
	}
	layout := strings.ToLower(strings.TrimSpace(stream.ChannelLayout))
	switch {
	case layout == "":
		return 0
	case layout == "mono":
		return 1
	case layout == "stereo":
		return 2
	case strings.HasPrefix(layout, "7.1"):
		return 8
	case strings.HasPrefix(layout, "5.1"):
		return 6
	}
	total := 0
	for _, part := range strings.Split(layout, ".") {
		part = strings.Trim(part, "abcdefghijklmnopqrstuvwxyz ()")
		if n, err := strconv.Atoi(part); err == nil {
			total += n
		}
	}
	return total
}

func detectCommentary(title string) bool {
	for _, keyword := range []string{"commentary", "director", "description", "descriptive"} {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

func detectLossless(stream ffprobe.Stream) bool {
	name := strings.ToLower(stream.CodecName)
	long := strings.ToLower(stream.CodecLong)
	switch name {
	case "truehd", "flac", "mlp", "alac", "pcm_s16le", "pcm_s24le", "pcm_s32le", "pcm_bluray", "pcm_s24be", "pcm_s16be":
		return true
	}
	return strings.Contains(long, "lossless") || strings.Contains(long, "master audio")
}

func formatStreamSummary(stream ffprobe.Stream) string {
	parts := make([]string, 0, 4)
	if lang := language.ExtractFromTags(stream.Tags); lang != "" {
		parts = append(parts, lang)
	}
	codec := stream.CodecLong
	if codec == "" {
		codec = stream.CodecName
	}
	if codec != "" {
		parts = append(parts, codec)
	}
	if stream.Channels > 0 {
		parts = append(parts, strconv.Itoa(stream.Channels)+"ch")
	}
	if title := stream.Title(); title != "" {
		parts = append(parts, title)
	}
	if len(parts) == 0 {
		return "audio"
	}
	return strings.Join(parts, " | ")
}
