package media

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"

	"github.com/redacaolab/redator/internal/types"
)

// ffprobe reports numbers as strings inside its JSON output.
type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

func runFFprobe(ctx context.Context, path string) (*ffprobeOutput, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	raw, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	var out ffprobeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// probeVideo extracts resolution, duration and size. Missing fields stay at
// their zero value; the external tool may not report them.
func probeVideo(ctx context.Context, path string) (types.VideoInfo, error) {
	out, err := runFFprobe(ctx, path)
	if err != nil {
		return types.VideoInfo{}, err
	}

	info := types.VideoInfo{
		DurationSeconds: parseFloat(out.Format.Duration),
		SizeBytes:       parseInt(out.Format.Size),
	}
	for _, s := range out.Streams {
		if s.CodecType == "video" {
			info.Width = s.Width
			info.Height = s.Height
			break
		}
	}
	return info, nil
}

// probeAudio inspects the audio track. HasAudio=false when no audio stream
// exists, which short-circuits transcription upstream.
func probeAudio(ctx context.Context, path string) (types.AudioInfo, error) {
	out, err := runFFprobe(ctx, path)
	if err != nil {
		return types.AudioInfo{}, err
	}

	info := types.AudioInfo{DurationSeconds: parseFloat(out.Format.Duration)}
	for _, s := range out.Streams {
		if s.CodecType == "audio" {
			info.HasAudio = true
			info.Codec = s.CodecName
			info.Channels = s.Channels
			info.SampleRateHz = int(parseInt(s.SampleRate))
			if kbps := parseInt(s.BitRate) / 1000; kbps > 0 {
				info.BitrateKbps = int(kbps)
			} else {
				info.BitrateKbps = int(parseInt(out.Format.BitRate) / 1000)
			}
			break
		}
	}
	return info, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
