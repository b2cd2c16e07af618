package telemetry

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FrameStats holds aggregated frame statistics over one window.
type FrameStats struct {
	WindowEnd  int // frame index at window close
	AvgFrameUS float64
	P50FrameUS float64
	P95FrameUS float64
	StdFrameUS float64
	FPS        float64

	// Stage percentages of total frame time
	StagePct map[string]float64
}

// Stats aggregates the current window. Percentiles come from the empirical
// distribution of frame durations; stage percentages are shares of summed
// frame time.
func (p *PerfCollector) Stats(windowEnd int) FrameStats {
	if p.sampleCount == 0 {
		return FrameStats{WindowEnd: windowEnd, StagePct: make(map[string]float64)}
	}

	frames := make([]float64, p.sampleCount)
	stageSum := make(map[string]time.Duration)
	var total time.Duration

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		frames[i] = float64(s.FrameDuration.Microseconds())
		total += s.FrameDuration
		for stage, dur := range s.Stages {
			stageSum[stage] += dur
		}
	}
	sort.Float64s(frames)

	avg := stat.Mean(frames, nil)
	var std float64
	if len(frames) > 1 {
		std = stat.StdDev(frames, nil)
	}

	stagePct := make(map[string]float64, len(stageSum))
	for stage, sum := range stageSum {
		if total > 0 {
			stagePct[stage] = float64(sum) / float64(total) * 100
		}
	}

	var fps float64
	if avg > 0 {
		fps = 1e6 / avg
	}

	return FrameStats{
		WindowEnd:  windowEnd,
		AvgFrameUS: avg,
		P50FrameUS: stat.Quantile(0.50, stat.Empirical, frames, nil),
		P95FrameUS: stat.Quantile(0.95, stat.Empirical, frames, nil),
		StdFrameUS: std,
		FPS:        fps,
		StagePct:   stagePct,
	}
}

// FrameStatsCSV is a flat struct for CSV export of frame stats.
type FrameStatsCSV struct {
	WindowEnd  int     `csv:"window_end"`
	AvgFrameUS float64 `csv:"avg_frame_us"`
	P50FrameUS float64 `csv:"p50_frame_us"`
	P95FrameUS float64 `csv:"p95_frame_us"`
	StdFrameUS float64 `csv:"frame_std_us"`
	FPS        float64 `csv:"fps"`
	AvatarPct  float64 `csv:"avatar_pct"`
	AmbientPct float64 `csv:"ambient_pct"`
	AudioPct   float64 `csv:"audio_pct"`
	DrawPct    float64 `csv:"draw_pct"`
}

// ToCSV flattens the stage map into fixed CSV columns.
func (s FrameStats) ToCSV() FrameStatsCSV {
	return FrameStatsCSV{
		WindowEnd:  s.WindowEnd,
		AvgFrameUS: s.AvgFrameUS,
		P50FrameUS: s.P50FrameUS,
		P95FrameUS: s.P95FrameUS,
		StdFrameUS: s.StdFrameUS,
		FPS:        s.FPS,
		AvatarPct:  s.StagePct[StageAvatar],
		AmbientPct: s.StagePct[StageAmbient],
		AudioPct:   s.StagePct[StageAudio],
		DrawPct:    s.StagePct[StageDraw],
	}
}
