package avsync

import "testing"

func TestAudioLeadsVideo(t *testing.T) {
	// sectorsPerSecond=150, fps=15/1, audio starts sector 0, video starts
	// sector 75: video lags, so it gets 7 (floor of 7.5) pre-seeded blanks.
	s := NewAudioVideoSync(15, 1, 150, 44100, 75, 0)
	if s.InitialSilentFrames != 7 {
		t.Fatalf("InitialSilentFrames = %d, want 7", s.InitialSilentFrames)
	}
	if s.InitialSilentSamples != 0 {
		t.Fatalf("InitialSilentSamples = %d, want 0", s.InitialSilentSamples)
	}
}

func TestVideoLeadsAudio(t *testing.T) {
	// Same rates, video starts sector 0, audio starts sector 150 (1 second
	// later): audio gets a full second of pre-seeded silence.
	s := NewAudioVideoSync(15, 1, 150, 44100, 0, 150)
	if s.InitialSilentFrames != 0 {
		t.Fatalf("InitialSilentFrames = %d, want 0", s.InitialSilentFrames)
	}
	if s.InitialSilentSamples != 44100 {
		t.Fatalf("InitialSilentSamples = %d, want 44100", s.InitialSilentSamples)
	}
}

func TestNextFrameDuplicatesAndAheadOfSchedule(t *testing.T) {
	v := NewVideoSync(15, 1, 150, 0, 0)
	// After 1 second (150 sectors) at 15fps, 15 frames should have been
	// written; none have, so the first call should request 15 blanks
	// before the real frame, which is the 16th frame written.
	dup, ahead := v.NextFrame(150)
	if ahead {
		t.Fatal("unexpected ahead-of-schedule")
	}
	if dup != 15 {
		t.Fatalf("dup = %d, want 15", dup)
	}
	if v.FramesWritten() != 16 {
		t.Fatalf("FramesWritten = %d, want 16", v.FramesWritten())
	}
	// A frame presented well before the clock predicts is ahead of
	// schedule: no negative duplicate count, clock doesn't rewind.
	_, ahead = v.NextFrame(1)
	if !ahead {
		t.Fatal("expected ahead-of-schedule")
	}
}

func TestNextAudioSilenceMonotonic(t *testing.T) {
	a := NewAudioVideoSync(15, 1, 150, 100, 0, 0)
	// 1 second (150 sectors) at 100 samples/sec expects 100 cumulative
	// samples; none written yet, so all 100 come back as silence, then the
	// 50 real samples are added on top.
	silence, ahead := a.NextAudio(150, 50)
	if ahead {
		t.Fatal("unexpected ahead-of-schedule")
	}
	if silence != 100 {
		t.Fatalf("silence = %d, want 100", silence)
	}
	if a.SamplesWritten() != 150 {
		t.Fatalf("SamplesWritten = %d, want 150", a.SamplesWritten())
	}
}
