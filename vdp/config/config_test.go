package config

import "testing"

func TestValidateDefaults(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.JpgQuality != 0.75 {
		t.Fatalf("JpgQuality default = %v, want 0.75", c.JpgQuality)
	}
	if c.AudioVolume != 1.0 {
		t.Fatalf("AudioVolume default = %v, want 1.0", c.AudioVolume)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	c := &Config{JpgQuality: 1.5}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for JpgQuality > 1")
	}
	c = &Config{AudioVolume: -0.1}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for AudioVolume < 0")
	}
}

func TestValidateRejectsInvertedFrameRange(t *testing.T) {
	c := &Config{FrameRange: FrameRange{Clip: true, Start: 10, End: 5}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for inverted frame range")
	}
}

func TestDiscSpeedSectorsPerSecond(t *testing.T) {
	if Speed1x.SectorsPerSecond() != 75 {
		t.Fatalf("Speed1x = %d, want 75", Speed1x.SectorsPerSecond())
	}
	if Speed2x.SectorsPerSecond() != 150 {
		t.Fatalf("Speed2x = %d, want 150", Speed2x.SectorsPerSecond())
	}
}
