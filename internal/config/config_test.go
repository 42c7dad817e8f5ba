package config

import "testing"

func TestDefaultSettingsEnableCoreToggles(t *testing.T) {
	d := Default()
	if !d.ConvertUserMentions || !d.ReplaceEmoji || !d.ParseSlackTimes {
		t.Fatalf("expected core toggles on by default, got %+v", d)
	}
	if d.MaxLines != defaultMaxLines {
		t.Fatalf("expected default maxLines %d, got %d", defaultMaxLines, d.MaxLines)
	}
	if d.FrontmatterCssClass != defaultFrontmatterCssClass {
		t.Fatalf("expected default frontmatter css class, got %q", d.FrontmatterCssClass)
	}
}

func TestBumpedIncrementsGeneration(t *testing.T) {
	s := Default()
	if s.Generation() != 0 {
		t.Fatalf("expected fresh settings at generation 0")
	}
	bumped := s.Bumped()
	if bumped.Generation() != 1 {
		t.Fatalf("expected generation 1 after bump, got %d", bumped.Generation())
	}
	if s.Generation() != 0 {
		t.Fatalf("expected original settings left untouched by Bumped")
	}
}

func TestParseKeySplitsOnLastDot(t *testing.T) {
	c := &Config{}
	section, key := c.parseKey("frontmatter.title")
	if section != "frontmatter" || key != "title" {
		t.Fatalf("got section=%q key=%q", section, key)
	}
}

func TestRenderOptionsThreadsParseSlackTimesAndTimeZone(t *testing.T) {
	s := Default()
	s.TimeZone = "America/Chicago"
	opts := s.RenderOptions(nil, nil)
	if !opts.ParseSlackTimes {
		t.Fatalf("expected ParseSlackTimes to carry through to render.Options")
	}
	if opts.TimeZone != "America/Chicago" {
		t.Fatalf("expected TimeZone to carry through, got %q", opts.TimeZone)
	}
}

func TestFromConfigFallsBackToDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	s := FromConfig(c)
	if s.MaxLines != defaultMaxLines {
		t.Fatalf("expected fallback maxLines, got %d", s.MaxLines)
	}
}
