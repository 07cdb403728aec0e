package civilday

import (
	"testing"
	"time"
)

func fixedClock(t time.Time) *Clock {
	return New(330).WithNow(func() time.Time { return t })
}

func TestKey_CrossesUTCMidnight(t *testing.T) {
	c := New(330)

	// 2026-10-18 19:00 UTC = 2026-10-19 00:30 IST
	utc := time.Date(2026, 10, 18, 19, 0, 0, 0, time.UTC)
	if got := c.Key(utc); got != "2026-10-19" {
		t.Errorf("期望 2026-10-19，实际 %s", got)
	}

	// 2026-10-18 18:00 UTC = 2026-10-18 23:30 IST
	utc = time.Date(2026, 10, 18, 18, 0, 0, 0, time.UTC)
	if got := c.Key(utc); got != "2026-10-18" {
		t.Errorf("期望 2026-10-18，实际 %s", got)
	}
}

func TestBounds(t *testing.T) {
	c := New(330)
	start, end := c.Bounds(time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC))

	wantStart := time.Date(2026, 10, 18, 18, 30, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("期望 start=%v，实际=%v", wantStart, start)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Errorf("期望区间 24h，实际 %v", end.Sub(start))
	}
}

func TestParse(t *testing.T) {
	now := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	c := fixedClock(now)

	d, err := c.Parse("2026-01-05")
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if c.Key(d) != "2026-01-05" {
		t.Errorf("期望 2026-01-05，实际 %s", c.Key(d))
	}

	today, err := c.Parse("")
	if err != nil {
		t.Fatalf("Parse 空串失败: %v", err)
	}
	if c.Key(today) != "2026-10-19" {
		t.Errorf("空串应返回今天，实际 %s", c.Key(today))
	}

	if _, err := c.Parse("19/10/2026"); err == nil {
		t.Error("非法格式应返回错误")
	}
}

func TestZoneName(t *testing.T) {
	if got := New(330).Location().String(); got != "UTC+05:30" {
		t.Errorf("期望 UTC+05:30，实际 %s", got)
	}
	if got := New(-300).Location().String(); got != "UTC-05:00" {
		t.Errorf("期望 UTC-05:00，实际 %s", got)
	}
}
