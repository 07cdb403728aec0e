// Package civilday 统一处理“某一天”的定义。
//
// 所有按天的逻辑（重复提交判定、后台按日期筛选、导出、展示）都基于同一个
// 固定 UTC 偏移计算，不依赖服务器本地时区。
package civilday

import (
	"fmt"
	"time"
)

// DateLayout 日期键格式
const DateLayout = "2006-01-02"

// Clock 固定偏移的民用日历
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New 以分钟为单位的 UTC 偏移创建 Clock，例如 +05:30 传 330
func New(offsetMinutes int) *Clock {
	return &Clock{
		loc: time.FixedZone(zoneName(offsetMinutes), offsetMinutes*60),
		now: time.Now,
	}
}

// WithNow 返回使用指定时间源的副本（测试用）
func (c *Clock) WithNow(now func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: now}
}

// Location 返回固定偏移时区
func (c *Clock) Location() *time.Location { return c.loc }

// Now 当前时刻（已转换到固定偏移）
func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

// Today 当天零点
func (c *Clock) Today() time.Time {
	start, _ := c.Bounds(c.Now())
	return start
}

// Key 返回 t 所属日期的键，如 "2026-10-19"
func (c *Clock) Key(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// Bounds 返回 t 所属日期的 [start, end) 区间
func (c *Clock) Bounds(t time.Time) (time.Time, time.Time) {
	return DayBounds(t, c.loc)
}

// Parse 解析 YYYY-MM-DD，返回该日零点；空串返回今天
func (c *Clock) Parse(s string) (time.Time, error) {
	if s == "" {
		return c.Today(), nil
	}
	d, err := time.ParseInLocation(DateLayout, s, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// DayBounds 计算 t 在 loc 中所属日期的起止时刻，end 为次日零点（不含）
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func zoneName(offsetMinutes int) string {
	sign := '+'
	if offsetMinutes < 0 {
		sign = '-'
		offsetMinutes = -offsetMinutes
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offsetMinutes/60, offsetMinutes%60)
}
