// Package useragent 封装 uasurfer，把原始 User-Agent 转为操作日志展示用的摘要。
package useragent

import (
	surfer "github.com/avct/uasurfer"
)

// Info User-Agent 摘要
type Info struct {
	Browser string
	OS      string
	Device  string // Desktop | Mobile | Tablet | Other
	IsBot   bool
}

// Parse 解析原始 User-Agent；空串返回 ok=false
func Parse(raw string) (Info, bool) {
	if raw == "" {
		return Info{}, false
	}

	ua := surfer.Parse(raw)
	info := Info{
		Browser: trimPrefix(ua.Browser.Name.String(), "Browser"),
		OS:      trimPrefix(ua.OS.Name.String(), "OS"),
		IsBot:   ua.IsBot(),
	}

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}

	return info, true
}

// trimPrefix uasurfer 的枚举名带类型前缀，如 "BrowserChrome"、"OSWindows"
func trimPrefix(s, prefix string) string {
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}
