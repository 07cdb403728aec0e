package dto

// Actor 触发管理操作的请求方信息，写入操作日志
type Actor struct {
	Username  string
	IP        string
	UserAgent string
}
