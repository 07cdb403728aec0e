package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var regNoPattern = regexp.MustCompile(`^\d{2}[A-Z]{3}\d{5}$`)

// 仅用于 email 语法校验
var validate = validator.New()

// NormalizeRegNo 去除首尾空白并转为大写
func NormalizeRegNo(regNo string) string {
	return strings.ToUpper(strings.TrimSpace(regNo))
}

// ValidRegNo 判断已规范化的学号是否符合格式，如 23BAI10056
func ValidRegNo(regNo string) bool {
	return regNoPattern.MatchString(regNo)
}

// NormalizeEmail 去除首尾空白并转为小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkRegNo 规范化并校验学号
func checkRegNo(raw string) (string, error) {
	regNo := NormalizeRegNo(raw)
	if regNo == "" {
		return "", validationErrorf("Registration Number is required")
	}
	if !ValidRegNo(regNo) {
		return "", validationErrorf("Invalid format. Example: 23BAI10056")
	}
	return regNo, nil
}

// checkInstitutionEmail 邮箱须以 @domain 结尾，且本地部分以 "." + 小写学号 结尾。
// email 需已规范化
func checkInstitutionEmail(email, regNo, domain string) error {
	if email == "" {
		return validationErrorf("Email is required")
	}
	suffix := "@" + strings.ToLower(domain)
	if !strings.HasSuffix(email, suffix) {
		return ErrEmailMismatch
	}
	local := strings.TrimSuffix(email, suffix)
	if !strings.HasSuffix(local, "."+strings.ToLower(regNo)) {
		return ErrEmailMismatch
	}
	return nil
}

// checkEmailSyntax 仅校验邮箱语法（管理员修改使用）
func checkEmailSyntax(email string) error {
	if email == "" {
		return validationErrorf("Email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return validationErrorf("Invalid email address")
	}
	return nil
}

// normalizeSlots 去除空白与重复项，保持首次出现的顺序
func normalizeSlots(slots []string) []string {
	seen := make(map[string]struct{}, len(slots))
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// checkActiveSlots 要求至少选择一个时间段，且全部为启用状态
func checkActiveSlots(selected, active []string) error {
	if len(selected) == 0 {
		return validationErrorf("Select at least one slot")
	}
	set := make(map[string]struct{}, len(active))
	for _, a := range active {
		set[a] = struct{}{}
	}
	for _, s := range selected {
		if _, ok := set[s]; !ok {
			return ErrInvalidSlotSelection
		}
	}
	return nil
}

// sameSlotSet 忽略顺序比较两个时间段集合
func sameSlotSet(a, b []string) bool {
	x, y := normalizeSlots(a), normalizeSlots(b)
	if len(x) != len(y) {
		return false
	}
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
