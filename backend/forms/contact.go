package forms

import (
	"regexp"
	"strings"
)

// ContactNotice is shown after a successful inquiry.
const ContactNotice = "感谢您的咨询！我们的婚恋顾问将尽快与您联系。"

var mobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// ContactForm is an inquiry sent from the contact section.
type ContactForm struct {
	Name    string `json:"name" validate:"min=2"`
	Phone   string `json:"phone" validate:"mobile"`
	Message string `json:"message" validate:"min=10,max=500"`
}

var contactMessages = map[string]string{
	"name.min":     "姓名至少需要2个字符",
	"phone.mobile": "请输入有效的手机号码",
	"message.min":  "留言内容至少需要10个字符",
	"message.max":  "留言内容不能超过500字符",
}

func (f ContactForm) Normalize() ContactForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	return f
}

// Validate returns FieldErrors describing every invalid field, or nil.
func (f ContactForm) Validate() error {
	return check(f, contactMessages)
}
