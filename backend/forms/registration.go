package forms

import (
	"strings"

	"github.com/liangxing/matchsite/backend/directory"
)

var (
	EducationOptions = []Option{
		{Value: "highSchool", Label: "高中"},
		{Value: "college", Label: "专科"},
		{Value: "bachelor", Label: "本科"},
		{Value: "master", Label: "硕士"},
		{Value: "phd", Label: "博士及以上"},
	}
	IncomeOptions = []Option{
		{Value: "5000-10000", Label: "5000-10000元"},
		{Value: "10000-20000", Label: "10000-20000元"},
		{Value: "20000-30000", Label: "20000-30000元"},
		{Value: "30000-50000", Label: "30000-50000元"},
		{Value: "50000+", Label: "50000元以上"},
	}
)

// RegistrationForm is a member application from the registration section.
// Each gender tab posts its own form.
type RegistrationForm struct {
	Name         string           `json:"name" validate:"min=2"`
	Gender       directory.Gender `json:"gender" validate:"oneof=male female"`
	Age          int              `json:"age" validate:"gte=18,lte=60"`
	Height       int              `json:"height" validate:"gte=150,lte=200"`
	Education    string           `json:"education" validate:"education"`
	Occupation   string           `json:"occupation" validate:"required"`
	Income       string           `json:"income" validate:"income"`
	Description  string           `json:"description" validate:"max=500"`
	Requirements string           `json:"requirements" validate:"max=500"`
	Contact      string           `json:"contact" validate:"required"`
}

var registrationMessages = map[string]string{
	"name.min":            "姓名至少需要2个字符",
	"gender.oneof":        "请选择性别",
	"age.gte":             "年龄必须满18岁",
	"age.lte":             "年龄不能超过60岁",
	"height.gte":          "身高不能低于150cm",
	"height.lte":          "身高不能超过200cm",
	"education.education": "请选择学历",
	"occupation.required": "请输入职业",
	"income.income":       "请选择收入范围",
	"description.max":     "个人简介不能超过500字符",
	"requirements.max":    "择偶要求不能超过500字符",
	"contact.required":    "请输入联系方式",
}

func (f RegistrationForm) Normalize() RegistrationForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Education = strings.TrimSpace(f.Education)
	f.Occupation = strings.TrimSpace(f.Occupation)
	f.Income = strings.TrimSpace(f.Income)
	f.Contact = strings.TrimSpace(f.Contact)
	return f
}

// Validate returns FieldErrors describing every invalid field, or nil.
func (f RegistrationForm) Validate() error {
	return check(f, registrationMessages)
}

// Notice is the message shown after a successful registration.
func (f RegistrationForm) Notice() string {
	return f.Gender.Label() + "资料提交成功！我们将尽快与您联系。"
}
