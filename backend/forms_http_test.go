package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liangxing/matchsite/backend/forms"
)

func postJSON(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(formTokenHeader, token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func validRegistration() map[string]interface{} {
	return map[string]interface{}{
		"name":       "李华",
		"age":        29,
		"height":     168,
		"education":  "bachelor",
		"occupation": "会计",
		"income":     "10000-20000",
		"contact":    "13812345678",
	}
}

func TestContactAPI(t *testing.T) {
	srv, ts := newTestServer(t, testConfig())
	token, err := srv.forms.tokens.Issue(formContact)
	require.NoError(t, err)

	t.Run("Accepted", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/contact", token, forms.ContactForm{
			Name: "张三", Phone: "13812345678", Message: "想了解一下高端婚恋匹配服务",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var r Receipt
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, forms.ContactNotice, r.Notice)
	})

	t.Run("Validation errors", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/contact", token, forms.ContactForm{Name: "张", Phone: "12345", Message: "太短"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var out struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "validation_failed", out.Error)
		assert.Equal(t, "姓名至少需要2个字符", out.Fields["name"])
		assert.Equal(t, "请输入有效的手机号码", out.Fields["phone"])
		assert.Equal(t, "留言内容至少需要10个字符", out.Fields["message"])
	})

	t.Run("Missing token", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/contact", "", forms.ContactForm{})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Token for another form", func(t *testing.T) {
		regToken, err := srv.forms.tokens.Issue(formRegistration)
		require.NoError(t, err)
		resp := postJSON(t, ts.URL+"/api/contact", regToken, forms.ContactForm{})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("Malformed body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/contact", bytes.NewBufferString("{"))
		require.NoError(t, err)
		req.Header.Set(formTokenHeader, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestRegistrationAPI(t *testing.T) {
	srv, ts := newTestServer(t, testConfig())
	token, err := srv.forms.tokens.Issue(formRegistration)
	require.NoError(t, err)

	t.Run("Gender comes from the route", func(t *testing.T) {
		body := validRegistration()
		body["gender"] = "female"
		resp := postJSON(t, ts.URL+"/api/registration/male", token, body)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var r Receipt
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
		assert.Equal(t, "男士资料提交成功！我们将尽快与您联系。", r.Notice)
	})

	t.Run("Out of range", func(t *testing.T) {
		body := validRegistration()
		body["age"] = 17
		body["height"] = 201
		body["education"] = "kindergarten"
		resp := postJSON(t, ts.URL+"/api/registration/female", token, body)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var out struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "年龄必须满18岁", out.Fields["age"])
		assert.Equal(t, "身高不能超过200cm", out.Fields["height"])
		assert.Contains(t, out.Fields, "education")
		assert.NotContains(t, out.Fields, "gender")
	})

	t.Run("Unknown tab", func(t *testing.T) {
		for _, g := range []string{"all", "other"} {
			resp := postJSON(t, ts.URL+"/api/registration/"+g, token, validRegistration())
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, g)
			resp.Body.Close()
		}
	})
}

func TestSubmitCancelled(t *testing.T) {
	fs := &formService{
		tokens: newFormTokens("s", time.Minute),
		submit: &submitter{delay: time.Hour},
	}
	token, err := fs.tokens.Issue(formContact)
	require.NoError(t, err)

	b, err := json.Marshal(forms.ContactForm{Name: "张三", Phone: "13812345678", Message: "想了解一下高端婚恋匹配服务"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(b)).WithContext(ctx)
	req.Header.Set(formTokenHeader, token)
	rec := httptest.NewRecorder()

	r := chi.NewRouter()
	r.Post("/api/contact", contactAPIHandler(fs))
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), forms.FailureNotice)
}

func TestSubmitter(t *testing.T) {
	s := &submitter{delay: 5 * time.Millisecond}
	r, err := s.Submit(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", r.Notice)
	assert.False(t, r.SubmittedAt.IsZero())

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	_, err = (&submitter{delay: time.Minute}).Submit(ctx, "late")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
