package headlines

import (
	"errors"

	"github.com/abelbrown/bantin/internal/brain"
)

// Gateway failure kinds. Generate wraps exactly one of these.
var (
	ErrNetworkFailure    = errors.New("network failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrEmptyResult       = errors.New("empty result")
	ErrValidation        = errors.New("validation rejected")
)

// Details that refine ErrMalformedResponse.
var (
	errNoJSONBlock = errors.New("no fenced json block")
	errInvalidJSON = errors.New("invalid json")
)

// Message reduces a gateway error to the one line shown to the operator.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var detail string
	switch {
	case errors.Is(err, ErrValidation):
		return "Vui lòng nhập chủ đề và nhãn tin."
	case errors.Is(err, brain.ErrMissingCredential):
		detail = "Thiếu khóa API. Hãy đặt biến môi trường API_KEY"
	case errors.Is(err, ErrNetworkFailure):
		detail = "Không thể kết nối tới dịch vụ AI"
	case errors.Is(err, errNoJSONBlock):
		detail = "AI đã trả về dữ liệu không chứa một khối JSON hợp lệ"
	case errors.Is(err, ErrMalformedResponse):
		detail = "AI đã trả về dữ liệu JSON không hợp lệ"
	case errors.Is(err, ErrEmptyResult):
		detail = "AI không thể tạo tóm tắt tin tức từ chủ đề được cung cấp"
	default:
		detail = err.Error()
	}
	return "Không thể tạo tin: " + detail + ". Vui lòng thử lại."
}
