package fetch

import "errors"

// ErrAllSourcesFailed is returned when no syndicated source could be read.
var ErrAllSourcesFailed = errors.New("all sources failed")

// ErrNoItems is returned when every source answered but none had a title.
var ErrNoItems = errors.New("no items from any source")

// ErrorText is the ticker line shown for a failed syndicated fetch.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if errors.Is(err, ErrAllSourcesFailed) || errors.Is(err, ErrNoItems) {
		msg = "Không thể tải tin tức từ bất kỳ nguồn nào."
	}
	return "Lỗi khi tải tin: " + msg
}
