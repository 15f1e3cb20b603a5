package weather

// NoData is shown when the current city has no reading yet.
const NoData = "Đang cập nhật dữ liệu..."

// Describe maps a WMO weather code to a short Vietnamese description.
func Describe(code int) string {
	switch {
	case code == 0:
		return "Trời quang đãng"
	case code == 1 || code == 2:
		return "Ít mây"
	case code == 3:
		return "Nhiều mây"
	case code >= 45 && code <= 48:
		return "Sương mù"
	case code >= 51 && code <= 57, code >= 61 && code <= 67:
		return "Khả năng có mưa"
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return "Tuyết rơi"
	case code >= 80 && code <= 82:
		return "Mưa rào"
	case code >= 95 && code <= 99:
		return "Dông bão"
	default:
		return "Thời tiết hỗn hợp"
	}
}

// Icon returns a glyph for the code's weather family.
func Icon(code int) string {
	switch {
	case code == 0:
		return "☀"
	case code <= 3:
		return "⛅"
	case code >= 45 && code <= 48:
		return "🌫"
	case code >= 95:
		return "⛈"
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return "❄"
	case code >= 51:
		return "🌧"
	default:
		return "☁"
	}
}
