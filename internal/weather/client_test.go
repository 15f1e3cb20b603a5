package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abelbrown/bantin/internal/model"
)

var hanoi = model.City{Name: "Hà Nội", Lat: 21.0285, Lon: 105.8542}

func TestFetch(t *testing.T) {
	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{
			"daily": {
				"temperature_2m_max": [31.6, 30.0],
				"temperature_2m_min": [24.4, 23.0],
				"precipitation_probability_max": [79.5, 10],
				"weather_code": [63, 1]
			},
			"current": {"relative_humidity_2m": 84.2}
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	got, err := c.Fetch(context.Background(), hanoi)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := &model.WeatherData{
		City:        "Hà Nội",
		TempMin:     24,
		TempMax:     32,
		Humidity:    84,
		RainChance:  80,
		WeatherCode: 63,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if query["latitude"] != "21.0285" || query["longitude"] != "105.8542" {
		t.Errorf("coordinates = %s,%s", query["latitude"], query["longitude"])
	}
	if query["timezone"] != "Asia/Ho_Chi_Minh" {
		t.Errorf("timezone = %q", query["timezone"])
	}
	if query["current"] != "relative_humidity_2m" {
		t.Errorf("current = %q", query["current"])
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		isData bool
	}{
		{"server error", http.StatusInternalServerError, `{}`, false},
		{"bad json", http.StatusOK, `{"daily":`, false},
		{"empty arrays", http.StatusOK, `{"daily":{"temperature_2m_max":[]},"current":{"relative_humidity_2m":50}}`, true},
		{"missing humidity", http.StatusOK, `{"daily":{"temperature_2m_max":[1],"temperature_2m_min":[1],"precipitation_probability_max":[1],"weather_code":[1]},"current":{}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := NewClient(server.URL, "").Fetch(context.Background(), hanoi)
			if err == nil {
				t.Fatalf("Fetch() = %+v, want error", got)
			}
			if got != nil {
				t.Errorf("Fetch() returned data alongside error: %+v", got)
			}
			if tt.isData && !errors.Is(err, ErrInvalidData) {
				t.Errorf("err = %v, want ErrInvalidData", err)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := map[int]string{
		0:  "Trời quang đãng",
		2:  "Ít mây",
		3:  "Nhiều mây",
		45: "Sương mù",
		53: "Khả năng có mưa",
		65: "Khả năng có mưa",
		75: "Tuyết rơi",
		86: "Tuyết rơi",
		81: "Mưa rào",
		96: "Dông bão",
		10: "Thời tiết hỗn hợp",
	}
	for code, want := range tests {
		if got := Describe(code); got != want {
			t.Errorf("Describe(%d) = %q, want %q", code, got, want)
		}
	}
}
