package model

// City is a weather rotation target.
type City struct {
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
}

// WeatherData is a daily snapshot for one city.
type WeatherData struct {
	City        string
	TempMin     int
	TempMax     int
	Humidity    int
	RainChance  int
	WeatherCode int
}
