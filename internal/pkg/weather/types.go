package weather

// Raw OpenWeather response shapes. Optional upstream fields are pointers so
// that absent values survive normalization as nulls instead of zeroes.

type GeocodeResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

type Condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type MainMetrics struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	TempMin   *float64 `json:"temp_min"`
	TempMax   *float64 `json:"temp_max"`
	Pressure  *float64 `json:"pressure"`
	Humidity  *float64 `json:"humidity"`
}

type Wind struct {
	Speed *float64 `json:"speed"`
	Deg   *float64 `json:"deg"`
}

type Clouds struct {
	All *float64 `json:"all"`
}

type CurrentWeather struct {
	Weather    []Condition `json:"weather"`
	Main       MainMetrics `json:"main"`
	Visibility *float64    `json:"visibility"`
	Wind       Wind        `json:"wind"`
	Clouds     Clouds      `json:"clouds"`
	Dt         int64       `json:"dt"`
	Name       string      `json:"name"`
}

type ForecastEntry struct {
	Dt      int64       `json:"dt"`
	Main    MainMetrics `json:"main"`
	Weather []Condition `json:"weather"`
	Clouds  Clouds      `json:"clouds"`
	Wind    Wind        `json:"wind"`
	Pop     *float64    `json:"pop"`
}

type Forecast struct {
	List []ForecastEntry `json:"list"`
}
