package metrics

// Config selects the metric sinks to enable.
type Config struct {
	PrometheusEnabled bool   `json:"prometheusEnabled"`
	PrometheusAddr    string `json:"prometheusAddr"`

	InfluxEnabled bool   `json:"influxEnabled"`
	InfluxURL     string `json:"influxUrl"`
	InfluxToken   string `json:"influxToken"`
	InfluxOrg     string `json:"influxOrg"`
	InfluxBucket  string `json:"influxBucket"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9464"
	}
}
