package curated

import "github.com/i474232898/weather-dashboard/internal/weather"

func city(id, name, country string, lat, lon float64) weather.City {
	return weather.City{ID: id, Name: name, Country: country, Lat: lat, Lon: lon}
}

// Builtin returns the shipped table. Each call returns a fresh value.
func Builtin() Table {
	return Table{
		Countries: map[string]Country{
			"PK": {Name: "Pakistan", Cities: []weather.City{
				city("1172451", "Lahore", "PK", 31.5497, 74.3436),
				city("1174872", "Karachi", "PK", 24.8608, 67.0104),
				city("1166993", "Islamabad", "PK", 33.7215, 73.0433),
				city("1169825", "Multan", "PK", 30.1968, 71.4782),
				city("1168197", "Faisalabad", "PK", 31.4167, 73.0833),
			}},
			"US": {Name: "United States", Cities: []weather.City{
				city("5128581", "New York", "US", 40.7143, -74.006),
				city("5368361", "Los Angeles", "US", 34.0522, -118.2437),
				city("4887398", "Chicago", "US", 41.85, -87.65),
				city("4190598", "Miami", "US", 25.7743, -80.1937),
				city("5391811", "San Diego", "US", 32.7157, -117.1647),
			}},
			"GB": {Name: "United Kingdom", Cities: []weather.City{
				city("2643743", "London", "GB", 51.5085, -0.1257),
				city("2641673", "Manchester", "GB", 53.4809, -2.2374),
				city("2644668", "Birmingham", "GB", 52.4814, -1.8998),
				city("2640729", "Edinburgh", "GB", 55.9521, -3.1965),
				city("2638077", "Liverpool", "GB", 53.4106, -2.9779),
			}},
			"IN": {Name: "India", Cities: []weather.City{
				city("1273294", "Delhi", "IN", 28.6519, 77.2315),
				city("1275339", "Mumbai", "IN", 19.0728, 72.8826),
				city("1277333", "Bangalore", "IN", 12.9719, 77.5937),
				city("1264527", "Chennai", "IN", 13.0878, 80.2785),
				city("1275004", "Kolkata", "IN", 22.5626, 88.363),
			}},
			"CA": {Name: "Canada", Cities: []weather.City{
				city("6167865", "Toronto", "CA", 43.7001, -79.4163),
				city("6077243", "Montreal", "CA", 45.5088, -73.5878),
				city("6173331", "Vancouver", "CA", 49.2497, -123.1193),
				city("5946768", "Edmonton", "CA", 53.5501, -113.4687),
				city("6094817", "Ottawa", "CA", 45.4112, -75.6981),
			}},
			"AU": {Name: "Australia", Cities: []weather.City{
				city("2158177", "Sydney", "AU", -33.8679, 151.2073),
				city("2153391", "Melbourne", "AU", -37.814, 144.9633),
				city("2174003", "Brisbane", "AU", -27.4679, 153.0281),
				city("2078025", "Perth", "AU", -31.9522, 115.8614),
				city("2073124", "Adelaide", "AU", -34.9287, 138.5986),
			}},
		},
		Default: []weather.City{
			city("5128581", "New York", "US", 40.7143, -74.006),
			city("2643743", "London", "GB", 51.5085, -0.1257),
			city("1850147", "Tokyo", "JP", 35.6895, 139.6917),
			city("1796236", "Shanghai", "CN", 31.2222, 121.4581),
			city("3435910", "Buenos Aires", "AR", -34.6132, -58.3772),
		},
	}
}
