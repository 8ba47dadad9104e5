package catalog

// ShippingRoute is a recurring sailing pattern between two ports. The
// boat merger uses routes only to synthesize phantom boats for horizon
// gaps; real sailings always come from the boat schedule.
//
// DepartureDayOfWeek is 0-based with 0 = Monday, matching the stored
// column convention. The merger converts to time.Weekday in exactly
// one place.
type ShippingRoute struct {
	ID                 int
	Name               string
	OriginPort         string
	DestinationPort    string
	DepartureDayOfWeek int
	TransitDays        int
	FrequencyWeeks     int
	Carrier            string
	Active             bool
}
