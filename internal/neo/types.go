// Package neo queries the NASA Near Earth Object Web Service (NeoWs) feed for close approaches.
package neo

import "time"

// CloseApproach is one predicted pass of an object near Earth.
type CloseApproach struct {
	Date time.Time
	// MissDistanceKilometers is the exact decimal text reported by the feed.
	MissDistanceKilometers string
}

// DiameterRange is the estimated diameter range in meters.
type DiameterRange struct {
	MinMeters float64
	MaxMeters float64
}

// AsteroidRecord is a near-earth object as reported by the feed.
type AsteroidRecord struct {
	ID                   string
	Name                 string
	PotentiallyHazardous bool
	CloseApproaches      []CloseApproach
	EstimatedDiameter    DiameterRange
}

// feedResponse mirrors the NeoWs /feed response body.
type feedResponse struct {
	ElementCount     int                     `json:"element_count"`
	NearEarthObjects map[string][]feedObject `json:"near_earth_objects"`
}

type feedObject struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Hazardous         *bool               `json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter feedDiameter        `json:"estimated_diameter"`
	CloseApproachData []feedCloseApproach `json:"close_approach_data"`
}

type feedDiameter struct {
	Meters *struct {
		Min *float64 `json:"estimated_diameter_min"`
		Max *float64 `json:"estimated_diameter_max"`
	} `json:"meters"`
}

type feedCloseApproach struct {
	CloseApproachDate string `json:"close_approach_date"`
	MissDistance      struct {
		Kilometers string `json:"kilometers"`
	} `json:"miss_distance"`
}
