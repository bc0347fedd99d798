package timezone

import (
	"os"
	"time"
)

var Location *time.Location

func init() {
	name := os.Getenv("DUEBOARD_TZ")
	if name == "" {
		name = "America/Los_Angeles"
	}
	var err error
	Location, err = time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
}

// force a fixed timezone because the server may be deployed in a
// different region than the campus whose deadlines it tracks, which
// would skew date math based on <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}
