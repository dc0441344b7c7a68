// Package zone holds the zone configuration of the camera sites.
package zone
