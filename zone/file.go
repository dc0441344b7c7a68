package zone

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/swdee/go-trafficcount/geometry"
)

// siteFile is the layout of a site in a configuration file
type siteFile struct {
	Name     string     `mapstructure:"name"`
	Crop     []int      `mapstructure:"crop"`
	Boundary [][]int    `mapstructure:"boundary"`
	Presence []specFile `mapstructure:"presence"`
	Unique   []specFile `mapstructure:"unique"`
}

type specFile struct {
	Name    string  `mapstructure:"name"`
	Polygon [][]int `mapstructure:"polygon"`
	Ratio   float64 `mapstructure:"ratio"`
}

// LoadFile reads the sites from a configuration file.  The format is
// detected from the file extension, eg:
//
//	sites:
//	  - name: MAIN_STREET
//	    crop: [0, 100, 650, 800]
//	    boundary: [[0, 100], [0, 290], [100, 520], [580, 415]]
//	    presence:
//	      - name: queue_length_strait
//	        polygon: [[0, 290], [90, 470], [290, 420], [60, 230]]
//	        ratio: 0.7
//	    unique:
//	      - name: crossing_strait
//	        polygon: [[115, 505], [110, 490], [315, 445], [345, 460]]
//	        ratio: 0.1
func LoadFile(path string) (Registry, error) {

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading site config %s: %w", path, err)
	}

	var files []siteFile

	if err := v.UnmarshalKey("sites", &files); err != nil {
		return nil, fmt.Errorf("error decoding site config %s: %w", path, err)
	}

	reg := make(Registry, len(files))

	for _, f := range files {

		site, err := f.site()

		if err != nil {
			return nil, fmt.Errorf("error in site config %s: %w", path, err)
		}

		if _, dup := reg[site.Name]; dup {
			return nil, fmt.Errorf("error in site config %s: duplicate site %q",
				path, site.Name)
		}

		reg[site.Name] = site
	}

	return reg, nil
}

func (f siteFile) site() (Site, error) {

	if f.Name == "" {
		return Site{}, fmt.Errorf("site without name")
	}

	if len(f.Crop) != 4 {
		return Site{}, fmt.Errorf("site %s: crop needs 4 values, got %d",
			f.Name, len(f.Crop))
	}

	boundary, err := polygon(f.Boundary)

	if err != nil {
		return Site{}, fmt.Errorf("site %s boundary: %w", f.Name, err)
	}

	site := Site{
		Name:     f.Name,
		Crop:     geometry.NewRect(f.Crop[0], f.Crop[1], f.Crop[2], f.Crop[3]),
		Boundary: boundary,
	}

	if site.Presence, err = specs(f.Presence); err != nil {
		return Site{}, fmt.Errorf("site %s presence zone %w", f.Name, err)
	}

	if site.Unique, err = specs(f.Unique); err != nil {
		return Site{}, fmt.Errorf("site %s unique zone %w", f.Name, err)
	}

	return site, nil
}

func specs(files []specFile) ([]Spec, error) {

	res := make([]Spec, 0, len(files))

	for _, sf := range files {

		poly, err := polygon(sf.Polygon)

		if err != nil {
			return nil, fmt.Errorf("%s: %w", sf.Name, err)
		}

		if sf.Ratio < 0 || sf.Ratio > 1 {
			return nil, fmt.Errorf("%s: ratio %v out of range [0,1]", sf.Name, sf.Ratio)
		}

		res = append(res, Spec{Name: sf.Name, Polygon: poly, Ratio: sf.Ratio})
	}

	return res, nil
}

func polygon(pts [][]int) (geometry.Polygon, error) {

	if len(pts) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(pts))
	}

	xy := make([][2]int, len(pts))

	for i, p := range pts {
		if len(p) != 2 {
			return nil, fmt.Errorf("point %d needs 2 coordinates, got %d", i, len(p))
		}
		xy[i] = [2]int{p[0], p[1]}
	}

	return geometry.NewPolygon(xy), nil
}
