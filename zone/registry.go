package zone

import (
	"maps"
	"slices"

	"github.com/swdee/go-trafficcount/geometry"
)

// ExampleDataset is the name of the built in example site
const ExampleDataset = "EXAMPLE_DATASET_CONFIGURATION"

// Registry maps a dataset name to its site configuration
type Registry map[string]Site

// Builtin returns a registry with the sites compiled into the program
func Builtin() Registry {
	return Registry{
		ExampleDataset: {
			Name: ExampleDataset,
			Crop: geometry.NewRect(0, 100, 650, 800),
			Boundary: geometry.NewPolygon([][2]int{
				{0, 100}, {0, 290}, {100, 520}, {580, 415}, {15, 100},
			}),
			Presence: []Spec{
				{
					Name: "queue_length_strait",
					Polygon: geometry.NewPolygon([][2]int{
						{0, 290}, {90, 470}, {290, 420}, {60, 230},
					}),
					Ratio: 0.7,
				},
				{
					Name: "queue_length_left",
					Polygon: geometry.NewPolygon([][2]int{
						{60, 230}, {290, 420}, {510, 390}, {130, 210},
					}),
					Ratio: 0.5,
				},
			},
			Unique: []Spec{
				{
					Name: "crossing_strait",
					Polygon: geometry.NewPolygon([][2]int{
						{115, 505}, {110, 490}, {315, 445}, {345, 460},
					}),
					Ratio: 0.1,
				},
				{
					Name: "crossing_left",
					Polygon: geometry.NewPolygon([][2]int{
						{320, 430}, {350, 450}, {540, 420}, {520, 405},
					}),
					Ratio: 0.1,
				},
			},
		},
	}
}

// Lookup returns the site for the dataset name
func (r Registry) Lookup(name string) (Site, bool) {
	s, ok := r[name]
	return s, ok
}

// Merge adds the sites of other to the registry, replacing sites with the
// same name
func (r Registry) Merge(other Registry) {
	maps.Copy(r, other)
}

// Names returns the sorted dataset names
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}
