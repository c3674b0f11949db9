package optics_test

import (
	"fmt"
	"log"
	"math"

	"github.com/bob-anderson-ok/FourierOptics/optics"
)

func ExampleNewGrid() {
	g, err := optics.NewGrid(-1, 1, 5)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("x:  %.2f\n", g.X())
	fmt.Printf("nu: %.2f\n", g.Nu())
	fmt.Printf("dx=%.2f dnu=%.2f\n", g.Dx(), g.Dnu())
	// Output:
	// x:  [-1.00 -0.50 0.00 0.50 1.00]
	// nu: [-0.80 -0.40 0.00 0.40 0.80]
	// dx=0.50 dnu=0.40
}

// ExampleNewSpaceLensSpaceSystem builds the classic a-f-b imaging system and
// shows that consecutive position-domain stages share one pair of transforms.
func ExampleNewSpaceLensSpaceSystem() {
	g, err := optics.NewGrid(-1e-3, 1e-3, 64)
	if err != nil {
		log.Fatal(err)
	}
	k := 2 * math.Pi / 633e-9

	sys, err := optics.NewSpaceLensSpaceSystem(g, 0.2, 0.2, 0.1, optics.Diameter(1.5e-3), k)
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range sys.Stages() {
		fmt.Println(s.Kind, s.Domain)
	}
	fmt.Println("transforms:", sys.Transforms())
	// Output:
	// FreeSpace frequency
	// Lens position
	// CircularAperture position
	// FreeSpace frequency
	// transforms: 4
}
