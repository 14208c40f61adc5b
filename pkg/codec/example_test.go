package codec_test

import (
	"fmt"

	"github.com/matzehuels/joinery/pkg/codec"
	"github.com/matzehuels/joinery/pkg/geom"
)

func ExampleEncodePolyline() {
	frame := geom.Resolve(geom.Polyline{{X: 1}, {}, {Y: 1}})
	axis := geom.Polyline{{}, {Z: 5}}

	text, _ := codec.EncodePolyline(axis, frame)
	fmt.Println(text)

	back, _ := codec.DecodePolyline(text, frame)
	fmt.Println(back.Near(axis, geom.Tolerance))
	// Output:
	// [0.0, 0.0, 0.0, 0.0, 0.0, 5.0]
	// true
}

func ExampleMatchCyclic() {
	radii := codec.MatchCyclic([]float64{0.5, 0.25}, []int{2, 3})
	fmt.Println(codec.EncodeFloatLists(radii))
	// Output:
	// [[0.5, 0.25], [0.5, 0.25, 0.5]]
}
