package element_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/joinery/pkg/docstore/memstore"
	"github.com/matzehuels/joinery/pkg/element"
	"github.com/matzehuels/joinery/pkg/geom"
)

func ExampleCreate() {
	ctx := context.Background()
	store := memstore.New()

	shape := geom.NewMesh([]geom.Point3{{}, {X: 0.2, Y: 0.2, Z: 3}}, nil)
	frame := geom.Resolve(geom.Polyline{{X: 6, Y: 1}, {X: 5, Y: 1}, {X: 5, Y: 2}})

	e, err := element.Create(ctx, store, element.Spec{Shape: shape, Frame: frame, Name: "post"})
	if err != nil {
		fmt.Println(err)
		return
	}

	name, _ := e.Name(ctx)
	axes, _ := e.Axes(ctx)
	radii, _ := e.Radii(ctx)
	fmt.Println(name)
	fmt.Println(axes[0])
	fmt.Println(radii)
	// Output:
	// post
	// [{5 1 0} {5 1 3}]
	// [[0.1]]
}
