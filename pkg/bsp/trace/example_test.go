package trace_test

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/saiko-tech/ef2bsp/pkg/bsp/trace"
)

func ExampleTracer_IsVisible() {
	tracer, err := trace.New(testMap(), trace.ContentsSolid)
	if err != nil {
		panic(err)
	}

	fmt.Println("through the wall:", tracer.IsVisible(mgl32.Vec3{-100, 0, 0}, mgl32.Vec3{100, 0, 0}))
	fmt.Println("over the wall:", tracer.IsVisible(mgl32.Vec3{-100, 0, 50}, mgl32.Vec3{100, 0, 50}))
	fmt.Println("through water:", tracer.IsVisible(mgl32.Vec3{-100, 0, 0}, mgl32.Vec3{-20, 0, 0}))

	// Output:
	// through the wall: false
	// over the wall: true
	// through water: true
}
