package dbscan_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/dbscan"
	"github.com/katalvlaran/dbscan/points"
)

func ExampleRunPoints() {
	pts := []points.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 5, Y: 5}}

	out, err := dbscan.RunPoints(context.Background(), pts,
		dbscan.Params{Eps: 1.5, MinPts: 2, Count: dbscan.AnyCount},
		dbscan.WithSeed(42),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, c := range out.Result.Clusters() {
		fmt.Printf("cluster %d: %v\n", c.ID, c.IDs)
	}
	fmt.Println("noise:", out.Result.NoiseIDs())
	fmt.Println("labels:", out.Result.Labels())
	// Output:
	// cluster 1: [1 2 3]
	// noise: [4]
	// labels: [1 1 1 0]
}
