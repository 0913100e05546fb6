// Stress test comparing BVH dual traversal against brute-force triangle
// pairs: timing, and how many pairs the traversal misses.
package main

import (
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"collide3d/internal/bvh"
	"collide3d/internal/engine"
	"collide3d/internal/geometry"
	"collide3d/internal/logging"
)

func main() {
	app := &cli.App{
		Name:  "bvh_stress",
		Usage: "time BVH collision queries against brute force",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:  "subdivisions",
				Value: cli.NewIntSlice(1, 2, 3, 4),
				Usage: "icosphere subdivision levels to test",
			},
			&cli.IntFlag{
				Name:  "iterations",
				Value: 10,
				Usage: "timed repetitions per case",
			},
			&cli.StringFlag{
				Name:  "volume",
				Value: "sphere",
				Usage: "bounding volume: sphere, obb, aabb or cube",
			},
			&cli.IntFlag{
				Name:  "leaf-threshold",
				Value: bvh.DefaultLeafThreshold,
				Usage: "triangles a node may hold before splitting",
			},
		},
		Action: func(c *cli.Context) error {
			logger, err := logging.New("bvh_stress", "info")
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			build, ok := volumes[c.String("volume")]
			if !ok {
				return errors.Errorf("unknown volume %q", c.String("volume"))
			}
			iterations := max(c.Int("iterations"), 1)
			opts := []bvh.Option{bvh.WithLeafThreshold(c.Int("leaf-threshold"))}

			t := table.NewWriter()
			t.AppendHeader(table.Row{"Triangles", "Gap", "BVH", "Brute force", "Speedup", "Pairs", "Missed"})
			for _, subdivisions := range c.IntSlice("subdivisions") {
				for _, gap := range []float32{-0.5, -0.05, 0.5} {
					t.AppendRow(runCase(logger, build, subdivisions, gap, iterations, opts))
				}
			}
			fmt.Fprintln(c.App.Writer, t.Render())
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// intersector runs the dual traversal of one mesh's tree against itself
// under two placements.
type intersector func(xfA, xfB engine.Transform) (bvh.IDSet, bvh.IDSet)

func selfIntersector[V bvh.Volume[V]](tree *bvh.Tree[V]) intersector {
	return func(xfA, xfB engine.Transform) (bvh.IDSet, bvh.IDSet) {
		return bvh.Intersect(tree, xfA, tree, xfB)
	}
}

// volumes builds a tree of each bounding volume kind.
var volumes = map[string]func(*geometry.Mesh, []bvh.Option) intersector{
	"sphere": func(m *geometry.Mesh, opts []bvh.Option) intersector {
		return selfIntersector(bvh.BuildFromMesh[bvh.Sphere](m, opts...))
	},
	"obb": func(m *geometry.Mesh, opts []bvh.Option) intersector {
		return selfIntersector(bvh.BuildFromMesh[bvh.OBB](m, opts...))
	},
	"aabb": func(m *geometry.Mesh, opts []bvh.Option) intersector {
		return selfIntersector(bvh.BuildFromMesh[bvh.AABB](m, opts...))
	},
	"cube": func(m *geometry.Mesh, opts []bvh.Option) intersector {
		opts = append(slices.Clip(opts), bvh.WithFitter(bvh.CubeAABB))
		return selfIntersector(bvh.BuildFromMesh[bvh.AABB](m, opts...))
	},
}

// runCase places two unit icospheres so their surfaces are gap apart
// (negative overlaps) and times both ways of finding intersecting pairs.
func runCase(logger *zap.SugaredLogger, build func(*geometry.Mesh, []bvh.Option) intersector,
	subdivisions int, gap float32, iterations int, opts []bvh.Option) table.Row {
	mesh := geometry.NewIcosphere(1, subdivisions)
	intersect := build(mesh, opts)

	xfA := engine.NewTransform(rl.Vector3{X: -1 - gap/2}, rl.QuaternionIdentity(), 1)
	xfB := engine.NewTransform(rl.Vector3{X: 1 + gap/2}, rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 0.3), 1)
	trisA := worldTriangles(mesh, xfA)
	trisB := worldTriangles(mesh, xfB)

	// Warm up
	bvhPairs := bvhIntersections(intersect, xfA, xfB, trisA, trisB)

	bvhStart := time.Now()
	for i := 0; i < iterations; i++ {
		bvhPairs = bvhIntersections(intersect, xfA, xfB, trisA, trisB)
	}
	bvhTime := time.Since(bvhStart) / time.Duration(iterations)

	bruteStart := time.Now()
	var brutePairs int
	for i := 0; i < iterations; i++ {
		brutePairs = bruteIntersections(trisA, trisB)
	}
	bruteTime := time.Since(bruteStart) / time.Duration(iterations)

	// Flushed leaves are not compared again, so the traversal can drop a
	// few pairs that brute force finds.
	missed := brutePairs - bvhPairs
	if missed > 0 {
		logger.Debugw("traversal looseness", "subdivisions", subdivisions, "gap", gap,
			"bvh", bvhPairs, "bruteForce", brutePairs)
	}

	speedup := float64(bruteTime) / float64(max(bvhTime, time.Nanosecond))
	return table.Row{
		mesh.TriangleCount(),
		fmt.Sprintf("%.2f", gap),
		bvhTime.Round(time.Microsecond),
		bruteTime.Round(time.Microsecond),
		fmt.Sprintf("%.1fx", speedup),
		bvhPairs,
		missed,
	}
}

func worldTriangles(mesh *geometry.Mesh, xf engine.Transform) []geometry.Triangle {
	m := xf.Matrix()
	tris := make([]geometry.Triangle, mesh.TriangleCount())
	for i := range tris {
		tris[i] = mesh.Triangle(i).Transform(m)
	}
	return tris
}

// bvhIntersections counts intersecting pairs among the traversal's candidates.
func bvhIntersections(intersect intersector, xfA, xfB engine.Transform, trisA, trisB []geometry.Triangle) int {
	idsA, idsB := intersect(xfA, xfB)
	candidatesB := idsB.Sorted()
	pairs := 0
	for _, a := range idsA.Sorted() {
		for _, b := range candidatesB {
			if trisA[a].Intersects(trisB[b]) {
				pairs++
			}
		}
	}
	return pairs
}

func bruteIntersections(trisA, trisB []geometry.Triangle) int {
	pairs := 0
	for i := range trisA {
		for j := range trisB {
			if trisA[i].Intersects(trisB[j]) {
				pairs++
			}
		}
	}
	return pairs
}
