package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"collide3d/internal/components"
	"collide3d/internal/engine"
	"collide3d/internal/physics"
)

// tally counts resolved contacts per object.
type tally struct {
	total int
	byUID map[uint64]int
}

func newTally() *tally {
	return &tally{byUID: make(map[uint64]int)}
}

func (t *tally) record(c physics.Contact) {
	t.total++
	t.byUID[c.A.UID]++
	t.byUID[c.B.UID]++
}

// render prints one row per object with a rigidbody.
func (t *tally) render(scene *engine.Scene) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "Name", "Position", "Direction", "Speed", "Spin", "Collisions", "Last partner"})
	for i, g := range scene.GameObjects {
		rb := engine.GetComponent[*components.Rigidbody](g)
		if rb == nil {
			continue
		}
		partner := ""
		if p := rb.LastPartner.Get(scene); p != nil {
			partner = p.Name
		}
		pos, dir := g.Transform.Position, rb.Motion.Direction
		tw.AppendRow(table.Row{
			i + 1,
			g.Name,
			fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", pos.X, pos.Y, pos.Z),
			fmt.Sprintf("X:%.2f, Y:%.2f, Z:%.2f", dir.X, dir.Y, dir.Z),
			fmt.Sprintf("%.3f", rb.Motion.Speed),
			fmt.Sprintf("%.3f", rb.Motion.AngularSpeed),
			t.byUID[g.UID],
			partner,
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", "", t.total, ""})
	return tw.Render()
}
